package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shopfront/internal/client/client"
	"github.com/dmitrijs2005/shopfront/internal/client/models"
	"github.com/dmitrijs2005/shopfront/internal/filex"
	"github.com/dmitrijs2005/shopfront/internal/netx"
)

// Test seams for file reading and the presigned upload.
var (
	readImage   = filex.ReadImage
	uploadToURL = netx.UploadToPresignedURL
)

// CatalogService covers browsing, buying and managing products.
type CatalogService interface {
	Products(ctx context.Context) ([]models.Product, error)
	Buy(ctx context.Context, productID string) (string, error)
	AddProduct(ctx context.Context, p models.Product) (int64, error)
	UploadImage(ctx context.Context, productID, path string) (string, error)
}

type catalogService struct {
	client   client.Client
	sessions SessionService
}

func NewCatalogService(c client.Client, sessions SessionService) CatalogService {
	return &catalogService{client: c, sessions: sessions}
}

// Products lists the catalog with the stored token. A token the server
// rejects ends the local session.
func (s *catalogService) Products(ctx context.Context) ([]models.Product, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.client.Products(ctx, sess.Token)
	if errors.Is(err, client.ErrUnauthorized) {
		_ = s.sessions.Logout(ctx)
		return nil, ErrNoSession
	}
	return items, err
}

// Buy places a one-unit order for the logged-in user and returns its id.
func (s *catalogService) Buy(ctx context.Context, productID string) (string, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return "", err
	}
	return s.client.BuyNow(ctx, sess.Subject, productID)
}

func (s *catalogService) AddProduct(ctx context.Context, p models.Product) (int64, error) {
	return s.client.AddProduct(ctx, p)
}

// UploadImage reads an image from disk, asks the server for an upload URL
// and PUTs the file there. It returns the object key.
func (s *catalogService) UploadImage(ctx context.Context, productID, path string) (string, error) {
	data, contentType, err := readImage(path)
	if err != nil {
		return "", err
	}

	key, url, err := s.client.RequestImageUpload(ctx, productID)
	if err != nil {
		return "", err
	}

	if err := uploadToURL(ctx, url, data, contentType); err != nil {
		return "", fmt.Errorf("image upload error: %w", err)
	}
	return key, nil
}
