package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/shopfront/internal/common"
	"github.com/dmitrijs2005/shopfront/internal/logging"
	"github.com/dmitrijs2005/shopfront/internal/server/models"
	"github.com/dmitrijs2005/shopfront/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ProductService manages the catalog and product images.
type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      ImageStore
	logger      logging.Logger
}

func NewProductService(db *sql.DB, m repomanager.RepositoryManager, images ImageStore, logger logging.Logger) *ProductService {
	return &ProductService{
		db:          db,
		repomanager: m,
		images:      images,
		logger:      logger.With("module", "products"),
	}
}

// AddProduct validates and stores p, generating a pid when none is given.
// It returns the number of rows written.
func (s *ProductService) AddProduct(ctx context.Context, p *models.Product) (int64, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.ID = strings.TrimSpace(p.ID)

	switch {
	case p.Name == "":
		return 0, common.NewValidationError("name is required")
	case p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0):
		return 0, common.NewValidationError("price must be a non-negative number")
	case p.Stock < 0:
		return 0, common.NewValidationError("stock must not be negative")
	}

	p.Price = math.Round(p.Price*100) / 100
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	n, err := s.repomanager.Products(s.db).Insert(ctx, p)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return 0, common.NewConflictError(fmt.Sprintf("product %s already exists", p.ID))
		}
		return 0, fmt.Errorf("error adding product: %w", err)
	}
	return n, nil
}

// ListProducts returns the catalog. Products with an uploaded image get a
// presigned ImageURL; presign failures are logged and leave it empty.
func (s *ProductService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	items, err := s.repomanager.Products(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}

	for _, p := range items {
		if p.ImageKey == "" || s.images == nil {
			continue
		}
		url, err := s.images.PresignGet(ctx, p.ImageKey)
		if err != nil {
			s.logger.Warn(ctx, "image presign failed", "pid", p.ID, "error", err)
			continue
		}
		p.ImageURL = url
	}

	if items == nil {
		items = []*models.Product{}
	}
	return items, nil
}

// AttachImage allocates an object key for the product image, records it and
// returns a presigned upload URL.
func (s *ProductService) AttachImage(ctx context.Context, pid string) (string, string, error) {
	if strings.TrimSpace(pid) == "" {
		return "", "", common.NewValidationError("productId is required")
	}
	if s.images == nil {
		return "", "", fmt.Errorf("%w: image storage is not configured", common.ErrorInternal)
	}

	repo := s.repomanager.Products(s.db)
	if _, err := repo.GetByID(ctx, pid); err != nil {
		return "", "", err
	}

	key := NewImageKey(pid)
	url, err := s.images.PresignPut(ctx, key)
	if err != nil {
		return "", "", fmt.Errorf("error presigning upload: %w", err)
	}

	if err := repo.SetImageKey(ctx, pid, key); err != nil {
		return "", "", err
	}

	return key, url, nil
}
