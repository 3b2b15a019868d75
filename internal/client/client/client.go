package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/shopfront/internal/client/models"
)

// LoginResult is what the server hands out on a successful login.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAtUtc"`
}

// Client is the shop API as the CLI sees it.
type Client interface {
	Register(ctx context.Context, email, password string) (bool, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Products(ctx context.Context, token string) ([]models.Product, error)
	AddProduct(ctx context.Context, p models.Product) (int64, error)
	RequestImageUpload(ctx context.Context, productID string) (string, string, error)
	BuyNow(ctx context.Context, userID, productID string) (string, error)
	LookupUser(ctx context.Context, id string) (*models.User, error)
}
