package products

import (
	"context"

	"github.com/dmitrijs2005/shopfront/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, p *models.Product) (int64, error)
	List(ctx context.Context) ([]*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	SetImageKey(ctx context.Context, id, key string) error
	DecrementStock(ctx context.Context, id string) (bool, error)
}
