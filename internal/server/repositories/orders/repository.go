package orders

import (
	"context"

	"github.com/dmitrijs2005/shopfront/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, o *models.Order) error
}
