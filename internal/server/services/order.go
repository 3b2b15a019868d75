package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopfront/internal/common"
	"github.com/dmitrijs2005/shopfront/internal/dbx"
	"github.com/dmitrijs2005/shopfront/internal/server/models"
	"github.com/dmitrijs2005/shopfront/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	ErrProductNotFound = common.NewValidationError("product not found")
	ErrUserNotFound    = common.NewValidationError("user not found")
	ErrOutOfStock      = common.NewValidationError("product is out of stock")
)

// seams for tests
var (
	newOrderID = uuid.NewString
	orderClock = time.Now
)

// OrderService places "buy now" orders.
type OrderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewOrderService(db *sql.DB, m repomanager.RepositoryManager) *OrderService {
	return &OrderService{db: db, repomanager: m}
}

// BuyNow orders one unit of productID for userID at the current price.
// Stock is decremented in the same transaction that records the order.
func (s *OrderService) BuyNow(ctx context.Context, userID, productID string) (*models.Order, error) {
	userID = strings.TrimSpace(userID)
	productID = strings.TrimSpace(productID)
	if userID == "" || productID == "" {
		return nil, common.NewValidationError("userId and productId are required")
	}

	var order *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		products := s.repomanager.Products(tx)

		product, err := products.GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		ok, err := products.DecrementStock(ctx, productID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOutOfStock
		}

		o := &models.Order{
			ID:          newOrderID(),
			UserID:      userID,
			ProductID:   productID,
			Quantity:    1,
			OrderDate:   orderClock().UTC(),
			TotalAmount: product.Price,
		}
		if err := s.repomanager.Orders(tx).Insert(ctx, o); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("error placing order: %w", err)
	}

	return order, nil
}
