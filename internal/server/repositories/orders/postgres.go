// Package orders persists purchases in PostgreSQL.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shopfront/internal/common"
	"github.com/dmitrijs2005/shopfront/internal/dbx"
	"github.com/dmitrijs2005/shopfront/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolation = "23503"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert writes the order. A reference to an unknown user or product
// yields common.ErrorNotFound.
func (r *PostgresRepository) Insert(ctx context.Context, o *models.Order) error {
	query := `
		INSERT INTO user_orders (oid, uid, pid, quantity, order_date, total_amount, shipping_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.UserID, o.ProductID, o.Quantity, o.OrderDate, o.TotalAmount, o.ShippingAddress)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
