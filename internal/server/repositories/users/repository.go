package users

import (
	"context"

	"github.com/dmitrijs2005/shopfront/internal/server/models"
)

// Repository is the identity store. Lookups return common.ErrorNotFound when
// no row matches; Insert returns common.ErrorAlreadyExists when the email is
// already taken.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
