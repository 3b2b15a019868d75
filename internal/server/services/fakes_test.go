package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/shopfront/internal/common"
	"github.com/dmitrijs2005/shopfront/internal/dbx"
	"github.com/dmitrijs2005/shopfront/internal/server/models"
	"github.com/dmitrijs2005/shopfront/internal/server/repositories/orders"
	"github.com/dmitrijs2005/shopfront/internal/server/repositories/products"
	"github.com/dmitrijs2005/shopfront/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	mu      sync.Mutex
	byEmail map[string]*models.User

	existsErr error
	findErr   error
	insertErr error
	insertOK  *bool
	inserted  []*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Insert(_ context.Context, u *models.User) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return false, f.insertErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return false, common.ErrorAlreadyExists
	}
	cp := *u
	f.byEmail[u.Email] = &cp
	f.inserted = append(f.inserted, &cp)
	if f.insertOK != nil {
		return *f.insertOK, nil
	}
	return true, nil
}

func (f *fakeUsersRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byEmail[email]
	return ok, nil
}

// --- products ---

type fakeProductsRepo struct {
	items map[string]*models.Product
	order []string

	insertErr error
	listErr   error
	getErr    error
	setKeyErr error
	decErr    error
}

func newFakeProductsRepo(items ...*models.Product) *fakeProductsRepo {
	f := &fakeProductsRepo{items: map[string]*models.Product{}}
	for _, p := range items {
		f.items[p.ID] = p
		f.order = append(f.order, p.ID)
	}
	return f
}

func (f *fakeProductsRepo) Insert(_ context.Context, p *models.Product) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	if _, ok := f.items[p.ID]; ok {
		return 0, common.ErrorAlreadyExists
	}
	cp := *p
	f.items[p.ID] = &cp
	f.order = append(f.order, p.ID)
	return 1, nil
}

func (f *fakeProductsRepo) List(context.Context) ([]*models.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Product
	for _, id := range f.order {
		cp := *f.items[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeProductsRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductsRepo) SetImageKey(_ context.Context, id, key string) error {
	if f.setKeyErr != nil {
		return f.setKeyErr
	}
	p, ok := f.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.ImageKey = key
	return nil
}

func (f *fakeProductsRepo) DecrementStock(_ context.Context, id string) (bool, error) {
	if f.decErr != nil {
		return false, f.decErr
	}
	p, ok := f.items[id]
	if !ok || p.Stock <= 0 {
		return false, nil
	}
	p.Stock--
	return true, nil
}

// --- orders ---

type fakeOrdersRepo struct {
	insertErr error
	inserted  []*models.Order
}

func (f *fakeOrdersRepo) Insert(_ context.Context, o *models.Order) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	cp := *o
	f.inserted = append(f.inserted, &cp)
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakeProductsRepo
	o *fakeOrdersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Products(dbx.DBTX) products.Repository       { return m.p }
func (m *fakeRepoManager) Orders(dbx.DBTX) orders.Repository           { return m.o }
