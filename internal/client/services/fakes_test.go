package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/shopfront/internal/client/client"
	"github.com/dmitrijs2005/shopfront/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func makeToken(t *testing.T, sub string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: sub}).
		SignedString([]byte("any-key-the-client-never-checks"))
	require.NoError(t, err)
	return tok
}

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	registerOK  bool
	registerErr error

	loginRes *client.LoginResult
	loginErr error

	products    []models.Product
	productsErr error

	addN   int64
	addErr error

	imageKey, imageURL string
	imageErr           error

	orderID string
	buyErr  error

	// captured arguments
	lastEmail, lastPassword string
	lastToken               string
	lastUserID, lastPID     string
	lastProduct             models.Product
}

func (f *fakeClient) Register(_ context.Context, email, password string) (bool, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.registerOK, f.registerErr
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*client.LoginResult, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.loginRes, f.loginErr
}

func (f *fakeClient) Products(_ context.Context, token string) ([]models.Product, error) {
	f.lastToken = token
	return f.products, f.productsErr
}

func (f *fakeClient) AddProduct(_ context.Context, p models.Product) (int64, error) {
	f.lastProduct = p
	return f.addN, f.addErr
}

func (f *fakeClient) RequestImageUpload(_ context.Context, pid string) (string, string, error) {
	f.lastPID = pid
	return f.imageKey, f.imageURL, f.imageErr
}

func (f *fakeClient) BuyNow(_ context.Context, userID, productID string) (string, error) {
	f.lastUserID, f.lastPID = userID, productID
	return f.orderID, f.buyErr
}

func (f *fakeClient) LookupUser(context.Context, string) (*models.User, error) {
	return nil, client.ErrNotFound
}
