// Package httpapi is the public REST boundary of the shop: JSON handlers,
// bearer authentication, CORS, access logging and metrics.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/shopfront/internal/logging"
	"github.com/dmitrijs2005/shopfront/internal/server/auth"
	"github.com/dmitrijs2005/shopfront/internal/server/metrics"
	"github.com/dmitrijs2005/shopfront/internal/server/models"
	"github.com/dmitrijs2005/shopfront/internal/server/services"
)

// maxRequestBodySize limits request bodies.
const maxRequestBodySize = 1 << 20 // 1 MB

const shutdownTimeout = 10 * time.Second

type UserService interface {
	Register(ctx context.Context, email, password string) (bool, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type ProductService interface {
	AddProduct(ctx context.Context, p *models.Product) (int64, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	AttachImage(ctx context.Context, pid string) (string, string, error)
}

type OrderService interface {
	BuyNow(ctx context.Context, userID, productID string) (*models.Order, error)
}

type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Deps are the collaborators the handlers need.
type Deps struct {
	Users     UserService
	Products  ProductService
	Orders    OrderService
	Tokens    TokenValidator
	Metrics   *metrics.Metrics
	StaticDir string
}

type Server struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

// NewServer builds the HTTP server and its routing table.
func NewServer(address string, l logging.Logger, d Deps) *Server {
	logger := l.With("module", "http_server")
	h := &handlers{deps: d, logger: logger}
	return &Server{
		address: address,
		handler: h.routes(),
		logger:  logger,
	}
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
