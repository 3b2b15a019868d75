// Package server wires the shopfront backend together: database and
// migrations, repositories, services, the token service, the public HTTP
// API and the ops gRPC endpoint. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/shopfront/internal/logging"
	"github.com/dmitrijs2005/shopfront/internal/server/auth"
	"github.com/dmitrijs2005/shopfront/internal/server/config"
	"github.com/dmitrijs2005/shopfront/internal/server/httpapi"
	"github.com/dmitrijs2005/shopfront/internal/server/metrics"
	"github.com/dmitrijs2005/shopfront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/shopfront/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/shopfront/internal/server/grpc"
)

var (
	openDB = sql.Open
	listen = net.Listen
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	httpServer *httpapi.Server
	grpcServer *gs.GRPCServer
}

// NewApp validates the token settings, connects to the database, applies
// migrations and builds both servers. A missing or short secret fails here,
// before anything is opened.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	tokens, err := auth.NewTokenService([]byte(c.SecretKey), c.TokenIssuer, c.TokenAudience, c.TokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token service init error: %w", err)
	}

	db, err := openDB("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	m := metrics.New()

	us := services.NewUserService(db, rm, tokens)
	ps := services.NewProductService(db, rm, services.NewImageService(c), logger)
	osvc := services.NewOrderService(db, rm)

	httpServer := httpapi.NewServer(c.EndpointAddrHTTP, logger, httpapi.Deps{
		Users:     us,
		Products:  ps,
		Orders:    osvc,
		Tokens:    tokens,
		Metrics:   m,
		StaticDir: c.StaticDir,
	})

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		metrics:    m,
		httpServer: httpServer,
		grpcServer: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, m),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, lis net.Listener, cancelFunc context.CancelFunc) {
	if err := app.grpcServer.Serve(ctx, lis); err != nil {
		app.logger.Error(ctx, "grpc server error", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, lis net.Listener, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Serve(ctx, lis); err != nil {
		app.logger.Error(ctx, "http server error", "error", err)
		cancelFunc()
	}
}

// bindListeners binds the gRPC and HTTP addresses, in that order. Nothing is
// left open on failure.
func (app *App) bindListeners() (grpcLis, httpLis net.Listener, err error) {
	grpcLis, err = listen("tcp", app.config.EndpointAddrGRPC)
	if err != nil {
		return nil, nil, fmt.Errorf("grpc listen error: %w", err)
	}
	httpLis, err = listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		_ = grpcLis.Close()
		return nil, nil, fmt.Errorf("http listen error: %w", err)
	}
	return grpcLis, httpLis, nil
}

// Run serves until a termination signal arrives or one of the servers
// fails, then waits for both to stop and closes the database. Health turns
// SERVING only once both listeners are bound.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	grpcLis, httpLis, err := app.bindListeners()
	if err != nil {
		app.logger.Error(ctx, "startup error", "error", err)
		return
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, grpcLis, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, httpLis, cancelFunc)
	}()

	app.grpcServer.SetServing(true)

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
}
