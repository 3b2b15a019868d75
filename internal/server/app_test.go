package server

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/shopfront/internal/logging"
	"github.com/dmitrijs2005/shopfront/internal/server/auth"
	"github.com/dmitrijs2005/shopfront/internal/server/config"
	"github.com/dmitrijs2005/shopfront/internal/server/httpapi"
	"github.com/dmitrijs2005/shopfront/internal/server/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	gs "github.com/dmitrijs2005/shopfront/internal/server/grpc"
)

func TestNewApp_RejectsMissingSecretBeforeOpeningDB(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })

	opened := false
	openDB = func(driver, dsn string) (*sql.DB, error) {
		opened = true
		return nil, errors.New("must not be called")
	}

	for _, secret := range []string{"", "too-short"} {
		cfg := &config.Config{}
		cfg.LoadDefaults()
		cfg.SecretKey = secret

		app, err := NewApp(context.Background(), cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrSecretTooShort)
		assert.Nil(t, app)
	}
	assert.False(t, opened)
}

func TestNewApp_OpenError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })

	openDB = func(driver, dsn string) (*sql.DB, error) {
		assert.Equal(t, "pgx", driver)
		return nil, errors.New("bad dsn")
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "superSecretKey@345superSecretKey@345"

	_, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error: bad dsn")
}

// listenRecorder replaces the listen seam with loopback listeners on free
// ports, keyed by the configured address.
type listenRecorder struct {
	mu   sync.Mutex
	got  map[string]net.Listener
	fail string
}

func (r *listenRecorder) listen(network, address string) (net.Listener, error) {
	if address == r.fail {
		return nil, errors.New("address already in use")
	}
	lis, err := net.Listen(network, "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.got[address] = lis
	r.mu.Unlock()
	return lis, nil
}

func newRunnableApp(t *testing.T, fail string) (*App, *listenRecorder, sqlmock.Sqlmock) {
	t.Helper()

	orig := listen
	t.Cleanup(func() { listen = orig })
	rec := &listenRecorder{got: map[string]net.Listener{}, fail: fail}
	listen = rec.listen

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	m := metrics.New()
	l := logging.Nop()
	return &App{
		config:     cfg,
		logger:     l,
		db:         db,
		metrics:    m,
		httpServer: httpapi.NewServer(cfg.EndpointAddrHTTP, l, httpapi.Deps{Metrics: m}),
		grpcServer: gs.NewGRPCServer(cfg.EndpointAddrGRPC, l, m),
	}, rec, mock
}

func TestRun_HealthServingAfterBothListenersBound(t *testing.T) {
	app, rec, mock := newRunnableApp(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	var grpcAddr string
	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		if len(rec.got) != 2 {
			return false
		}
		grpcAddr = rec.got[app.config.EndpointAddrGRPC].Addr().String()
		return true
	}, 5*time.Second, 10*time.Millisecond)

	conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	hc := healthpb.NewHealthClient(conn)

	require.Eventually(t, func() bool {
		resp, err := hc.Check(ctx, &healthpb.HealthCheckRequest{Service: gs.ServiceName})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.NoError(t, mock.ExpectationsWereMet(), "db must be closed on shutdown")
}

func TestRun_BindFailureStopsBeforeServing(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	app, rec, mock := newRunnableApp(t, cfg.EndpointAddrHTTP)

	done := make(chan struct{})
	go func() {
		app.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run must return when a listener cannot be bound")
	}

	grpcLis := rec.got[cfg.EndpointAddrGRPC]
	require.NotNil(t, grpcLis)
	_, err := grpcLis.Accept()
	assert.Error(t, err, "the bound gRPC listener must be released")
	require.NoError(t, mock.ExpectationsWereMet(), "db must be closed")
}
