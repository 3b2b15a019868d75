package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/shopfront/internal/client/client"
	"github.com/dmitrijs2005/shopfront/internal/client/config"
	"github.com/dmitrijs2005/shopfront/internal/client/models"
	"github.com/dmitrijs2005/shopfront/internal/client/services"
	"github.com/dmitrijs2005/shopfront/internal/filex"
)

// sessionDBName is the SQLite file inside the data directory.
const sessionDBName = "session.db"

type App struct {
	config   *config.Config
	sessions services.SessionService
	catalog  services.CatalogService
	session  *models.Session
	reader   *bufio.Reader
	out      io.Writer
	closeDB  func() error
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, sessionDBName))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ss := services.NewSessionService(apiClient, db)
	cs := services.NewCatalogService(apiClient, ss)

	return &App{
		config:   c,
		sessions: ss,
		catalog:  cs,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		closeDB:  db.Close,
	}, nil
}

// Run restores a saved session, if any, and blocks in the REPL until the
// user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.closeDB != nil {
			_ = a.closeDB()
		}
	}()

	fmt.Fprintln(a.out, "Welcome to shopfront CLI (type 'help' for commands)")

	if sess, err := a.sessions.Current(ctx); err == nil {
		a.session = sess
		fmt.Fprintf(a.out, "Restored session for %s\n", sess.Email)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil && !a.session.Expired(time.Now())
}

func (a *App) getStatus() string {
	if a.isLoggedIn() {
		return "(" + a.session.Email + ")"
	}
	return ""
}

func (a *App) printError(err error) {
	fmt.Fprintf(a.out, "Error: %v\n", err)
}
