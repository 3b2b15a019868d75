// Package services contains application services for the shopfront CLI.
// This file defines the session service: register, login, logout and the
// locally persisted session that survives restarts.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopfront/internal/client/client"
	"github.com/dmitrijs2005/shopfront/internal/client/models"
	"github.com/dmitrijs2005/shopfront/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/shopfront/internal/common"
	"github.com/dmitrijs2005/shopfront/internal/dbx"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession means nobody is logged in, or the stored token has expired.
var ErrNoSession = errors.New("not logged in")

const (
	keyToken     = "session.token"
	keyExpiresAt = "session.expires_at"
	keyEmail     = "session.email"
	keySubject   = "session.subject"
)

// now is a test seam for the session clock.
var now = time.Now

// SessionService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create an account on the server.
//   - Login: authenticate and persist the session locally.
//   - Current: the stored session, or ErrNoSession if absent or expired.
//   - Logout: forget the stored session.
type SessionService interface {
	Register(ctx context.Context, email string, password []byte) (bool, error)
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Current(ctx context.Context) (*models.Session, error)
	Logout(ctx context.Context) error
}

type sessionService struct {
	client client.Client
	db     *sql.DB
}

// NewSessionService constructs a SessionService bound to the API client and
// the local database.
func NewSessionService(c client.Client, db *sql.DB) SessionService {
	return &sessionService{client: c, db: db}
}

func (s *sessionService) Register(ctx context.Context, email string, password []byte) (bool, error) {
	return s.client.Register(ctx, strings.TrimSpace(email), string(password))
}

// Login authenticates against the server and stores token, expiry, email
// and the token subject in a single transaction.
func (s *sessionService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	email = strings.TrimSpace(email)

	res, err := s.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	sub, err := subjectFromToken(res.Token)
	if err != nil {
		return nil, err
	}

	sess := &models.Session{Token: res.Token, ExpiresAt: res.ExpiresAt.UTC(), Email: email, Subject: sub}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for k, v := range map[string]string{
			keyToken:     sess.Token,
			keyExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
			keyEmail:     sess.Email,
			keySubject:   sess.Subject,
		} {
			if err := repo.Set(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	return sess, nil
}

func (s *sessionService) Current(ctx context.Context) (*models.Session, error) {
	all, err := metadata.NewSQLiteRepository(s.db).List(ctx)
	if err != nil {
		return nil, err
	}

	token := all[keyToken]
	if token == "" {
		return nil, ErrNoSession
	}

	exp, err := time.Parse(time.RFC3339, all[keyExpiresAt])
	if err != nil {
		return nil, ErrNoSession
	}

	sess := &models.Session{Token: token, ExpiresAt: exp, Email: all[keyEmail], Subject: all[keySubject]}
	if sess.Expired(now()) {
		return nil, ErrNoSession
	}
	return sess, nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Clear(ctx)
}

// subjectFromToken reads the sub claim without checking the signature. The
// CLI cannot verify tokens; the server does that on every call.
func subjectFromToken(token string) (string, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", fmt.Errorf("%w: malformed token from server: %w", common.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", common.ErrInvalidToken)
	}
	return claims.Subject, nil
}
