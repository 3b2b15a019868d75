package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopfront/internal/client/client"
	"github.com/dmitrijs2005/shopfront/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freezeClock(t *testing.T, at time.Time) *time.Time {
	t.Helper()
	orig := now
	cur := at
	now = func() time.Time { return cur }
	t.Cleanup(func() { now = orig })
	return &cur
}

func TestRegister_PassesTrimmedEmail(t *testing.T) {
	fc := &fakeClient{registerOK: true}
	s := NewSessionService(fc, setupDB(t))

	ok, err := s.Register(context.Background(), "  a@b.com ", []byte("secret1"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a@b.com", fc.lastEmail)
	assert.Equal(t, "secret1", fc.lastPassword)
}

func TestLogin_PersistsSession(t *testing.T) {
	clock := freezeClock(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	exp := clock.Add(24 * time.Hour)

	db := setupDB(t)
	fc := &fakeClient{loginRes: &client.LoginResult{Token: makeToken(t, "a_1a2b3c4d"), ExpiresAt: exp}}
	s := NewSessionService(fc, db)
	ctx := context.Background()

	sess, err := s.Login(ctx, "a@b.com", []byte("secret1"))
	require.NoError(t, err)
	assert.Equal(t, "a_1a2b3c4d", sess.Subject)
	assert.Equal(t, "a@b.com", sess.Email)

	// a fresh service over the same DB sees the stored session
	again, err := NewSessionService(fc, db).Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, again.Token)
	assert.Equal(t, "a_1a2b3c4d", again.Subject)
	assert.True(t, exp.Equal(again.ExpiresAt))

	require.NoError(t, s.Logout(ctx))
	_, err = s.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCurrent_IgnoresExpiredSession(t *testing.T) {
	clock := freezeClock(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	fc := &fakeClient{loginRes: &client.LoginResult{Token: makeToken(t, "u1"), ExpiresAt: clock.Add(time.Hour)}}
	s := NewSessionService(fc, setupDB(t))
	ctx := context.Background()

	_, err := s.Login(ctx, "a@b.com", []byte("secret1"))
	require.NoError(t, err)

	*clock = clock.Add(time.Hour)
	_, err = s.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCurrent_Empty(t *testing.T) {
	_, err := NewSessionService(&fakeClient{}, setupDB(t)).Current(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected", func(t *testing.T) {
		db := setupDB(t)
		s := NewSessionService(&fakeClient{loginErr: client.ErrUnauthorized}, db)

		_, err := s.Login(ctx, "a@b.com", []byte("bad"))
		assert.ErrorIs(t, err, client.ErrUnauthorized)

		_, err = s.Current(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("malformed token", func(t *testing.T) {
		s := NewSessionService(&fakeClient{loginRes: &client.LoginResult{Token: "garbage", ExpiresAt: time.Now().Add(time.Hour)}}, setupDB(t))

		_, err := s.Login(ctx, "a@b.com", []byte("secret1"))
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("token without subject", func(t *testing.T) {
		s := NewSessionService(&fakeClient{loginRes: &client.LoginResult{Token: makeToken(t, ""), ExpiresAt: time.Now().Add(time.Hour)}}, setupDB(t))

		_, err := s.Login(ctx, "a@b.com", []byte("secret1"))
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})
}
