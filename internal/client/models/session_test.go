package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_Expired(t *testing.T) {
	exp := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: exp}

	assert.False(t, s.Expired(exp.Add(-time.Second)))
	assert.True(t, s.Expired(exp))
	assert.True(t, s.Expired(exp.Add(time.Hour)))
}
