package models

import "time"

// Session is a login kept between CLI runs.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Email     string
	Subject   string
}

// Expired reports whether the token is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
