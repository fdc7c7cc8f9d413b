// Package client is a Go client for the Adora API. It carries the state the
// search pages keep in the browser: an explicitly injected Session, a
// debounced LiveSearch and an in-memory favorites set.
package client

import (
	"sync"
	"time"

	"github.com/adora-ads/adora-api/internal/model"
)

// Account identifies the signed-in user.
type Account struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// Token is a bearer or refresh token with its expiry.
type Token struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Session holds the authentication state shared by a Client, Favorites and
// ContactOwner. The zero value is a signed-out session. It is safe for
// concurrent use.
type Session struct {
	mu      sync.RWMutex
	account *Account
	access  Token
	refresh Token
}

// NewSession returns a signed-out session.
func NewSession() *Session { return &Session{} }

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account != nil && s.access.Token != ""
}

// Account returns a copy of the signed-in account, or nil.
func (s *Session) Account() *Account {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return nil
	}
	a := *s.account
	return &a
}

// Set stores the tokens returned by sign-in or sign-up.
func (s *Session) Set(a Account, access, refresh Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = &a
	s.access = access
	s.refresh = refresh
}

// Clear signs the session out locally.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = nil
	s.access = Token{}
	s.refresh = Token{}
}

func (s *Session) accessToken() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access.Token
}

func (s *Session) refreshToken() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh.Token
}
