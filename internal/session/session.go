// Package session tracks terminal sessions in memory. A session is
// identified by a random cookie token and owns everything scoped to one
// operator at one terminal: the order register, the checkout flow, the
// void/refund guard, and a backend client with its own cookie jar.
// Losing the process loses all sessions; durable state lives backend-side.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/checkout"
	"pos-terminal/internal/register"
)

// Session is the per-terminal state bundle.
type Session struct {
	Token    string
	Register *register.Register
	Flow     *checkout.Flow
	Actions  *checkout.Actions
	Client   *backend.Client

	mu   sync.Mutex
	user *backend.User
}

// SetUser caches the backend-confirmed operator.
func (s *Session) SetUser(u *backend.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

// User returns the cached operator, or nil when not logged in.
func (s *Session) User() *backend.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

type entry struct {
	session   *Session
	expiresAt time.Time
}

// Store holds live sessions with TTL expiry. Expired entries are swept
// lazily on lookup.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*entry
	ttl       time.Duration
	newClient func() (*backend.Client, error)
}

// NewStore builds a Store. newClient constructs a fresh backend client
// per session so auth cookies never leak across sessions.
func NewStore(ttl time.Duration, newClient func() (*backend.Client, error)) *Store {
	return &Store{
		sessions:  make(map[string]*entry),
		ttl:       ttl,
		newClient: newClient,
	}
}

// Create starts a new session with a fresh register, flow, and backend
// client.
func (s *Store) Create() (*Session, error) {
	token, err := randomToken()
	if err != nil {
		return nil, err
	}
	client, err := s.newClient()
	if err != nil {
		return nil, err
	}

	reg := register.New()
	sess := &Session{
		Token:    token,
		Register: reg,
		Flow:     checkout.NewFlow(reg),
		Actions:  checkout.NewActions(),
		Client:   client,
	}

	s.mu.Lock()
	s.sessions[token] = &entry{session: sess, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return sess, nil
}

// Lookup resolves a session token. A hit slides the expiry forward;
// an expired token is deleted and reported as a miss.
func (s *Store) Lookup(token string) (*Session, bool) {
	s.mu.RLock()
	e, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, false
	}
	s.mu.Lock()
	e.expiresAt = time.Now().Add(s.ttl)
	s.mu.Unlock()
	return e.session, true
}

// Destroy removes the session and resets its register so no order state
// survives logout.
func (s *Store) Destroy(token string) {
	s.mu.Lock()
	e, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()
	if ok {
		e.session.Register.Reset()
		e.session.SetUser(nil)
	}
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
