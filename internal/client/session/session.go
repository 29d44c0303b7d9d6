// Package session holds the logged-in user's credential for the CLI.
//
// A Session is created once per invocation and passed to the API client
// and to every command. It is the only place the token is read or written.
package session

import (
	"errors"
	"sync"
)

// ErrNotAuthenticated is returned by Require when no token is stored.
var ErrNotAuthenticated = errors.New("não autenticado: execute 'fraudbase login' primeiro")

// Data is what a successful login stores.
type Data struct {
	Token    string
	UserID   int64
	Username string
	Nome     string
	IsAdmin  bool
}

// Store persists session data between invocations.
type Store interface {
	Load() (Data, error)
	Save(Data) error
	Clear() error
}

// Session is the in-memory view of the stored credential. It is safe for
// concurrent use.
type Session struct {
	store Store

	mu   sync.RWMutex
	data Data
}

// New loads the current session from store.
func New(store Store) (*Session, error) {
	data, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Session{store: store, data: data}, nil
}

// Token returns the bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

// IsAuthenticated reports whether a token is stored. The token is not
// validated; the server rejects expired ones.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Current returns a copy of the session data.
func (s *Session) Current() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Require returns ErrNotAuthenticated when no token is stored.
func (s *Session) Require() error {
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// Save replaces the session and persists it.
func (s *Session) Save(data Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(data); err != nil {
		return err
	}
	s.data = data
	return nil
}

// Clear removes every stored key (logout).
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.data = Data{}
	return nil
}

// =============================================================================
// Memory Store
// =============================================================================

// MemoryStore keeps the session in memory only. Used in tests and with
// --session "".
type MemoryStore struct {
	mu   sync.Mutex
	data Data
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored session data.
func (m *MemoryStore) Load() (Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, nil
}

// Save replaces the stored session data.
func (m *MemoryStore) Save(data Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

// Clear forgets the stored session.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = Data{}
	return nil
}
