package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/melodia-app/backend/internal/auth"
)

// MemoryStore is an in-memory auth.UserStore for tests and local development.
// It mirrors the MongoStore semantics: unique email and username on insert,
// digest lookups that treat past-expiry tokens as absent, and copy-on-write
// records so callers never alias stored state.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*auth.User
	byEmail    map[string]uuid.UUID
	byUsername map[string]uuid.UUID
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[uuid.UUID]*auth.User),
		byEmail:    make(map[string]uuid.UUID),
		byUsername: make(map[string]uuid.UUID),
	}
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(id)
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return s.get(id)
}

func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return s.get(id)
}

func (s *MemoryStore) FindByResetDigest(_ context.Context, digest string, now time.Time) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.byID {
		if u.ResetPasswordDigest == digest && u.ResetPasswordExpire.After(now) {
			return s.get(u.ID)
		}
	}
	return nil, auth.ErrUserNotFound
}

func (s *MemoryStore) FindByVerificationDigest(_ context.Context, digest string, now time.Time) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.byID {
		if u.EmailVerificationDigest == digest && u.EmailVerificationExpire.After(now) {
			return s.get(u.ID)
		}
	}
	return nil, auth.ErrUserNotFound
}

func (s *MemoryStore) Create(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return auth.ErrEmailTaken
	}
	if _, ok := s.byUsername[user.Username]; ok {
		return auth.ErrUsernameTaken
	}

	clone := copyUser(user)
	s.byID[clone.ID] = clone
	s.byEmail[clone.Email] = clone.ID
	s.byUsername[clone.Username] = clone.ID
	return nil
}

func (s *MemoryStore) Update(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.byID[user.ID]
	if !ok {
		return auth.ErrUserNotFound
	}
	if id, taken := s.byEmail[user.Email]; taken && id != user.ID {
		return auth.ErrEmailTaken
	}
	if id, taken := s.byUsername[user.Username]; taken && id != user.ID {
		return auth.ErrUsernameTaken
	}

	delete(s.byEmail, prev.Email)
	delete(s.byUsername, prev.Username)

	clone := copyUser(user)
	s.byID[clone.ID] = clone
	s.byEmail[clone.Email] = clone.ID
	s.byUsername[clone.Username] = clone.ID
	return nil
}

// get copies the stored record. Callers hold at least a read lock.
func (s *MemoryStore) get(id uuid.UUID) (*auth.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return copyUser(u), nil
}

// copyUser deep-copies a record so the hash bytes are never shared between
// callers and the store.
func copyUser(u *auth.User) *auth.User {
	clone := *u
	clone.PasswordHash = slices.Clone(u.PasswordHash)
	return &clone
}
