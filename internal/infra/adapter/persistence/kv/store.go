// Package kv provides the key-value fallback store. It mirrors users and
// reviews as serialized records keyed by a fixed prefix plus the user's
// email, for environments where the relational store is unavailable, and it
// holds the persisted session marker read at startup.
package kv

import (
	"errors"
	"fmt"
	"os"

	"github.com/timshannon/bolthold"

	"anishelf/internal/domain/entity"
)

// Key prefixes mirror the upstream localStorage layout.
const (
	userKeyPrefix   = "anishelf:users:"
	reviewKeyPrefix = "anishelf:reviews:"
	sessionKey      = "anishelf:session"
)

// userRecord is the stored mirror of a user account.
type userRecord struct {
	User entity.User
}

// reviewRecord is the stored mirror of one user's review list.
type reviewRecord struct {
	Email   string
	Reviews []entity.Review
}

// sessionRecord holds the current user's email between process restarts.
type sessionRecord struct {
	Email string
}

// Store is a bolthold-backed key-value store.
type Store struct {
	db *bolthold.Store
}

// Open opens (or creates) the key-value store file at path.
func Open(path string) (*Store, error) {
	db, err := bolthold.Open(path, os.FileMode(0o600), nil)
	if err != nil {
		return nil, fmt.Errorf("open kv store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutUser mirrors a user record under the fixed prefix plus email.
func (s *Store) PutUser(user *entity.User) error {
	if err := s.db.Upsert(userKeyPrefix+user.Email, &userRecord{User: *user}); err != nil {
		return fmt.Errorf("kv put user: %w", err)
	}
	return nil
}

// GetUser returns the mirrored user with the given email, or (nil, nil) when
// there is none.
func (s *Store) GetUser(email string) (*entity.User, error) {
	var rec userRecord
	err := s.db.Get(userKeyPrefix+email, &rec)
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv get user: %w", err)
	}
	user := rec.User
	return &user, nil
}

// PutReviews replaces the mirrored review list for the given user email.
func (s *Store) PutReviews(email string, reviews []*entity.Review) error {
	rec := reviewRecord{Email: email, Reviews: make([]entity.Review, 0, len(reviews))}
	for _, r := range reviews {
		rec.Reviews = append(rec.Reviews, *r)
	}
	if err := s.db.Upsert(reviewKeyPrefix+email, &rec); err != nil {
		return fmt.Errorf("kv put reviews: %w", err)
	}
	return nil
}

// GetReviews returns the mirrored review list for the given user email.
// A missing key yields an empty slice, not an error.
func (s *Store) GetReviews(email string) ([]*entity.Review, error) {
	var rec reviewRecord
	err := s.db.Get(reviewKeyPrefix+email, &rec)
	if errors.Is(err, bolthold.ErrNotFound) {
		return []*entity.Review{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv get reviews: %w", err)
	}
	reviews := make([]*entity.Review, 0, len(rec.Reviews))
	for i := range rec.Reviews {
		r := rec.Reviews[i]
		reviews = append(reviews, &r)
	}
	return reviews, nil
}

// SetSessionMarker persists the current user's email.
func (s *Store) SetSessionMarker(email string) error {
	if err := s.db.Upsert(sessionKey, &sessionRecord{Email: email}); err != nil {
		return fmt.Errorf("kv set session marker: %w", err)
	}
	return nil
}

// SessionMarker returns the persisted current-user email, or "" when no
// session marker exists.
func (s *Store) SessionMarker() (string, error) {
	var rec sessionRecord
	err := s.db.Get(sessionKey, &rec)
	if errors.Is(err, bolthold.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("kv get session marker: %w", err)
	}
	return rec.Email, nil
}

// ClearSessionMarker removes the persisted session marker. Clearing an
// absent marker is not an error.
func (s *Store) ClearSessionMarker() error {
	err := s.db.Delete(sessionKey, &sessionRecord{})
	if err != nil && !errors.Is(err, bolthold.ErrNotFound) {
		return fmt.Errorf("kv clear session marker: %w", err)
	}
	return nil
}
