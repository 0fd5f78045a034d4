// Package auth holds the session state of the signed-in user and the
// account operations around it. The holder is an explicit object handed to
// the HTTP layer rather than package-level state, so tests can run holders
// side by side.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"anishelf/internal/domain/entity"
	"anishelf/internal/observability/metrics"
	"anishelf/internal/repository"
)

// State is the authentication state of the holder.
type State int

// Session states.
const (
	Anonymous State = iota
	Authenticated
)

// Session is a snapshot of the current session.
type Session struct {
	State  State
	UserID int64
	Email  string
	Name   string
}

// SessionStore is the slice of the key-value store the holder uses: the
// persisted session marker plus the user mirror it degrades to when the
// relational store is unavailable.
type SessionStore interface {
	SetSessionMarker(email string) error
	SessionMarker() (string, error)
	ClearSessionMarker() error
	PutUser(user *entity.User) error
	// GetUser returns (nil, nil) when no mirrored user has the email.
	GetUser(email string) (*entity.User, error)
}

// Holder tracks who is signed in. All methods are safe for concurrent use.
type Holder struct {
	mu      sync.RWMutex
	session Session

	users repository.UserRepository
	store SessionStore
}

// NewHolder creates an anonymous Holder. store may be nil, in which case
// sessions do not survive restarts and user lookups have no fallback.
func NewHolder(users repository.UserRepository, store SessionStore) *Holder {
	return &Holder{
		session: Session{State: Anonymous},
		users:   users,
		store:   store,
	}
}

// Current returns a snapshot of the session.
func (h *Holder) Current() Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.session
}

// Register creates a new account. It reports false when the email is
// already taken, and never changes the session state. A relational
// failure degrades to the key-value mirror.
func (h *Holder) Register(ctx context.Context, name, email, password string) (bool, error) {
	user := &entity.User{Name: name, Email: email, Password: password}
	if err := user.Validate(); err != nil {
		return false, err
	}

	err := h.users.Create(ctx, user)
	if err == nil {
		if h.store != nil {
			if mErr := h.store.PutUser(user); mErr != nil {
				slog.Warn("user mirror write failed", slog.Any("error", mErr))
			}
		}
		return true, nil
	}
	if errors.Is(err, entity.ErrDuplicateEmail) {
		return false, nil
	}

	metrics.RecordStoreDegradation("register")
	slog.Error("user create failed, degrading to mirror",
		slog.String("email", email),
		slog.Any("error", err))

	if h.store == nil {
		return false, nil
	}
	existing, mErr := h.store.GetUser(email)
	if mErr != nil {
		slog.Error("mirror read failed", slog.Any("error", mErr))
		return false, nil
	}
	if existing != nil {
		return false, nil
	}
	if mErr := h.store.PutUser(user); mErr != nil {
		slog.Error("mirror write failed", slog.Any("error", mErr))
		return false, nil
	}
	return true, nil
}

// Login checks the credentials against the stored account and, on an exact
// match, moves the holder to Authenticated and persists the session
// marker. Password comparison is verbatim; the application stores
// credentials in clear text.
func (h *Holder) Login(ctx context.Context, email, password string) bool {
	user := h.lookup(ctx, email)
	if user == nil || user.Password != password {
		return false
	}

	h.mu.Lock()
	h.session = Session{
		State:  Authenticated,
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}
	h.mu.Unlock()

	if h.store != nil {
		if err := h.store.SetSessionMarker(user.Email); err != nil {
			slog.Warn("session marker write failed", slog.Any("error", err))
		}
	}
	return true
}

// Logout unconditionally moves the holder to Anonymous and clears the
// persisted marker. Logging out an anonymous holder is a no-op.
func (h *Holder) Logout() {
	h.mu.Lock()
	h.session = Session{State: Anonymous}
	h.mu.Unlock()

	if h.store != nil {
		if err := h.store.ClearSessionMarker(); err != nil {
			slog.Warn("session marker clear failed", slog.Any("error", err))
		}
	}
}

// Restore re-derives the session from the persisted marker. Called once at
// startup. A marker pointing at an account that no longer resolves is
// cleared.
func (h *Holder) Restore(ctx context.Context) {
	if h.store == nil {
		return
	}
	email, err := h.store.SessionMarker()
	if err != nil {
		slog.Warn("session marker read failed", slog.Any("error", err))
		return
	}
	if email == "" {
		return
	}

	user := h.lookup(ctx, email)
	if user == nil {
		slog.Warn("session marker points at unknown account, clearing",
			slog.String("email", email))
		if err := h.store.ClearSessionMarker(); err != nil {
			slog.Warn("session marker clear failed", slog.Any("error", err))
		}
		return
	}

	h.mu.Lock()
	h.session = Session{
		State:  Authenticated,
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}
	h.mu.Unlock()
	slog.Info("session restored", slog.String("email", user.Email))
}

// lookup finds an account by email, falling back to the mirror when the
// relational store fails. Returns nil when the account does not resolve.
func (h *Holder) lookup(ctx context.Context, email string) *entity.User {
	user, err := h.users.FindByEmail(ctx, email)
	if err == nil {
		return user
	}

	metrics.RecordStoreDegradation("user_lookup")
	slog.Error("user lookup failed, degrading to mirror",
		slog.String("email", email),
		slog.Any("error", err))

	if h.store == nil {
		return nil
	}
	mirrored, mErr := h.store.GetUser(email)
	if mErr != nil {
		slog.Error("mirror read failed", slog.Any("error", mErr))
		return nil
	}
	return mirrored
}
