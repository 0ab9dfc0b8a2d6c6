// Package session holds the authenticated identity of the running client:
// the current user, the bearer token and the startup hydration flag.
//
// A State is created once at process start and shared by reference with
// every component that needs it. All mutations go through its methods.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/uecsr/portal/internal/credstore"
	"github.com/uecsr/portal/internal/models"
)

// Snapshot is an immutable view of the session.
type Snapshot struct {
	User            *models.Usuario
	Token           string
	IsAuthenticated bool
	Initializing    bool
}

// HasRole reports whether the user's role is exactly rol.
func (s Snapshot) HasRole(rol models.Rol) bool {
	if s.User == nil {
		return false
	}
	return s.User.Rol == rol
}

// IsAdmin reports whether the user is an administrator.
func (s Snapshot) IsAdmin() bool {
	return s.HasRole(models.RolAdmin)
}

// IsStaff reports whether the user is staff; administrators count as staff.
func (s Snapshot) IsStaff() bool {
	return s.HasRole(models.RolStaff) || s.IsAdmin()
}

// CanModerate reports whether the user may approve, hide or edit forum
// and content entries.
func (s Snapshot) CanModerate() bool {
	return s.IsAdmin() || s.IsStaff()
}

// State is the shared session store. Use New to create one.
type State struct {
	mu        sync.RWMutex
	snap      Snapshot
	hydrated  bool
	listeners map[int]func(Snapshot)
	nextID    int
}

// New returns an empty session in the initializing state.
func New() *State {
	return &State{snap: Snapshot{Initializing: true}}
}

// Snapshot returns a copy of the current session.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copySnap()
}

// Token returns the current bearer token, or "" when anonymous.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Token
}

// SetFromStorage applies credentials read from persistent storage. The
// session is authenticated iff token is non-empty.
func (s *State) SetFromStorage(user *models.Usuario, token string) {
	s.mutate(func(snap *Snapshot) {
		snap.User = cloneUser(user)
		snap.Token = token
		snap.IsAuthenticated = token != ""
	})
}

// SetAuth records a successful login or registration.
func (s *State) SetAuth(user *models.Usuario, token string) {
	s.mutate(func(snap *Snapshot) {
		snap.User = cloneUser(user)
		snap.Token = token
		snap.IsAuthenticated = true
	})
}

// ClearAuth drops the user and token.
func (s *State) ClearAuth() {
	s.mutate(func(snap *Snapshot) {
		snap.User = nil
		snap.Token = ""
		snap.IsAuthenticated = false
	})
}

// SetInitializing sets the startup flag. Once it has been cleared it
// stays cleared; later attempts to set it again are ignored.
func (s *State) SetInitializing(value bool) {
	s.mutate(func(snap *Snapshot) {
		if value && !snap.Initializing {
			return
		}
		snap.Initializing = value
	})
}

// Hydrate performs the one-time startup load from store. Calls after the
// first are no-ops.
func (s *State) Hydrate(ctx context.Context, store credstore.Store) {
	s.mu.Lock()
	if s.hydrated {
		s.mu.Unlock()
		return
	}
	s.hydrated = true
	s.mu.Unlock()

	creds := store.Load(ctx)
	s.SetFromStorage(creds.User, creds.Token)
	s.SetInitializing(false)
}

// Subscribe registers fn to receive the new snapshot after every change.
func (s *State) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listeners == nil {
		s.listeners = make(map[int]func(Snapshot))
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// HasRole reports whether the current user's role is exactly rol.
func (s *State) HasRole(rol models.Rol) bool { return s.Snapshot().HasRole(rol) }

// IsAdmin reports whether the current user is an administrator.
func (s *State) IsAdmin() bool { return s.Snapshot().IsAdmin() }

// IsStaff reports whether the current user is staff or an administrator.
func (s *State) IsStaff() bool { return s.Snapshot().IsStaff() }

// CanModerate reports whether the current user is a moderator.
func (s *State) CanModerate() bool { return s.Snapshot().CanModerate() }

// TokenExpiry returns the exp claim of the current token. ok is false for
// anonymous sessions, opaque tokens and JWTs without exp. The signature is
// not checked; only the API can do that.
func (s *State) TokenExpiry() (exp time.Time, ok bool) {
	return TokenExpiry(s.Token())
}

// TokenExpiry reads the exp claim of token without verifying it.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *State) mutate(apply func(*Snapshot)) {
	s.mu.Lock()
	before := s.copySnap()
	apply(&s.snap)
	after := s.copySnap()
	var notify []func(Snapshot)
	if !equal(before, after) {
		notify = make([]func(Snapshot), 0, len(s.listeners))
		for _, fn := range s.listeners {
			notify = append(notify, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn(after)
	}
}

func (s *State) copySnap() Snapshot {
	c := s.snap
	c.User = cloneUser(s.snap.User)
	return c
}

func cloneUser(u *models.Usuario) *models.Usuario {
	if u == nil {
		return nil
	}
	c := *u
	if u.Activo != nil {
		a := *u.Activo
		c.Activo = &a
	}
	return &c
}

func equal(a, b Snapshot) bool {
	if a.Token != b.Token || a.IsAuthenticated != b.IsAuthenticated || a.Initializing != b.Initializing {
		return false
	}
	switch {
	case a.User == nil && b.User == nil:
		return true
	case a.User == nil || b.User == nil:
		return false
	}
	ua, ub := *a.User, *b.User
	if (ua.Activo == nil) != (ub.Activo == nil) || (ua.Activo != nil && *ua.Activo != *ub.Activo) {
		return false
	}
	ua.Activo, ub.Activo = nil, nil
	return ua == ub
}
