package credstore

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/uecsr/portal/internal/logger"
	"github.com/uecsr/portal/internal/models"
)

// Fallback wraps a durable store. The first write that fails switches it
// to memory-only mode for the rest of the process: the current
// credentials are copied into memory and the session keeps working, it
// just will not survive a restart.
type Fallback struct {
	primary Store
	memory  *MemoryStore
	log     *zap.Logger

	mu       sync.Mutex
	degraded bool
}

// NewFallback wraps primary.
func NewFallback(primary Store, log *zap.Logger) *Fallback {
	return &Fallback{
		primary: primary,
		memory:  NewMemoryStore(),
		log:     logger.OrNop(log),
	}
}

// Degraded reports whether writes are going to memory only.
func (f *Fallback) Degraded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.degraded
}

func (f *Fallback) Load(ctx context.Context) Credentials {
	if f.Degraded() {
		return f.memory.Load(ctx)
	}
	return f.primary.Load(ctx)
}

func (f *Fallback) SaveToken(ctx context.Context, token string) error {
	return f.write(ctx, "save token",
		func(s Store) error { return s.SaveToken(ctx, token) })
}

func (f *Fallback) SaveUser(ctx context.Context, user *models.Usuario) error {
	return f.write(ctx, "save user",
		func(s Store) error { return s.SaveUser(ctx, user) })
}

func (f *Fallback) Clear(ctx context.Context) error {
	return f.write(ctx, "clear",
		func(s Store) error { return s.Clear(ctx) })
}

// write never returns an error: a failed primary write degrades the store
// and the operation is replayed in memory.
func (f *Fallback) write(ctx context.Context, op string, apply func(Store) error) error {
	if f.Degraded() {
		return apply(f.memory)
	}
	err := apply(f.primary)
	if err == nil {
		return nil
	}

	f.mu.Lock()
	if !f.degraded {
		// carry over what the primary still has before switching
		current := f.primary.Load(ctx)
		if current.Token != "" {
			_ = f.memory.SaveToken(ctx, current.Token)
		}
		if current.User != nil {
			_ = f.memory.SaveUser(ctx, current.User)
		}
		f.degraded = true
	}
	f.mu.Unlock()

	f.log.Warn("credential store unavailable, keeping session in memory only",
		zap.String("op", op), zap.Error(err))
	return apply(f.memory)
}
