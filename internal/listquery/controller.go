package listquery

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/uecsr/portal/internal/logger"
	"github.com/uecsr/portal/internal/models"
)

// Option configures a Controller.
type Option func(*options)

type options struct {
	limit   int
	search  string
	filters map[string]string
	log     *zap.Logger
}

// WithLimit sets the page size sent with every query.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// WithFilter sets the initial value of a filter.
func WithFilter(name, value string) Option {
	return func(o *options) { o.filters[name] = value }
}

// WithSearch sets the initial search text.
func WithSearch(s string) Option {
	return func(o *options) { o.search = s }
}

// WithLogger sets the logger used for discarded responses and failures.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// Controller is the query state of one listing. It is safe for use by
// multiple goroutines; each state change fetches synchronously on the
// calling goroutine.
type Controller[T any] struct {
	fetch Fetcher[T]
	log   *zap.Logger

	mu      sync.Mutex
	query   Query
	items   []T
	meta    models.Meta
	loading bool
	loaded  bool
	err     error
	// gen identifies the most recently issued fetch.
	gen     uint64
	mounted bool

	listeners map[int]func(View[T])
	nextID    int
}

// New returns a Controller on page 1 that has not fetched yet.
func New[T any](fetch Fetcher[T], opts ...Option) *Controller[T] {
	o := options{filters: map[string]string{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		fetch: fetch,
		log:   logger.OrNop(o.log),
		query: Query{
			Page:    1,
			Limit:   o.limit,
			Search:  o.search,
			Filters: o.filters,
		},
		listeners: make(map[int]func(View[T])),
	}
}

// Mount performs the initial fetch. Later calls do nothing.
func (c *Controller[T]) Mount(ctx context.Context) error {
	return c.run(ctx, func(*Query) bool { return !c.mounted })
}

// Reload fetches the current query again, for example after an item was
// created or deleted.
func (c *Controller[T]) Reload(ctx context.Context) error {
	return c.run(ctx, nil)
}

// SetPage moves to page n (at least 1).
func (c *Controller[T]) SetPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	return c.run(ctx, func(q *Query) bool {
		if q.Page == n && c.mounted {
			return false
		}
		q.Page = n
		return true
	})
}

// Next moves one page forward unless already on the last reported page.
func (c *Controller[T]) Next(ctx context.Context) error {
	return c.run(ctx, func(q *Query) bool {
		if q.Page >= c.totalPages() {
			return false
		}
		q.Page++
		return true
	})
}

// Prev moves one page back, never below page 1.
func (c *Controller[T]) Prev(ctx context.Context) error {
	return c.run(ctx, func(q *Query) bool {
		if q.Page <= 1 {
			return false
		}
		q.Page--
		return true
	})
}

// SetSearch replaces the search text and returns to page 1.
func (c *Controller[T]) SetSearch(ctx context.Context, s string) error {
	return c.run(ctx, func(q *Query) bool {
		if q.Search == s && c.mounted {
			return false
		}
		q.Search = s
		q.Page = 1
		return true
	})
}

// SetFilter replaces one filter value and returns to page 1. Switching
// between two values that both mean "all" is not a change.
func (c *Controller[T]) SetFilter(ctx context.Context, name, value string) error {
	return c.run(ctx, func(q *Query) bool {
		old := q.Filters[name]
		if c.mounted && (old == value || (IsAll(old) && IsAll(value))) {
			return false
		}
		q.Filters[name] = value
		q.Page = 1
		return true
	})
}

// Query returns a copy of the current query.
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.clone()
}

// View returns what the listing should render now.
func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Subscribe registers fn to receive the view after every state change.
func (c *Controller[T]) Subscribe(fn func(View[T])) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// run applies mutate under the lock and, when it reports a change (or is
// nil), fetches the resulting query. A result is applied only if no newer
// fetch was issued in the meantime.
func (c *Controller[T]) run(ctx context.Context, mutate func(*Query) bool) error {
	c.mu.Lock()
	if mutate != nil && !mutate(&c.query) {
		c.mu.Unlock()
		return nil
	}
	c.mounted = true
	c.gen++
	gen := c.gen
	q := c.query.clone()
	c.loading = true
	notify := c.pendingLocked()
	c.mu.Unlock()
	notify()

	page, err := c.fetch(ctx, q)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.log.Debug("discarded stale list response",
			zap.Uint64("generation", gen),
			zap.Uint64("latest", c.gen),
			zap.Stringer("query", q),
		)
		return nil
	}
	c.loading = false
	if err != nil {
		c.err = err
		notify = c.pendingLocked()
		c.mu.Unlock()
		notify()
		c.log.Debug("list fetch failed", zap.Stringer("query", q), zap.Error(err))
		return fmt.Errorf("fetch %s: %w", q, err)
	}
	c.err = nil
	c.loaded = true
	c.items = page.Items
	c.meta = page.Meta
	notify = c.pendingLocked()
	c.mu.Unlock()
	notify()
	return nil
}

func (c *Controller[T]) totalPages() int {
	if !c.loaded {
		return 1
	}
	return c.meta.TotalPages
}

func (c *Controller[T]) viewLocked() View[T] {
	q := c.query.clone()
	return View[T]{
		Items:   append([]T(nil), c.items...),
		Page:    q.Page,
		Search:  q.Search,
		Filters: q.Filters,
		Meta:    c.meta,
		Loading: c.loading,
		Loaded:  c.loaded,
		Err:     c.err,
	}
}

// pendingLocked captures the view and the listeners under the lock. The
// returned func delivers them and must be called after unlocking.
func (c *Controller[T]) pendingLocked() func() {
	if len(c.listeners) == 0 {
		return func() {}
	}
	v := c.viewLocked()
	fns := make([]func(View[T]), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(v)
		}
	}
}
