// Package repository holds the in-memory data of the development API:
// accounts, news, events, comments and the forum.
package repository

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials is returned by Authenticate.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ListOptions selects one page of a listing. Empty filter values select
// everything.
type ListOptions struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string
}

func (o ListOptions) filter(name string) string {
	return o.Filters[name]
}

// Result is one page of records plus the total number of matches.
type Result[T any] struct {
	Items []T
	Total int
	Page  int
	Limit int
}

// TotalPages is at least 1.
func (r Result[T]) TotalPages() int {
	if r.Total == 0 || r.Limit <= 0 {
		return 1
	}
	return (r.Total + r.Limit - 1) / r.Limit
}

// Memory is a goroutine-safe in-memory repository.
type Memory struct {
	mu     sync.RWMutex
	now    func() time.Time
	nextID int64
	cost   int

	usuarios    map[int64]*usuarioRow
	noticias    map[int64]*noticiaRow
	eventos     map[int64]*eventoRow
	comentarios map[int64]*comentarioRow
	preguntas   map[string]*preguntaRow
	respuestas  map[int64]*respuestaRow
}

// Option configures a Memory repository.
type Option func(*Memory)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

// WithHashCost sets the bcrypt cost used for passwords.
func WithHashCost(cost int) Option {
	return func(m *Memory) { m.cost = cost }
}

// NewMemory returns an empty repository.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		now:         time.Now,
		usuarios:    make(map[int64]*usuarioRow),
		noticias:    make(map[int64]*noticiaRow),
		eventos:     make(map[int64]*eventoRow),
		comentarios: make(map[int64]*comentarioRow),
		preguntas:   make(map[string]*preguntaRow),
		respuestas:  make(map[int64]*respuestaRow),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Memory) timestamp() string {
	return m.now().UTC().Format(time.RFC3339)
}

// paginate sorts matches with less and cuts out the requested page.
func paginate[T any](matches []T, o ListOptions, less func(a, b T) bool) Result[T] {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit <= 0 {
		o.Limit = 10
	}
	sort.SliceStable(matches, func(i, j int) bool { return less(matches[i], matches[j]) })
	start := (o.Page - 1) * o.Limit
	end := start + o.Limit
	if start > len(matches) {
		start = len(matches)
	}
	if end > len(matches) {
		end = len(matches)
	}
	items := make([]T, end-start)
	copy(items, matches[start:end])
	return Result[T]{Items: items, Total: len(matches), Page: o.Page, Limit: o.Limit}
}

func contains(search string, fields ...string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}
