package apiclient

import "sync"

// Location is a Navigator that records where the client currently is.
// Front ends read Current after each command to decide what to render.
type Location struct {
	mu        sync.Mutex
	current   string
	redirects int
}

// NewLocation starts at path.
func NewLocation(path string) *Location {
	return &Location{current: path}
}

// HardRedirect moves to path.
func (l *Location) HardRedirect(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = path
	l.redirects++
}

// Navigate is an in-app route change; it is not counted as a redirect.
func (l *Location) Navigate(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = path
}

// Current returns the current path.
func (l *Location) Current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Redirects returns how many hard redirects happened so far.
func (l *Location) Redirects() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.redirects
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) HardRedirect(path string) { f(path) }
