package listquery

import (
	"fmt"

	"github.com/uecsr/portal/internal/models"
)

// View is a render-ready snapshot of a listing. Page is the locally
// requested page and drives the pagination controls; Meta is what the API
// reported and is used for display text.
type View[T any] struct {
	// Items are the last received results. They stay in place while a new
	// fetch is loading.
	Items   []T
	Page    int
	Search  string
	Filters map[string]string
	Meta    models.Meta
	Loading bool
	// Loaded is set once any fetch has succeeded.
	Loaded bool
	// Err is the error of the latest fetch, if it failed.
	Err error
}

// Empty reports the distinct "no results" state.
func (v View[T]) Empty() bool {
	return v.Loaded && !v.Loading && v.Err == nil && len(v.Items) == 0
}

// Refreshing reports that previous results are shown while new ones load.
func (v View[T]) Refreshing() bool {
	return v.Loading && len(v.Items) > 0
}

// CanPrev reports whether a previous page exists.
func (v View[T]) CanPrev() bool {
	return v.Page > 1
}

// CanNext reports whether the API reported a page after the current one.
func (v View[T]) CanNext() bool {
	return v.Loaded && v.Page < v.Meta.TotalPages
}

// Summary is the pagination caption, e.g. "Página 2 de 5 · 47 resultados".
func (v View[T]) Summary() string {
	page := v.Meta.Page
	if page == 0 {
		page = v.Page
	}
	total := v.Meta.TotalPages
	if total < 1 {
		total = 1
	}
	return fmt.Sprintf("Página %d de %d · %d resultados", page, total, v.Meta.Total)
}
