package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/uecsr/portal/internal/models"
)

type noticiaRow struct {
	models.Noticia
}

// SaveNoticia creates a news item when id is 0 and replaces it otherwise.
// An empty ImagenURL keeps the stored image.
func (m *Memory) SaveNoticia(_ context.Context, id int64, in models.Noticia) (models.Noticia, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if in.Slug == "" {
		in.Slug = slugify(in.Titulo)
	}
	for otherID, n := range m.noticias {
		if otherID != id && n.Slug == in.Slug {
			return models.Noticia{}, fmt.Errorf("slug %s: %w", in.Slug, ErrConflict)
		}
	}
	if in.Estado == "" {
		in.Estado = models.NoticiaBorrador
	}

	if id == 0 {
		in.ID = m.id()
		in.CreatedAt = m.timestamp()
		m.noticias[in.ID] = &noticiaRow{Noticia: in}
		return in, nil
	}
	row, ok := m.noticias[id]
	if !ok {
		return models.Noticia{}, fmt.Errorf("noticia %d: %w", id, ErrNotFound)
	}
	in.ID, in.CreatedAt = row.ID, row.CreatedAt
	if in.ImagenURL == "" {
		in.ImagenURL = row.ImagenURL
	}
	row.Noticia = in
	return in, nil
}

// GetNoticia returns one news item.
func (m *Memory) GetNoticia(_ context.Context, id int64) (models.Noticia, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.noticias[id]
	if !ok {
		return models.Noticia{}, fmt.Errorf("noticia %d: %w", id, ErrNotFound)
	}
	return row.Noticia, nil
}

// DeleteNoticia removes a news item and its comments.
func (m *Memory) DeleteNoticia(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.noticias[id]; !ok {
		return fmt.Errorf("noticia %d: %w", id, ErrNotFound)
	}
	delete(m.noticias, id)
	m.dropComentariosLocked(TargetNoticia, id)
	return nil
}

// TogglePublicarNoticia publishes a news item, or returns a published one
// to draft.
func (m *Memory) TogglePublicarNoticia(_ context.Context, id int64) (models.Noticia, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.noticias[id]
	if !ok {
		return models.Noticia{}, fmt.Errorf("noticia %d: %w", id, ErrNotFound)
	}
	if row.Estado == models.NoticiaPublicado {
		row.Estado = models.NoticiaBorrador
	} else {
		row.Estado = models.NoticiaPublicado
		if row.FechaPublicacion == nil {
			now := m.timestamp()
			row.FechaPublicacion = &now
		}
	}
	return row.Noticia, nil
}

// ListNoticias lists news items, newest first. Public listings only see
// published items; filter "estado" narrows admin listings.
func (m *Memory) ListNoticias(_ context.Context, o ListOptions, public bool) Result[models.Noticia] {
	m.mu.RLock()
	var matches []models.Noticia
	for _, n := range m.noticias {
		if public && n.Estado != models.NoticiaPublicado {
			continue
		}
		if estado := o.filter("estado"); estado != "" && string(n.Estado) != estado {
			continue
		}
		if contains(o.Search, n.Titulo, n.Resumen, n.Contenido) {
			matches = append(matches, n.Noticia)
		}
	}
	m.mu.RUnlock()

	return paginate(matches, o, func(a, b models.Noticia) bool {
		if a.Destacado != b.Destacado {
			return a.Destacado
		}
		return a.ID > b.ID
	})
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
