package repository

import (
	"context"
	"fmt"

	"github.com/uecsr/portal/internal/models"
)

type eventoRow struct {
	models.Evento
}

// SaveEvento creates an event when id is 0 and replaces it otherwise. An
// empty ImagenURL keeps the stored image.
func (m *Memory) SaveEvento(_ context.Context, id int64, in models.Evento) (models.Evento, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if in.Estado == "" {
		in.Estado = models.EventoProgramado
	}
	if in.Categoria == "" {
		in.Categoria = models.CategoriaGeneral
	}
	now := m.timestamp()
	if id == 0 {
		in.ID = m.id()
		in.CreadoEn, in.ActualizadoEn = now, now
		m.eventos[in.ID] = &eventoRow{Evento: in}
		return in, nil
	}
	row, ok := m.eventos[id]
	if !ok {
		return models.Evento{}, fmt.Errorf("evento %d: %w", id, ErrNotFound)
	}
	in.ID, in.CreadoEn, in.ActualizadoEn = row.ID, row.CreadoEn, now
	if in.ImagenURL == "" {
		in.ImagenURL = row.ImagenURL
	}
	row.Evento = in
	return in, nil
}

// GetEvento returns one event.
func (m *Memory) GetEvento(_ context.Context, id int64) (models.Evento, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.eventos[id]
	if !ok {
		return models.Evento{}, fmt.Errorf("evento %d: %w", id, ErrNotFound)
	}
	return row.Evento, nil
}

// DeleteEvento removes an event and its comments.
func (m *Memory) DeleteEvento(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.eventos[id]; !ok {
		return fmt.Errorf("evento %d: %w", id, ErrNotFound)
	}
	delete(m.eventos, id)
	m.dropComentariosLocked(TargetEvento, id)
	return nil
}

// ListEventos lists events by start date. Public listings hide cancelled
// events; filters "categoria" and "estado" narrow the result.
func (m *Memory) ListEventos(_ context.Context, o ListOptions, public bool) Result[models.Evento] {
	m.mu.RLock()
	var matches []models.Evento
	for _, e := range m.eventos {
		if public && e.Estado == models.EventoCancelado {
			continue
		}
		if c := o.filter("categoria"); c != "" && string(e.Categoria) != c {
			continue
		}
		if s := o.filter("estado"); s != "" && string(e.Estado) != s {
			continue
		}
		if contains(o.Search, e.Titulo, e.Resumen, e.Lugar) {
			matches = append(matches, e.Evento)
		}
	}
	m.mu.RUnlock()

	return paginate(matches, o, func(a, b models.Evento) bool {
		if a.FechaInicio != b.FechaInicio {
			return a.FechaInicio < b.FechaInicio
		}
		return a.ID < b.ID
	})
}
