package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/uecsr/portal/internal/models"
)

// Target is the kind of record a comment belongs to.
type Target string

const (
	TargetNoticia Target = "noticia"
	TargetEvento  Target = "evento"
)

type comentarioRow struct {
	models.Comentario
	target   Target
	targetID int64
}

func (m *Memory) targetExistsLocked(t Target, id int64) bool {
	switch t {
	case TargetNoticia:
		_, ok := m.noticias[id]
		return ok
	case TargetEvento:
		_, ok := m.eventos[id]
		return ok
	}
	return false
}

// ListComentarios returns the comments of one news item or event, oldest
// first.
func (m *Memory) ListComentarios(_ context.Context, t Target, id int64, soloAprobados bool) ([]models.Comentario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.targetExistsLocked(t, id) {
		return nil, fmt.Errorf("%s %d: %w", t, id, ErrNotFound)
	}
	out := []models.Comentario{}
	for _, c := range m.comentarios {
		if c.target != t || c.targetID != id || (soloAprobados && !c.Aprobado) {
			continue
		}
		out = append(out, c.Comentario)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AddComentario stores a comment by author. News comments are visible
// immediately; event comments wait for approval.
func (m *Memory) AddComentario(_ context.Context, t Target, id int64, author models.Usuario, contenido string) (models.Comentario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.targetExistsLocked(t, id) {
		return models.Comentario{}, fmt.Errorf("%s %d: %w", t, id, ErrNotFound)
	}
	now := m.timestamp()
	row := &comentarioRow{
		Comentario: models.Comentario{
			ID:            m.id(),
			Contenido:     contenido,
			NombreAutor:   author.FullName(),
			EmailAutor:    author.Email,
			Aprobado:      t == TargetNoticia,
			CreadoEn:      now,
			ActualizadoEn: now,
			Usuario:       &models.Autor{ID: author.ID, Nombre: author.FullName()},
		},
		target:   t,
		targetID: id,
	}
	m.comentarios[row.ID] = row
	return row.Comentario, nil
}

// DeleteComentario removes a comment of the given record.
func (m *Memory) DeleteComentario(_ context.Context, t Target, id, comentarioID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.comentarios[comentarioID]
	if !ok || row.target != t || row.targetID != id {
		return fmt.Errorf("comentario %d: %w", comentarioID, ErrNotFound)
	}
	delete(m.comentarios, comentarioID)
	return nil
}

// ToggleAprobarComentario flips the approval of a comment.
func (m *Memory) ToggleAprobarComentario(_ context.Context, t Target, id, comentarioID int64) (models.Comentario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.comentarios[comentarioID]
	if !ok || row.target != t || row.targetID != id {
		return models.Comentario{}, fmt.Errorf("comentario %d: %w", comentarioID, ErrNotFound)
	}
	row.Aprobado = !row.Aprobado
	row.ActualizadoEn = m.timestamp()
	return row.Comentario, nil
}

func (m *Memory) dropComentariosLocked(t Target, id int64) {
	for cid, c := range m.comentarios {
		if c.target == t && c.targetID == id {
			delete(m.comentarios, cid)
		}
	}
}
