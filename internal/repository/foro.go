package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/uecsr/portal/internal/models"
)

type preguntaRow struct {
	models.ForoPregunta
}

type respuestaRow struct {
	models.RespuestaForo
}

// CreatePregunta stores a question. Unless estado is set (admin
// creation) it waits for moderation in state NUEVA.
func (m *Memory) CreatePregunta(_ context.Context, in models.ForoPreguntaPayload, author *models.Usuario) models.ForoPregunta {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := models.ForoPregunta{
		ID:             uuid.NewString(),
		Titulo:         in.Titulo,
		Contenido:      in.Contenido,
		Categoria:      in.Categoria,
		AutorNombre:    "Anónimo",
		CreatedAt:      m.timestamp(),
		RespuestaAdmin: in.RespuestaAdmin,
		ReferenciaID:   in.ReferenciaID,
		Estado:         in.Estado,
	}
	if p.Estado == "" {
		p.Estado = models.ForoNueva
	}
	if author != nil {
		p.AutorNombre = author.FullName()
		p.AutorEmail = author.Email
	}
	m.preguntas[p.ID] = &preguntaRow{ForoPregunta: p}
	return p
}

// GetPregunta returns a question. Public callers only see approved ones.
func (m *Memory) GetPregunta(_ context.Context, id string, public bool) (models.ForoPregunta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.preguntas[id]
	if !ok || (public && row.Estado != models.ForoAprobada) {
		return models.ForoPregunta{}, fmt.Errorf("pregunta %s: %w", id, ErrNotFound)
	}
	return m.preguntaViewLocked(row, public), nil
}

// UpdatePregunta applies the non-empty fields of in.
func (m *Memory) UpdatePregunta(_ context.Context, id string, in models.ForoPreguntaPayload) (models.ForoPregunta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.preguntas[id]
	if !ok {
		return models.ForoPregunta{}, fmt.Errorf("pregunta %s: %w", id, ErrNotFound)
	}
	if in.Titulo != "" {
		row.Titulo = in.Titulo
	}
	if in.Contenido != "" {
		row.Contenido = in.Contenido
	}
	if in.Categoria != "" {
		row.Categoria = in.Categoria
	}
	if in.Estado != "" {
		row.Estado = in.Estado
	}
	if in.RespuestaAdmin != "" {
		row.RespuestaAdmin = in.RespuestaAdmin
	}
	if in.ReferenciaID != nil {
		row.ReferenciaID = in.ReferenciaID
	}
	return m.preguntaViewLocked(row, false), nil
}

// ToggleOcultaPregunta hides a question, or approves a hidden one.
func (m *Memory) ToggleOcultaPregunta(_ context.Context, id string) (models.ForoPregunta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.preguntas[id]
	if !ok {
		return models.ForoPregunta{}, fmt.Errorf("pregunta %s: %w", id, ErrNotFound)
	}
	if row.Estado == models.ForoOculta {
		row.Estado = models.ForoAprobada
	} else {
		row.Estado = models.ForoOculta
	}
	return m.preguntaViewLocked(row, false), nil
}

// DeletePregunta removes a question and its answers.
func (m *Memory) DeletePregunta(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.preguntas[id]; !ok {
		return fmt.Errorf("pregunta %s: %w", id, ErrNotFound)
	}
	delete(m.preguntas, id)
	for rid, r := range m.respuestas {
		if r.PreguntaID == id {
			delete(m.respuestas, rid)
		}
	}
	return nil
}

// ListPreguntas lists questions, newest first. Public listings only see
// approved questions; filters "categoria" and "estado" narrow the result.
func (m *Memory) ListPreguntas(_ context.Context, o ListOptions, public bool) Result[models.ForoPregunta] {
	m.mu.RLock()
	var matches []models.ForoPregunta
	for _, p := range m.preguntas {
		if public && p.Estado != models.ForoAprobada {
			continue
		}
		if c := o.filter("categoria"); c != "" && string(p.Categoria) != c {
			continue
		}
		if s := o.filter("estado"); s != "" && string(p.Estado) != s {
			continue
		}
		if contains(o.Search, p.Titulo, p.Contenido) {
			matches = append(matches, m.preguntaViewLocked(p, public))
		}
	}
	m.mu.RUnlock()

	return paginate(matches, o, func(a, b models.ForoPregunta) bool {
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt > b.CreatedAt
		}
		return a.ID < b.ID
	})
}

func (m *Memory) preguntaViewLocked(row *preguntaRow, public bool) models.ForoPregunta {
	p := row.ForoPregunta
	p.RespuestasCount = 0
	for _, r := range m.respuestas {
		if r.PreguntaID == p.ID && r.Estado == models.RespuestaAprobada {
			p.RespuestasCount++
		}
	}
	if public {
		p.Estado, p.AutorEmail = "", ""
	}
	return p
}

// CreateRespuesta answers a question. Answers by moderators are approved
// right away; others wait in PENDIENTE.
func (m *Memory) CreateRespuesta(_ context.Context, in models.RespuestaPayload, author models.Usuario) (models.RespuestaForo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.preguntas[in.PreguntaID]; !ok {
		return models.RespuestaForo{}, fmt.Errorf("pregunta %s: %w", in.PreguntaID, ErrNotFound)
	}
	estado := models.RespuestaPendiente
	if author.Rol == models.RolAdmin || author.Rol == models.RolStaff {
		estado = models.RespuestaAprobada
	}
	now := m.timestamp()
	uid := author.ID
	r := models.RespuestaForo{
		ID:            m.id(),
		Contenido:     in.Contenido,
		Estado:        estado,
		PreguntaID:    in.PreguntaID,
		CreadoEn:      now,
		ActualizadoEn: now,
		AutorNombre:   author.FullName(),
		AutorEmail:    author.Email,
		UsuarioID:     &uid,
	}
	m.respuestas[r.ID] = &respuestaRow{RespuestaForo: r}
	return r, nil
}

// ListRespuestas lists the answers to a question, oldest first. Public
// listings only see approved answers.
func (m *Memory) ListRespuestas(_ context.Context, preguntaID string, o ListOptions, public bool) (Result[models.RespuestaForo], error) {
	m.mu.RLock()
	if _, ok := m.preguntas[preguntaID]; !ok {
		m.mu.RUnlock()
		return Result[models.RespuestaForo]{}, fmt.Errorf("pregunta %s: %w", preguntaID, ErrNotFound)
	}
	var matches []models.RespuestaForo
	for _, r := range m.respuestas {
		if r.PreguntaID != preguntaID || (public && r.Estado != models.RespuestaAprobada) {
			continue
		}
		v := r.RespuestaForo
		if public {
			v.AutorEmail, v.UsuarioID = "", nil
		}
		matches = append(matches, v)
	}
	m.mu.RUnlock()

	return paginate(matches, o, func(a, b models.RespuestaForo) bool { return a.ID < b.ID }), nil
}

// SetRespuestaEstado moderates an answer.
func (m *Memory) SetRespuestaEstado(_ context.Context, id int64, estado models.EstadoRespuesta) (models.RespuestaForo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.respuestas[id]
	if !ok {
		return models.RespuestaForo{}, fmt.Errorf("respuesta %d: %w", id, ErrNotFound)
	}
	row.Estado = estado
	row.ActualizadoEn = m.timestamp()
	return row.RespuestaForo, nil
}

// ToggleOcultaRespuesta hides an answer, or approves a hidden one.
func (m *Memory) ToggleOcultaRespuesta(_ context.Context, id int64) (models.RespuestaForo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.respuestas[id]
	if !ok {
		return models.RespuestaForo{}, fmt.Errorf("respuesta %d: %w", id, ErrNotFound)
	}
	if row.Estado == models.RespuestaOculta {
		row.Estado = models.RespuestaAprobada
	} else {
		row.Estado = models.RespuestaOculta
	}
	row.ActualizadoEn = m.timestamp()
	return row.RespuestaForo, nil
}

// DeleteRespuesta removes an answer.
func (m *Memory) DeleteRespuesta(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.respuestas[id]; !ok {
		return fmt.Errorf("respuesta %d: %w", id, ErrNotFound)
	}
	delete(m.respuestas, id)
	return nil
}
