package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/uecsr/portal/internal/logger"
	"github.com/uecsr/portal/internal/middleware"
	"github.com/uecsr/portal/internal/models"
	"github.com/uecsr/portal/internal/repository"
	"github.com/uecsr/portal/internal/validate"
)

// ForoStore persists forum questions and answers.
type ForoStore interface {
	CreatePregunta(ctx context.Context, in models.ForoPreguntaPayload, author *models.Usuario) models.ForoPregunta
	GetPregunta(ctx context.Context, id string, public bool) (models.ForoPregunta, error)
	UpdatePregunta(ctx context.Context, id string, in models.ForoPreguntaPayload) (models.ForoPregunta, error)
	ToggleOcultaPregunta(ctx context.Context, id string) (models.ForoPregunta, error)
	DeletePregunta(ctx context.Context, id string) error
	ListPreguntas(ctx context.Context, o repository.ListOptions, public bool) repository.Result[models.ForoPregunta]

	CreateRespuesta(ctx context.Context, in models.RespuestaPayload, author models.Usuario) (models.RespuestaForo, error)
	ListRespuestas(ctx context.Context, preguntaID string, o repository.ListOptions, public bool) (repository.Result[models.RespuestaForo], error)
	SetRespuestaEstado(ctx context.Context, id int64, estado models.EstadoRespuesta) (models.RespuestaForo, error)
	ToggleOcultaRespuesta(ctx context.Context, id int64) (models.RespuestaForo, error)
	DeleteRespuesta(ctx context.Context, id int64) error
}

// ForoHandler serves the public forum and its moderation endpoints.
type ForoHandler struct {
	Store ForoStore
	Users UserLookup
	Log   *zap.Logger
}

// ListPreguntas handles GET /preguntas-foro/public and /preguntas-foro/admin.
func (h *ForoHandler) ListPreguntas(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o := listOptions(r.URL.Query(), 20, "categoria", "estado")
		writeSimpleList(w, h.Store.ListPreguntas(r.Context(), o, public))
	}
}

// GetPregunta handles GET /preguntas-foro/{id} and its /admin variant.
func (h *ForoHandler) GetPregunta(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.Store.GetPregunta(r.Context(), urlParam(r, "id"), public)
		if err != nil {
			writeFailure(w, h.Log, err)
			return
		}
		writeData(w, http.StatusOK, "", p)
	}
}

// CreatePregunta handles POST /preguntas-foro/public and
// /preguntas-foro/admin. Public questions always start in moderation.
func (h *ForoHandler) CreatePregunta(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ForoPreguntaPayload
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
			return
		}
		if public {
			req.Estado, req.RespuestaAdmin = "", ""
		}
		if err := validate.Struct(req); err != nil {
			writeFailure(w, h.Log, err)
			return
		}

		var author *models.Usuario
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			if u, err := h.Users.GetUsuario(r.Context(), claims.UserID()); err == nil {
				author = &u
			}
		}
		p := h.Store.CreatePregunta(r.Context(), req, author)
		logger.OrNop(h.Log).Debug("pregunta created", zap.String("id", p.ID), zap.Bool("public", public))
		writeData(w, http.StatusCreated, "Pregunta enviada", p)
	}
}

// UpdatePregunta handles PUT /preguntas-foro/{id}.
func (h *ForoHandler) UpdatePregunta(w http.ResponseWriter, r *http.Request) {
	var req models.ForoPreguntaPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}
	p, err := h.Store.UpdatePregunta(r.Context(), urlParam(r, "id"), req)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "Pregunta actualizada", p)
}

// ToggleOcultaPregunta handles PATCH /preguntas-foro/{id}/toggle-oculta.
func (h *ForoHandler) ToggleOcultaPregunta(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.ToggleOcultaPregunta(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "Pregunta actualizada", p)
}

// DeletePregunta handles DELETE /preguntas-foro/{id}.
func (h *ForoHandler) DeletePregunta(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeletePregunta(r.Context(), urlParam(r, "id")); err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "Pregunta eliminada", nil)
}

// ListRespuestas handles GET /respuestas-foro/pregunta/{id} and its
// /admin variant.
func (h *ForoHandler) ListRespuestas(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o := listOptions(r.URL.Query(), 50)
		res, err := h.Store.ListRespuestas(r.Context(), urlParam(r, "id"), o, public)
		if err != nil {
			writeFailure(w, h.Log, err)
			return
		}
		writeSimpleList(w, res)
	}
}

// CreateRespuesta handles POST /respuestas-foro.
func (h *ForoHandler) CreateRespuesta(w http.ResponseWriter, r *http.Request) {
	var req models.RespuestaPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	author, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	res, err := h.Store.CreateRespuesta(r.Context(), req, author)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusCreated, "Respuesta enviada", res)
}

type estadoRequest struct {
	Estado models.EstadoRespuesta `json:"estado" validate:"required,oneof=PENDIENTE APROBADA RECHAZADA OCULTA"`
}

// SetRespuestaEstado handles PUT /respuestas-foro/{id}/estado.
func (h *ForoHandler) SetRespuestaEstado(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var req estadoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	res, err := h.Store.SetRespuestaEstado(r.Context(), id, req.Estado)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "Respuesta actualizada", res)
}

// ToggleOcultaRespuesta handles PUT /respuestas-foro/{id}/toggle-oculta.
func (h *ForoHandler) ToggleOcultaRespuesta(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	res, err := h.Store.ToggleOcultaRespuesta(r.Context(), id)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "Respuesta actualizada", res)
}

// DeleteRespuesta handles DELETE /respuestas-foro/{id}.
func (h *ForoHandler) DeleteRespuesta(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.Store.DeleteRespuesta(r.Context(), id); err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "Respuesta eliminada", nil)
}
