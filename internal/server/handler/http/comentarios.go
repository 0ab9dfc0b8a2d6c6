package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/uecsr/portal/internal/middleware"
	"github.com/uecsr/portal/internal/models"
	"github.com/uecsr/portal/internal/repository"
	"github.com/uecsr/portal/internal/validate"
)

// ComentarioStore persists comments on news items and events.
type ComentarioStore interface {
	ListComentarios(ctx context.Context, t repository.Target, id int64, soloAprobados bool) ([]models.Comentario, error)
	AddComentario(ctx context.Context, t repository.Target, id int64, author models.Usuario, contenido string) (models.Comentario, error)
	DeleteComentario(ctx context.Context, t repository.Target, id, comentarioID int64) error
	ToggleAprobarComentario(ctx context.Context, t repository.Target, id, comentarioID int64) (models.Comentario, error)
}

// UserLookup resolves the author of an authenticated request.
type UserLookup interface {
	GetUsuario(ctx context.Context, id int64) (models.Usuario, error)
}

// ComentarioHandler serves the comments of one kind of record, selected
// by Target.
type ComentarioHandler struct {
	Store  ComentarioStore
	Users  UserLookup
	Target repository.Target
	Log    *zap.Logger
}

// List handles GET /{target}-comentarios/{id}. Only moderators may ask for
// pending comments with soloAprobados=false.
func (h *ComentarioHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	soloAprobados := r.URL.Query().Get("soloAprobados") != "false"
	if claims, ok := middleware.ClaimsFromContext(r.Context()); !ok || !claims.CanModerate() {
		soloAprobados = true
	}
	items, err := h.Store.ListComentarios(r.Context(), h.Target, id, soloAprobados)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "", items)
}

// Create handles POST /{target}-comentarios/{id}.
func (h *ComentarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var req models.ComentarioPayload
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
	c, err := h.Store.AddComentario(r.Context(), h.Target, id, author, req.Contenido)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusCreated, "Comentario creado", c)
}

// Delete handles DELETE /{target}-comentarios/{id}/{comentarioId}.
func (h *ComentarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok1 := pathID(r, "id")
	cid, ok2 := pathID(r, "comentarioId")
	if !ok1 || !ok2 {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.Store.DeleteComentario(r.Context(), h.Target, id, cid); err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "Comentario eliminado", nil)
}

// ToggleAprobar handles PUT /{target}-comentarios/{id}/{comentarioId}/aprobar.
func (h *ComentarioHandler) ToggleAprobar(w http.ResponseWriter, r *http.Request) {
	id, ok1 := pathID(r, "id")
	cid, ok2 := pathID(r, "comentarioId")
	if !ok1 || !ok2 {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	c, err := h.Store.ToggleAprobarComentario(r.Context(), h.Target, id, cid)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "Comentario actualizado", c)
}

// currentUser loads the account behind the request token. A token whose
// account no longer exists answers 401.
func currentUser(w http.ResponseWriter, r *http.Request, users UserLookup) (models.Usuario, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token no proporcionado")
		return models.Usuario{}, false
	}
	u, err := users.GetUsuario(r.Context(), claims.UserID())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Token inválido o expirado")
		return models.Usuario{}, false
	}
	return u, true
}
