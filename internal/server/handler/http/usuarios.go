package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/uecsr/portal/internal/models"
	"github.com/uecsr/portal/internal/repository"
	"github.com/uecsr/portal/internal/validate"
)

// UsuarioStore persists accounts.
type UsuarioStore interface {
	CreateUsuario(ctx context.Context, in models.UsuarioCreate) (models.Usuario, error)
	GetUsuario(ctx context.Context, id int64) (models.Usuario, error)
	UpdateUsuario(ctx context.Context, id int64, in models.UsuarioUpdate) (models.Usuario, error)
	DeleteUsuario(ctx context.Context, id int64) error
	ListUsuarios(ctx context.Context, o repository.ListOptions) repository.Result[models.Usuario]
}

// UsuarioHandler serves account administration.
type UsuarioHandler struct {
	Store UsuarioStore
	Log   *zap.Logger
}

// List handles GET /usuarios/admin.
func (h *UsuarioHandler) List(w http.ResponseWriter, r *http.Request) {
	o := listOptions(r.URL.Query(), 20, "sort", "order")
	writeList(w, h.Store.ListUsuarios(r.Context(), o))
}

// Get handles GET /usuarios/{id}.
func (h *UsuarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	u, err := h.Store.GetUsuario(r.Context(), id)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "", u)
}

// Create handles POST /usuarios.
func (h *UsuarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.UsuarioCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}
	// The confirmation field is form-only.
	req.Contrasena2 = req.Contrasena
	if err := validate.Struct(req); err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	u, err := h.Store.CreateUsuario(r.Context(), req)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusCreated, "Usuario creado", u)
}

// Update handles PUT /usuarios/{id}.
func (h *UsuarioHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var req models.UsuarioUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}
	req.Contrasena2 = req.Contrasena
	if err := validate.Struct(req); err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	u, err := h.Store.UpdateUsuario(r.Context(), id, req)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "Usuario actualizado", u)
}

// Delete handles DELETE /usuarios/{id}.
func (h *UsuarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.Store.DeleteUsuario(r.Context(), id); err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "Usuario eliminado", nil)
}
