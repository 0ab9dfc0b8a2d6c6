package portal

import (
	"context"
	"net/http"

	"github.com/uecsr/portal/internal/listquery"
	"github.com/uecsr/portal/internal/models"
	"github.com/uecsr/portal/internal/validate"
)

// ListUsuarios lists accounts for the admin panel. Filters "sort" and
// "order" (ASC or DESC) are passed through.
func (a *API) ListUsuarios(ctx context.Context, q listquery.Query) (models.Page[models.Usuario], error) {
	return list[models.Usuario](ctx, a, "/usuarios/admin", q, UsuariosLimit)
}

// GetUsuario fetches one account.
func (a *API) GetUsuario(ctx context.Context, usuarioID int64) (models.Usuario, error) {
	return get[models.Usuario](ctx, a, "/usuarios/"+id(usuarioID))
}

// CreateUsuario validates p and creates the account.
func (a *API) CreateUsuario(ctx context.Context, p models.UsuarioCreate) (models.Usuario, error) {
	if err := validate.Struct(p); err != nil {
		return models.Usuario{}, err
	}
	return send[models.Usuario](ctx, a, http.MethodPost, "/usuarios", p)
}

// UpdateUsuario validates p and applies its non-empty fields.
func (a *API) UpdateUsuario(ctx context.Context, usuarioID int64, p models.UsuarioUpdate) (models.Usuario, error) {
	if err := validate.Struct(p); err != nil {
		return models.Usuario{}, err
	}
	return send[models.Usuario](ctx, a, http.MethodPut, "/usuarios/"+id(usuarioID), p)
}

// DeleteUsuario removes an account.
func (a *API) DeleteUsuario(ctx context.Context, usuarioID int64) error {
	return a.c.Delete(ctx, "/usuarios/"+id(usuarioID), nil)
}
