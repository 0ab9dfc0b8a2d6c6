package portal

import (
	"context"
	"net/http"
	"net/url"

	"github.com/uecsr/portal/internal/listquery"
	"github.com/uecsr/portal/internal/models"
	"github.com/uecsr/portal/internal/validate"
)

// ListForoPublic lists approved forum questions. Filter "categoria"
// narrows them.
func (a *API) ListForoPublic(ctx context.Context, q listquery.Query) (models.Page[models.ForoPregunta], error) {
	return list[models.ForoPregunta](ctx, a, "/preguntas-foro/public", q, ForoLimit)
}

// ListForoAdmin lists every forum question. Filters "categoria" and
// "estado" narrow them.
func (a *API) ListForoAdmin(ctx context.Context, q listquery.Query) (models.Page[models.ForoPregunta], error) {
	return list[models.ForoPregunta](ctx, a, "/preguntas-foro/admin", q, ForoLimit)
}

// GetPregunta fetches a question as the public sees it.
func (a *API) GetPregunta(ctx context.Context, preguntaID string) (models.ForoPregunta, error) {
	return get[models.ForoPregunta](ctx, a, "/preguntas-foro/"+url.PathEscape(preguntaID))
}

// GetPreguntaAdmin fetches a question with its moderation fields.
func (a *API) GetPreguntaAdmin(ctx context.Context, preguntaID string) (models.ForoPregunta, error) {
	return get[models.ForoPregunta](ctx, a, "/preguntas-foro/"+url.PathEscape(preguntaID)+"/admin")
}

// CreatePregunta submits a question for moderation. Estado and
// RespuestaAdmin are not sent.
func (a *API) CreatePregunta(ctx context.Context, p models.ForoPreguntaPayload) (models.ForoPregunta, error) {
	p.Estado, p.RespuestaAdmin = "", ""
	if err := validate.Struct(p); err != nil {
		return models.ForoPregunta{}, err
	}
	return send[models.ForoPregunta](ctx, a, http.MethodPost, "/preguntas-foro/public", p)
}

// CreatePreguntaAdmin creates a question with an explicit state.
func (a *API) CreatePreguntaAdmin(ctx context.Context, p models.ForoPreguntaPayload) (models.ForoPregunta, error) {
	if err := validate.Struct(p); err != nil {
		return models.ForoPregunta{}, err
	}
	return send[models.ForoPregunta](ctx, a, http.MethodPost, "/preguntas-foro/admin", p)
}

// UpdatePregunta applies the non-empty fields of p.
func (a *API) UpdatePregunta(ctx context.Context, preguntaID string, p models.ForoPreguntaPayload) (models.ForoPregunta, error) {
	return send[models.ForoPregunta](ctx, a, http.MethodPut, "/preguntas-foro/"+url.PathEscape(preguntaID), p)
}

// DeletePregunta removes a question and its answers.
func (a *API) DeletePregunta(ctx context.Context, preguntaID string) error {
	return a.c.Delete(ctx, "/preguntas-foro/"+url.PathEscape(preguntaID), nil)
}

// ToggleOcultaPregunta hides a question or restores it.
func (a *API) ToggleOcultaPregunta(ctx context.Context, preguntaID string) (models.ForoPregunta, error) {
	return send[models.ForoPregunta](ctx, a, http.MethodPut,
		"/preguntas-foro/"+url.PathEscape(preguntaID)+"/toggle-oculta", nil)
}
