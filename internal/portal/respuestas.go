package portal

import (
	"context"
	"net/http"
	"net/url"

	"github.com/uecsr/portal/internal/listquery"
	"github.com/uecsr/portal/internal/models"
	"github.com/uecsr/portal/internal/validate"
)

// RespuestasFetcher lists the answers to one question. The admin variant
// includes answers that are pending or hidden.
func (a *API) RespuestasFetcher(preguntaID string, admin bool) listquery.Fetcher[models.RespuestaForo] {
	path := "/respuestas-foro/pregunta/" + url.PathEscape(preguntaID)
	if admin {
		path += "/admin"
	}
	return func(ctx context.Context, q listquery.Query) (models.Page[models.RespuestaForo], error) {
		return list[models.RespuestaForo](ctx, a, path, q, RespuestasLimit)
	}
}

// CreateRespuesta answers a question as the signed-in user.
func (a *API) CreateRespuesta(ctx context.Context, p models.RespuestaPayload) (models.RespuestaForo, error) {
	if err := validate.Struct(p); err != nil {
		return models.RespuestaForo{}, err
	}
	return send[models.RespuestaForo](ctx, a, http.MethodPost, "/respuestas-foro", p)
}

// UpdateRespuestaEstado moderates an answer.
func (a *API) UpdateRespuestaEstado(ctx context.Context, respuestaID int64, estado models.EstadoRespuesta) (models.RespuestaForo, error) {
	body := struct {
		Estado models.EstadoRespuesta `json:"estado"`
	}{estado}
	return send[models.RespuestaForo](ctx, a, http.MethodPut, "/respuestas-foro/"+id(respuestaID)+"/estado", body)
}

// ToggleOcultaRespuesta hides an answer or restores it.
func (a *API) ToggleOcultaRespuesta(ctx context.Context, respuestaID int64) (models.RespuestaForo, error) {
	return send[models.RespuestaForo](ctx, a, http.MethodPut, "/respuestas-foro/"+id(respuestaID)+"/toggle-oculta", nil)
}

// DeleteRespuesta removes an answer.
func (a *API) DeleteRespuesta(ctx context.Context, respuestaID int64) error {
	return a.c.Delete(ctx, "/respuestas-foro/"+id(respuestaID), nil)
}
