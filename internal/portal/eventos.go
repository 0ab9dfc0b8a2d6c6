package portal

import (
	"context"
	"net/http"
	"strconv"

	"github.com/uecsr/portal/internal/apiclient"
	"github.com/uecsr/portal/internal/listquery"
	"github.com/uecsr/portal/internal/models"
	"github.com/uecsr/portal/internal/validate"
)

// ListEventosAdmin lists every event.
func (a *API) ListEventosAdmin(ctx context.Context, q listquery.Query) (models.Page[models.Evento], error) {
	return list[models.Evento](ctx, a, "/eventos/admin", q, 0)
}

// ListEventosPublic lists public events; filter "categoria" narrows them.
func (a *API) ListEventosPublic(ctx context.Context, q listquery.Query) (models.Page[models.Evento], error) {
	return list[models.Evento](ctx, a, "/eventos/publico", q, EventosLimit)
}

// GetEvento fetches one event.
func (a *API) GetEvento(ctx context.Context, eventoID int64) (models.Evento, error) {
	return get[models.Evento](ctx, a, "/eventos/"+id(eventoID))
}

// CreateEvento uploads a new event.
func (a *API) CreateEvento(ctx context.Context, p models.EventoPayload) (models.Evento, error) {
	return sendForm[models.Evento](ctx, a, http.MethodPost, "/eventos", eventoForm(p))
}

// UpdateEvento replaces an event. A nil image keeps the current one.
func (a *API) UpdateEvento(ctx context.Context, eventoID int64, p models.EventoPayload) (models.Evento, error) {
	return sendForm[models.Evento](ctx, a, http.MethodPut, "/eventos/"+id(eventoID), eventoForm(p))
}

// DeleteEvento removes an event.
func (a *API) DeleteEvento(ctx context.Context, eventoID int64) error {
	return a.c.Delete(ctx, "/eventos/"+id(eventoID), nil)
}

func eventoForm(p models.EventoPayload) *apiclient.Form {
	return (&apiclient.Form{}).
		Set("titulo", p.Titulo).
		Set("resumen", p.Resumen).
		SetIf("descripcion", p.Descripcion).
		Set("fechaInicio", p.FechaInicio).
		SetIf("fechaFin", p.FechaFin).
		Set("lugar", p.Lugar).
		Set("estado", string(p.Estado)).
		Set("categoria", string(p.Categoria)).
		Set("orden", strconv.Itoa(p.Orden)).
		File("imagen", p.Imagen)
}

// ListEventoComentarios lists the comments of an event.
func (a *API) ListEventoComentarios(ctx context.Context, eventoID int64, soloAprobados bool) ([]models.Comentario, error) {
	return comentarios(ctx, a, "/eventos-comentarios/"+id(eventoID), soloAprobados)
}

// CreateEventoComentario posts a comment as the signed-in user.
func (a *API) CreateEventoComentario(ctx context.Context, eventoID int64, p models.ComentarioPayload) (models.Comentario, error) {
	if err := validate.Struct(p); err != nil {
		return models.Comentario{}, err
	}
	return send[models.Comentario](ctx, a, http.MethodPost, "/eventos-comentarios/"+id(eventoID), p)
}

// DeleteEventoComentario removes a comment.
func (a *API) DeleteEventoComentario(ctx context.Context, eventoID, comentarioID int64) error {
	return a.c.Delete(ctx, "/eventos-comentarios/"+id(eventoID)+"/"+id(comentarioID), nil)
}

// ToggleAprobarEventoComentario flips a comment's approval.
func (a *API) ToggleAprobarEventoComentario(ctx context.Context, eventoID, comentarioID int64) (models.Comentario, error) {
	return send[models.Comentario](ctx, a, http.MethodPut,
		"/eventos-comentarios/"+id(eventoID)+"/"+id(comentarioID)+"/aprobar", nil)
}
