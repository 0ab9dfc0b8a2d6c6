package portal

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/uecsr/portal/internal/apiclient"
	"github.com/uecsr/portal/internal/listquery"
	"github.com/uecsr/portal/internal/models"
	"github.com/uecsr/portal/internal/validate"
)

// ListNoticiasAdmin lists every news item, including drafts.
func (a *API) ListNoticiasAdmin(ctx context.Context, q listquery.Query) (models.Page[models.Noticia], error) {
	return list[models.Noticia](ctx, a, "/noticias/admin", q, 0)
}

// ListNoticiasPublic lists published news items.
func (a *API) ListNoticiasPublic(ctx context.Context, q listquery.Query) (models.Page[models.Noticia], error) {
	return list[models.Noticia](ctx, a, "/noticias/publico", q, 0)
}

// GetNoticia fetches one news item.
func (a *API) GetNoticia(ctx context.Context, noticiaID int64) (models.Noticia, error) {
	return get[models.Noticia](ctx, a, "/noticias/"+id(noticiaID))
}

// CreateNoticia uploads a new news item.
func (a *API) CreateNoticia(ctx context.Context, p models.NoticiaPayload) (models.Noticia, error) {
	return sendForm[models.Noticia](ctx, a, http.MethodPost, "/noticias", noticiaForm(p))
}

// UpdateNoticia replaces a news item. A nil image keeps the current one.
func (a *API) UpdateNoticia(ctx context.Context, noticiaID int64, p models.NoticiaPayload) (models.Noticia, error) {
	return sendForm[models.Noticia](ctx, a, http.MethodPut, "/noticias/"+id(noticiaID), noticiaForm(p))
}

// DeleteNoticia removes a news item.
func (a *API) DeleteNoticia(ctx context.Context, noticiaID int64) error {
	return a.c.Delete(ctx, "/noticias/"+id(noticiaID), nil)
}

// TogglePublicarNoticia flips a news item between published and draft.
func (a *API) TogglePublicarNoticia(ctx context.Context, noticiaID int64) error {
	return a.c.Patch(ctx, "/noticias/"+id(noticiaID)+"/publicar", nil, nil)
}

func noticiaForm(p models.NoticiaPayload) *apiclient.Form {
	return (&apiclient.Form{}).
		Set("titulo", p.Titulo).
		Set("slug", p.Slug).
		SetIf("resumen", p.Resumen).
		Set("contenido", p.Contenido).
		SetIf("fechaPublicacion", p.FechaPublicacion).
		Set("estado", string(p.Estado)).
		Set("destacado", strconv.FormatBool(p.Destacado)).
		Set("orden", strconv.Itoa(p.Orden)).
		File("imagen", p.Imagen)
}

// ListNoticiaComentarios lists the comments of a news item. Moderators
// pass soloAprobados=false to also see pending ones.
func (a *API) ListNoticiaComentarios(ctx context.Context, noticiaID int64, soloAprobados bool) ([]models.Comentario, error) {
	return comentarios(ctx, a, "/noticias-comentarios/"+id(noticiaID), soloAprobados)
}

// CreateNoticiaComentario posts a comment as the signed-in user.
func (a *API) CreateNoticiaComentario(ctx context.Context, noticiaID int64, p models.ComentarioPayload) (models.Comentario, error) {
	if err := validate.Struct(p); err != nil {
		return models.Comentario{}, err
	}
	return send[models.Comentario](ctx, a, http.MethodPost, "/noticias-comentarios/"+id(noticiaID), p)
}

// DeleteNoticiaComentario removes a comment.
func (a *API) DeleteNoticiaComentario(ctx context.Context, noticiaID, comentarioID int64) error {
	return a.c.Delete(ctx, "/noticias-comentarios/"+id(noticiaID)+"/"+id(comentarioID), nil)
}

func comentarios(ctx context.Context, a *API, path string, soloAprobados bool) ([]models.Comentario, error) {
	out, err := apiclient.Data[[]models.Comentario](ctx, a.c, apiclient.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  url.Values{"soloAprobados": {strconv.FormatBool(soloAprobados)}},
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Comentario{}
	}
	return out, nil
}
