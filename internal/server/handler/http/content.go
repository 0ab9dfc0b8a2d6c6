package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/uecsr/portal/internal/models"
	"github.com/uecsr/portal/internal/repository"
	"github.com/uecsr/portal/internal/validate"
)

// NoticiaStore persists news items.
type NoticiaStore interface {
	SaveNoticia(ctx context.Context, id int64, in models.Noticia) (models.Noticia, error)
	GetNoticia(ctx context.Context, id int64) (models.Noticia, error)
	DeleteNoticia(ctx context.Context, id int64) error
	TogglePublicarNoticia(ctx context.Context, id int64) (models.Noticia, error)
	ListNoticias(ctx context.Context, o repository.ListOptions, public bool) repository.Result[models.Noticia]
}

// EventoStore persists events.
type EventoStore interface {
	SaveEvento(ctx context.Context, id int64, in models.Evento) (models.Evento, error)
	GetEvento(ctx context.Context, id int64) (models.Evento, error)
	DeleteEvento(ctx context.Context, id int64) error
	ListEventos(ctx context.Context, o repository.ListOptions, public bool) repository.Result[models.Evento]
}

// noticiaForm is the multipart body of news item create and update.
type noticiaForm struct {
	Titulo           string `json:"titulo" validate:"required,notblank,max=200"`
	Slug             string `json:"slug" validate:"omitempty,max=200"`
	Resumen          string `json:"resumen"`
	Contenido        string `json:"contenido" validate:"required,notblank"`
	FechaPublicacion string `json:"fechaPublicacion"`
	Estado           string `json:"estado" validate:"omitempty,oneof=BORRADOR PUBLICADO OCULTO"`
	Destacado        bool   `json:"destacado"`
	Orden            int    `json:"orden"`
}

type eventoForm struct {
	Titulo      string `json:"titulo" validate:"required,notblank,max=200"`
	Resumen     string `json:"resumen" validate:"required,notblank"`
	Descripcion string `json:"descripcion"`
	FechaInicio string `json:"fechaInicio" validate:"required"`
	FechaFin    string `json:"fechaFin"`
	Lugar       string `json:"lugar" validate:"required,notblank"`
	Estado      string `json:"estado" validate:"omitempty,oneof=PROGRAMADO EN_CURSO FINALIZADO CANCELADO"`
	Categoria   string `json:"categoria"`
	Orden       int    `json:"orden"`
}

// ContentHandler serves news items and events.
type ContentHandler struct {
	Noticias NoticiaStore
	Eventos  EventoStore
	Uploads  *Uploads
	Log      *zap.Logger
}

// ListNoticias handles GET /noticias/publico and /noticias/admin.
func (h *ContentHandler) ListNoticias(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o := listOptions(r.URL.Query(), 10, "estado")
		writeList(w, h.Noticias.ListNoticias(r.Context(), o, public))
	}
}

// GetNoticia handles GET /noticias/{id}.
func (h *ContentHandler) GetNoticia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	n, err := h.Noticias.GetNoticia(r.Context(), id)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "", n)
}

// SaveNoticia handles POST /noticias and PUT /noticias/{id}.
func (h *ContentHandler) SaveNoticia(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Formulario inválido")
		return
	}
	form := noticiaForm{
		Titulo:           r.FormValue("titulo"),
		Slug:             r.FormValue("slug"),
		Resumen:          r.FormValue("resumen"),
		Contenido:        r.FormValue("contenido"),
		FechaPublicacion: r.FormValue("fechaPublicacion"),
		Estado:           r.FormValue("estado"),
		Destacado:        formBool(r, "destacado"),
		Orden:            formInt(r, "orden"),
	}
	if err := validate.Struct(form); err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	imagen, err := h.Uploads.Save(r, "imagen")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Imagen inválida")
		return
	}

	in := models.Noticia{
		Titulo:    form.Titulo,
		Slug:      form.Slug,
		Resumen:   form.Resumen,
		Contenido: form.Contenido,
		ImagenURL: imagen,
		Estado:    models.EstadoNoticia(form.Estado),
		Destacado: form.Destacado,
		Orden:     form.Orden,
	}
	if form.FechaPublicacion != "" {
		in.FechaPublicacion = &form.FechaPublicacion
	}
	n, err := h.Noticias.SaveNoticia(r.Context(), id, in)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, savedStatus(id), "Noticia guardada", n)
}

// DeleteNoticia handles DELETE /noticias/{id}.
func (h *ContentHandler) DeleteNoticia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.Noticias.DeleteNoticia(r.Context(), id); err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "Noticia eliminada", nil)
}

// TogglePublicar handles PATCH /noticias/{id}/publicar.
func (h *ContentHandler) TogglePublicar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	n, err := h.Noticias.TogglePublicarNoticia(r.Context(), id)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "Estado actualizado", n)
}

// ListEventos handles GET /eventos/publico and /eventos/admin.
func (h *ContentHandler) ListEventos(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o := listOptions(r.URL.Query(), 10, "categoria", "estado")
		writeList(w, h.Eventos.ListEventos(r.Context(), o, public))
	}
}

// GetEvento handles GET /eventos/{id}.
func (h *ContentHandler) GetEvento(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	e, err := h.Eventos.GetEvento(r.Context(), id)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "", e)
}

// SaveEvento handles POST /eventos and PUT /eventos/{id}.
func (h *ContentHandler) SaveEvento(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Formulario inválido")
		return
	}
	form := eventoForm{
		Titulo:      r.FormValue("titulo"),
		Resumen:     r.FormValue("resumen"),
		Descripcion: r.FormValue("descripcion"),
		FechaInicio: r.FormValue("fechaInicio"),
		FechaFin:    r.FormValue("fechaFin"),
		Lugar:       r.FormValue("lugar"),
		Estado:      r.FormValue("estado"),
		Categoria:   r.FormValue("categoria"),
		Orden:       formInt(r, "orden"),
	}
	if err := validate.Struct(form); err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	imagen, err := h.Uploads.Save(r, "imagen")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Imagen inválida")
		return
	}

	in := models.Evento{
		Titulo:      form.Titulo,
		Resumen:     form.Resumen,
		Descripcion: form.Descripcion,
		FechaInicio: form.FechaInicio,
		Lugar:       form.Lugar,
		Estado:      models.EstadoEvento(form.Estado),
		Categoria:   models.CategoriaEvento(form.Categoria),
		ImagenURL:   imagen,
		Orden:       form.Orden,
	}
	if form.FechaFin != "" {
		in.FechaFin = &form.FechaFin
	}
	e, err := h.Eventos.SaveEvento(r.Context(), id, in)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, savedStatus(id), "Evento guardado", e)
}

// DeleteEvento handles DELETE /eventos/{id}.
func (h *ContentHandler) DeleteEvento(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.Eventos.DeleteEvento(r.Context(), id); err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, http.StatusOK, "Evento eliminado", nil)
}

func savedStatus(id int64) int {
	if id == 0 {
		return http.StatusCreated
	}
	return http.StatusOK
}

func formBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(r.FormValue(name)))
	return b
}

func formInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(r.FormValue(name)))
	return n
}
