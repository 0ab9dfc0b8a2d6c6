package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/uecsr/portal/internal/middleware"
	"github.com/uecsr/portal/internal/repository"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Auth               *AuthHandler
	Content            *ContentHandler
	NoticiaComentarios *ComentarioHandler
	EventoComentarios  *ComentarioHandler
	Foro               *ForoHandler
	Usuarios           *UsuarioHandler
	Uploads            *Uploads
}

// NewRouter constructs the development API.
//
// Middleware chain (applied in order):
//  1. AllowContentType rejects bodies that are neither JSON nor multipart
//  2. WithRequestLogging logs every request
//  3. per group: OptionalAuth, BearerAuth and the role gates
//
// Reads of published content are public. Comments and answers need a
// signed-in user, content management needs ADMIN or STAFF and account
// management needs ADMIN.
func NewRouter(h Handlers, tokens *middleware.Tokens, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.AllowContentType("application/json", "multipart/form-data"))
	r.Use(middleware.WithRequestLogging(logger))

	optional := middleware.OptionalAuth(tokens)
	bearer := middleware.BearerAuth(tokens)

	r.Get("/uploads/{name}", h.Uploads.Serve)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Auth.Login)
		r.Post("/register", h.Auth.Register)
	})

	r.Route("/noticias", func(r chi.Router) {
		r.Get("/publico", h.Content.ListNoticias(true))
		r.Get("/{id}", h.Content.GetNoticia)
		r.Group(func(r chi.Router) {
			r.Use(bearer, middleware.RequireModerator)
			r.Get("/admin", h.Content.ListNoticias(false))
			r.Post("/", h.Content.SaveNoticia)
			r.Put("/{id}", h.Content.SaveNoticia)
			r.Delete("/{id}", h.Content.DeleteNoticia)
			r.Patch("/{id}/publicar", h.Content.TogglePublicar)
		})
	})

	r.Route("/eventos", func(r chi.Router) {
		r.Get("/publico", h.Content.ListEventos(true))
		r.Get("/{id}", h.Content.GetEvento)
		r.Group(func(r chi.Router) {
			r.Use(bearer, middleware.RequireModerator)
			r.Get("/admin", h.Content.ListEventos(false))
			r.Post("/", h.Content.SaveEvento)
			r.Put("/{id}", h.Content.SaveEvento)
			r.Delete("/{id}", h.Content.DeleteEvento)
		})
	})

	mountComentarios(r, "/noticias-comentarios", h.NoticiaComentarios, optional, bearer)
	mountComentarios(r, "/eventos-comentarios", h.EventoComentarios, optional, bearer)

	r.Route("/preguntas-foro", func(r chi.Router) {
		r.Get("/public", h.Foro.ListPreguntas(true))
		r.With(optional).Post("/public", h.Foro.CreatePregunta(true))
		r.Get("/{id}", h.Foro.GetPregunta(true))
		r.Group(func(r chi.Router) {
			r.Use(bearer, middleware.RequireModerator)
			r.Get("/admin", h.Foro.ListPreguntas(false))
			r.Post("/admin", h.Foro.CreatePregunta(false))
			r.Get("/{id}/admin", h.Foro.GetPregunta(false))
			r.Put("/{id}", h.Foro.UpdatePregunta)
			r.Put("/{id}/toggle-oculta", h.Foro.ToggleOcultaPregunta)
			r.Delete("/{id}", h.Foro.DeletePregunta)
		})
	})

	r.Route("/respuestas-foro", func(r chi.Router) {
		r.Get("/pregunta/{id}", h.Foro.ListRespuestas(true))
		r.With(bearer).Post("/", h.Foro.CreateRespuesta)
		r.Group(func(r chi.Router) {
			r.Use(bearer, middleware.RequireModerator)
			r.Get("/pregunta/{id}/admin", h.Foro.ListRespuestas(false))
			r.Put("/{id}/estado", h.Foro.SetRespuestaEstado)
			r.Put("/{id}/toggle-oculta", h.Foro.ToggleOcultaRespuesta)
			r.Delete("/{id}", h.Foro.DeleteRespuesta)
		})
	})

	r.Route("/usuarios", func(r chi.Router) {
		r.Use(bearer, middleware.RequireAdmin)
		r.Get("/admin", h.Usuarios.List)
		r.Post("/", h.Usuarios.Create)
		r.Get("/{id}", h.Usuarios.Get)
		r.Put("/{id}", h.Usuarios.Update)
		r.Delete("/{id}", h.Usuarios.Delete)
	})

	return r
}

// NewMemoryRouter wires every handler to one in-memory repository.
func NewMemoryRouter(repo *repository.Memory, tokens *middleware.Tokens, logger *zap.Logger) http.Handler {
	uploads := NewUploads()
	return NewRouter(Handlers{
		Auth:               &AuthHandler{AuthService: repo, Tokens: tokens, Log: logger},
		Content:            &ContentHandler{Noticias: repo, Eventos: repo, Uploads: uploads, Log: logger},
		NoticiaComentarios: &ComentarioHandler{Store: repo, Users: repo, Target: repository.TargetNoticia, Log: logger},
		EventoComentarios:  &ComentarioHandler{Store: repo, Users: repo, Target: repository.TargetEvento, Log: logger},
		Foro:               &ForoHandler{Store: repo, Users: repo, Log: logger},
		Usuarios:           &UsuarioHandler{Store: repo, Log: logger},
		Uploads:            uploads,
	}, tokens, logger)
}

func mountComentarios(r chi.Router, prefix string, h *ComentarioHandler, optional, bearer func(http.Handler) http.Handler) {
	r.Route(prefix, func(r chi.Router) {
		r.With(optional).Get("/{id}", h.List)
		r.With(bearer).Post("/{id}", h.Create)
		r.Group(func(r chi.Router) {
			r.Use(bearer, middleware.RequireModerator)
			r.Delete("/{id}/{comentarioId}", h.Delete)
			r.Put("/{id}/{comentarioId}/aprobar", h.ToggleAprobar)
		})
	})
}

func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
