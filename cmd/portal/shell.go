package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/uecsr/portal/internal/apiclient"
	"github.com/uecsr/portal/internal/listquery"
	"github.com/uecsr/portal/internal/models"
)

const shellHelp = `Comandos:
  noticias [admin] | eventos [admin] | foro [admin] | usuarios
  respuestas <preguntaId> [admin]
  next | prev | page <n> | search [texto] | filter <campo> <valor> | reload
  preguntar | comentar <noticiaId>
  publicar <noticiaId> | ocultar <preguntaId> | aprobar <respuestaId>
  login [email] | register | logout | whoami | help | exit`

// pager is the type-independent part of a listquery.Controller.
type pager interface {
	Mount(ctx context.Context) error
	Reload(ctx context.Context) error
	SetPage(ctx context.Context, n int) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	SetSearch(ctx context.Context, s string) error
	SetFilter(ctx context.Context, name, value string) error
}

// listing pairs a controller with the printer of its current view.
type listing struct {
	pager
	render func(w io.Writer)
}

func newListing[T any](ctrl *listquery.Controller[T], line func(T) string) *listing {
	return &listing{
		pager: ctrl,
		render: func(w io.Writer) {
			v := ctrl.View()
			if v.Err != nil && !v.Loaded {
				return
			}
			if v.Empty() {
				fmt.Fprintln(w, "Sin resultados")
			}
			for _, item := range v.Items {
				fmt.Fprintln(w, line(item))
			}
			fmt.Fprintln(w, v.Summary())
		},
	}
}

func (a *app) openListing(ctx context.Context, args []string) (*listing, error) {
	admin := len(args) > 1 && args[1] == "admin"
	path := "/" + args[0]
	var l *listing
	switch args[0] {
	case "noticias":
		fetch := a.api.ListNoticiasPublic
		if admin {
			fetch = a.api.ListNoticiasAdmin
		}
		l = newListing(listquery.New[models.Noticia](fetch, listquery.WithLogger(a.log)), func(n models.Noticia) string {
			return withImage(fmt.Sprintf("#%d [%s] %s", n.ID, n.Estado, n.Titulo), a.api.Client().ImageURL(n.ImagenURL))
		})
	case "eventos":
		fetch := a.api.ListEventosPublic
		if admin {
			fetch = a.api.ListEventosAdmin
		}
		l = newListing(listquery.New[models.Evento](fetch, listquery.WithLogger(a.log)), func(e models.Evento) string {
			return withImage(fmt.Sprintf("#%d %s · %s · %s", e.ID, e.FechaInicio, e.Categoria, e.Titulo), a.api.Client().ImageURL(e.ImagenURL))
		})
	case "foro":
		fetch := a.api.ListForoPublic
		if admin {
			fetch = a.api.ListForoAdmin
		}
		l = newListing(listquery.New[models.ForoPregunta](fetch, listquery.WithLogger(a.log)), func(p models.ForoPregunta) string {
			line := fmt.Sprintf("%s %s (%d respuestas)", p.ID, p.Titulo, p.RespuestasCount)
			if p.Estado != "" {
				line += " [" + string(p.Estado) + "]"
			}
			return line
		})
	case "usuarios":
		l = newListing(listquery.New[models.Usuario](a.api.ListUsuarios, listquery.WithLogger(a.log)), func(u models.Usuario) string {
			return fmt.Sprintf("#%d %s <%s> %s", u.ID, u.FullName(), u.Email, u.Rol)
		})
	case "respuestas":
		if len(args) < 2 || args[1] == "admin" {
			return nil, fmt.Errorf("uso: respuestas <preguntaId> [admin]")
		}
		admin = len(args) > 2 && args[2] == "admin"
		path = "/foro/" + args[1] + "/respuestas"
		fetch := a.api.RespuestasFetcher(args[1], admin)
		l = newListing(listquery.New(fetch, listquery.WithLogger(a.log)), func(r models.RespuestaForo) string {
			return fmt.Sprintf("#%d %s: %s [%s]", r.ID, r.AutorNombre, r.Contenido, r.Estado)
		})
	}
	if admin || args[0] == "usuarios" {
		path = "/admin" + path
	}
	a.nav.Navigate(path)
	return l, l.Mount(ctx)
}

func withImage(line, url string) string {
	if url == "" {
		return line
	}
	return line + " (" + url + ")"
}

// shell runs the interactive loop until exit or end of input.
func (a *app) shell(ctx context.Context) {
	var current *listing
	fmt.Fprintln(a.out, "Escriba 'help' para ver los comandos.")

	for {
		line, ok := a.prompt(a.promptLabel())
		if !ok {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		redirects := a.nav.Redirects()
		l, err := a.exec(ctx, current, args)
		if errors.Is(err, errExit) {
			fmt.Fprintln(a.out, "Hasta luego")
			return
		}
		if l != nil {
			current = l
		}
		if err != nil {
			fmt.Fprintln(a.out, "Error:", apiclient.Message(err))
		}
		// A rejected login or register also ends the old session, but the
		// command already reported why.
		if a.nav.Redirects() > redirects && !signInCommand(args[0]) {
			fmt.Fprintln(a.out, "Sesión expirada. Inicie sesión nuevamente.")
		}
	}
}

var errExit = errors.New("exit")

func signInCommand(name string) bool {
	return name == "login" || name == "register"
}

// exec runs one command. It returns the listing to show from now on, if
// the command opened or changed one.
func (a *app) exec(ctx context.Context, current *listing, args []string) (*listing, error) {
	switch args[0] {
	case "help":
		fmt.Fprintln(a.out, shellHelp)
	case "exit", "quit":
		return nil, errExit
	case "whoami":
		a.whoami()
	case "login":
		email := ""
		if len(args) > 1 {
			email = args[1]
		}
		_ = a.login(ctx, email)
	case "register":
		_ = a.register(ctx, "")
	case "logout":
		return nil, a.logout(ctx)

	case "noticias", "eventos", "foro", "usuarios", "respuestas":
		l, err := a.openListing(ctx, args)
		if l != nil {
			l.render(a.out)
		}
		return l, err

	case "next", "prev", "page", "search", "filter", "reload":
		if current == nil {
			return nil, fmt.Errorf("abra primero un listado")
		}
		if err := a.paginate(ctx, current, args); err != nil {
			return current, err
		}
		current.render(a.out)
		return current, nil

	case "preguntar":
		return nil, a.preguntar(ctx)
	case "comentar":
		return nil, a.comentar(ctx, args)
	case "publicar":
		id, err := intArg(args)
		if err != nil {
			return nil, err
		}
		if err := a.api.TogglePublicarNoticia(ctx, id); err != nil {
			return nil, err
		}
		fmt.Fprintln(a.out, "Estado de publicación actualizado")
	case "ocultar":
		if len(args) < 2 {
			return nil, fmt.Errorf("uso: ocultar <preguntaId>")
		}
		p, err := a.api.ToggleOcultaPregunta(ctx, args[1])
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(a.out, "Pregunta %s: %s\n", p.ID, p.Estado)
	case "aprobar":
		id, err := intArg(args)
		if err != nil {
			return nil, err
		}
		r, err := a.api.UpdateRespuestaEstado(ctx, id, models.RespuestaAprobada)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(a.out, "Respuesta #%d: %s\n", r.ID, r.Estado)
	default:
		fmt.Fprintln(a.out, "Comando desconocido. Escriba 'help'.")
	}
	return nil, nil
}

func (a *app) paginate(ctx context.Context, l *listing, args []string) error {
	switch args[0] {
	case "next":
		return l.Next(ctx)
	case "prev":
		return l.Prev(ctx)
	case "reload":
		return l.Reload(ctx)
	case "search":
		return l.SetSearch(ctx, strings.Join(args[1:], " "))
	case "page":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return l.SetPage(ctx, int(n))
	case "filter":
		if len(args) < 3 {
			return fmt.Errorf("uso: filter <campo> <valor>")
		}
		return l.SetFilter(ctx, args[1], strings.Join(args[2:], " "))
	}
	return nil
}

func (a *app) preguntar(ctx context.Context) error {
	titulo, _ := a.prompt("Título: ")
	contenido, _ := a.prompt("Pregunta: ")
	categoria, _ := a.prompt("Categoría (NOTICIA, EVENTO, ADMISION, INFORMACION, OTRO): ")
	p, err := a.api.CreatePregunta(ctx, models.ForoPreguntaPayload{
		Titulo:    titulo,
		Contenido: contenido,
		Categoria: models.ForoCategoria(strings.ToUpper(categoria)),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Pregunta enviada (%s); será publicada tras revisión\n", p.ID)
	return nil
}

func (a *app) comentar(ctx context.Context, args []string) error {
	id, err := intArg(args)
	if err != nil {
		return err
	}
	contenido, _ := a.prompt("Comentario: ")
	c, err := a.api.CreateNoticiaComentario(ctx, id, models.ComentarioPayload{Contenido: contenido})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Comentario #%d publicado\n", c.ID)
	return nil
}

func intArg(args []string) (int64, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("uso: %s <id>", args[0])
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("identificador inválido: %s", args[1])
	}
	return id, nil
}
