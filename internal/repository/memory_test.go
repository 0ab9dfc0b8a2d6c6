package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/uecsr/portal/internal/models"
)

func newTestRepo() *Memory {
	tick := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	return NewMemory(
		WithHashCost(bcrypt.MinCost),
		WithClock(func() time.Time {
			tick = tick.Add(time.Minute)
			return tick
		}),
	)
}

func TestUsuarios(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	admin, err := repo.CreateUsuario(ctx, models.UsuarioCreate{
		Nombres: "Ana", Apellidos: "Paz", Email: "Admin@X.com", Contrasena: "secret1", Rol: models.RolAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@x.com", admin.Email)
	require.NotNil(t, admin.Activo)
	assert.True(t, *admin.Activo)

	_, err = repo.CreateUsuario(ctx, models.UsuarioCreate{Nombres: "B", Apellidos: "C", Email: "ADMIN@x.com", Contrasena: "123456"})
	assert.True(t, errors.Is(err, ErrConflict))

	got, err := repo.Authenticate(ctx, "admin@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	_, err = repo.Authenticate(ctx, "admin@x.com", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, err = repo.Authenticate(ctx, "nobody@x.com", "secret1")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	inactive := false
	_, err = repo.UpdateUsuario(ctx, admin.ID, models.UsuarioUpdate{Activo: &inactive, Contrasena: "nuevo12"})
	require.NoError(t, err)
	_, err = repo.Authenticate(ctx, "admin@x.com", "nuevo12")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = repo.GetUsuario(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))
	require.NoError(t, repo.DeleteUsuario(ctx, admin.ID))
	assert.True(t, errors.Is(repo.DeleteUsuario(ctx, admin.ID), ErrNotFound))
}

func TestListUsuarios_SortAndPage(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	for _, name := range []string{"Carla", "ana", "Beto"} {
		_, err := repo.CreateUsuario(ctx, models.UsuarioCreate{
			Nombres: name, Apellidos: "X", Email: name + "@x.com", Contrasena: "123456",
		})
		require.NoError(t, err)
	}

	res := repo.ListUsuarios(ctx, ListOptions{Page: 1, Limit: 2, Filters: map[string]string{"sort": "nombres", "order": "DESC"}})
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Carla", res.Items[0].Nombres)
	assert.Equal(t, "Beto", res.Items[1].Nombres)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.TotalPages())

	res = repo.ListUsuarios(ctx, ListOptions{Page: 2, Limit: 2, Filters: map[string]string{"sort": "nombres"}})
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Carla", res.Items[0].Nombres)

	res = repo.ListUsuarios(ctx, ListOptions{Page: 9, Limit: 2})
	assert.Empty(t, res.Items)

	res = repo.ListUsuarios(ctx, ListOptions{Search: "BETO"})
	assert.Equal(t, 1, res.Total)
}

func TestNoticias(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	n, err := repo.SaveNoticia(ctx, 0, models.Noticia{Titulo: "Inicio de clases 2026", Contenido: "x", ImagenURL: "/uploads/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "inicio-de-clases-2026", n.Slug)
	assert.Equal(t, models.NoticiaBorrador, n.Estado)

	_, err = repo.SaveNoticia(ctx, 0, models.Noticia{Titulo: "Otra", Slug: n.Slug})
	assert.True(t, errors.Is(err, ErrConflict))

	updated, err := repo.SaveNoticia(ctx, n.ID, models.Noticia{Titulo: "Inicio", Slug: n.Slug, Contenido: "y"})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.png", updated.ImagenURL)
	assert.Equal(t, n.CreatedAt, updated.CreatedAt)

	assert.Zero(t, repo.ListNoticias(ctx, ListOptions{}, true).Total)

	pub, err := repo.TogglePublicarNoticia(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NoticiaPublicado, pub.Estado)
	assert.NotNil(t, pub.FechaPublicacion)
	assert.Equal(t, 1, repo.ListNoticias(ctx, ListOptions{}, true).Total)
	assert.Equal(t, 0, repo.ListNoticias(ctx, ListOptions{Filters: map[string]string{"estado": "BORRADOR"}}, false).Total)

	c, err := repo.AddComentario(ctx, TargetNoticia, n.ID, models.Usuario{ID: 3, Nombres: "Luis"}, "Excelente")
	require.NoError(t, err)
	assert.True(t, c.Aprobado)

	require.NoError(t, repo.DeleteNoticia(ctx, n.ID))
	_, err = repo.ListComentarios(ctx, TargetNoticia, n.ID, false)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEventosAndComentarios(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	feria, err := repo.SaveEvento(ctx, 0, models.Evento{Titulo: "Feria", FechaInicio: "2026-05-02", Categoria: models.CategoriaCultural})
	require.NoError(t, err)
	_, err = repo.SaveEvento(ctx, 0, models.Evento{Titulo: "Minga", FechaInicio: "2026-04-01", Categoria: models.CategoriaAmbiental})
	require.NoError(t, err)
	_, err = repo.SaveEvento(ctx, 0, models.Evento{Titulo: "Suspendido", FechaInicio: "2026-01-01", Estado: models.EventoCancelado})
	require.NoError(t, err)

	res := repo.ListEventos(ctx, ListOptions{}, true)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Minga", res.Items[0].Titulo)

	res = repo.ListEventos(ctx, ListOptions{Filters: map[string]string{"categoria": "CULTURAL"}}, true)
	require.Len(t, res.Items, 1)
	assert.Equal(t, feria.ID, res.Items[0].ID)

	c, err := repo.AddComentario(ctx, TargetEvento, feria.ID, models.Usuario{ID: 3, Nombres: "Luis"}, "¿Hay entrada?")
	require.NoError(t, err)
	assert.False(t, c.Aprobado)

	visible, err := repo.ListComentarios(ctx, TargetEvento, feria.ID, true)
	require.NoError(t, err)
	assert.Empty(t, visible)

	c, err = repo.ToggleAprobarComentario(ctx, TargetEvento, feria.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, c.Aprobado)
	visible, err = repo.ListComentarios(ctx, TargetEvento, feria.ID, true)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	assert.True(t, errors.Is(repo.DeleteComentario(ctx, TargetNoticia, feria.ID, c.ID), ErrNotFound))
	require.NoError(t, repo.DeleteComentario(ctx, TargetEvento, feria.ID, c.ID))
}

func TestForo(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	visitor := &models.Usuario{ID: 5, Nombres: "Eva", Email: "eva@x.com", Rol: models.RolPublico}

	p := repo.CreatePregunta(ctx, models.ForoPreguntaPayload{Titulo: "¿Matrículas?", Contenido: "¿Cuándo?", Categoria: models.ForoAdmision}, visitor)
	assert.Equal(t, models.ForoNueva, p.Estado)
	assert.Equal(t, "Eva", p.AutorNombre)
	assert.Len(t, p.ID, 36)

	_, err := repo.GetPregunta(ctx, p.ID, true)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Zero(t, repo.ListPreguntas(ctx, ListOptions{}, true).Total)

	_, err = repo.UpdatePregunta(ctx, p.ID, models.ForoPreguntaPayload{Estado: models.ForoAprobada, RespuestaAdmin: "En abril"})
	require.NoError(t, err)

	r, err := repo.CreateRespuesta(ctx, models.RespuestaPayload{PreguntaID: p.ID, Contenido: "Gracias"}, *visitor)
	require.NoError(t, err)
	assert.Equal(t, models.RespuestaPendiente, r.Estado)
	staff, err := repo.CreateRespuesta(ctx, models.RespuestaPayload{PreguntaID: p.ID, Contenido: "En abril"}, models.Usuario{ID: 1, Rol: models.RolStaff})
	require.NoError(t, err)
	assert.Equal(t, models.RespuestaAprobada, staff.Estado)

	public, err := repo.GetPregunta(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, public.RespuestasCount)
	assert.Empty(t, public.AutorEmail)
	assert.Empty(t, public.Estado)

	list, err := repo.ListRespuestas(ctx, p.ID, ListOptions{Limit: 50}, true)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	list, err = repo.ListRespuestas(ctx, p.ID, ListOptions{Limit: 50}, false)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	hidden, err := repo.ToggleOcultaRespuesta(ctx, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RespuestaOculta, hidden.Estado)

	q, err := repo.ToggleOcultaPregunta(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ForoOculta, q.Estado)
	assert.Equal(t, 1, repo.ListPreguntas(ctx, ListOptions{Filters: map[string]string{"estado": "OCULTA"}}, false).Total)

	require.NoError(t, repo.DeletePregunta(ctx, p.ID))
	_, err = repo.ListRespuestas(ctx, p.ID, ListOptions{}, false)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = repo.SetRespuestaEstado(ctx, r.ID, models.RespuestaAprobada)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPaginate(t *testing.T) {
	var in []int
	for i := 0; i < 25; i++ {
		in = append(in, i)
	}
	less := func(a, b int) bool { return a < b }

	tests := []struct {
		o         ListOptions
		wantLen   int
		wantFirst int
		wantPages int
	}{
		{ListOptions{Page: 1, Limit: 10}, 10, 0, 3},
		{ListOptions{Page: 3, Limit: 10}, 5, 20, 3},
		{ListOptions{Page: 0, Limit: 0}, 10, 0, 3},
		{ListOptions{Page: 1, Limit: 50}, 25, 0, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page=%d limit=%d", tt.o.Page, tt.o.Limit), func(t *testing.T) {
			res := paginate(append([]int(nil), in...), tt.o, less)
			assert.Len(t, res.Items, tt.wantLen)
			assert.Equal(t, tt.wantFirst, res.Items[0])
			assert.Equal(t, tt.wantPages, res.TotalPages())
		})
	}
	assert.Equal(t, 1, paginate([]int(nil), ListOptions{}, less).TotalPages())
}
