// Package portal contains the typed API calls of each feature area of the
// portal (news, events, forum, forum answers and users). Every list call
// takes a listquery.Query and therefore doubles as a listquery.Fetcher.
package portal

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/uecsr/portal/internal/apiclient"
	"github.com/uecsr/portal/internal/listquery"
	"github.com/uecsr/portal/internal/models"
)

// Page sizes the admin and public pages ask for.
const (
	ForoLimit       = 20
	RespuestasLimit = 50
	UsuariosLimit   = 20
	EventosLimit    = 10
)

// API groups the feature calls over a single request pipeline.
type API struct {
	c *apiclient.Client
}

// New returns an API using c for every request.
func New(c *apiclient.Client) *API {
	return &API{c: c}
}

// Client returns the underlying request pipeline.
func (a *API) Client() *apiclient.Client {
	return a.c
}

func list[T any](ctx context.Context, a *API, path string, q listquery.Query, defaultLimit int) (models.Page[T], error) {
	if q.Limit == 0 {
		q.Limit = defaultLimit
	}
	return apiclient.List[T](ctx, a.c, apiclient.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  q.Values(),
	}, q.Page)
}

func get[T any](ctx context.Context, a *API, path string) (T, error) {
	return apiclient.Data[T](ctx, a.c, apiclient.Request{Method: http.MethodGet, Path: path})
}

func send[T any](ctx context.Context, a *API, method, path string, body any) (T, error) {
	return apiclient.Data[T](ctx, a.c, apiclient.Request{Method: method, Path: path, Body: body})
}

func sendForm[T any](ctx context.Context, a *API, method, path string, form *apiclient.Form) (T, error) {
	var zero T
	req, err := apiclient.FormRequest(method, path, form)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return apiclient.Data[T](ctx, a.c, req)
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}
