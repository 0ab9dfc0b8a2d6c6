package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/uecsr/portal/internal/logger"
	"github.com/uecsr/portal/internal/repository"
	"github.com/uecsr/portal/internal/validate"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Message any    `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: msg, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg any) {
	writeJSON(w, status, envelope{Success: false, Message: msg})
}

// Meta spellings. Paginated listings use the first, the forum endpoints
// report the second.
type paginateMeta struct {
	ItemCount    int `json:"itemCount"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
}

type simpleMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func writeList[T any](w http.ResponseWriter, res repository.Result[T]) {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	writeData(w, http.StatusOK, "", map[string]any{
		"items": items,
		"meta": paginateMeta{
			ItemCount:    len(items),
			TotalItems:   res.Total,
			ItemsPerPage: res.Limit,
			TotalPages:   res.TotalPages(),
			CurrentPage:  res.Page,
		},
	})
}

func writeSimpleList[T any](w http.ResponseWriter, res repository.Result[T]) {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	writeData(w, http.StatusOK, "", map[string]any{
		"items": items,
		"meta": simpleMeta{
			Page:       res.Page,
			Limit:      res.Limit,
			Total:      res.Total,
			TotalPages: res.TotalPages(),
		},
	})
}

// writeFailure maps repository and validation errors onto statuses.
func writeFailure(w http.ResponseWriter, log *zap.Logger, err error) {
	var verr *validate.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, fieldMessages(verr))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Recurso no encontrado")
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "El registro ya existe")
	default:
		logger.OrNop(log).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
	}
}

// fieldMessages lists validation messages in field order, the way the
// API reports class-validator errors.
func fieldMessages(verr *validate.ValidationError) []string {
	keys := make([]string, 0, len(verr.Fields))
	for k := range verr.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, verr.Fields[k])
	}
	return out
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

// listOptions reads page, limit, search and the named filters from the
// query string. Values meaning "all" are ignored.
func listOptions(q url.Values, defaultLimit int, filters ...string) repository.ListOptions {
	o := repository.ListOptions{
		Page:    atoiOr(q.Get("page"), 1),
		Limit:   atoiOr(q.Get("limit"), defaultLimit),
		Search:  q.Get("search"),
		Filters: make(map[string]string, len(filters)),
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	for _, f := range filters {
		if v := q.Get(f); v != "" && !isAll(v) {
			o.Filters[f] = v
		}
	}
	return o
}

func isAll(v string) bool {
	switch v {
	case "all", "ALL", "TODAS", "todas", "TODOS", "todos":
		return true
	}
	return false
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(urlParam(r, name), 10, 64)
	return id, err == nil && id > 0
}
