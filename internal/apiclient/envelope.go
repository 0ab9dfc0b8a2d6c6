package apiclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uecsr/portal/internal/models"
)

// Default pagination values applied when the API omits them.
const (
	DefaultLimit      = 10
	DefaultTotalPages = 1
)

// Data sends req and returns the data section of the response envelope.
// A body without a data section is an ErrInvalidResponse.
func Data[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var zero T
	var env models.Envelope[json.RawMessage]
	if err := c.Do(ctx, req, &env); err != nil {
		return zero, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return zero, fmt.Errorf("%w: %s %s: missing data", ErrInvalidResponse, req.Method, req.Path)
	}
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return zero, fmt.Errorf("%w: %s %s: %v", ErrInvalidResponse, req.Method, req.Path, err)
	}
	return out, nil
}

// List sends req to a list endpoint and normalizes the response into a
// Page. requestedPage is reported when the API omits the current page.
func List[T any](ctx context.Context, c *Client, req Request, requestedPage int) (models.Page[T], error) {
	var env models.Envelope[*models.ListData[T]]
	if err := c.Do(ctx, req, &env); err != nil {
		return models.Page[T]{}, err
	}
	if env.Data == nil || env.Data.Items == nil {
		return models.Page[T]{}, fmt.Errorf("%w: %s %s: missing items", ErrInvalidResponse, req.Method, req.Path)
	}
	return models.Page[T]{
		Items: *env.Data.Items,
		Meta:  NormalizeMeta(env.Data.Meta, requestedPage),
	}, nil
}

// NormalizeMeta maps the API's pagination fields onto Meta.
func NormalizeMeta(raw models.RawMeta, requestedPage int) models.Meta {
	if requestedPage < 1 {
		requestedPage = 1
	}
	return models.Meta{
		Page:       first(requestedPage, raw.CurrentPage, raw.Page),
		Limit:      first(DefaultLimit, raw.ItemsPerPage, raw.Limit),
		Total:      first(0, raw.TotalItems, raw.Total),
		TotalPages: first(DefaultTotalPages, raw.TotalPages),
	}
}

func first(fallback int, candidates ...*int) int {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return fallback
}
