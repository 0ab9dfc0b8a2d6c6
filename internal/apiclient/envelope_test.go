package apiclient

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uecsr/portal/internal/models"
)

func intp(v int) *int { return &v }

func TestNormalizeMeta(t *testing.T) {
	tests := []struct {
		name      string
		raw       models.RawMeta
		requested int
		want      models.Meta
	}{
		{
			name:      "paginate style",
			raw:       models.RawMeta{CurrentPage: intp(2), ItemsPerPage: intp(20), TotalItems: intp(45), TotalPages: intp(3)},
			requested: 2,
			want:      models.Meta{Page: 2, Limit: 20, Total: 45, TotalPages: 3},
		},
		{
			name:      "limit and total spelling",
			raw:       models.RawMeta{Limit: intp(5), Total: intp(11), TotalPages: intp(3)},
			requested: 3,
			want:      models.Meta{Page: 3, Limit: 5, Total: 11, TotalPages: 3},
		},
		{
			name:      "page spelling of the forum endpoints",
			raw:       models.RawMeta{Page: intp(2), Limit: intp(10), Total: intp(12), TotalPages: intp(2)},
			requested: 5,
			want:      models.Meta{Page: 2, Limit: 10, Total: 12, TotalPages: 2},
		},
		{
			name:      "currentPage wins over page",
			raw:       models.RawMeta{CurrentPage: intp(3), Page: intp(1)},
			requested: 1,
			want:      models.Meta{Page: 3, Limit: DefaultLimit, Total: 0, TotalPages: DefaultTotalPages},
		},
		{
			name:      "itemsPerPage wins over limit",
			raw:       models.RawMeta{ItemsPerPage: intp(8), Limit: intp(99)},
			requested: 1,
			want:      models.Meta{Page: 1, Limit: 8, Total: 0, TotalPages: 1},
		},
		{
			name:      "empty meta",
			raw:       models.RawMeta{},
			requested: 0,
			want:      models.Meta{Page: 1, Limit: DefaultLimit, Total: 0, TotalPages: DefaultTotalPages},
		},
		{
			name:      "explicit zero total pages is kept",
			raw:       models.RawMeta{TotalPages: intp(0), TotalItems: intp(0)},
			requested: 1,
			want:      models.Meta{Page: 1, Limit: DefaultLimit, Total: 0, TotalPages: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMeta(tt.raw, tt.requested))
		})
	}
}

type item struct {
	ID    int    `json:"id"`
	Title string `json:"titulo"`
}

func TestList(t *testing.T) {
	f := newFakeFixture(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"success":true,"message":"ok","data":{
			"items":[{"id":1,"titulo":"a"},{"id":2,"titulo":"b"}],
			"meta":{"currentPage":1,"itemsPerPage":2,"totalItems":5,"totalPages":3}}}`), nil
	})

	page, err := List[item](context.Background(), f.client, Request{Method: http.MethodGet, Path: "/noticias/publico"}, 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, models.Meta{Page: 1, Limit: 2, Total: 5, TotalPages: 3}, page.Meta)
}

func TestList_EmptyItems(t *testing.T) {
	f := newFakeFixture(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"success":true,"data":{"items":[],"meta":{}}}`), nil
	})
	page, err := List[item](context.Background(), f.client, Request{Path: "/x"}, 4)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 4, page.Meta.Page)
}

func TestList_ShapeMismatch(t *testing.T) {
	bodies := []string{
		`{"success":true,"data":{"meta":{}}}`,
		`{"success":true,"data":null}`,
		`{"success":true}`,
		`{"success":true,"data":{"items":{"id":1}}}`,
		`{"success":true,"data":[{"id":1}]}`,
	}
	for _, body := range bodies {
		f := newFakeFixture(t, func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, body), nil
		})
		_, err := List[item](context.Background(), f.client, Request{Path: "/x"}, 1)
		assert.True(t, errors.Is(err, ErrInvalidResponse), "body %s: err = %v", body, err)
	}
}

func TestData(t *testing.T) {
	f := newFakeFixture(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path == "/missing" {
			return jsonResponse(http.StatusOK, `{"success":true,"message":"ok"}`), nil
		}
		return jsonResponse(http.StatusOK, `{"success":true,"data":{"id":9,"titulo":"x"}}`), nil
	})

	got, err := Data[item](context.Background(), f.client, Request{Path: "/noticias/9"})
	require.NoError(t, err)
	assert.Equal(t, item{ID: 9, Title: "x"}, got)

	_, err = Data[item](context.Background(), f.client, Request{Path: "/missing"})
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func TestFormRequest(t *testing.T) {
	var (
		fields   = map[string]string{}
		fileName string
		fileBody string
	)
	f := newFakeFixture(t, func(req *http.Request) (*http.Response, error) {
		mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
		require.NoError(t, err)
		require.Equal(t, "multipart/form-data", mediaType)
		mr := multipart.NewReader(req.Body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			b, _ := io.ReadAll(part)
			if part.FileName() != "" {
				fileName = part.FileName()
				fileBody = string(b)
				continue
			}
			fields[part.FormName()] = string(b)
		}
		return jsonResponse(http.StatusCreated, `{"success":true,"data":{"id":1}}`), nil
	})

	form := (&Form{}).
		Set("titulo", "Admisión 2026").
		SetIf("resumen", "").
		Set("destacado", "true").
		File("imagen", &models.Upload{Filename: "a.png", Content: []byte("PNG")})
	req, err := FormRequest(http.MethodPost, "/noticias", form)
	require.NoError(t, err)
	require.NoError(t, f.client.Do(context.Background(), req, nil))

	assert.Equal(t, map[string]string{"titulo": "Admisión 2026", "destacado": "true"}, fields)
	assert.Equal(t, "a.png", fileName)
	assert.Equal(t, "PNG", fileBody)
}

func TestForm_NoFile(t *testing.T) {
	body, contentType, err := (&Form{}).Set("a", "1").File("imagen", nil).Encode()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data"))
	assert.NotContains(t, body.String(), "imagen")
}
