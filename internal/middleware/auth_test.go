package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/uecsr/portal/internal/models"
)

// dummyHandler is a placeholder that records if it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

func issue(t *testing.T, tokens *Tokens, rol models.Rol) string {
	t.Helper()
	tok, err := tokens.Issue(models.Usuario{ID: 7, Email: "a@x.com", Rol: rol})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}

func TestBearerAuth(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	expired := NewTokens("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	other := NewTokens("other", time.Hour)

	tests := []struct {
		name       string
		header     string
		wantCode   int
		wantCalled bool
	}{
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def", wantCode: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + issue(t, expired, models.RolAdmin), wantCode: http.StatusUnauthorized},
		{name: "wrong key", header: "Bearer " + issue(t, other, models.RolAdmin), wantCode: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + issue(t, tokens, models.RolStaff), wantCode: http.StatusOK, wantCalled: true},
		{name: "lowercase scheme", header: "bearer " + issue(t, tokens, models.RolStaff), wantCode: http.StatusOK, wantCalled: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dummy := &dummyHandler{}
			h := BearerAuth(tokens)(dummy)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/noticias/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d; want %d", rec.Code, tt.wantCode)
			}
			if dummy.called != tt.wantCalled {
				t.Errorf("next called = %v; want %v", dummy.called, tt.wantCalled)
			}
			if tt.wantCalled {
				claims, ok := ClaimsFromContext(dummy.ctx)
				if !ok || claims.UserID() != 7 || claims.Rol != models.RolStaff {
					t.Errorf("claims = %+v, %v", claims, ok)
				}
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	dummy := &dummyHandler{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/noticias/publico", nil)
	req.Header.Set("Authorization", "Bearer broken")
	OptionalAuth(tokens)(dummy).ServeHTTP(rec, req)
	if !dummy.called || rec.Code != http.StatusOK {
		t.Fatalf("anonymous request rejected: %d", rec.Code)
	}
	if _, ok := ClaimsFromContext(dummy.ctx); ok {
		t.Error("expected no claims for an invalid token")
	}

	dummy = &dummyHandler{}
	req = httptest.NewRequest(http.MethodGet, "/noticias/publico", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.RolPublico))
	OptionalAuth(tokens)(dummy).ServeHTTP(httptest.NewRecorder(), req)
	if claims, ok := ClaimsFromContext(dummy.ctx); !ok || claims.Rol != models.RolPublico {
		t.Errorf("claims = %+v, %v", claims, ok)
	}
}

func TestRequireModerator(t *testing.T) {
	tests := []struct {
		rol  models.Rol
		want int
	}{
		{models.RolAdmin, http.StatusOK},
		{models.RolStaff, http.StatusOK},
		{models.RolPublico, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.rol), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/preguntas-foro/admin", nil)
			req = req.WithContext(WithClaims(req.Context(), &Claims{Rol: tt.rol}))
			RequireModerator(&dummyHandler{}).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d; want %d", rec.Code, tt.want)
			}
		})
	}

	rec := httptest.NewRecorder()
	RequireAdmin(&dummyHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/usuarios/admin", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no claims: status = %d; want 401", rec.Code)
	}
}

func TestClaimsFromContext(t *testing.T) {
	if _, ok := ClaimsFromContext(context.Background()); ok {
		t.Error("expected no claims in an empty context")
	}
	c := &Claims{}
	c.Subject = "42"
	got, ok := ClaimsFromContext(WithClaims(context.Background(), c))
	if !ok || got.UserID() != 42 {
		t.Errorf("got %+v, %v", got, ok)
	}
}

func TestWithRequestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := WithRequestLogging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("X-Request-ID", "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries; want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status field = %v", fields["status"])
	}
	if fields["request_id"] != "req-1" || fields["path"] != "/auth/login" {
		t.Errorf("fields = %v", fields)
	}
}
