package apiclient

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uecsr/portal/internal/certgen"
)

func TestNewHTTPClient_PinsCA(t *testing.T) {
	bundle, err := certgen.Ensure(filepath.Join(t.TempDir(), "api"), []string{"127.0.0.1"})
	require.NoError(t, err)
	cert, err := tls.LoadX509KeyPair(bundle.CertFile, bundle.KeyFile)
	require.NoError(t, err)

	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	srv.TLS = &tls.Config{Certificates: []tls.Certificate{cert}}
	srv.StartTLS()
	defer srv.Close()

	hc, err := NewHTTPClient(bundle.CAFile, time.Second)
	require.NoError(t, err)
	resp, err := hc.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	other, err := certgen.Ensure(filepath.Join(t.TempDir(), "other"), []string{"127.0.0.1"})
	require.NoError(t, err)
	hc, err = NewHTTPClient(other.CAFile, time.Second)
	require.NoError(t, err)
	_, err = hc.Get(srv.URL)
	assert.Error(t, err, "a server signed by another CA must be rejected")
}
