package certgen

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func parseCert(t *testing.T, certPEM []byte) *x509.Certificate {
	t.Helper()
	block, _ := pem.Decode(certPEM)
	if block == nil || block.Type != "CERTIFICATE" {
		t.Fatalf("cert PEM invalid")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatalf("parse cert: %v", err)
	}
	return cert
}

func TestGenerateCA(t *testing.T) {
	certPEM, keyPEM, err := GenerateCA("Test CA")
	if err != nil {
		t.Fatalf("GenerateCA error: %v", err)
	}
	ca := parseCert(t, certPEM)
	if !ca.IsCA || !ca.BasicConstraintsValid {
		t.Error("CA certificate should have IsCA and BasicConstraintsValid")
	}
	if ca.KeyUsage&x509.KeyUsageCertSign == 0 {
		t.Errorf("CA KeyUsage = %v; want CertSign", ca.KeyUsage)
	}
	if ca.Subject.CommonName != "Test CA" {
		t.Errorf("CommonName = %q", ca.Subject.CommonName)
	}
	if block, _ := pem.Decode(keyPEM); block == nil || block.Type != "EC PRIVATE KEY" {
		t.Fatalf("key PEM invalid")
	}
}

func TestLoadCACredentials(t *testing.T) {
	certPEM, keyPEM, err := GenerateCA("Test CA")
	if err != nil {
		t.Fatal(err)
	}
	certFile := writeTemp(t, "ca.crt", certPEM)
	keyFile := writeTemp(t, "ca.key", keyPEM)

	tests := []struct {
		name     string
		certPath string
		keyPath  string
		wantErr  string
	}{
		{"success", certFile, keyFile, ""},
		{"missing cert", "/no/such/file.pem", keyFile, "read ca cert"},
		{"missing key", certFile, "/no/such/key.pem", "read ca key"},
		{"bad cert PEM", writeTemp(t, "bad.crt", []byte("not a cert")), keyFile, "invalid CA cert PEM"},
		{"bad key PEM", certFile, writeTemp(t, "bad.key", []byte("not a key")), "invalid CA key PEM"},
		{
			"unsupported key type",
			certFile,
			writeTemp(t, "pkcs8.key", pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte{1}})),
			"unsupported key type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cert, key, err := LoadCACredentials(tt.certPath, tt.keyPath)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("got %v; want error containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadCACredentials error: %v", err)
			}
			if cert.Subject.CommonName != "Test CA" {
				t.Errorf("CommonName = %q", cert.Subject.CommonName)
			}
			if _, ok := key.(*ecdsa.PrivateKey); !ok {
				t.Errorf("key type = %T; want *ecdsa.PrivateKey", key)
			}
		})
	}
}

func TestGenerateServerCertificate(t *testing.T) {
	certPEM, keyPEM, err := GenerateCA("Test CA")
	if err != nil {
		t.Fatal(err)
	}
	caCert, caKey, err := LoadCACredentials(writeTemp(t, "ca.crt", certPEM), writeTemp(t, "ca.key", keyPEM))
	if err != nil {
		t.Fatal(err)
	}

	srvPEM, srvKey, err := GenerateServerCertificate([]string{"localhost", "127.0.0.1"}, caCert, caKey)
	if err != nil {
		t.Fatalf("GenerateServerCertificate error: %v", err)
	}
	srv := parseCert(t, srvPEM)
	if srv.Subject.CommonName != "localhost" {
		t.Errorf("CommonName = %q; want localhost", srv.Subject.CommonName)
	}
	if len(srv.DNSNames) != 1 || srv.DNSNames[0] != "localhost" {
		t.Errorf("DNSNames = %v", srv.DNSNames)
	}
	if len(srv.IPAddresses) != 1 || srv.IPAddresses[0].String() != "127.0.0.1" {
		t.Errorf("IPAddresses = %v", srv.IPAddresses)
	}
	if err := srv.CheckSignatureFrom(caCert); err != nil {
		t.Errorf("signature check failed: %v", err)
	}
	if block, _ := pem.Decode(srvKey); block == nil || block.Type != "EC PRIVATE KEY" {
		t.Fatalf("key PEM invalid")
	}

	if _, _, err := GenerateServerCertificate(nil, caCert, caKey); err == nil {
		t.Error("expected an error without hosts")
	}
}

func TestEnsure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")

	b, err := Ensure(dir, []string{"localhost"})
	if err != nil {
		t.Fatalf("Ensure error: %v", err)
	}
	for _, p := range []string{b.CAFile, b.CertFile, b.KeyFile, filepath.Join(dir, CAKeyFile)} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
	firstCA, _ := os.ReadFile(b.CAFile)

	// A second run keeps the CA and reissues the server certificate.
	b2, err := Ensure(dir, []string{"localhost"})
	if err != nil {
		t.Fatalf("second Ensure error: %v", err)
	}
	secondCA, _ := os.ReadFile(b2.CAFile)
	if !bytes.Equal(firstCA, secondCA) {
		t.Error("CA was regenerated")
	}

	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(secondCA)
	srvPEM, _ := os.ReadFile(b2.CertFile)
	if _, err := parseCert(t, srvPEM).Verify(x509.VerifyOptions{
		DNSName:   "localhost",
		Roots:     pool,
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}); err != nil {
		t.Errorf("server certificate does not verify against the CA: %v", err)
	}
}
