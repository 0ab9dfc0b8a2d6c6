// Package certgen issues the development TLS material: a local CA and a
// server certificate for the development API, which the portal client
// pins with -ca.
package certgen

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

// File names inside a bundle directory.
const (
	CAFile     = "ca.crt"
	CAKeyFile  = "ca.key"
	CertFile   = "server.crt"
	KeyFile    = "server.key"
	caValidity = 10 * 365 * 24 * time.Hour
	validity   = 365 * 24 * time.Hour
)

// Bundle locates the files written by Ensure.
type Bundle struct {
	CAFile   string
	CertFile string
	KeyFile  string
}

// Ensure makes dir hold a CA and a server certificate for hosts. An
// existing CA is reused so clients keep trusting it; the server
// certificate is always reissued.
func Ensure(dir string, hosts []string) (Bundle, error) {
	b := Bundle{
		CAFile:   filepath.Join(dir, CAFile),
		CertFile: filepath.Join(dir, CertFile),
		KeyFile:  filepath.Join(dir, KeyFile),
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return Bundle{}, fmt.Errorf("create %s: %w", dir, err)
	}

	caKeyPath := filepath.Join(dir, CAKeyFile)
	caCert, caKey, err := LoadCACredentials(b.CAFile, caKeyPath)
	if errors.Is(err, os.ErrNotExist) {
		caCert, caKey, err = newCA(b.CAFile, caKeyPath)
	}
	if err != nil {
		return Bundle{}, err
	}

	certPEM, keyPEM, err := GenerateServerCertificate(hosts, caCert, caKey)
	if err != nil {
		return Bundle{}, err
	}
	if err := os.WriteFile(b.CertFile, certPEM, 0o644); err != nil {
		return Bundle{}, fmt.Errorf("write server cert: %w", err)
	}
	if err := os.WriteFile(b.KeyFile, keyPEM, 0o600); err != nil {
		return Bundle{}, fmt.Errorf("write server key: %w", err)
	}
	return b, nil
}

func newCA(certPath, keyPath string) (*x509.Certificate, any, error) {
	certPEM, keyPEM, err := GenerateCA("Portal Development CA")
	if err != nil {
		return nil, nil, err
	}
	if err := os.WriteFile(certPath, certPEM, 0o644); err != nil {
		return nil, nil, fmt.Errorf("write ca cert: %w", err)
	}
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		return nil, nil, fmt.Errorf("write ca key: %w", err)
	}
	return LoadCACredentials(certPath, keyPath)
}

// GenerateCA creates a self-signed ECDSA P-256 CA and returns its PEM
// certificate and key.
func GenerateCA(commonName string) ([]byte, []byte, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("gen ca key: %w", err)
	}
	template := &x509.Certificate{
		SerialNumber:          serialNumber(),
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(caValidity),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &priv.PublicKey, priv)
	if err != nil {
		return nil, nil, fmt.Errorf("create ca cert: %w", err)
	}
	return encode(der, priv)
}

// LoadCACredentials loads a CA certificate and its private key from PEM
// files. The key is an *ecdsa.PrivateKey or an *rsa.PrivateKey.
func LoadCACredentials(certPath, keyPath string) (*x509.Certificate, any, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read ca cert: %w", err)
	}
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read ca key: %w", err)
	}

	certBlock, _ := pem.Decode(certPEM)
	if certBlock == nil || certBlock.Type != "CERTIFICATE" {
		return nil, nil, errors.New("invalid CA cert PEM")
	}
	caCert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("parse ca cert: %w", err)
	}

	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil {
		return nil, nil, errors.New("invalid CA key PEM")
	}
	var caKey any
	switch keyBlock.Type {
	case "EC PRIVATE KEY":
		caKey, err = x509.ParseECPrivateKey(keyBlock.Bytes)
	case "RSA PRIVATE KEY":
		caKey, err = x509.ParsePKCS1PrivateKey(keyBlock.Bytes)
	default:
		return nil, nil, fmt.Errorf("unsupported key type: %s", keyBlock.Type)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("parse ca key: %w", err)
	}

	return caCert, caKey, nil
}

// GenerateServerCertificate issues an ECDSA P-256 server certificate for
// hosts, signed by the CA. Hosts that parse as IP addresses become IP
// SANs, the rest DNS SANs; the first host is the common name.
func GenerateServerCertificate(hosts []string, caCert *x509.Certificate, caKey any) ([]byte, []byte, error) {
	if len(hosts) == 0 {
		return nil, nil, errors.New("no hosts for server certificate")
	}
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("gen key: %w", err)
	}

	template := &x509.Certificate{
		SerialNumber: serialNumber(),
		Subject:      pkix.Name{CommonName: hosts[0]},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(validity),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, template, caCert, &priv.PublicKey, caKey)
	if err != nil {
		return nil, nil, fmt.Errorf("create cert: %w", err)
	}
	return encode(der, priv)
}

func encode(der []byte, priv *ecdsa.PrivateKey) ([]byte, []byte, error) {
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyDER, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal priv key: %w", err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM, nil
}

func serialNumber() *big.Int {
	serial, _ := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	return serial
}
