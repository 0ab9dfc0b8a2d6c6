package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/uecsr/portal/internal/certgen"
)

func TestRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")
	var out bytes.Buffer

	if err := run([]string{"-dir", dir, "-hosts", " localhost, ,10.0.0.5"}, &out); err != nil {
		t.Fatalf("run error: %v", err)
	}
	for _, name := range []string{certgen.CAFile, certgen.CAKeyFile, certgen.CertFile, certgen.KeyFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if !strings.Contains(out.String(), "portal -ca "+filepath.Join(dir, certgen.CAFile)) {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRun_NoHosts(t *testing.T) {
	if err := run([]string{"-dir", t.TempDir(), "-hosts", ","}, &bytes.Buffer{}); err == nil {
		t.Error("expected an error without hosts")
	}
}
