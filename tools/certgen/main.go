// Package main writes the development TLS bundle (CA and server
// certificate) used to run the development API over HTTPS.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/uecsr/portal/internal/certgen"
)

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("certgen", flag.ContinueOnError)
	dir := fs.String("dir", "certs", "output directory")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma-separated server host names and IPs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var names []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			names = append(names, h)
		}
	}
	b, err := certgen.Ensure(*dir, names)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Certificates written to %s\nPin the API with: portal -ca %s\n", *dir, b.CAFile)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
