// Package main starts the development API: an in-memory stand-in for the
// portal REST API with the same routes, envelopes and token auth.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/uecsr/portal/internal/certgen"
	"github.com/uecsr/portal/internal/config"
	"github.com/uecsr/portal/internal/logger"
	"github.com/uecsr/portal/internal/middleware"
	"github.com/uecsr/portal/internal/models"
	"github.com/uecsr/portal/internal/repository"
	"github.com/uecsr/portal/internal/server/handler/http"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options, err := config.Parse("devapi", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(cmp.Or(options.LogLevel, "info")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	zapLogger := log.Log

	repo := repository.NewMemory()
	if err := seedAdmin(context.Background(), repo, options); err != nil {
		zapLogger.Fatal("cannot seed administrator", zap.Error(err))
	}

	tokens := middleware.NewTokens(options.DevAPISecret, middleware.DefaultTokenTTL)
	router := http.NewMemoryRouter(repo, tokens, zapLogger)

	server := &nethttp.Server{
		Addr:              options.DevAPIAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if options.DevAPITLSDir == "" {
		zapLogger.Info("starting development API", zap.String("addr", options.DevAPIAddr))
		err = server.ListenAndServe()
	} else {
		bundle, berr := certgen.Ensure(options.DevAPITLSDir, tlsHosts(options.DevAPIAddr))
		if berr != nil {
			zapLogger.Fatal("failed to prepare TLS certificates", zap.Error(berr))
		}
		zapLogger.Info("starting development API over HTTPS",
			zap.String("addr", options.DevAPIAddr),
			zap.String("ca_file", bundle.CAFile),
		)
		err = server.ListenAndServeTLS(bundle.CertFile, bundle.KeyFile)
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}

// tlsHosts lists the names the server certificate is issued for.
func tlsHosts(addr string) []string {
	hosts := []string{"localhost", "127.0.0.1"}
	host, _, err := net.SplitHostPort(addr)
	if err != nil || host == "" || slices.Contains(hosts, host) {
		return hosts
	}
	return append([]string{host}, hosts...)
}

func seedAdmin(ctx context.Context, repo *repository.Memory, options *config.Options) error {
	_, err := repo.CreateUsuario(ctx, models.UsuarioCreate{
		Nombres:    "Administrador",
		Apellidos:  "UECSR",
		Email:      options.DevAdminEmail,
		Contrasena: options.DevAdminPassword,
		Rol:        models.RolAdmin,
	})
	if err != nil {
		return fmt.Errorf("create %s: %w", options.DevAdminEmail, err)
	}
	return nil
}
