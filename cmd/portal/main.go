// Package main is the command-line client of the school portal API. It
// signs in, keeps the session in the configured credential store and
// offers an interactive shell over the public and admin listings.
package main

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/uecsr/portal/internal/apiclient"
	"github.com/uecsr/portal/internal/busy"
	"github.com/uecsr/portal/internal/config"
	"github.com/uecsr/portal/internal/credstore"
	"github.com/uecsr/portal/internal/logger"
	"github.com/uecsr/portal/internal/models"
	"github.com/uecsr/portal/internal/portal"
	"github.com/uecsr/portal/internal/service"
	"github.com/uecsr/portal/internal/session"
)

var (
	version   string
	buildDate string
)

// readPassword reads a password without echo. Tests replace it.
var readPassword = func() (string, error) {
	b, err := term.ReadPassword(int(syscall.Stdin))
	return string(b), err
}

// app is one running client: its session, request pipeline and I/O.
type app struct {
	in      *bufio.Scanner
	out     io.Writer
	errOut  io.Writer
	session *session.State
	nav     *apiclient.Location
	auth    *service.Service
	api     *portal.API
	log     *zap.Logger

	// signedIn is the email of the current user, kept by a session
	// subscription for the shell prompt.
	signedIn atomic.Pointer[string]
}

func newApp(ctx context.Context, options *config.Options, store credstore.Store, in io.Reader, out, errOut io.Writer, log *zap.Logger) (*app, error) {
	state := session.New()
	state.Hydrate(ctx, store)

	hc, err := apiclient.NewHTTPClient(options.CAFile, options.Timeout)
	if err != nil {
		return nil, err
	}
	tracker := busy.New()
	tracker.Subscribe(func(loading bool) {
		if loading {
			fmt.Fprintln(errOut, "cargando…")
		}
	})

	nav := apiclient.NewLocation("/")
	client, err := apiclient.New(options.APIURL,
		apiclient.WithHTTPClient(hc),
		apiclient.WithSession(state),
		apiclient.WithStore(store),
		apiclient.WithBusy(tracker),
		apiclient.WithNavigator(nav),
		apiclient.WithLoginPath(options.LoginPath),
		apiclient.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	a := &app{
		in:      bufio.NewScanner(in),
		out:     out,
		errOut:  errOut,
		session: state,
		nav:     nav,
		auth:    service.NewAuthService(client, store, state, log),
		api:     portal.New(client),
		log:     log,
	}
	a.trackSession(state.Snapshot())
	state.Subscribe(a.trackSession)
	return a, nil
}

func (a *app) trackSession(snap session.Snapshot) {
	if !snap.IsAuthenticated || snap.User == nil {
		a.signedIn.Store(nil)
		return
	}
	email := snap.User.Email
	a.signedIn.Store(&email)
}

// promptLabel shows the signed-in user and the current location.
func (a *app) promptLabel() string {
	label := "portal"
	if email := a.signedIn.Load(); email != nil {
		label += "[" + *email + "]"
	}
	return label + " " + a.nav.Current() + "> "
}

// prompt prints label and reads one trimmed line.
func (a *app) prompt(label string) (string, bool) {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *app) login(ctx context.Context, email string) error {
	if email == "" {
		var ok bool
		if email, ok = a.prompt("Email: "); !ok {
			return io.ErrUnexpectedEOF
		}
	}
	fmt.Fprint(a.out, "Contraseña: ")
	password, err := readPassword()
	fmt.Fprintln(a.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	user, err := a.auth.Login(ctx, models.Credentials{Email: email, Contrasena: password})
	if err != nil {
		fmt.Fprintln(a.out, service.LoginMessage(err))
		return err
	}
	fmt.Fprintf(a.out, "Bienvenido, %s (%s)\n", user.FullName(), user.Rol)
	a.goHome()
	return nil
}

func (a *app) register(ctx context.Context, email string) error {
	nombres, _ := a.prompt("Nombres: ")
	apellidos, _ := a.prompt("Apellidos: ")
	if email == "" {
		email, _ = a.prompt("Email: ")
	}
	fmt.Fprint(a.out, "Contraseña: ")
	password, err := readPassword()
	fmt.Fprintln(a.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	user, err := a.auth.Register(ctx, models.RegisterPayload{
		Nombres:    nombres,
		Apellidos:  apellidos,
		Email:      email,
		Contrasena: password,
	})
	if err != nil {
		fmt.Fprintln(a.out, service.RegisterMessage(err))
		return err
	}
	fmt.Fprintf(a.out, "Cuenta creada: %s\n", user.Email)
	a.goHome()
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Sesión cerrada")
	a.nav.Navigate("/")
	return nil
}

// goHome moves a freshly signed-in user to the panel they may use.
func (a *app) goHome() {
	if a.session.CanModerate() {
		a.nav.Navigate("/admin")
		return
	}
	a.nav.Navigate("/")
}

func (a *app) whoami() {
	snap := a.session.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil {
		fmt.Fprintln(a.out, "Sin sesión")
		return
	}
	fmt.Fprintf(a.out, "%s <%s> %s\n", snap.User.FullName(), snap.User.Email, snap.User.Rol)
	if exp, ok := a.session.TokenExpiry(); ok {
		fmt.Fprintf(a.out, "Token válido hasta %s\n", exp.Format("2006-01-02 15:04"))
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	options, err := config.Parse("portal", args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if options.ShowVersion {
		fmt.Fprintf(stdout, "Portal client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return 0
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	store, closeStore, err := credstore.Open(ctx, options, log.Log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = closeStore() }()

	a, err := newApp(ctx, options, store, stdin, stdout, stderr, log.Log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	switch options.Command {
	case "login":
		err = a.login(ctx, options.Email)
	case "register":
		err = a.register(ctx, options.Email)
	case "logout":
		err = a.logout(ctx)
	case "whoami":
		a.whoami()
	case "shell":
		a.shell(ctx)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", options.Command)
		return 2
	}
	if err != nil {
		a.log.Debug("command failed", zap.String("cmd", options.Command), zap.Error(err))
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
