// Package service implements the authentication operations of the portal
// client: login, register and logout, on top of the API pipeline, the
// credential store and the shared session state.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/uecsr/portal/internal/apiclient"
	"github.com/uecsr/portal/internal/credstore"
	"github.com/uecsr/portal/internal/logger"
	"github.com/uecsr/portal/internal/models"
	"github.com/uecsr/portal/internal/session"
	"github.com/uecsr/portal/internal/validate"
)

// ErrInvalidCredentials is returned when the API rejects a login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginFailedMessage is shown for every failed login. The cause is not
// revealed to the user.
const LoginFailedMessage = "Credenciales inválidas o error de servidor."

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
)

// AuthAPI is the request pipeline the service calls through.
type AuthAPI interface {
	Post(ctx context.Context, path string, body, out any) error
}

// Service implements authentication operations.
type Service struct {
	api     AuthAPI
	store   credstore.Store
	session *session.State
	log     *zap.Logger
}

// NewAuthService constructs a Service. api is normally an *apiclient.Client
// wired to the same store and session.
func NewAuthService(api AuthAPI, store credstore.Store, state *session.State, log *zap.Logger) *Service {
	return &Service{
		api:     api,
		store:   store,
		session: state,
		log:     logger.OrNop(log),
	}
}

// Login authenticates with email and password. On success the token and
// user are persisted and the session becomes authenticated. A rejected
// login is a 401 like any other: the client pipeline has already cleared
// the previous session and redirected to the login path.
func (s *Service) Login(ctx context.Context, creds models.Credentials) (*models.Usuario, error) {
	if err := validate.Struct(creds); err != nil {
		return nil, err
	}
	user, err := s.authenticate(ctx, loginPath, creds)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) &&
			(apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	s.log.Info("signed in", zap.Int64("user_id", user.ID), zap.String("rol", string(user.Rol)))
	return user, nil
}

// Register creates a public account and signs the new user in.
func (s *Service) Register(ctx context.Context, payload models.RegisterPayload) (*models.Usuario, error) {
	if err := validate.Struct(payload); err != nil {
		return nil, err
	}
	user, err := s.authenticate(ctx, registerPath, payload)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	s.log.Info("registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Logout forgets the session locally. The API is not called.
func (s *Service) Logout(ctx context.Context) error {
	err := s.store.Clear(ctx)
	s.session.ClearAuth()
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *Service) authenticate(ctx context.Context, path string, body any) (*models.Usuario, error) {
	var env models.Envelope[*models.AuthData]
	if err := s.api.Post(ctx, path, body, &env); err != nil {
		return nil, err
	}
	if !env.Success || env.Data == nil || env.Data.AccessToken == "" || env.Data.Usuario == nil {
		return nil, fmt.Errorf("%w: %s", apiclient.ErrInvalidResponse, path)
	}

	user, token := env.Data.Usuario, env.Data.AccessToken
	if err := s.store.SaveToken(ctx, token); err != nil {
		s.log.Warn("failed to persist token", zap.Error(err))
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		s.log.Warn("failed to persist user", zap.Error(err))
	}
	s.session.SetAuth(user, token)
	return user, nil
}

// HasRole reports whether the signed-in user has exactly rol.
func (s *Service) HasRole(rol models.Rol) bool { return s.session.HasRole(rol) }

// IsAdmin reports whether the signed-in user is an administrator.
func (s *Service) IsAdmin() bool { return s.session.IsAdmin() }

// IsStaff is true for staff and administrators.
func (s *Service) IsStaff() bool { return s.session.IsStaff() }

// CanModerate is true for administrators and staff.
func (s *Service) CanModerate() bool { return s.session.CanModerate() }

// LoginMessage returns the text shown after a failed login. Validation
// errors are shown as is; everything else gets the generic message.
func LoginMessage(err error) string {
	if err == nil {
		return ""
	}
	if validate.IsValidation(err) {
		return err.Error()
	}
	return LoginFailedMessage
}

// RegisterMessage returns the text shown after a failed registration,
// preferring the API's own explanation (for example a duplicate email).
func RegisterMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case validate.IsValidation(err):
		return err.Error()
	case errors.Is(err, apiclient.ErrInvalidResponse):
		return "Respuesta de registro inválida."
	}
	return apiclient.Message(err)
}
