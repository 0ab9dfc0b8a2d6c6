// Package http provides the handlers and routing of the development API,
// a stand-in for the portal REST API used for local runs and tests.
package http

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/uecsr/portal/internal/models"
	"github.com/uecsr/portal/internal/repository"
	"github.com/uecsr/portal/internal/validate"
)

// AuthService is the account storage behind login and registration.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (models.Usuario, error)
	CreateUsuario(ctx context.Context, in models.UsuarioCreate) (models.Usuario, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(u models.Usuario) (string, error)
}

// AuthHandler handles login and self-service registration.
type AuthHandler struct {
	AuthService AuthService
	Tokens      TokenIssuer
	Log         *zap.Logger
}

type authData struct {
	AccessToken string         `json:"accessToken"`
	Usuario     models.Usuario `json:"usuario"`
}

// Login handles POST /auth/login. Wrong credentials answer 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeFailure(w, h.Log, err)
		return
	}

	user, err := h.AuthService.Authenticate(r.Context(), req.Email, req.Contrasena)
	if errors.Is(err, repository.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	h.respondWithToken(w, http.StatusOK, "Inicio de sesión exitoso", user)
}

// Register handles POST /auth/register. New accounts are PUBLICO and are
// signed in right away.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeFailure(w, h.Log, err)
		return
	}

	user, err := h.AuthService.CreateUsuario(r.Context(), models.UsuarioCreate{
		Nombres:    req.Nombres,
		Apellidos:  req.Apellidos,
		Email:      req.Email,
		Contrasena: req.Contrasena,
		Rol:        models.RolPublico,
	})
	if errors.Is(err, repository.ErrConflict) {
		writeError(w, http.StatusConflict, []string{"El email ya está registrado"})
		return
	}
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	h.respondWithToken(w, http.StatusCreated, "Usuario registrado", user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, msg string, user models.Usuario) {
	token, err := h.Tokens.Issue(user)
	if err != nil {
		writeFailure(w, h.Log, err)
		return
	}
	writeData(w, status, msg, authData{AccessToken: token, Usuario: user})
}
