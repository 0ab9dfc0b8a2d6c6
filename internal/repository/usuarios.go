package repository

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/uecsr/portal/internal/models"
)

type usuarioRow struct {
	models.Usuario
	hash []byte
}

func (r *usuarioRow) view() models.Usuario {
	u := r.Usuario
	if r.Activo != nil {
		active := *r.Activo
		u.Activo = &active
	}
	return u
}

func (m *Memory) hashPassword(password string) ([]byte, error) {
	cost := m.cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (m *Memory) emailTakenLocked(email string, except int64) bool {
	for id, u := range m.usuarios {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// CreateUsuario adds an account. A missing role means PUBLICO and a
// missing active flag means active.
func (m *Memory) CreateUsuario(_ context.Context, in models.UsuarioCreate) (models.Usuario, error) {
	hash, err := m.hashPassword(in.Contrasena)
	if err != nil {
		return models.Usuario{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTakenLocked(in.Email, 0) {
		return models.Usuario{}, fmt.Errorf("email %s: %w", in.Email, ErrConflict)
	}
	rol := in.Rol
	if rol == "" {
		rol = models.RolPublico
	}
	active := true
	if in.Activo != nil {
		active = *in.Activo
	}
	now := m.timestamp()
	row := &usuarioRow{
		Usuario: models.Usuario{
			ID:            m.id(),
			Nombres:       strings.TrimSpace(in.Nombres),
			Apellidos:     strings.TrimSpace(in.Apellidos),
			Email:         strings.ToLower(strings.TrimSpace(in.Email)),
			Rol:           rol,
			Activo:        &active,
			CreadoEn:      now,
			ActualizadoEn: now,
		},
		hash: hash,
	}
	m.usuarios[row.ID] = row
	return row.view(), nil
}

// Authenticate checks an email and password pair of an active account.
func (m *Memory) Authenticate(_ context.Context, email, password string) (models.Usuario, error) {
	m.mu.RLock()
	var (
		found bool
		user  models.Usuario
		hash  []byte
	)
	for _, u := range m.usuarios {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			found, user, hash = true, u.view(), u.hash
			break
		}
	}
	m.mu.RUnlock()

	if !found || (user.Activo != nil && !*user.Activo) {
		return models.Usuario{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return models.Usuario{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetUsuario returns one account.
func (m *Memory) GetUsuario(_ context.Context, id int64) (models.Usuario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.usuarios[id]
	if !ok {
		return models.Usuario{}, fmt.Errorf("usuario %d: %w", id, ErrNotFound)
	}
	return row.view(), nil
}

// UpdateUsuario applies the non-empty fields of in.
func (m *Memory) UpdateUsuario(_ context.Context, id int64, in models.UsuarioUpdate) (models.Usuario, error) {
	var hash []byte
	if in.Contrasena != "" {
		var err error
		if hash, err = m.hashPassword(in.Contrasena); err != nil {
			return models.Usuario{}, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.usuarios[id]
	if !ok {
		return models.Usuario{}, fmt.Errorf("usuario %d: %w", id, ErrNotFound)
	}
	if in.Email != "" && m.emailTakenLocked(in.Email, id) {
		return models.Usuario{}, fmt.Errorf("email %s: %w", in.Email, ErrConflict)
	}
	if in.Nombres != "" {
		row.Nombres = in.Nombres
	}
	if in.Apellidos != "" {
		row.Apellidos = in.Apellidos
	}
	if in.Email != "" {
		row.Email = strings.ToLower(in.Email)
	}
	if in.Rol != "" {
		row.Rol = in.Rol
	}
	if in.Activo != nil {
		active := *in.Activo
		row.Activo = &active
	}
	if hash != nil {
		row.hash = hash
	}
	row.ActualizadoEn = m.timestamp()
	return row.view(), nil
}

// DeleteUsuario removes an account.
func (m *Memory) DeleteUsuario(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.usuarios[id]; !ok {
		return fmt.Errorf("usuario %d: %w", id, ErrNotFound)
	}
	delete(m.usuarios, id)
	return nil
}

// ListUsuarios supports filters "sort" (id, nombres, apellidos, email,
// rol, creadoEn) and "order" (ASC or DESC, default ASC).
func (m *Memory) ListUsuarios(_ context.Context, o ListOptions) Result[models.Usuario] {
	m.mu.RLock()
	var matches []models.Usuario
	for _, u := range m.usuarios {
		if contains(o.Search, u.Nombres, u.Apellidos, u.Email) {
			matches = append(matches, u.view())
		}
	}
	m.mu.RUnlock()

	key := func(u models.Usuario) string {
		switch o.filter("sort") {
		case "nombres":
			return strings.ToLower(u.Nombres)
		case "apellidos":
			return strings.ToLower(u.Apellidos)
		case "email":
			return u.Email
		case "rol":
			return string(u.Rol)
		case "creadoEn":
			return u.CreadoEn
		}
		return fmt.Sprintf("%020d", u.ID)
	}
	desc := strings.EqualFold(o.filter("order"), "DESC")
	return paginate(matches, o, func(a, b models.Usuario) bool {
		if desc {
			return key(a) > key(b)
		}
		return key(a) < key(b)
	})
}
