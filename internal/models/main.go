// Package models defines the records exchanged with the portal API:
// users and roles, the response envelope, pagination metadata and the
// content types managed by the admin panel.
package models

// Rol is the role assigned to a portal user.
type Rol string

const (
	// RolAdmin has full access to the administrative panel.
	RolAdmin Rol = "ADMIN"
	// RolStaff may moderate forum and content entries.
	RolStaff Rol = "STAFF"
	// RolPublico is a self-registered public user.
	RolPublico Rol = "PUBLICO"
)

// Valid reports whether r is one of the known roles.
func (r Rol) Valid() bool {
	switch r {
	case RolAdmin, RolStaff, RolPublico:
		return true
	}
	return false
}

// Usuario is a user profile as returned by the API. The session keeps the
// authenticated user's copy; the admin panel lists and edits them.
type Usuario struct {
	// ID is the numeric identifier assigned by the API.
	ID int64 `json:"id"`
	// Nombres holds the user's given names.
	Nombres string `json:"nombres"`
	// Apellidos holds the user's family names.
	Apellidos string `json:"apellidos"`
	// Email is the login e-mail address.
	Email string `json:"email"`
	// Rol is the user's role.
	Rol Rol `json:"rol"`
	// Activo is only reported by the admin endpoints.
	Activo        *bool  `json:"activo,omitempty"`
	CreadoEn      string `json:"creadoEn,omitempty"`
	ActualizadoEn string `json:"actualizadoEn,omitempty"`
}

// FullName joins given and family names.
func (u Usuario) FullName() string {
	switch {
	case u.Nombres == "":
		return u.Apellidos
	case u.Apellidos == "":
		return u.Nombres
	}
	return u.Nombres + " " + u.Apellidos
}

// Credentials is the login form payload.
type Credentials struct {
	Email      string `json:"email" validate:"required,email,max=150"`
	Contrasena string `json:"contrasena" validate:"required,notblank"`
}

// RegisterPayload is the self-service account creation payload.
type RegisterPayload struct {
	Nombres    string `json:"nombres" validate:"required,notblank,max=150"`
	Apellidos  string `json:"apellidos" validate:"required,notblank,max=150"`
	Email      string `json:"email" validate:"required,email,max=150"`
	Contrasena string `json:"contrasena" validate:"required,notblank,min=6"`
}

// AuthData is the data section of a successful login or register response.
type AuthData struct {
	AccessToken string   `json:"accessToken"`
	Usuario     *Usuario `json:"usuario"`
}

// Envelope is the response wrapper used by every API endpoint.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Meta is normalized pagination metadata.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// RawMeta is pagination metadata as the API reports it. Endpoints disagree
// on naming, so both spellings are accepted.
type RawMeta struct {
	CurrentPage  *int `json:"currentPage,omitempty"`
	Page         *int `json:"page,omitempty"`
	ItemsPerPage *int `json:"itemsPerPage,omitempty"`
	Limit        *int `json:"limit,omitempty"`
	TotalItems   *int `json:"totalItems,omitempty"`
	Total        *int `json:"total,omitempty"`
	TotalPages   *int `json:"totalPages,omitempty"`
	ItemCount    *int `json:"itemCount,omitempty"`
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items []T `json:"items"`
	Meta  Meta `json:"meta"`
}

// ListData is the raw data section of a list endpoint.
type ListData[T any] struct {
	Items *[]T    `json:"items"`
	Meta  RawMeta `json:"meta"`
}
