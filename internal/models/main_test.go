package models

import "testing"

func TestRolValid(t *testing.T) {
	tests := []struct {
		rol  Rol
		want bool
	}{
		{RolAdmin, true},
		{RolStaff, true},
		{RolPublico, true},
		{"", false},
		{"admin", false},
	}
	for _, tt := range tests {
		if got := tt.rol.Valid(); got != tt.want {
			t.Errorf("Rol(%q).Valid() = %v; want %v", tt.rol, got, tt.want)
		}
	}
}

func TestUsuarioFullName(t *testing.T) {
	tests := []struct {
		u    Usuario
		want string
	}{
		{Usuario{Nombres: "Ana", Apellidos: "Ríos"}, "Ana Ríos"},
		{Usuario{Nombres: "Ana"}, "Ana"},
		{Usuario{Apellidos: "Ríos"}, "Ríos"},
		{Usuario{}, ""},
	}
	for _, tt := range tests {
		if got := tt.u.FullName(); got != tt.want {
			t.Errorf("FullName() = %q; want %q", got, tt.want)
		}
	}
}
