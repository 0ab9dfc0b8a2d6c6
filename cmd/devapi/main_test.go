package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/uecsr/portal/internal/config"
	"github.com/uecsr/portal/internal/models"
	"github.com/uecsr/portal/internal/repository"
)

func TestSeedAdmin(t *testing.T) {
	repo := repository.NewMemory(repository.WithHashCost(bcrypt.MinCost))
	options := &config.Options{DevAdminEmail: "root@uecsr.edu.ec", DevAdminPassword: "cambiame"}

	require.NoError(t, seedAdmin(context.Background(), repo, options))
	u, err := repo.Authenticate(context.Background(), "root@uecsr.edu.ec", "cambiame")
	require.NoError(t, err)
	assert.Equal(t, models.RolAdmin, u.Rol)

	err = seedAdmin(context.Background(), repo, options)
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestTLSHosts(t *testing.T) {
	tests := []struct {
		addr string
		want []string
	}{
		{"localhost:3000", []string{"localhost", "127.0.0.1"}},
		{":3000", []string{"localhost", "127.0.0.1"}},
		{"10.0.0.5:3443", []string{"10.0.0.5", "localhost", "127.0.0.1"}},
		{"portal.local:443", []string{"portal.local", "localhost", "127.0.0.1"}},
		{"garbage", []string{"localhost", "127.0.0.1"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tlsHosts(tt.addr), tt.addr)
	}
}
