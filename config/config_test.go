package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadLeavesAdminDisabledByDefault(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	cfg := Load()
	assert.Empty(t, cfg.Admin.JWTSecret)
	assert.Empty(t, cfg.Admin.PasswordHash)
}

func TestLoadReadsAdminSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")

	cfg := Load()
	assert.Equal(t, "from-env", cfg.Admin.JWTSecret)
}
