package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "SHUTDOWN_TIMEOUT_SECONDS", "STAFF_TOKEN_TTL_MINUTES", "CUSTOMER_TOKEN_TTL_HOURS", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 8*time.Hour, cfg.StaffTokenTTL)
	assert.Equal(t, 48*time.Hour, cfg.CustomerTokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("STAFF_TOKEN_TTL_MINUTES", "abc")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 8*time.Hour, cfg.StaffTokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	cfg := Config{DBConnString: "postgres://x"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
	assert.Contains(t, err.Error(), "CUSTOMER_JWT_SECRET is required")

	cfg.StaffJWTSecret = "same"
	cfg.CustomerJWTSecret = "same"
	require.ErrorContains(t, cfg.Validate(), "must differ")

	cfg.CustomerJWTSecret = "other"
	require.NoError(t, cfg.Validate())
}
