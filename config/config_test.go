package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "marketplace", cfg.MongoDatabase)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "memory", cfg.Media.Backend)
	assert.Equal(t, int64(10<<20), cfg.Media.MaxUploadBytes)
	assert.True(t, cfg.Review.RequireOrderOwner)
	assert.Equal(t, 5, cfg.Review.MaxAttempts)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_CloudinaryRequiresCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MEDIA_BACKEND", "cloudinary")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cloudinary")
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MEDIA_BACKEND", "ftp")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_OwnerCheckCanBeDisabled(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REVIEW_REQUIRE_ORDER_OWNER", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Review.RequireOrderOwner)
}

func TestGetEnv_Fallback(t *testing.T) {
	t.Setenv("MARKETPLACE_SET", "value")

	assert.Equal(t, "value", GetEnv("MARKETPLACE_SET", "fallback"))
	assert.Equal(t, "fallback", GetEnv("MARKETPLACE_DEFINITELY_UNSET", "fallback"))
}

func TestLoadEnv_ReadsNamedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("MARKETPLACE_FROM_FILE=yes\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Cleanup(func() { os.Unsetenv("MARKETPLACE_FROM_FILE") })

	LoadEnv()

	assert.Equal(t, "yes", os.Getenv("MARKETPLACE_FROM_FILE"))
}
