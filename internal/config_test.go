package internal

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/fraudbase")
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_PROVIDER", "")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "local", cfg.StorageProvider)
	assert.NotEmpty(t, cfg.JWTSecret, "development falls back to a fixed secret")
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, int64(10<<20), cfg.UploadMaxBytes)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestNewConfig_ProductionNeedsJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/fraudbase")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNewConfig_R2RequiresCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/fraudbase")
	t.Setenv("ENV", "development")
	t.Setenv("STORAGE_PROVIDER", "r2")
	t.Setenv("R2_ACCOUNT_ID", "")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "R2_ACCOUNT_ID")
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, getEnvList("ALLOWED_ORIGINS", ""))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger_MasksCPF(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "production", "info")

	logger.Info("report requested", "cpf", "123.456.789-01", "style", "colorido")

	assert.NotContains(t, buf.String(), "123.456.789")
	assert.Contains(t, buf.String(), `"cpf":"***.***.***-01"`)
	assert.Contains(t, buf.String(), `"style":"colorido"`)
}

func TestMaskCPF(t *testing.T) {
	assert.Equal(t, "***.***.***-01", MaskCPF("12345678901"))
	assert.Equal(t, "***", MaskCPF("1"))
}
