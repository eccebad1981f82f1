package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Data: DataConfig{
			BasePath: "/some/path",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""
	assert.Error(t, cfg.Validate())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("QS_TEST_KEY", "from-env")

	// Flag wins over env.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "QS_TEST_KEY", "default"))
	// Env wins over default.
	assert.Equal(t, "from-env", getConfigValue("", "QS_TEST_KEY", "default"))
	// Default when nothing else is set.
	assert.Equal(t, "default", getConfigValue("", "QS_TEST_UNSET", "default"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := expandPath("~/shelf/data", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "shelf", "data"), expanded)

	expanded, err = expandPath("", "/fallback")
	require.NoError(t, err)
	assert.Equal(t, "/fallback", expanded)

	expanded, err = expandPath("/abs/path/../path", "")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", expanded)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nQS_ENVFILE_A=hello\nQS_ENVFILE_B=\"quoted\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("QS_ENVFILE_A", "")
	os.Unsetenv("QS_ENVFILE_A")
	t.Setenv("QS_ENVFILE_B", "already-set")

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "hello", os.Getenv("QS_ENVFILE_A"))
	// Real environment variables take precedence over the .env file.
	assert.Equal(t, "already-set", os.Getenv("QS_ENVFILE_B"))

	os.Unsetenv("QS_ENVFILE_A")
}

func TestLoadEnvFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NOT A PAIR\n"), 0o600))

	assert.Error(t, loadEnvFile(envPath))
}
