package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingToken(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("MONDAY_API_TOKEN", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestLoadTokenFromEnv(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("MONDAY_API_TOKEN", "env-token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.APIToken)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "labels", cfg.OutputDir)
	assert.Equal(t, "file_mm0fzm60", cfg.FileColumnID)
}

func TestLoadFromConfigFile(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("MONDAY_API_TOKEN", "")

	toml := `
[server]
port = "9090"

[monday]
api_token = "file-token"
file_column_id = "file_custom"

[labels]
output_dir = "/tmp/labels"
`
	require.NoError(t, os.WriteFile("config.toml", []byte(toml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.APIToken)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/labels", cfg.OutputDir)
	assert.Equal(t, "file_custom", cfg.FileColumnID)
}
