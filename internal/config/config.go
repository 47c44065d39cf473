package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ErrMissingToken means no Monday API credential was configured. Surfaced at
// startup, not on the first webhook.
var ErrMissingToken = errors.New("monday.api_token is not set; set it in config.toml or export MONDAY_API_TOKEN")

const (
	defaultPort         = "8080"
	defaultOutputDir    = "labels"
	defaultFileColumnID = "file_mm0fzm60"
)

// Config is everything the service needs, resolved once at startup.
type Config struct {
	Port         string
	APIToken     string
	FileColumnID string
	OutputDir    string
}

// Load reads config.toml via viper, with MONDAY_API_TOKEN as the environment
// override for the credential, and validates that the credential is present.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.SetDefault("server.port", defaultPort)
	viper.SetDefault("labels.output_dir", defaultOutputDir)
	viper.SetDefault("monday.file_column_id", defaultFileColumnID)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config.toml is fine as long as the token comes from the environment.
	}

	if err := viper.BindEnv("monday.api_token", "MONDAY_API_TOKEN"); err != nil {
		return nil, fmt.Errorf("error binding MONDAY_API_TOKEN: %w", err)
	}

	cfg := &Config{
		Port:         viper.GetString("server.port"),
		APIToken:     strings.TrimSpace(viper.GetString("monday.api_token")),
		FileColumnID: viper.GetString("monday.file_column_id"),
		OutputDir:    viper.GetString("labels.output_dir"),
	}
	if cfg.APIToken == "" {
		return nil, ErrMissingToken
	}
	return cfg, nil
}
