// Package config loads tool configuration from file and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the import tool configuration.
type Config struct {
	Import   ImportConfig
	Server   ServerConfig
	Database DatabaseConfig
}

// ImportConfig holds batch import settings.
type ImportConfig struct {
	InputDir    string `mapstructure:"input_dir"`
	OutputFile  string `mapstructure:"output_file"`
	DefaultYear int    `mapstructure:"default_year"` // 0 means detect per file
}

// ServerConfig holds the conversion API settings.
type ServerConfig struct {
	Listen string
}

// DatabaseConfig holds the Postgres connection for the apply command.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from an optional TOML file and the
// environment. Env var overrides use prefix OVNI_, e.g.
// OVNI_DATABASE_URL or OVNI_IMPORT_INPUT_DIR.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("import.input_dir", "./data/exports")
	v.SetDefault("import.output_file", "./out/import.sql")
	v.SetDefault("import.default_year", 0)
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("database.url", "")

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("OVNI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
