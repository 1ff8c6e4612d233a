package config

import (
	"errors"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultPort     = "5000"
	DefaultLogLevel = "info"
)

var ErrMissingDatabaseURI = errors.New("MONGODB_URI is not set")

type Config struct {
	Port        string   `toml:"port"`
	DatabaseURI string   `toml:"mongodb_uri"`
	LogLevel    string   `toml:"log_level"`
	CORSOrigins []string `toml:"cors_origins"`
}

// Load reads .env (if present), then the TOML file named by TODO_CONFIG
// (if set), then the process environment. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path := os.Getenv("TODO_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	setDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	// DATABASE_URL is what most hosts inject for Postgres/MySQL add-ons.
	if v := os.Getenv("MONGODB_URI"); v != "" {
		cfg.DatabaseURI = v
	} else if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURI = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
}

func setDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
}

// Validate reports configuration the process cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURI) == "" {
		return ErrMissingDatabaseURI
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
