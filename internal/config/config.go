// Package config loads hubledger settings from an optional YAML file,
// an optional .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/example/hubledger/internal/db"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "hubledger.yaml"

// Config holds the runtime settings of the CLI.
// Credentials are environment-only and never read from YAML.
type Config struct {
	DBPath      string `yaml:"db_path" env:"HUBLEDGER_DB" env-default:""`
	LogLevel    string `yaml:"log_level" env:"HUBLEDGER_LOG_LEVEL" env-default:"info"`
	Environment string `yaml:"environment" env:"HUBLEDGER_ENV" env-default:"development"`
	BcryptCost  int    `yaml:"bcrypt_cost" env:"HUBLEDGER_BCRYPT_COST" env-default:"10"`

	Username string `yaml:"-" env:"HUBLEDGER_USER"`
	Password string `yaml:"-" env:"HUBLEDGER_PASSWORD"`
}

// Load reads configuration. A .env file in the working directory is loaded
// into the environment first if present; path is read if it exists,
// otherwise only the environment is consulted. Environment values override
// the file. An empty DBPath resolves to db.DefaultPath.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if path != "" && fileExists(path) {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolve() error {
	if c.DBPath == "" {
		p, err := db.DefaultPath()
		if err != nil {
			return err
		}
		c.DBPath = p
	}
	p, err := db.ExpandPath(c.DBPath)
	if err != nil {
		return err
	}
	c.DBPath = p

	if c.BcryptCost <= 0 {
		return fmt.Errorf("bcrypt_cost must be positive, got %d", c.BcryptCost)
	}
	return nil
}

// HasCredentials reports whether a username and password were supplied.
func (c *Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
