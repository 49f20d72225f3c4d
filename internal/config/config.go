// Package config loads command settings from the environment and optional
// dotenv files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "XERKIT_"

// Config holds all settings for the command line tool.
type Config struct {
	DBPath   string `env:"DB"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn" validate:"oneof=debug info warn error"`
	LogFile  string `env:"LOG_FILE"`
	Workers  int    `env:"WORKERS" envDefault:"4" validate:"gte=1,lte=64"`
	Rules    string `env:"RULES" validate:"omitempty,file"`
	Strict   bool   `env:"STRICT" envDefault:"false"`
}

var validate = validator.New()

// DefaultEnvFiles are read, when present, before the environment.
var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnv loads the dotenv files that exist and returns how many were read.
// Variables already set in the environment win.
func LoadEnv(files []string) (int, error) {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads dotenv files and the environment. An unset database path
// defaults to ~/.xerkit/xerkit.db.
func Load(envFiles ...string) (Config, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return Config{}, fmt.Errorf("loading env files: %w", err)
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".xerkit", "xerkit.db")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting by its variable name.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fmt.Errorf("%s%s: invalid value %v (%s)", EnvPrefix, envNames[fe.Field()], fe.Value(), fe.Tag()))
	}
	return errors.Join(errs...)
}

var envNames = map[string]string{
	"DBPath":   "DB",
	"LogLevel": "LOG_LEVEL",
	"LogFile":  "LOG_FILE",
	"Workers":  "WORKERS",
	"Rules":    "RULES",
	"Strict":   "STRICT",
}
