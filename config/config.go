package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	DBPath          string        `yaml:"db_path" env:"TASKS_DB_PATH" env-default:"tasks.db"`
	DBDebug         bool          `yaml:"db_debug" env:"TASKS_DB_DEBUG" env-default:"false"`
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"ERROR"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"TASKS_REQUEST_TIMEOUT" env-default:"5s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TASKS_SHUTDOWN_TIMEOUT" env-default:"10s"`
	HistorySize     int           `yaml:"history_size" env:"TASKS_HISTORY_SIZE" env-default:"100"`
	NoColor         bool          `yaml:"no_color" env:"NO_COLOR" env-default:"false"`
}

// Load reads the config file at configPath. A missing file, or an empty
// path, falls back to the environment. Variables from a .env file in the
// working directory are loaded first when the file exists.
func Load(configPath string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("cannot read .env: %w", err)
	}

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, fmt.Errorf("cannot read env: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return cfg, fmt.Errorf("cannot read config %q: %w", configPath, err)
		}
		cfg = Config{}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, fmt.Errorf("cannot read env: %w", err)
		}
	}

	return cfg, nil
}

func MustLoad(configPath string) Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// SlogLevel maps LogLevel onto a slog level. Unknown values mean INFO.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
