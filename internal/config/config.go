package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the shell configuration. Values come from the optional YAML file,
// overridden by the environment (.env included).
type Config struct {
	AppEnv         string        `yaml:"app_env"`
	LogLevel       slog.Level    `yaml:"-"`
	LogLevelName   string        `yaml:"log_level"`
	ListenAddr     string        `yaml:"listen_addr"`
	BackendAddress string        `yaml:"backend_address"`
	Store          StoreConfig   `yaml:"store"`
	RestoreTimeout time.Duration `yaml:"restore_timeout"`
	LoginRate      float64       `yaml:"login_rate"`
	LoginBurst     int           `yaml:"login_burst"`

	// ConfigPath is the YAML file that was read, empty when none was found.
	ConfigPath string `yaml:"-"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"` // file, sqlite3 or postgres
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
	Key    string `yaml:"key"`
}

var configPaths = []string{
	"loadline.yaml",
	"configs/loadline.yaml",
}

func Default() Config {
	return Config{
		AppEnv:         "dev",
		LogLevel:       slog.LevelInfo,
		LogLevelName:   "info",
		ListenAddr:     "127.0.0.1:8765",
		BackendAddress: "http://127.0.0.1:8000",
		Store: StoreConfig{
			Driver: "file",
			Path:   "loadline.secrets",
		},
		RestoreTimeout: 10 * time.Second,
		LoginRate:      1,
		LoginBurst:     3,
	}
}

// Load reads .env, the first YAML file found and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.ConfigPath = path
		break
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := env("APP_ENV"); v != "" {
		cfg.AppEnv = v
	}
	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	if v := env("LOG_LEVEL"); v != "" {
		cfg.LogLevelName = v
	}
	level, err := parseLogLevel(cfg.LogLevelName)
	if err != nil {
		return err
	}
	cfg.LogLevel = level

	if v := env("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := env("BACKEND_ADDRESS"); v != "" {
		cfg.BackendAddress = v
	}

	if v := env("STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	switch cfg.Store.Driver {
	case "file", "sqlite3", "postgres":
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q (allowed: file, sqlite3, postgres)", cfg.Store.Driver)
	}
	if v := env("STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := env("STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := env("STORE_KEY"); v != "" {
		cfg.Store.Key = v
	}

	if v := env("RESTORE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RESTORE_TIMEOUT %q: %w", v, err)
		}
		cfg.RestoreTimeout = d
	}
	if cfg.RestoreTimeout <= 0 {
		return fmt.Errorf("invalid RESTORE_TIMEOUT %s (must be > 0)", cfg.RestoreTimeout)
	}

	if v := env("LOGIN_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid LOGIN_RATE %q", v)
		}
		cfg.LoginRate = f
	}
	if v := env("LOGIN_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid LOGIN_BURST %q", v)
		}
		cfg.LoginBurst = n
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
