package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            string `yaml:"port"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		TTL string `yaml:"ttl"`
	} `yaml:"catalog"`
	Quiz struct {
		Tick       string `yaml:"tick"`
		SessionTTL string `yaml:"session_ttl"`
	} `yaml:"quiz"`
	Writer struct {
		Workers int    `yaml:"workers"`
		Queue   int    `yaml:"queue"`
		Retries int    `yaml:"retries"`
		Backoff string `yaml:"backoff"`
	} `yaml:"writer"`
	Pin struct {
		BcryptCost int `yaml:"bcrypt_cost"`
	} `yaml:"pin"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads YAML config from path and applies QUIZ_* environment overrides.
// A missing file yields defaults plus overrides.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"QUIZ_SERVER_PORT":    &cfg.Server.Port,
		"QUIZ_REDIS_ADDR":     &cfg.Redis.Addr,
		"QUIZ_REDIS_PASSWORD": &cfg.Redis.Password,
		"QUIZ_POSTGRES_URL":   &cfg.Postgres.URL,
		"QUIZ_QUIZ_TICK":      &cfg.Quiz.Tick,
		"QUIZ_LOG_LEVEL":      &cfg.Log.Level,
		"QUIZ_LOG_FORMAT":     &cfg.Log.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"QUIZ_REDIS_DB":       &cfg.Redis.DB,
		"QUIZ_WRITER_WORKERS": &cfg.Writer.Workers,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
