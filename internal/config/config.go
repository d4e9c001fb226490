package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	once    sync.Once
	loadErr error
)

// Config holds everything the service reads from the environment.
type Config struct {
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	Redis RedisConfig
}

// RedisConfig describes how to reach the remote user store.
type RedisConfig struct {
	Host           string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port           int           `env:"REDIS_PORT" envDefault:"6379"`
	DB             int           `env:"REDIS_DB" envDefault:"1"`
	Password       string        `env:"REDIS_PASSWORD"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"1s"`
}

// Addr returns host:port for the redis client.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Load reads the .env file once and loads variables into the environment.
// The file is looked up next to the executable first, then in the working
// directory. A missing file is not an error; variables already set in the
// environment win over the file.
func Load() error {
	once.Do(func() {
		var candidates []string
		if exePath, err := os.Executable(); err == nil {
			candidates = append(candidates, filepath.Join(filepath.Dir(exePath), ".env"))
		}
		candidates = append(candidates, ".env")
		loadErr = loadFirst(candidates)
	})
	return loadErr
}

// loadFirst loads the first existing file among candidates.
func loadFirst(candidates []string) error {
	for _, envPath := range candidates {
		if _, err := os.Stat(envPath); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("load %s: %w", envPath, err)
		}
		return nil
	}
	return nil
}

// Parse loads the .env file (once) and parses the environment into a Config.
func Parse() (Config, error) {
	if err := Load(); err != nil {
		return Config{}, err
	}
	return ParseEnv()
}

// ParseEnv parses the current environment without touching .env files.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
