// Package config loads config.yaml, an optional .env file and SATISFACTION_*
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"airsat/logger"
)

const envPrefix = "SATISFACTION_"

type Config struct {
	Http struct {
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	} `yaml:"http"`
	Log   logger.Config `yaml:"log"`
	Model struct {
		Type      string `yaml:"type"`
		Path      string `yaml:"path"`
		Watch     bool   `yaml:"watch"`
		CacheSize int    `yaml:"cache_size"`
	} `yaml:"model"`
	UI UIConfig `yaml:"ui"`
}

// UIConfig is the static content of the form page.
type UIConfig struct {
	Title      string   `yaml:"title"`
	About      string   `yaml:"about"`
	AssetsDir  string   `yaml:"assets_dir"`
	Background string   `yaml:"background"`
	Team       []string `yaml:"team"`
	Plots      []Plot   `yaml:"plots"`
}

type Plot struct {
	File    string `yaml:"file"`
	Caption string `yaml:"caption"`
}

func Default() *Config {
	var c Config
	c.Http.Port = 8080
	c.Http.Timeout = 30 * time.Second
	c.Http.AllowedOrigins = []string{"*"}
	c.Http.MaxBodyBytes = 1 << 16
	c.Log.Level = "info"
	c.Model.Type = "random_forest"
	c.Model.Path = "models/random_forest.json"
	c.Model.CacheSize = 1024
	c.UI.Title = "Airline Customer Satisfaction Prediction"
	c.UI.AssetsDir = "assets"
	return &c
}

// Load reads path on top of the defaults. A missing file is not an error; the
// defaults and environment are used instead.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := Default()
	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}
	return config, config.Validate()
}

func applyEnv(c *Config) error {
	if v, ok := os.LookupEnv(envPrefix + "HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sHTTP_PORT: %w", envPrefix, err)
		}
		c.Http.Port = port
	}
	if v, ok := os.LookupEnv(envPrefix + "MODEL_PATH"); ok {
		c.Model.Path = v
	}
	if v, ok := os.LookupEnv(envPrefix + "MODEL_TYPE"); ok {
		c.Model.Type = v
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_FILE"); ok {
		c.Log.File = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.Http.Port)
	}
	if c.Http.Timeout <= 0 {
		return errors.New("http timeout must be positive")
	}
	if c.Model.Path == "" {
		return errors.New("model path is required")
	}
	if c.Model.CacheSize < 0 {
		return errors.New("model cache size must not be negative")
	}
	return nil
}
