// Package config loads the library runtime configuration from YAML with
// environment overrides and applies it.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/23skdu/longbow-sparse/internal/space"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LONGBOW_SPARSE_"

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Space   space.Config  `yaml:"space"`
	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

func Default() Config {
	return Config{
		Space:   space.DefaultConfig(),
		Logging: LoggingConfig{Level: "info", Console: true},
	}
}

// Load reads path over the defaults, substitutes ${VAR} references,
// applies LONGBOW_SPARSE_* overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the caller
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal([]byte(substituteEnvVars(string(data))), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Save writes cfg as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from LONGBOW_SPARSE_BACKEND, _THREADS,
// _DEVICE_BLOCK_SIZE, _LOG_LEVEL and _LOG_CONSOLE. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvPrefix + "BACKEND"); v != "" {
		c.Space.DefaultBackend = v
	}
	if v := getenv(EnvPrefix + "THREADS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sTHREADS=%q: %v", ErrInvalid, EnvPrefix, v, err)
		}
		c.Space.Threads = n
	}
	if v := getenv(EnvPrefix + "DEVICE_BLOCK_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sDEVICE_BLOCK_SIZE=%q: %v", ErrInvalid, EnvPrefix, v, err)
		}
		c.Space.DeviceBlockSize = n
	}
	if v := getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getenv(EnvPrefix + "LOG_CONSOLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sLOG_CONSOLE=%q: %v", ErrInvalid, EnvPrefix, v, err)
		}
		c.Logging.Console = b
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.Space.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}

// SetupLogging points the global zerolog logger at w with the configured
// level.
func SetupLogging(cfg LoggingConfig, w io.Writer) error {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, cfg.Level)
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Caller().Logger()
	} else {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	}
	return nil
}

// Bootstrap validates cfg, configures logging to stderr and initializes
// the process-wide execution runtime. Pair it with space.Finalize.
func Bootstrap(cfg Config) (*space.Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := SetupLogging(cfg.Logging, os.Stderr); err != nil {
		return nil, err
	}
	return space.Initialize(cfg.Space)
}

// substituteEnvVars replaces ${VAR_NAME} with the variable's value.
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start
		content = content[:start] + os.Getenv(content[start+2:end]) + content[end+1:]
	}
	return content
}
