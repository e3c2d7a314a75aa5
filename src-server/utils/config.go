package utils

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	MODE_TEST = Mode("test")
	MODE_DEV  = Mode("dev")
	MODE_PROD = Mode("prod")
)

const defaultSecretKey = "verysecret"

type Config struct {
	mode Mode
	port string

	databaseURI string
	secretKey   string

	debug                    bool
	naturalDates             bool
	metricCollectionInterval time.Duration
}

// fileConfig mirrors the keys accepted in the optional CONFIG_FILE, env wins over it.
type fileConfig struct {
	Mode                     string `yaml:"mode"`
	Port                     string `yaml:"port"`
	DatabaseURI              string `yaml:"database_uri"`
	SecretKey                string `yaml:"secret_key"`
	NaturalDates             string `yaml:"natural_dates"`
	MetricCollectionInterval string `yaml:"metric_collection_interval"`
}

func (f *fileConfig) get(key string) string {
	if f == nil {
		return ""
	}
	switch key {
	case "APP_MODE":
		return f.Mode
	case "PORT":
		return f.Port
	case "DATABASE_URI":
		return f.DatabaseURI
	case "SECRET_KEY":
		return f.SecretKey
	case "NATURAL_DATES":
		return f.NaturalDates
	case "METRIC_COLLECTION_INTERVAL":
		return f.MetricCollectionInterval
	}
	return ""
}

func loadFileConfig(path string) (*fileConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("can't parse config file: %w", err)
	}
	return &fc, nil
}

// NewConfig builds the configuration once at process start. getenv is usually
// os.Getenv; CONFIG_FILE, if set, provides values for keys missing from it.
func NewConfig(getenv func(string) string) (*Config, error) {
	fc, err := loadFileConfig(getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	lookup := func(key string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(fc.get(key))
	}

	var errs []error
	c := &Config{}

	c.mode = func() Mode {
		mode := Mode(strings.ToLower(lookup("APP_MODE")))
		switch mode {
		case "":
			mode = MODE_DEV
		case MODE_TEST, MODE_DEV, MODE_PROD:
		default:
			errs = append(errs, fmt.Errorf("invalid APP_MODE %q, want test, dev or prod", mode))
		}
		slog.Debug("env", "APP_MODE", mode)
		return mode
	}()
	c.debug = c.mode != MODE_PROD

	c.port = func() string {
		port := lookup("PORT")
		if port == "" {
			port = "8080"
		}
		slog.Debug("env", "PORT", port)
		return port
	}()

	c.databaseURI = func() string {
		switch c.mode {
		case MODE_TEST:
			return "file::memory:?cache=shared"
		case MODE_DEV:
			if uri := lookup("DATABASE_URI"); uri != "" {
				return uri
			}
			return "./community.db?mode=rwc"
		}
		uri := lookup("DATABASE_URI")
		if uri == "" {
			errs = append(errs, errors.New("DATABASE_URI is not set"))
		}
		return uri
	}()

	c.secretKey = func() string {
		secret := lookup("SECRET_KEY")
		if secret != "" {
			return secret
		}
		if c.mode == MODE_PROD {
			errs = append(errs, errors.New("SECRET_KEY is not set"))
			return ""
		}
		slog.Warn("SECRET_KEY is not set, using the development default")
		return defaultSecretKey
	}()

	c.naturalDates = func() bool {
		raw := lookup("NATURAL_DATES")
		if raw == "" {
			return false
		}
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid NATURAL_DATES: %w", err))
		}
		slog.Debug("env", "NATURAL_DATES", enabled)
		return enabled
	}()

	c.metricCollectionInterval = func() time.Duration {
		raw := lookup("METRIC_COLLECTION_INTERVAL")
		if raw == "" {
			raw = "15s"
		}
		duration, err := time.ParseDuration(raw)
		if err != nil || duration <= 0 {
			errs = append(errs, fmt.Errorf("invalid METRIC_COLLECTION_INTERVAL %q", raw))
			return 15 * time.Second
		}
		slog.Debug("env", "METRIC_COLLECTION_INTERVAL", duration)
		return duration
	}()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// Get APP_MODE env, default to dev
func (c *Config) GetMode() Mode {
	return c.mode
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Storage location selected by the mode
func (c *Config) GetDatabaseURI() string {
	return c.databaseURI
}

// Get SECRET_KEY env
func (c *Config) GetSecretKey() string {
	return c.secretKey
}

// Verbose diagnostics, off in prod
func (c *Config) IsDebug() bool {
	return c.debug
}

// Get NATURAL_DATES env
func (c *Config) GetNaturalDates() bool {
	return c.naturalDates
}

// Get METRIC_COLLECTION_INTERVAL env, default to 15s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}
