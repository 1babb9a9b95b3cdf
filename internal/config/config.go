// Package config loads process configuration by layering defaults, an
// optional YAML file, and environment variables.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file path.
	DBPath string `koanf:"db_path"`

	// LogPath optionally mirrors all log output to a file.
	LogPath string `koanf:"log_path"`

	// WeatherBaseURL is the forecast provider endpoint.
	WeatherBaseURL string `koanf:"weather_base_url"`

	// FallbackLatitude and FallbackLongitude are used when geolocation
	// fails or times out.
	FallbackLatitude  float64 `koanf:"fallback_latitude"`
	FallbackLongitude float64 `koanf:"fallback_longitude"`

	// LocationTimeoutMS bounds the wait on geolocation before falling
	// back to the fixed coordinate.
	LocationTimeoutMS int `koanf:"location_timeout_ms"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:              ":8080",
		DBPath:            "dolap.sqlite3",
		WeatherBaseURL:    "https://api.open-meteo.com",
		FallbackLatitude:  41.0082,
		FallbackLongitude: 28.9784,
		LocationTimeoutMS: 3000,
	}
}

// Load builds a Config by layering defaults, an optional YAML file, and
// env vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DOLAP_CONFIG is set
//  3. env (prefix DOLAP_), e.g. DOLAP_ADDR, DOLAP_DB_PATH
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("DOLAP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Preserve underscores so env keys map onto the koanf tags.
	envProvider := env.Provider("DOLAP_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "dolap_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.DBPath == "" {
		return nil, errors.New("db_path must not be empty")
	}
	if cfg.WeatherBaseURL == "" {
		return nil, errors.New("weather_base_url must not be empty")
	}
	if cfg.LocationTimeoutMS <= 0 {
		return nil, errors.New("location_timeout_ms must be positive")
	}
	return &cfg, nil
}
