package config

import (
	"errors"
	"os"
	"regexp"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/robfig/cron/v3"
)

const (
	DefaultListenAddress = "0.0.0.0:8545"
	DefaultResultTTL     = time.Hour
	DefaultSweepSpec     = "@every 1m"
	DefaultJobTimeout    = 5 * time.Minute
	DefaultLanguage      = "zh-TW"
	DefaultTopN          = 3
	DefaultRadius        = 5000
)

var (
	ErrInvalidListenAddress = errors.New("invalid listen address")
	ErrInvalidResultTTL     = errors.New("invalid job result TTL")
	ErrInvalidSweepSpec     = errors.New("invalid job sweep spec")
	ErrInvalidJobTimeout    = errors.New("invalid job timeout")
	ErrInvalidTopN          = errors.New("invalid number of ranked offers")
	ErrInvalidRadius        = errors.New("invalid branch search radius")
)

var listenAddressRegex = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}:\d+$`)

// Config defines the base-level server configuration
type Config struct {
	// The associated CORS config, if any
	CORSConfig *CORS `toml:"cors_config"`

	// The background job settings
	JobsConfig *Jobs `toml:"jobs_config"`

	// The best-offer branch search settings
	PlacesConfig *Places `toml:"places_config"`

	// The address at which the server will be served.
	// Format should be: <IP>:<PORT>
	ListenAddress string `toml:"listen_address"`
}

// CORS defines the cross-origin request policy
type CORS struct {
	AllowedOrigins []string `toml:"allowed_origins"`
	AllowedMethods []string `toml:"allowed_methods"`
	AllowedHeaders []string `toml:"allowed_headers"`
}

// Jobs defines the background job retention
type Jobs struct {
	// How long finished job statuses are kept
	ResultTTL time.Duration `toml:"result_ttl"`

	// The upper bound on a single job's run time
	Timeout time.Duration `toml:"timeout"`

	// The cron spec of the expired status sweep
	SweepSpec string `toml:"sweep_spec"`
}

// Places defines the nearest branch search
type Places struct {
	// The place search result language
	Language string `toml:"language"`

	// The number of ranked offers paired with branches
	TopN int `toml:"top_n"`

	// The branch search radius around the user, in meters
	Radius int `toml:"radius"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		ListenAddress: DefaultListenAddress,
		CORSConfig:    DefaultCORSConfig(),
		JobsConfig:    DefaultJobsConfig(),
		PlacesConfig:  DefaultPlacesConfig(),
	}
}

// DefaultCORSConfig returns the default CORS policy (any origin)
func DefaultCORSConfig() *CORS {
	return &CORS{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}
}

// DefaultJobsConfig returns the default job retention
func DefaultJobsConfig() *Jobs {
	return &Jobs{
		ResultTTL: DefaultResultTTL,
		Timeout:   DefaultJobTimeout,
		SweepSpec: DefaultSweepSpec,
	}
}

// DefaultPlacesConfig returns the default branch search settings
func DefaultPlacesConfig() *Places {
	return &Places{
		Language: DefaultLanguage,
		TopN:     DefaultTopN,
		Radius:   DefaultRadius,
	}
}

// ValidateConfig validates the server configuration
func ValidateConfig(config *Config) error {
	// Validate the listen address
	if !listenAddressRegex.MatchString(config.ListenAddress) {
		return ErrInvalidListenAddress
	}

	if jobs := config.JobsConfig; jobs != nil {
		if jobs.ResultTTL <= 0 {
			return ErrInvalidResultTTL
		}

		if jobs.Timeout <= 0 {
			return ErrInvalidJobTimeout
		}

		if _, err := cron.ParseStandard(jobs.SweepSpec); err != nil {
			return ErrInvalidSweepSpec
		}
	}

	if places := config.PlacesConfig; places != nil {
		if places.TopN <= 0 {
			return ErrInvalidTopN
		}

		if places.Radius <= 0 {
			return ErrInvalidRadius
		}
	}

	return nil
}

// Read reads the configuration from the given path.
// Sections missing from the file keep their defaults
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it on top of the defaults
	cfg := DefaultConfig()

	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
