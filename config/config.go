// Package config loads SDK settings from a YAML file merged over defaults,
// followed by RAMP_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	Staging    = "staging"
	Production = "production"
)

type Config struct {
	Environment   string
	PartnerAPIKey string
	// BaseURLs maps a lower-case environment name to its API gateway.
	BaseURLs map[string]string
	Timeout  time.Duration
	// RateLimit is the sustained request rate per second. Zero disables
	// client-side limiting.
	RateLimit float64
	RateBurst int
	LogLevel  string
	JSONLogs  bool
}

// File is the on-disk shape. Pointers tell an explicit zero from an
// unset key.
type File struct {
	Environment   string            `yaml:"environment"`
	PartnerAPIKey string            `yaml:"partnerApiKey"`
	BaseURLs      map[string]string `yaml:"baseUrls"`
	Timeout       time.Duration     `yaml:"timeout"`
	RateLimit     *float64          `yaml:"rateLimit"`
	RateBurst     int               `yaml:"rateBurst"`
	LogLevel      string            `yaml:"logLevel"`
	JSONLogs      *bool             `yaml:"jsonLogs"`
}

func Default() Config {
	return Config{
		Environment: Staging,
		BaseURLs: map[string]string{
			Staging:    "https://api-gateway-stg.transak.com",
			Production: "https://api-gateway.transak.com",
		},
		Timeout:   30 * time.Second,
		RateLimit: 5,
		RateBurst: 10,
		LogLevel:  "info",
	}
}

var defaultCandidates = []string{
	"rampsdk.yaml",
	"configs/rampsdk.yaml",
}

// LoadFromPath reads configPath, or the first default candidate that
// exists when configPath is empty, and applies environment overrides.
// An explicit path that cannot be read is an error; missing candidates
// are not.
func LoadFromPath(configPath string) (Config, error) {
	cfg := Default()

	candidates := defaultCandidates
	if configPath != "" {
		candidates = []string{configPath}
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if configPath != "" {
				return Config{}, err
			}
			continue
		}

		var parsed File
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		Merge(&cfg, parsed)
		break
	}

	ApplyEnvOverrides(&cfg)
	return cfg, nil
}

func Merge(dst *Config, src File) {
	if src.Environment != "" {
		dst.Environment = src.Environment
	}
	if src.PartnerAPIKey != "" {
		dst.PartnerAPIKey = src.PartnerAPIKey
	}
	if len(src.BaseURLs) > 0 {
		merged := make(map[string]string, len(dst.BaseURLs)+len(src.BaseURLs))
		for env, url := range dst.BaseURLs {
			merged[env] = url
		}
		for env, url := range src.BaseURLs {
			merged[strings.ToLower(env)] = url
		}
		dst.BaseURLs = merged
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.RateLimit != nil {
		dst.RateLimit = *src.RateLimit
	}
	if src.RateBurst != 0 {
		dst.RateBurst = src.RateBurst
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.JSONLogs != nil {
		dst.JSONLogs = *src.JSONLogs
	}
}

// ApplyEnvOverrides reads RAMP_ENVIRONMENT, RAMP_PARTNER_API_KEY,
// RAMP_BASE_URL, RAMP_LOG_LEVEL and RAMP_TIMEOUT. Malformed values are
// ignored.
func ApplyEnvOverrides(cfg *Config) {
	if env := strings.TrimSpace(os.Getenv("RAMP_ENVIRONMENT")); env != "" {
		cfg.Environment = env
	}
	if key := strings.TrimSpace(os.Getenv("RAMP_PARTNER_API_KEY")); key != "" {
		cfg.PartnerAPIKey = key
	}
	if level := strings.TrimSpace(os.Getenv("RAMP_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}
	if url := strings.TrimSpace(os.Getenv("RAMP_BASE_URL")); url != "" {
		// applies to whichever environment is selected
		urls := make(map[string]string, len(cfg.BaseURLs)+1)
		for env, u := range cfg.BaseURLs {
			urls[env] = u
		}
		urls[strings.ToLower(cfg.Environment)] = url
		cfg.BaseURLs = urls
	}

	raw := strings.TrimSpace(os.Getenv("RAMP_TIMEOUT"))
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil {
		cfg.Timeout = d
		return
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		cfg.Timeout = time.Duration(secs) * time.Second
	}
}

// Validate applies the constructor checks of the SDK.
func (c Config) Validate() error {
	if c.Environment == "" {
		return errors.New("Environment is required")
	}
	if c.PartnerAPIKey == "" {
		return errors.New("Partner API Key is required")
	}
	if c.BaseURLs[strings.ToLower(c.Environment)] == "" {
		return errors.New("Invalid environment")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit %v", c.RateLimit)
	}
	return nil
}

// BaseURL returns the gateway of the selected environment.
func (c Config) BaseURL() string {
	return c.BaseURLs[strings.ToLower(c.Environment)]
}
