// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/venari/venari/pkg/types"
)

// Load reads configuration from the given YAML file (optional), layers
// environment overrides on top, and fills every unset field with its
// default. A missing key is never an error.
func Load(path string) (*types.Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(".venari")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("VENARI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := v.ReadInConfig(); err != nil {
		// An explicitly named file must exist; the default search is
		// best effort
		if path != "" {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := types.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the transport cannot honor
func Validate(cfg *types.Config) error {
	if cfg.Target.Timeout <= 0 {
		return fmt.Errorf("target.timeout must be positive, got %v", cfg.Target.Timeout)
	}
	if cfg.Request.Retry < 0 {
		return fmt.Errorf("request.retry must not be negative, got %d", cfg.Request.Retry)
	}
	if cfg.Request.Delay < 0 {
		return fmt.Errorf("request.delay must not be negative, got %v", cfg.Request.Delay)
	}
	if cfg.Request.Threads < 1 {
		return fmt.Errorf("request.threads must be at least 1, got %d", cfg.Request.Threads)
	}
	if cfg.Proxy.Enabled && cfg.Proxy.HTTP == "" && cfg.Proxy.HTTPS == "" {
		return fmt.Errorf("proxy.enabled requires at least one proxy URL")
	}
	if cfg.Detection.ScoreThresholdLikely < cfg.Detection.ScoreThresholdPossible {
		return fmt.Errorf("detection.score_threshold_likely (%d) must not be below score_threshold_possible (%d)",
			cfg.Detection.ScoreThresholdLikely, cfg.Detection.ScoreThresholdPossible)
	}
	return nil
}
