package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate validates the configuration and returns an error if invalid
func Validate(config *Config) error {
	if err := validateBackendConfig(&config.Backend); err != nil {
		return fmt.Errorf("backend config validation failed: %w", err)
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}

	if err := validateGeneralConfig(&config.General); err != nil {
		return fmt.Errorf("general config validation failed: %w", err)
	}

	if err := validateUIConfig(&config.UI); err != nil {
		return fmt.Errorf("ui config validation failed: %w", err)
	}

	return nil
}

// validateBackendConfig validates the file service configuration
func validateBackendConfig(config *BackendConfig) error {
	switch strings.ToLower(config.Kind) {
	case "http":
		if strings.TrimSpace(config.BaseURL) == "" {
			return fmt.Errorf("base_url is required for the http backend")
		}
		u, err := url.Parse(config.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base_url: %s", config.BaseURL)
		}
	case "s3":
		return validateS3Config(&config.S3)
	default:
		return fmt.Errorf("invalid backend kind: %s (valid: http, s3)", config.Kind)
	}
	return nil
}

// validateS3Config validates S3 specific configuration
func validateS3Config(config *S3Config) error {
	if strings.TrimSpace(config.AccountID) == "" && (config.Endpoint == "" || config.Endpoint == "auto") {
		return fmt.Errorf("account_id or endpoint is required")
	}

	if strings.TrimSpace(config.AccessKeyID) == "" {
		return fmt.Errorf("access_key_id is required")
	}

	if strings.TrimSpace(config.AccessKeySecret) == "" {
		return fmt.Errorf("access_key_secret is required")
	}

	if strings.TrimSpace(config.BucketName) == "" {
		return fmt.Errorf("bucket_name is required")
	}

	if !isValidBucketName(config.BucketName) {
		return fmt.Errorf("invalid bucket_name format: %s", config.BucketName)
	}

	return nil
}

// validateLogConfig validates log configuration
func validateLogConfig(config *LogConfig) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
		"panic": true,
	}

	level := strings.ToLower(config.Level)
	if !validLevels[level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error, fatal, panic)", config.Level)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}

	format := strings.ToLower(config.Format)
	if !validFormats[format] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", config.Format)
	}

	return nil
}

// validateGeneralConfig validates general configuration
func validateGeneralConfig(config *GeneralConfig) error {
	if config.DefaultTimeout <= 0 {
		return fmt.Errorf("default_timeout must be positive, got: %d", config.DefaultTimeout)
	}

	if config.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got: %d", config.MaxRetries)
	}

	if config.SceneCacheTTL < 0 {
		return fmt.Errorf("scene_cache_ttl must be non-negative, got: %d", config.SceneCacheTTL)
	}

	return nil
}

// validateUIConfig validates user interface configuration
func validateUIConfig(config *UIConfig) error {
	switch strings.ToLower(config.PreviewPolicy) {
	case "structure", "text":
	default:
		return fmt.Errorf("invalid preview_policy: %s (valid: structure, text)", config.PreviewPolicy)
	}

	if config.Height <= 0 {
		return fmt.Errorf("height must be positive, got: %d", config.Height)
	}

	switch strings.ToLower(config.RenderMode) {
	case "auto", "text", "graphics":
	default:
		return fmt.Errorf("invalid render_mode: %s (valid: auto, text, graphics)", config.RenderMode)
	}

	switch strings.ToLower(config.Axes.Mode) {
	case "lattice", "cartesian":
	default:
		return fmt.Errorf("invalid axes mode: %s (valid: lattice, cartesian)", config.Axes.Mode)
	}

	return nil
}

// isValidBucketName checks if the bucket name follows basic S3 naming rules
func isValidBucketName(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}

	// Must start and end with letter or number
	if !isAlphaNum(name[0]) || !isAlphaNum(name[len(name)-1]) {
		return false
	}

	for i, char := range name {
		if !isAlphaNum(byte(char)) && char != '-' && char != '.' {
			return false
		}

		// Cannot have consecutive periods or period-dash combinations
		if i > 0 {
			prev := name[i-1]
			if char == '.' && (prev == '.' || prev == '-') {
				return false
			}
			if char == '-' && prev == '.' {
				return false
			}
		}
	}

	return true
}

// isAlphaNum checks if a byte is alphanumeric
func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
