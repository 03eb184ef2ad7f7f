package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	General  GeneralConfig  `mapstructure:"general"`
	Download DownloadConfig `mapstructure:"download"`
	UI       UIConfig       `mapstructure:"ui"`
}

// BackendConfig selects and configures the remote file service
type BackendConfig struct {
	Kind    string   `mapstructure:"kind"` // "http" or "s3"
	BaseURL string   `mapstructure:"base_url"`
	S3      S3Config `mapstructure:"s3"`
}

// S3Config holds S3/R2 specific configuration for the bucket-backed service
type S3Config struct {
	AccountID       string `mapstructure:"account_id"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
}

// AuthConfig holds credential configuration
type AuthConfig struct {
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token_file"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GeneralConfig holds general application configuration
type GeneralConfig struct {
	DefaultTimeout int `mapstructure:"default_timeout"`
	MaxRetries     int `mapstructure:"max_retries"`
	SceneCacheTTL  int `mapstructure:"scene_cache_ttl"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Dir string `mapstructure:"dir"`
}

// UIConfig holds user interface configuration
type UIConfig struct {
	PreviewPolicy   string     `mapstructure:"preview_policy"` // "structure" or "text"
	Height          int        `mapstructure:"height"` // structure canvas size in terminal columns
	RenderMode      string     `mapstructure:"render_mode"` // "auto", "text" or "graphics"
	FrameIntervalMS int        `mapstructure:"frame_interval_ms"`
	CatalogPath     string     `mapstructure:"catalog_path"`
	StartPath       string     `mapstructure:"start_path"`
	Axes            AxesConfig `mapstructure:"axes"`
}

// AxesConfig controls the axes arrows added to rendered structures
type AxesConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Mode       string  `mapstructure:"mode"` // "lattice" or "cartesian"
	Scale      float64 `mapstructure:"scale"`
	HeadLength float64 `mapstructure:"head_length"`
	HeadWidth  float64 `mapstructure:"head_width"`
	Radius     float64 `mapstructure:"radius"`
}

// Load loads configuration from multiple sources with priority:
// 1. Command line flags (highest)
// 2. Environment variables
// 3. Configuration file
// 4. Defaults (lowest)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("XTALCLI")
	v.AutomaticEnv()

	// Environment variable mappings
	v.BindEnv("backend.kind", "XTALCLI_BACKEND")
	v.BindEnv("backend.base_url", "XTALCLI_BASE_URL")
	v.BindEnv("backend.s3.account_id", "XTALCLI_S3_ACCOUNT_ID")
	v.BindEnv("backend.s3.access_key_id", "XTALCLI_S3_ACCESS_KEY_ID")
	v.BindEnv("backend.s3.access_key_secret", "XTALCLI_S3_ACCESS_KEY_SECRET")
	v.BindEnv("backend.s3.bucket_name", "XTALCLI_S3_BUCKET_NAME")
	v.BindEnv("backend.s3.endpoint", "XTALCLI_S3_ENDPOINT")
	v.BindEnv("backend.s3.region", "XTALCLI_S3_REGION")
	v.BindEnv("auth.token", "XTALCLI_TOKEN")
	v.BindEnv("auth.token_file", "XTALCLI_TOKEN_FILE")
	v.BindEnv("log.level", "XTALCLI_LOG_LEVEL")
	v.BindEnv("log.format", "XTALCLI_LOG_FORMAT")
	v.BindEnv("download.dir", "XTALCLI_DOWNLOAD_DIR")
	v.BindEnv("ui.preview_policy", "XTALCLI_PREVIEW_POLICY")
	v.BindEnv("ui.height", "XTALCLI_HEIGHT")
	v.BindEnv("ui.render_mode", "XTALCLI_RENDER_MODE")
	v.BindEnv("ui.catalog_path", "XTALCLI_CATALOG_PATH")
	v.BindEnv("ui.axes.enabled", "XTALCLI_AXES")
	v.BindEnv("ui.axes.mode", "CT_AXES_MODE")
	v.BindEnv("ui.axes.scale", "CT_AXES_SCALE")
	v.BindEnv("ui.axes.head_length", "CT_AXES_HEAD_LENGTH")
	v.BindEnv("ui.axes.head_width", "CT_AXES_HEAD_WIDTH")
	v.BindEnv("ui.axes.radius", "CT_AXES_RADIUS")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")

		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.xtal-cli")
		v.AddConfigPath("/etc/xtal-cli/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is not an error - we can use defaults and env vars
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.kind", "http")
	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.s3.endpoint", "auto")
	v.SetDefault("backend.s3.region", "auto")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("general.default_timeout", 30)
	v.SetDefault("general.max_retries", 3)
	v.SetDefault("general.scene_cache_ttl", 300)

	v.SetDefault("download.dir", "")

	v.SetDefault("ui.preview_policy", "structure")
	v.SetDefault("ui.height", 40)
	v.SetDefault("ui.render_mode", "auto")
	v.SetDefault("ui.frame_interval_ms", 16)
	v.SetDefault("ui.start_path", "")
	v.SetDefault("ui.axes.enabled", true)
	v.SetDefault("ui.axes.mode", "lattice")
	v.SetDefault("ui.axes.scale", 1.6)
	v.SetDefault("ui.axes.head_length", 0.32)
	v.SetDefault("ui.axes.head_width", 0.18)
	v.SetDefault("ui.axes.radius", 0.07)
}

// Timeout returns the per-request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.General.DefaultTimeout) * time.Second
}

// FrameInterval returns the display frame interval used for redraw scheduling
func (c *Config) FrameInterval() time.Duration {
	if c.UI.FrameIntervalMS <= 0 {
		return 16 * time.Millisecond
	}
	return time.Duration(c.UI.FrameIntervalMS) * time.Millisecond
}

// GetDownloadDir returns the directory downloads are saved to
func (c *Config) GetDownloadDir() string {
	if c.Download.Dir != "" {
		return c.Download.Dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, "Downloads")
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.toml"
	}
	return filepath.Join(homeDir, ".xtal-cli", "config.toml")
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() error {
	configPath := GetDefaultConfigPath()
	dir := filepath.Dir(configPath)
	return os.MkdirAll(dir, 0700)
}
