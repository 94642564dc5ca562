package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Sync     SyncConfig
	Media    MediaConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// SyncConfig holds realtime document sync settings. An empty URL disables
// sync entirely; the app then runs against the local database only.
// Multi-word fields carry mapstructure tags: viper matches field names
// case-insensitively but not across underscores, so untagged they would
// never receive their snake_case keys.
type SyncConfig struct {
	URL           string
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

// MediaConfig holds image upload settings.
type MediaConfig struct {
	UploadURL string `mapstructure:"upload_url"`
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"api_key"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string `mapstructure:"date_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	Timezone       string
}

// Load reads configuration from file and env. Env var overrides use prefix TAKEAWAY_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "takeaway", "takeaway.db"))
	v.SetDefault("sync.url", "")
	v.SetDefault("sync.subject_prefix", "takeaway")
	v.SetDefault("media.upload_url", "")
	v.SetDefault("media.api_key_env", "TAKEAWAY_MEDIA_KEY")
	v.SetDefault("media.api_key", "")
	v.SetDefault("ui.date_format", "02/01 15:04")
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.timezone", "Australia/Melbourne")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TAKEAWAY_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "takeaway"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TAKEAWAY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// Used by the TUI settings view for non-sensitive preferences; the media API key
// should normally stay in an env var.
func Save(cfg Config) error {
	path := os.Getenv("TAKEAWAY_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "takeaway", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("sync.url", cfg.Sync.URL)
	v.Set("sync.subject_prefix", cfg.Sync.SubjectPrefix)
	v.Set("media.upload_url", cfg.Media.UploadURL)
	v.Set("media.api_key_env", cfg.Media.APIKeyEnv)
	v.Set("media.api_key", cfg.Media.APIKey)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.timezone", cfg.UI.Timezone)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
