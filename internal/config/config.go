package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/five82/localizei/internal/identity"
)

// ErrMissingAnonKey is reported by Validate when no backend key is configured.
// The shell still starts; listing requests will be rejected by the backend.
var ErrMissingAnonKey = errors.New("supabase anon key is not configured")

// Config holds everything Localizei reads from config.toml and the environment.
type Config struct {
	SupabaseURL      string        `mapstructure:"supabase_url"`
	SupabaseAnonKey  string        `mapstructure:"supabase_anon_key"`
	IdentityAPIKey   string        `mapstructure:"identity_api_key"`
	IdentityBaseURL  string        `mapstructure:"identity_base_url"`
	TokenURL         string        `mapstructure:"token_url"`
	CachePath        string        `mapstructure:"cache_path"`
	SessionPath      string        `mapstructure:"session_path"`
	LogPath          string        `mapstructure:"log_path"`
	PollInterval     time.Duration `mapstructure:"poll_interval"`
	SplashDelay      time.Duration `mapstructure:"splash_delay"`
	CarouselInterval time.Duration `mapstructure:"carousel_interval"`
	Neighborhood     string        `mapstructure:"neighborhood"`
}

const (
	envPrefix = "LOCALIZEI"

	defaultConfigPath       = "~/.config/localizei/config.toml"
	defaultSupabaseURL      = "https://nyneuuvcdmtqjyaqrztz.supabase.co"
	defaultCachePath        = "~/.cache/localizei/listing.db"
	defaultSessionPath      = "~/.config/localizei/session.json"
	defaultLogPath          = "~/.local/state/localizei/localizei.log"
	defaultPollInterval     = 60 * time.Second
	defaultSplashDelay      = 5 * time.Second
	defaultCarouselInterval = 4 * time.Second
	defaultNeighborhood     = "Freguesia • Jacarepaguá - RJ"

	// placeholderAnonKey ships in example configs; treat it as unset.
	placeholderAnonKey = "SUA_ANON_KEY_AQUI"
)

// Load reads the config file at path (or the default location), applies
// LOCALIZEI_* environment overrides and fills defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(resolved)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("supabase_url", defaultSupabaseURL)
	v.SetDefault("supabase_anon_key", "")
	v.SetDefault("identity_api_key", "")
	v.SetDefault("identity_base_url", identity.DefaultBaseURL)
	v.SetDefault("token_url", identity.DefaultTokenURL)
	v.SetDefault("cache_path", defaultCachePath)
	v.SetDefault("session_path", defaultSessionPath)
	v.SetDefault("log_path", defaultLogPath)
	v.SetDefault("poll_interval", defaultPollInterval)
	v.SetDefault("splash_delay", defaultSplashDelay)
	v.SetDefault("carousel_interval", defaultCarouselInterval)
	v.SetDefault("neighborhood", defaultNeighborhood)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// Validate reports configuration that lets the shell start but degrades it.
func (c Config) Validate() error {
	if c.SupabaseAnonKey == "" {
		return ErrMissingAnonKey
	}
	return nil
}

func (c *Config) normalize() {
	c.SupabaseURL = strings.TrimSpace(c.SupabaseURL)
	if c.SupabaseURL == "" {
		c.SupabaseURL = defaultSupabaseURL
	}
	c.SupabaseAnonKey = strings.TrimSpace(c.SupabaseAnonKey)
	if c.SupabaseAnonKey == placeholderAnonKey {
		c.SupabaseAnonKey = ""
	}
	c.IdentityAPIKey = strings.TrimSpace(c.IdentityAPIKey)
	c.IdentityBaseURL = orDefault(c.IdentityBaseURL, identity.DefaultBaseURL)
	c.TokenURL = orDefault(c.TokenURL, identity.DefaultTokenURL)

	c.CachePath = mustExpand(orDefault(c.CachePath, defaultCachePath))
	c.SessionPath = mustExpand(orDefault(c.SessionPath, defaultSessionPath))
	c.LogPath = mustExpand(orDefault(c.LogPath, defaultLogPath))

	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.SplashDelay < 0 {
		c.SplashDelay = defaultSplashDelay
	}
	if c.CarouselInterval <= 0 {
		c.CarouselInterval = defaultCarouselInterval
	}
	c.Neighborhood = orDefault(c.Neighborhood, defaultNeighborhood)
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
