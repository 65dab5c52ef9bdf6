package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// Provider settings (discovery nodes, timeouts, caching)
	Provider ProviderConfig `koanf:"provider"`

	// Library settings
	Library LibraryConfig `koanf:"library"`

	// Path to the diagnostic log file (empty disables file logging)
	LogFile string `koanf:"log_file"`
}

// ProviderConfig holds provider client configuration.
type ProviderConfig struct {
	Nodes                 []string `koanf:"nodes"`                   // discovery node override (default: built-in list)
	ProbeTimeoutSeconds   int      `koanf:"probe_timeout_seconds"`   // per-node health probe timeout (default: 3)
	RequestTimeoutSeconds int      `koanf:"request_timeout_seconds"` // search/trending request timeout (default: 10)
	TrendingLimit         int      `koanf:"trending_limit"`          // trending page size (1-50, default: 20)
	CacheSize             int      `koanf:"cache_size"`              // query cache entries (default: 64)
	CacheTTLMinutes       int      `koanf:"cache_ttl_minutes"`       // query cache TTL (default: 30)
}

// LibraryConfig holds library manager configuration.
type LibraryConfig struct {
	RecentCap int `koanf:"recent_cap"` // recently-played cap (1-50, default: 15)
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.LogFile != "" {
		cfg.LogFile = expandPath(cfg.LogFile)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/spotyda/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "spotyda", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetProviderConfig returns the provider configuration with defaults applied.
func (c *Config) GetProviderConfig() ProviderConfig {
	cfg := c.Provider

	if cfg.ProbeTimeoutSeconds <= 0 {
		cfg.ProbeTimeoutSeconds = 3
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = 10
	}
	if cfg.TrendingLimit <= 0 || cfg.TrendingLimit > 50 {
		cfg.TrendingLimit = 20
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 64
	}
	if cfg.CacheTTLMinutes <= 0 {
		cfg.CacheTTLMinutes = 30
	}

	return cfg
}

// GetLibraryConfig returns the library configuration with defaults applied.
func (c *Config) GetLibraryConfig() LibraryConfig {
	cfg := c.Library

	if cfg.RecentCap <= 0 || cfg.RecentCap > 50 {
		cfg.RecentCap = 15
	}

	return cfg
}
