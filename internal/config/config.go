package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type SiteConfig struct {
	Title     string `mapstructure:"title"`
	OutputDir string `mapstructure:"output_dir"`
}

// SearchConfig holds the tunables of the index and query engine. These are
// configuration, not hard-coded behavior: products can retune them without
// touching the engine.
type SearchConfig struct {
	PreviewLen    int `mapstructure:"preview_len"`
	FuzzyDistance int `mapstructure:"fuzzy_distance"`
	FuzzyMaxQuery int `mapstructure:"fuzzy_max_query"`
	FuzzyBudgetMS int `mapstructure:"fuzzy_budget_ms"`
	MaxResults    int `mapstructure:"max_results"`
}

type BrowseConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	Site   SiteConfig   `mapstructure:"site"`
	Search SearchConfig `mapstructure:"search"`
	Browse BrowseConfig `mapstructure:"browse"`
	Serve  ServeConfig  `mapstructure:"serve"`
}

// FuzzyBudget returns the fuzzy tier's wall-clock allowance.
func (c SearchConfig) FuzzyBudget() time.Duration {
	return time.Duration(c.FuzzyBudgetMS) * time.Millisecond
}

// Debounce returns the keystroke settle interval for interactive search.
func (c BrowseConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

func InitializeViper() error {
	viper.SetConfigName("docsmith")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "docsmith"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "docsmith"))
	}

	viper.SetDefault("site.title", "Documentation")
	viper.SetDefault("site.output_dir", "docs")
	viper.SetDefault("search.preview_len", 140)
	viper.SetDefault("search.fuzzy_distance", 2)
	viper.SetDefault("search.fuzzy_max_query", 64)
	viper.SetDefault("search.fuzzy_budget_ms", 10)
	viper.SetDefault("search.max_results", 20)
	viper.SetDefault("browse.debounce_ms", 150)
	viper.SetDefault("serve.addr", "127.0.0.1:8517")

	viper.SetEnvPrefix("DOCSMITH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
