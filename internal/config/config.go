package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Stale response policies accepted by browse.stale_responses.
const (
	StaleDiscard = "discard"
	StaleApply   = "apply"
)

// Config holds application configuration.
type Config struct {
	Catalog CatalogConfig
	Browse  BrowseConfig
	Log     LogConfig
	Keys    map[string][]string
}

// CatalogConfig describes the remote paged listing.
type CatalogConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Resource  string        `mapstructure:"resource"`
	MaxPage   int           `mapstructure:"max_page"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RetryMax  int           `mapstructure:"retry_max"`
	UserAgent string        `mapstructure:"user_agent"`
}

// BrowseConfig holds page-turn behaviour.
type BrowseConfig struct {
	StartPage      int    `mapstructure:"start_page"`
	StaleResponses string `mapstructure:"stale_responses"`
}

// LogConfig holds log file settings. An empty Path disables logging.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and env. Env var overrides use prefix HOLOCRON_.
// path wins over $HOLOCRON_CONFIG, which wins over ~/.config/holocron/config.toml.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("catalog.base_url", "https://swapi.dev/api")
	v.SetDefault("catalog.resource", "people")
	v.SetDefault("catalog.max_page", 9)
	v.SetDefault("catalog.timeout", 10*time.Second)
	v.SetDefault("catalog.retry_max", 0)
	v.SetDefault("catalog.user_agent", "holocron/"+Version)
	v.SetDefault("browse.start_page", 1)
	v.SetDefault("browse.stale_responses", StaleDiscard)
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("HOLOCRON_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "holocron"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("HOLOCRON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// a missing default file is fine; a missing or broken explicit one is not
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	c.Catalog.Resource = strings.Trim(strings.TrimSpace(c.Catalog.Resource), "/")
	c.Browse.StaleResponses = strings.ToLower(strings.TrimSpace(c.Browse.StaleResponses))
	return c, nil
}

// Validate reports the first setting that cannot drive the browser.
func (c Config) Validate() error {
	switch {
	case c.Catalog.BaseURL == "":
		return errors.New("catalog.base_url is empty")
	case c.Catalog.Resource == "":
		return errors.New("catalog.resource is empty")
	case c.Catalog.MaxPage < 0:
		return fmt.Errorf("catalog.max_page must be >= 0, got %d", c.Catalog.MaxPage)
	case c.Catalog.RetryMax < 0:
		return fmt.Errorf("catalog.retry_max must be >= 0, got %d", c.Catalog.RetryMax)
	case c.Browse.StartPage < 1:
		return fmt.Errorf("browse.start_page must be >= 1, got %d", c.Browse.StartPage)
	case c.Catalog.MaxPage > 0 && c.Browse.StartPage > c.Catalog.MaxPage:
		return fmt.Errorf("browse.start_page %d is past catalog.max_page %d", c.Browse.StartPage, c.Catalog.MaxPage)
	}
	switch c.Browse.StaleResponses {
	case StaleDiscard, StaleApply:
	default:
		return fmt.Errorf("browse.stale_responses must be %q or %q, got %q", StaleDiscard, StaleApply, c.Browse.StaleResponses)
	}
	return nil
}
