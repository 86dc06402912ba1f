package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Auth struct {
		BearerToken string `yaml:"bearer_token"`
		UserID      string `yaml:"user_id"`
	} `yaml:"auth"`
	API struct {
		BaseURL  string `yaml:"base_url"`
		Country  string `yaml:"country"`
		Timezone string `yaml:"timezone"`
	} `yaml:"api"`
	Search struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"search"`
	Reference struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"reference"`
	Games struct {
		Dir string `yaml:"dir"`
	} `yaml:"games"`
	Cache struct {
		DumpDir string `yaml:"dump_dir"`
		TTL     string `yaml:"ttl"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
}

// Load reads YAML config from path and fills in defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api-quiz.hype.space"
	}
	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = "https://www.google.co.uk/search"
	}
	if cfg.Reference.BaseURL == "" {
		cfg.Reference.BaseURL = "https://en.wikipedia.org/wiki/Special:Search"
	}
	if cfg.Games.Dir == "" {
		cfg.Games.Dir = "games"
	}
	if cfg.Cache.DumpDir == "" {
		cfg.Cache.DumpDir = "db"
	}
}

// TTLDuration parses a duration string or returns the fallback if empty
// or invalid.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
