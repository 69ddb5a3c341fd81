package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Gateway Gateway `yaml:"gateway"`
	Limits  Limits  `yaml:"limits"`
	Mimes   Mimes   `yaml:"mimes"`
	Log     Log     `yaml:"log"`
}

type Gateway struct {
	BaseURL               string `yaml:"base_url" validate:"required,url"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" validate:"gt=0"`
}

func (g Gateway) RequestTimeout() time.Duration {
	return time.Duration(g.RequestTimeoutSeconds) * time.Second
}

type Limits struct {
	MaxFileSizeBytes int64 `yaml:"max_file_size_bytes" validate:"gt=0"`
	MaxAssetsPerSite int   `yaml:"max_assets_per_site" validate:"gt=0"`
}

type Mimes struct {
	Image    []string `yaml:"image"`
	Video    []string `yaml:"video"`
	Document []string `yaml:"document"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load reads a yaml config file, fills omitted fields with defaults and
// validates the result.
func Load(configPath string) (*Config, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("can't read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("can't unmarshal config file: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Default returns a config with every limit and mime list populated. Only the
// gateway base URL has no usable default.
func Default() *Config {
	return &Config{
		Gateway: Gateway{
			RequestTimeoutSeconds: 30,
		},
		Limits: Limits{
			MaxFileSizeBytes: 10 << 20, // 10 MiB
			MaxAssetsPerSite: 500,
		},
		Mimes: Mimes{
			Image:    []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
			Video:    []string{"video/mp4", "video/webm", "video/quicktime"},
			Document: []string{"application/pdf", "text/plain", "application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		},
		Log: Log{Level: "info"},
	}
}

// AllowedMimes flattens the three mime lists into one allow-map.
func (c *Config) AllowedMimes() map[string]bool {
	allowed := make(map[string]bool)
	for _, group := range [][]string{c.Mimes.Image, c.Mimes.Video, c.Mimes.Document} {
		for _, m := range group {
			allowed[m] = true
		}
	}
	return allowed
}
