package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config represents the global ~/.portal/config.toml.
type Config struct {
	DefaultSession string `toml:"default_session"`
	Locale         string `toml:"locale"`

	AuthURL      string `toml:"auth_url" validate:"required,url"`
	SearchURL    string `toml:"search_url" validate:"required,url"`
	AssetURL     string `toml:"asset_url" validate:"required,url"`
	AmenityURL   string `toml:"amenity_url" validate:"required,url"`
	MapURL       string `toml:"map_url" validate:"required,url"`
	AnalyticsURL string `toml:"analytics_url" validate:"omitempty,url"`

	Help   Help   `toml:"help"`
	Banner Banner `toml:"banner"`
}

// Help holds the login screen's support contacts and account links.
type Help struct {
	Phone              string `toml:"phone"`
	Email              string `toml:"email" validate:"omitempty,email"`
	FAQURL             string `toml:"faq_url" validate:"omitempty,url"`
	SignUpURL          string `toml:"sign_up_url" validate:"omitempty,url"`
	RecoverUsernameURL string `toml:"recover_username_url" validate:"omitempty,url"`
	RecoverPasswordURL string `toml:"recover_password_url" validate:"omitempty,url"`
	ResetPasswordURL   string `toml:"reset_password_url" validate:"omitempty,url"`
}

// Banner is the announcement shown under the login form.
type Banner struct {
	Body    string `toml:"body"`
	EndDate string `toml:"end_date" validate:"omitempty,datetime=2006-01-02"`
	URL     string `toml:"url" validate:"omitempty,url"`
}

// Default returns a config pointing at a locally running portalstub.
func Default() *Config {
	base := "http://127.0.0.1:8088"
	return &Config{
		AuthURL:    base + "/auth",
		SearchURL:  base + "/search",
		AssetURL:   base + "/assets",
		AmenityURL: base + "/amenities",
		MapURL:     base + "/maps",
		Help: Help{
			Phone:              "555-987-4444",
			Email:              "mychart@example.org",
			FAQURL:             base + "/help/faq",
			SignUpURL:          base + "/help/signup",
			RecoverUsernameURL: base + "/help/recover-username",
			RecoverPasswordURL: base + "/help/recover-password",
			ResetPasswordURL:   base + "/help/reset-password",
		},
	}
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault reads the config at path layered over Default. A missing
// file yields the defaults; a malformed or invalid one is an error.
func LoadOrDefault(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks endpoint URLs and optional fields.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
