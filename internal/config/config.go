// Package config reads soap settings from viper and expands configured paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/soapbox/internal/common"
	"github.com/Veraticus/soapbox/internal/render"
	"github.com/Veraticus/soapbox/internal/speech"
	"github.com/Veraticus/soapbox/internal/vision"
)

// DefaultDatabasePath is used when database.path is not configured.
const DefaultDatabasePath = "~/.local/share/soap/soap.db"

// DatabasePath returns the expanded SQLite path.
func DatabasePath() string {
	path := viper.GetString("database.path")
	if path == "" {
		path = DefaultDatabasePath
	}
	return ExpandPath(path)
}

// KeywordsPath returns the expanded keyword extension file, or "" when none is set.
func KeywordsPath() string {
	return ExpandPath(viper.GetString("keywords.file"))
}

// SpeechTimeout returns how long a speech source waits for an utterance.
func SpeechTimeout() time.Duration {
	if viper.IsSet("speech.timeout") {
		return viper.GetDuration("speech.timeout")
	}
	return speech.DefaultTimeout
}

// LoadClinic reads the clinic header printed on animal record PDFs.
// Missing fields fall back to the default clinic.
func LoadClinic() render.Clinic {
	return render.Clinic{
		Name:    viper.GetString("clinic.name"),
		Address: viper.GetString("clinic.address"),
		City:    viper.GetString("clinic.city"),
		Phone:   viper.GetString("clinic.phone"),
	}
}

// LoadVisionConfig loads the vision provider configuration.
// It follows this precedence:
// 1. Viper configuration (from config file or SOAP_ env vars)
// 2. The provider's conventional environment variable (ANTHROPIC_API_KEY, OPENAI_API_KEY)
// 3. Default values
func LoadVisionConfig() (vision.Config, error) {
	cfg := vision.Config{
		Provider:  viper.GetString("vision.provider"),
		APIKey:    viper.GetString("vision.api_key"),
		Model:     viper.GetString("vision.model"),
		BaseURL:   viper.GetString("vision.base_url"),
		RateLimit: viper.GetInt("vision.requests_per_minute"),
	}
	if cfg.Provider == "" {
		cfg.Provider = "anthropic"
	}

	if cfg.APIKey == "" {
		switch cfg.Provider {
		case "anthropic":
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "openai":
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}

	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return cfg, fmt.Errorf("%w: vision.api_key for provider %s", common.ErrMissingConfig, cfg.Provider)
	}
	if cfg.RateLimit < 0 {
		return cfg, fmt.Errorf("%w: vision.requests_per_minute must not be negative", common.ErrInvalidConfig)
	}
	return cfg, nil
}

// ExpandPath resolves a leading ~ to the home directory and then expands
// $VAR references. The home directory is left unexpanded if it cannot be found.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return os.ExpandEnv(path)
}
