// Package config resolves conversion settings from defaults, an
// optional config file, and AIKEN2QTI_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AppName is used for the config directory and the env var prefix.
const AppName = "aiken2qti"

// Config holds the package-level settings a conversion run uses.
type Config struct {
	// Title names the package in the manifest metadata.
	Title string
	// Language is the xml:lang of the manifest title.
	Language string
	// Prompt is shown above the choices of every item.
	Prompt string
	// Shuffle lets the LMS randomize choice order on delivery.
	Shuffle bool
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Title:    "Aiken2QTI Quiz",
		Language: "en",
		Prompt:   "Select the correct answer:",
		Shuffle:  true,
	}
}

// Load resolves the effective configuration. Sources, lowest to
// highest precedence: Default, then config.yaml in the user config
// directory, then AIKEN2QTI_* env vars. A missing config file is not
// an error; an unreadable or malformed one is.
func Load() (Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("title", def.Title)
	v.SetDefault("language", def.Language)
	v.SetDefault("prompt", def.Prompt)
	v.SetDefault("shuffle", def.Shuffle)

	v.SetEnvPrefix(AppName)
	v.AutomaticEnv()

	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, AppName))
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return Config{
		Title:    v.GetString("title"),
		Language: v.GetString("language"),
		Prompt:   v.GetString("prompt"),
		Shuffle:  v.GetBool("shuffle"),
	}, nil
}
