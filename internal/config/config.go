package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/webext-kit/webext/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized keys.
const (
	KeySkipInstall      = "skip.install"
	KeySkipLint         = "skip.lint"
	KeySkipFormat       = "skip.format"
	KeyDefaultInstaller = "default_installer"
	KeyLogLevel         = "log_level"
)

// Settings is the typed view of the keys the generator consumes.
type Settings struct {
	SkipInstall      bool
	SkipLint         bool
	SkipFormat       bool
	DefaultInstaller string
	LogLevel         string
}

// Dir returns the path to the config directory (~/.webext/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.webext/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	// skip.install → WEBEXT_SKIP_INSTALL
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	viper.SetDefault(KeySkipInstall, false)
	viper.SetDefault(KeySkipLint, false)
	viper.SetDefault(KeySkipFormat, false)
	viper.SetDefault(KeyLogLevel, "warn")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the settings resolved from file, environment and defaults.
func Current() Settings {
	return Settings{
		SkipInstall:      viper.GetBool(KeySkipInstall),
		SkipLint:         viper.GetBool(KeySkipLint),
		SkipFormat:       viper.GetBool(KeySkipFormat),
		DefaultInstaller: viper.GetString(KeyDefaultInstaller),
		LogLevel:         viper.GetString(KeyLogLevel),
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
