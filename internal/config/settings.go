package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/go-expressgen/internal/models"
	"github.com/spf13/viper"
)

const (
	appName   = "expressgen"
	envPrefix = "EXPRESSGEN"
	fileName  = "config"
	fileType  = "yaml"
)

// Settings are the tool-level preferences that seed every run
type Settings struct {
	PackageManager string   `mapstructure:"package_manager"`
	Defaults       Defaults `mapstructure:"defaults"`
}

// Defaults pre-fill questionnaire answers and project files
type Defaults struct {
	Author        string `mapstructure:"author"`
	License       string `mapstructure:"license"`
	Version       string `mapstructure:"version"`
	TestFramework string `mapstructure:"test_framework"`
}

// Dir returns the expressgen config directory, e.g. ~/.config/expressgen
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(dir, appName)
}

// FilePath returns the default settings file
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("package_manager", DefaultPackageManager)
	v.SetDefault("defaults.author", "")
	v.SetDefault("defaults.license", "ISC")
	v.SetDefault("defaults.version", "1.0.0")
	v.SetDefault("defaults.test_framework", "")
	return v
}

// LoadSettings reads settings from path and EXPRESSGEN_* environment variables.
// An empty path reads FilePath(), which may be absent. An explicit path must exist.
func LoadSettings(path string) (*Settings, error) {
	v := newViper()

	explicit := path != ""
	if !explicit {
		path = FilePath()
	}
	v.SetConfigFile(path)
	v.SetConfigType(fileType)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if _, err := LookupPackageManager(settings.PackageManager); err != nil {
		return nil, err
	}
	if _, err := models.ParseTestFramework(settings.Defaults.TestFramework); err != nil {
		return nil, err
	}

	return &settings, nil
}
