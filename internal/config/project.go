package config

import (
	"fmt"

	"github.com/jakoblorz/go-expressgen/internal/models"
	"github.com/spf13/viper"
)

// projectFile is the on-disk shape of a non-interactive project definition.
// List fields also accept a comma separated string.
type projectFile struct {
	Name          string   `mapstructure:"name"`
	Language      string   `mapstructure:"language"`
	Architecture  string   `mapstructure:"architecture"`
	Modules       []string `mapstructure:"modules"`
	Author        string   `mapstructure:"author"`
	Version       string   `mapstructure:"version"`
	Description   string   `mapstructure:"description"`
	License       string   `mapstructure:"license"`
	StartCommand  string   `mapstructure:"start_command"`
	TestFramework string   `mapstructure:"test_framework"`
	Features      []string `mapstructure:"features"`
	Packages      []string `mapstructure:"packages"`
}

// LoadProject reads a project definition (YAML, JSON or TOML by extension) and
// resolves it into a validated ProjectConfig. Missing answers fall back to settings.
func LoadProject(path string, settings *Settings) (*models.ProjectConfig, error) {
	if settings == nil {
		settings = &Settings{}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("name", models.DefaultProjectName)
	v.SetDefault("language", models.LanguageJavaScript.String())
	v.SetDefault("architecture", models.ArchitectureMonolithic.String())
	v.SetDefault("author", settings.Defaults.Author)
	v.SetDefault("version", orDefault(settings.Defaults.Version, "1.0.0"))
	v.SetDefault("license", orDefault(settings.Defaults.License, "ISC"))
	v.SetDefault("test_framework", orDefault(settings.Defaults.TestFramework, models.TestFrameworkNone.String()))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read project file %s: %w", path, err)
	}

	var file projectFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to decode project file %s: %w", path, err)
	}

	cfg, err := file.toProjectConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid project file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project file %s: %w", path, err)
	}
	return cfg, nil
}

func (f projectFile) toProjectConfig() (*models.ProjectConfig, error) {
	lang, err := models.ParseLanguage(f.Language)
	if err != nil {
		return nil, err
	}
	arch, err := models.ParseArchitecture(f.Architecture)
	if err != nil {
		return nil, err
	}
	framework, err := models.ParseTestFramework(f.TestFramework)
	if err != nil {
		return nil, err
	}

	features := models.NewFeatureSet()
	for _, name := range f.Features {
		feature, err := models.ParseFeature(name)
		if err != nil {
			return nil, err
		}
		features[feature] = true
	}

	var modules []string
	if arch == models.ArchitectureMicroservices {
		modules = flatten(f.Modules)
	}

	return &models.ProjectConfig{
		ProjectName:   f.Name,
		Language:      lang,
		Architecture:  arch,
		Modules:       modules,
		AuthorName:    f.Author,
		Version:       f.Version,
		Description:   f.Description,
		License:       f.License,
		StartCommand:  f.StartCommand,
		TestFramework: framework,
		Features:      features,
		ExtraPackages: flatten(f.Packages),
	}, nil
}

// flatten splits entries that themselves hold comma or space separated values
func flatten(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, models.SplitList(v)...)
	}
	return out
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
