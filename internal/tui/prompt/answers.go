package prompt

import (
	"fmt"
	"strings"

	"github.com/jakoblorz/go-expressgen/internal/config"
	"github.com/jakoblorz/go-expressgen/internal/models"
)

// Answers holds the raw questionnaire input, bound to the form fields
type Answers struct {
	ProjectName   string
	Description   string
	Author        string
	Version       string
	License       string
	Language      string
	Architecture  string
	Modules       string
	TestFramework string
	Features      []string
	Packages      string
	StartCommand  string
}

// NewAnswers pre-fills answers from the tool settings
func NewAnswers(settings *config.Settings) *Answers {
	a := &Answers{
		Language:      models.LanguageJavaScript.String(),
		Architecture:  models.ArchitectureMonolithic.String(),
		TestFramework: models.TestFrameworkNone.String(),
		Version:       "1.0.0",
		License:       "ISC",
	}
	if settings != nil {
		a.Author = settings.Defaults.Author
		if settings.Defaults.Version != "" {
			a.Version = settings.Defaults.Version
		}
		if settings.Defaults.License != "" {
			a.License = settings.Defaults.License
		}
		if tf, err := models.ParseTestFramework(settings.Defaults.TestFramework); err == nil {
			a.TestFramework = tf.String()
		}
	}
	return a
}

// IsMicroservices reports whether the modules question applies
func (a *Answers) IsMicroservices() bool {
	arch, err := models.ParseArchitecture(a.Architecture)
	return err == nil && arch == models.ArchitectureMicroservices
}

// ProjectConfig converts the answers into a validated ProjectConfig.
// An empty project name becomes models.DefaultProjectName.
func (a *Answers) ProjectConfig() (*models.ProjectConfig, error) {
	name := strings.TrimSpace(a.ProjectName)
	if name == "" {
		name = models.DefaultProjectName
	}

	lang, err := models.ParseLanguage(a.Language)
	if err != nil {
		return nil, err
	}
	arch, err := models.ParseArchitecture(a.Architecture)
	if err != nil {
		return nil, err
	}
	framework, err := models.ParseTestFramework(a.TestFramework)
	if err != nil {
		return nil, err
	}

	features := models.NewFeatureSet()
	for _, f := range a.Features {
		feature, err := models.ParseFeature(f)
		if err != nil {
			return nil, err
		}
		features[feature] = true
	}

	var modules []string
	if arch == models.ArchitectureMicroservices {
		modules = models.SplitList(a.Modules)
	}

	cfg := &models.ProjectConfig{
		ProjectName:   name,
		Language:      lang,
		Architecture:  arch,
		Modules:       modules,
		AuthorName:    strings.TrimSpace(a.Author),
		Version:       strings.TrimSpace(a.Version),
		Description:   strings.TrimSpace(a.Description),
		License:       strings.TrimSpace(a.License),
		StartCommand:  strings.TrimSpace(a.StartCommand),
		TestFramework: framework,
		Features:      features,
		ExtraPackages: models.SplitList(a.Packages),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid answers: %w", err)
	}
	return cfg, nil
}

func validateProjectName(v string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return models.ValidateProjectName(strings.TrimSpace(v))
}

func validateModules(v string) error {
	modules := models.SplitList(v)
	if len(modules) == 0 {
		return fmt.Errorf("enter at least one module")
	}
	seen := make(map[string]bool, len(modules))
	for _, m := range modules {
		if err := models.ValidateModuleName(m); err != nil {
			return err
		}
		if seen[strings.ToLower(m)] {
			return fmt.Errorf("duplicate module: %s", m)
		}
		seen[strings.ToLower(m)] = true
	}
	return nil
}

func validatePackages(v string) error {
	for _, pkg := range models.SplitList(v) {
		if err := models.ValidatePackageName(pkg); err != nil {
			return err
		}
	}
	return nil
}

func validateVersion(v string) error {
	return models.ValidateVersion(strings.TrimSpace(v))
}
