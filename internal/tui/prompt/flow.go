package prompt

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	huh "github.com/charmbracelet/huh"
	"github.com/jakoblorz/go-expressgen/internal/config"
	"github.com/jakoblorz/go-expressgen/internal/models"
	"github.com/jakoblorz/go-expressgen/internal/tui"
)

// Flow asks the project questions with huh forms.
type Flow struct {
	settings *config.Settings
	theme    *huh.Theme
}

// NewFlow constructs a Flow with the expressgen huh theme.
func NewFlow(settings *config.Settings) *Flow {
	return &Flow{
		settings: settings,
		theme:    tui.NewHuhTheme(),
	}
}

// Run asks every question and returns the resulting config; returns nil on user abort.
func (f *Flow) Run() (*models.ProjectConfig, error) {
	answers := NewAnswers(f.settings)

	if err := f.form(answers).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, err
	}

	return answers.ProjectConfig()
}

func (f *Flow) form(a *Answers) *huh.Form {
	featureOpts := make([]huh.Option[string], 0, len(models.AllFeatures))
	for _, feature := range models.AllFeatures {
		featureOpts = append(featureOpts, huh.NewOption(featureLabels[feature], feature.String()))
	}

	keyMap := huh.NewDefaultKeyMap()
	keyMap.MultiSelect.Filter.SetEnabled(false)
	keyMap.MultiSelect.Toggle.SetKeys(" ")
	keyMap.MultiSelect.Toggle.SetHelp("space", "toggle selection")
	keyMap.Select.Filter.SetEnabled(false)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Placeholder(models.DefaultProjectName).
				Value(&a.ProjectName).
				Validate(validateProjectName),
			huh.NewInput().
				Title("Description").
				Value(&a.Description),
			huh.NewInput().
				Title("Author").
				Value(&a.Author),
			huh.NewInput().
				Title("Version").
				Value(&a.Version).
				Validate(validateVersion),
			huh.NewInput().
				Title("License").
				Value(&a.License),
		).
			Title("Project").
			Description("Basic package.json metadata."),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Language").
				Options(huh.NewOptions(models.LanguageJavaScript.String(), models.LanguageTypeScript.String())...).
				Value(&a.Language),
			huh.NewSelect[string]().
				Title("Architecture").
				Options(huh.NewOptions(models.ArchitectureMonolithic.String(), models.ArchitectureMicroservices.String())...).
				Value(&a.Architecture),
		).
			Title("Stack"),

		huh.NewGroup(
			huh.NewInput().
				Title("Modules").
				Description("Comma separated, e.g. auth, billing").
				Value(&a.Modules).
				Validate(validateModules),
		).
			Title("Microservices").
			WithHideFunc(func() bool { return !a.IsMicroservices() }),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Test framework").
				Options(huh.NewOptions(
					models.TestFrameworkNone.String(),
					models.TestFrameworkJest.String(),
					models.TestFrameworkMocha.String(),
				)...).
				Value(&a.TestFramework),
			huh.NewMultiSelect[string]().
				Title("Features").
				Options(featureOpts...).
				Value(&a.Features),
			huh.NewInput().
				Title("Extra packages").
				Description("Comma separated npm packages to install").
				Value(&a.Packages).
				Validate(validatePackages),
			huh.NewInput().
				Title("Start command").
				Placeholder("node src/server.js").
				Value(&a.StartCommand),
		).
			Title("Extras"),
	).
		WithTheme(f.theme).
		WithShowHelp(true).
		WithProgramOptions(tea.WithAltScreen()).
		WithKeyMap(keyMap)
}

var featureLabels = map[models.Feature]string{
	models.FeatureJWT:     "JWT authentication (jsonwebtoken)",
	models.FeatureMongoDB: "MongoDB (mongoose)",
	models.FeatureHelmet:  "Security headers (helmet)",
	models.FeatureDocker:  "Docker (Dockerfile, docker-compose.yml)",
}
