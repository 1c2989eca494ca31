package prompt

import (
	"testing"

	"github.com/jakoblorz/go-expressgen/internal/config"
	"github.com/jakoblorz/go-expressgen/internal/models"
	"github.com/stretchr/testify/require"
)

func TestNewAnswers_UsesSettings(t *testing.T) {
	a := NewAnswers(&config.Settings{Defaults: config.Defaults{Author: "Ada", License: "MIT", Version: "0.1.0"}})
	require.Equal(t, "Ada", a.Author)
	require.Equal(t, "MIT", a.License)
	require.Equal(t, "0.1.0", a.Version)
	require.Equal(t, "JavaScript", a.Language)

	require.Equal(t, "None", a.TestFramework)

	a = NewAnswers(nil)
	require.Equal(t, "1.0.0", a.Version)
	require.Equal(t, "ISC", a.License)
}

func TestNewAnswers_PreselectsTestFramework(t *testing.T) {
	a := NewAnswers(&config.Settings{Defaults: config.Defaults{TestFramework: "jest"}})
	require.Equal(t, "Jest", a.TestFramework)

	cfg, err := a.ProjectConfig()
	require.NoError(t, err)
	require.Equal(t, models.TestFrameworkJest, cfg.TestFramework)
}

func TestAnswers_ProjectConfig(t *testing.T) {
	a := NewAnswers(nil)
	a.ProjectName = "  shop "
	a.Language = "TypeScript"
	a.Architecture = "Microservices"
	a.Modules = "auth, billing"
	a.TestFramework = "Mocha"
	a.Features = []string{"JWT", "Docker"}
	a.Packages = "lodash dayjs"

	cfg, err := a.ProjectConfig()
	require.NoError(t, err)
	require.Equal(t, "shop", cfg.ProjectName)
	require.Equal(t, models.LanguageTypeScript, cfg.Language)
	require.Equal(t, []string{"auth", "billing"}, cfg.Modules)
	require.Equal(t, models.TestFrameworkMocha, cfg.TestFramework)
	require.True(t, cfg.Features.Has(models.FeatureJWT))
	require.True(t, cfg.Features.Has(models.FeatureDocker))
	require.Equal(t, []string{"lodash", "dayjs"}, cfg.ExtraPackages)
}

func TestAnswers_DefaultsAndHiddenModules(t *testing.T) {
	a := NewAnswers(nil)
	a.Modules = "ignored"

	require.False(t, a.IsMicroservices())

	cfg, err := a.ProjectConfig()
	require.NoError(t, err)
	require.Equal(t, models.DefaultProjectName, cfg.ProjectName)
	require.Empty(t, cfg.Modules)
	require.Equal(t, models.TestFrameworkNone, cfg.TestFramework)
}

func TestAnswers_Invalid(t *testing.T) {
	a := NewAnswers(nil)
	a.Architecture = "Microservices"
	_, err := a.ProjectConfig()
	require.ErrorContains(t, err, "at least one module")

	a = NewAnswers(nil)
	a.Version = "next"
	_, err = a.ProjectConfig()
	require.ErrorContains(t, err, "invalid version")
}

func TestValidators(t *testing.T) {
	require.NoError(t, validateProjectName(""))
	require.Error(t, validateProjectName("a/b"))

	require.NoError(t, validateModules("auth,billing"))
	require.Error(t, validateModules(""))
	require.ErrorContains(t, validateModules("auth, Auth"), "duplicate module")
	require.Error(t, validateModules("1st"))

	require.NoError(t, validatePackages("lodash @scope/pkg express@4"))
	require.Error(t, validatePackages("Not Valid!"))

	require.NoError(t, validateVersion(" 1.2.3 "))
	require.Error(t, validateVersion("v1"))
}

func TestNewFlow(t *testing.T) {
	flow := NewFlow(nil)
	require.NotNil(t, flow.theme)
	require.NotNil(t, flow.form(NewAnswers(nil)))
}
