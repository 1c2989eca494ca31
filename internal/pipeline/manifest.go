package pipeline

import (
	"fmt"
	"strings"

	"github.com/jakoblorz/go-expressgen/internal/catalog"
	"github.com/jakoblorz/go-expressgen/internal/manifest"
	"github.com/jakoblorz/go-expressgen/internal/models"
)

// Versions merged into the manifest when the install step did not record the package
var featurePackages = []struct {
	feature models.Feature
	name    string
	version string
}{
	{models.FeatureHelmet, "helmet", "^6.1.5"},
	{models.FeatureJWT, "jsonwebtoken", "^9.0.2"},
	{models.FeatureMongoDB, "mongoose", "^8.0.0"},
}

// Dependencies returns the runtime and development packages installed for cfg
func Dependencies(cfg *models.ProjectConfig) (deps, devDeps []string) {
	deps = []string{"express", "dotenv", "cors"}
	for _, p := range featurePackages {
		if cfg.Features.Has(p.feature) {
			deps = append(deps, p.name)
		}
	}
	deps = append(deps, cfg.ExtraPackages...)

	devDeps = []string{"nodemon"}
	if cfg.IsTypeScript() {
		devDeps = append(devDeps, "typescript", "ts-node", "@types/node", "@types/express", "@types/cors")
		if cfg.Features.Has(models.FeatureJWT) {
			devDeps = append(devDeps, "@types/jsonwebtoken")
		}
	}

	switch cfg.TestFramework {
	case models.TestFrameworkJest:
		devDeps = append(devDeps, "jest", "supertest")
		if cfg.IsTypeScript() {
			devDeps = append(devDeps, "ts-jest", "@types/jest", "@types/supertest")
		}
	case models.TestFrameworkMocha:
		// chai-http 5 and chai 5 are ESM only
		devDeps = append(devDeps, "mocha", "chai@4", "chai-http@4")
		if cfg.IsTypeScript() {
			devDeps = append(devDeps, "@types/mocha", "@types/chai@4")
		}
	}

	return deps, devDeps
}

// BuildManifestPatch returns the package.json changes for cfg
func BuildManifestPatch(cfg *models.ProjectConfig) *manifest.Patch {
	ext := cfg.Ext()
	patch := manifest.NewPatch().
		Set("nodemon src/server."+ext, "scripts", "dev").
		Set(cfg.ResolvedStartCommand(), "scripts", "start")

	if cfg.IsTypeScript() {
		patch.Set("tsc", "scripts", "build").
			Set("tsc --noEmit", "scripts", "typecheck")
	}
	if cfg.TestFramework.Enabled() {
		patch.Set(testScript(cfg), "scripts", "test")
	}
	if cfg.Features.Has(models.FeatureDocker) {
		patch.Set("docker build -t "+catalog.ImageName(cfg.ProjectName)+" .", "scripts", "docker:build").
			Set("docker compose up", "scripts", "docker:up")
	}

	patch.Set(cfg.EntrypointPath(), "main").
		Set(cfg.AuthorName, "author").
		Set(cfg.Version, "version").
		Set(cfg.Description, "description").
		Set(cfg.License, "license")

	for _, p := range featurePackages {
		if cfg.Features.Has(p.feature) {
			patch.SetIfAbsent(p.version, "dependencies", p.name)
		}
	}

	if cfg.TestFramework == models.TestFrameworkJest {
		patch.Set("node", "jest", "testEnvironment").
			Set([]string{"/node_modules/", "/dist/"}, "jest", "testPathIgnorePatterns")
		if cfg.IsTypeScript() {
			patch.Set("ts-jest", "jest", "preset")
		}
	}

	return patch
}

func testScript(cfg *models.ProjectConfig) string {
	if cfg.TestFramework == models.TestFrameworkJest {
		return "jest"
	}

	ext := cfg.Ext()
	args := []string{"mocha"}
	if cfg.IsTypeScript() {
		args = append(args, "--require ts-node/register")
	}
	args = append(args, fmt.Sprintf(`"test/**/*.test.%s"`, ext))
	for _, m := range cfg.Modules {
		args = append(args, fmt.Sprintf(`"%s/test/**/*.test.%s"`, m, ext))
	}
	return strings.Join(args, " ")
}

// Scripts returns the scripts set by patch, in order
func Scripts(patch *manifest.Patch) []catalog.Script {
	var scripts []catalog.Script
	for _, op := range patch.Ops() {
		if len(op.Key) == 2 && op.Key[0] == "scripts" {
			scripts = append(scripts, catalog.Script{Name: op.Key[1], Command: fmt.Sprint(op.Value)})
		}
	}
	return scripts
}
