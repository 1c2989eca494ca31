package pipeline

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/jakoblorz/go-expressgen/internal/catalog"
	"github.com/jakoblorz/go-expressgen/internal/config"
	"github.com/jakoblorz/go-expressgen/internal/manifest"
	"github.com/jakoblorz/go-expressgen/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	secretAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	secretLength   = 32
)

// SourceDirs are created under every src root
var SourceDirs = []string{"controllers", "services", "routes", "configs", "middlewares", "utils", "static"}

// PlanOptions configures how a plan is built
type PlanOptions struct {
	// PackageManager defaults to npm
	PackageManager config.PackageManager
	// Secret generates the JWT_SECRET written to .env; defaults to a random nanoid
	Secret func() (string, error)
}

// Plan is the complete, ordered list of steps of a run.
// It is computed before anything touches the disk, so Total never drifts from the steps executed.
type Plan struct {
	Root   string
	Config *models.ProjectConfig
	Steps  []Step
}

// Total returns the number of steps
func (p *Plan) Total() int {
	return len(p.Steps)
}

// Count returns the number of steps in stage
func (p *Plan) Count(stage Stage) int {
	n := 0
	for _, s := range p.Steps {
		if s.Stage == stage {
			n++
		}
	}
	return n
}

// Paths returns the project-relative paths of all directory, file and manifest steps
func (p *Plan) Paths() []string {
	var out []string
	for _, s := range p.Steps {
		if s.Kind == KindCommand {
			continue
		}
		rel, err := filepath.Rel(p.Root, s.Path)
		if err != nil {
			rel = s.Path
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

type planBuilder struct {
	cfg   *models.ProjectConfig
	root  string
	steps []Step
	err   error
}

func (b *planBuilder) abs(rel string) string {
	return filepath.Join(b.root, filepath.FromSlash(rel))
}

func (b *planBuilder) command(stage Stage, command, label string) {
	b.steps = append(b.steps, Step{Stage: stage, Kind: KindCommand, Dir: b.root, Command: command, Label: label})
}

func (b *planBuilder) dir(stage Stage, rel string) {
	b.steps = append(b.steps, Step{Stage: stage, Kind: KindDirectory, Path: b.abs(rel), Label: "Created " + rel})
}

func (b *planBuilder) write(stage Stage, rel string, render func() (string, error)) {
	b.file(stage, KindWrite, rel, "Wrote "+rel, render)
}

func (b *planBuilder) file(stage Stage, kind StepKind, rel, label string, render func() (string, error)) {
	if b.err != nil {
		return
	}
	contents, err := render()
	if err != nil {
		b.err = fmt.Errorf("failed to render %s: %w", rel, err)
		return
	}
	b.steps = append(b.steps, Step{Stage: stage, Kind: kind, Path: b.abs(rel), Contents: contents, Label: label})
}

// BuildPlan renders every file for cfg and lays out the steps generating it under
// parentDir/<ProjectName>.
func BuildPlan(cfg *models.ProjectConfig, parentDir string, opts PlanOptions) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pm := opts.PackageManager
	if pm.Name == "" {
		var err error
		if pm, err = config.LookupPackageManager(""); err != nil {
			return nil, err
		}
	}

	secret := ""
	if cfg.Features.Has(models.FeatureJWT) {
		generate := opts.Secret
		if generate == nil {
			generate = func() (string, error) { return gonanoid.Generate(secretAlphabet, secretLength) }
		}
		var err error
		if secret, err = generate(); err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
	}

	b := &planBuilder{cfg: cfg, root: filepath.Join(parentDir, cfg.ProjectName)}
	lang := cfg.Language
	ext := cfg.Ext()
	patch := BuildManifestPatch(cfg)

	// Init, DependencyInstall
	deps, devDeps := Dependencies(cfg)
	b.command(StageInit, pm.Init, "Initialized "+manifest.FileName)
	b.command(StageDependencyInstall, pm.InstallCommand(deps, devDeps), "Installed dependencies")

	// DirectoryCreation
	roots := append([]string{""}, cfg.Modules...)
	for _, base := range roots {
		src := path.Join(base, "src")
		b.dir(StageDirectoryCreation, src)
		for _, d := range SourceDirs {
			b.dir(StageDirectoryCreation, path.Join(src, d))
		}
		if base == "" {
			b.dir(StageDirectoryCreation, "src/models")
		}
	}

	// FileEmission
	b.write(StageFileEmission, "src/server."+ext, func() (string, error) {
		return catalog.RenderServerEntrypoint(lang, cfg.Features, cfg.Modules)
	})
	b.write(StageFileEmission, "src/configs/config."+ext, func() (string, error) { return catalog.RenderDatabaseConfig(lang) })
	b.write(StageFileEmission, "src/models/userModel."+ext, func() (string, error) { return catalog.RenderUserModel(lang) })
	b.write(StageFileEmission, "src/controllers/userController."+ext, func() (string, error) { return catalog.RenderUserController(lang) })
	b.write(StageFileEmission, "src/middlewares/authMiddleware."+ext, func() (string, error) {
		return catalog.RenderAuthMiddleware(lang, cfg.Features)
	})
	b.write(StageFileEmission, "src/middlewares/errorMiddleware."+ext, func() (string, error) { return catalog.RenderErrorMiddleware(lang) })
	b.write(StageFileEmission, "src/routes/userRouter."+ext, func() (string, error) { return catalog.RenderUserRoutes(lang) })
	b.write(StageFileEmission, "src/services/userServices."+ext, func() (string, error) { return catalog.RenderUserService(lang) })
	b.write(StageFileEmission, "readme.md", func() (string, error) {
		return catalog.RenderReadme(cfg, catalog.ReadmeOptions{
			Install: pm.Install,
			Run:     pm.Run,
			Scripts: Scripts(patch),
		})
	})
	b.write(StageFileEmission, ".env", func() (string, error) {
		return catalog.RenderEnvFile(cfg.ProjectName, cfg.Features, secret)
	})
	b.write(StageFileEmission, ".gitignore", catalog.RenderGitignore)

	for i, m := range cfg.Modules {
		m, port := m, catalog.DefaultPort+1+i
		b.write(StageFileEmission, path.Join(m, "src", "routes", m+"Routes."+ext), func() (string, error) {
			return catalog.RenderModuleRouteStub(lang, m)
		})
		b.write(StageFileEmission, path.Join(m, "src", "server."+ext), func() (string, error) {
			return catalog.RenderModuleServer(lang, m, port)
		})
	}

	if cfg.IsTypeScript() {
		b.write(StageFileEmission, "tsconfig.json", func() (string, error) { return catalog.RenderTsConfig(cfg.Modules) })
		b.write(StageFileEmission, "nodemon.json", func() (string, error) { return catalog.RenderNodemonConfig(cfg.Modules) })
	}

	// ManifestPatch
	b.steps = append(b.steps, Step{
		Stage: StageManifestPatch,
		Kind:  KindPatch,
		Path:  b.abs(manifest.FileName),
		Patch: patch,
		Label: fmt.Sprintf("Updated %s (%d keys)", manifest.FileName, patch.Len()),
	})

	// TestScaffolding
	if cfg.TestFramework.Enabled() {
		for _, base := range roots {
			dir := testDir(base, cfg.TestFramework)
			b.dir(StageTestScaffolding, dir)
			b.write(StageTestScaffolding, path.Join(dir, "server.test."+ext), func() (string, error) {
				return catalog.RenderTestFile(lang, cfg.TestFramework)
			})
		}
	}

	// ContainerScaffolding
	if cfg.Features.Has(models.FeatureDocker) {
		b.write(StageContainerScaffolding, "Dockerfile", func() (string, error) {
			return catalog.RenderDockerfile(lang, cfg.EntrypointPath(), catalog.DockerOptions{
				Lockfile: pm.Lockfile,
				Corepack: pm.Corepack,
				Install:  pm.Install,
				Build:    pm.RunScript("build"),
			})
		})
		b.write(StageContainerScaffolding, "docker-compose.yml", func() (string, error) {
			return catalog.RenderComposeFile(cfg.ProjectName, cfg.Features)
		})
		b.file(StageContainerScaffolding, KindAppend, "readme.md", "Added Docker section to readme.md", func() (string, error) {
			return catalog.RenderDockerReadmeSection(cfg.ProjectName)
		})
	}

	if b.err != nil {
		return nil, b.err
	}

	return &Plan{Root: b.root, Config: cfg, Steps: b.steps}, nil
}

// testDir returns the test directory of a source root. Jest picks up src/__tests__,
// Mocha runs test/ next to src/.
func testDir(base string, framework models.TestFramework) string {
	if framework == models.TestFrameworkMocha {
		return path.Join(base, "test")
	}
	return path.Join(base, "src", "__tests__")
}
