package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jakoblorz/go-expressgen/internal/config"
	"github.com/jakoblorz/go-expressgen/internal/filesystem"
	"github.com/jakoblorz/go-expressgen/internal/models"
	"github.com/jakoblorz/go-expressgen/internal/runner"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// isolateSettings points the default settings file at an empty directory
func isolateSettings(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EXPRESSGEN_PACKAGE_MANAGER", "")
}

func newMockRunner(fs filesystem.FileSystem) *runner.MockRunner {
	r := runner.NewMockRunner()
	for _, prefix := range []string{"npm init", "yarn init", "pnpm init"} {
		r.On(prefix, func(dir, command string) (*runner.Result, error) {
			return &runner.Result{}, fs.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"demo"}`), 0644)
		})
	}
	return r
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_Version(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	out, err := execute(t, NewRootCommand(fs, runner.NewMockRunner()), "--version")
	require.NoError(t, err)
	require.Equal(t, "Express Project Generator: v"+Version()+"\n", out)
	require.Equal(t, "1.2.0", Version())
}

func TestRootCommand_Help(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	r := runner.NewMockRunner()
	out, err := execute(t, NewRootCommand(fs, r), "--help")
	require.NoError(t, err)
	require.Contains(t, out, "Usage:")
	require.Contains(t, out, "--from")
	require.NotContains(t, out, "--jest")
	require.Contains(t, out, "https://github.com/developer-diganta/express-project-generator")
	require.Empty(t, r.Calls())
}

func TestRootCommand_IgnoresUnknownFlags(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	out, err := execute(t, NewRootCommand(fs, runner.NewMockRunner()), "--frobnicate", "--version")
	require.NoError(t, err)
	require.Contains(t, out, "Express Project Generator: v")
}

func TestRootCommand_FromProjectFile(t *testing.T) {
	isolateSettings(t)
	dir := t.TempDir()
	projectFile := filepath.Join(dir, "project.yaml")
	require.NoError(t, os.WriteFile(projectFile, []byte(`
name: demo
language: JavaScript
architecture: Monolithic
test_framework: Jest
author: Ada
`), 0644))

	fs := filesystem.NewOSFileSystem()
	r := newMockRunner(fs)

	out, err := execute(t, NewRootCommand(fs, r), "--from", projectFile, "--dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "[100%] Project setup completed!")
	require.Contains(t, out, "npm run dev")
	require.Contains(t, out, "📁 12 files in demo")

	require.FileExists(t, filepath.Join(dir, "demo", "src", "server.js"))
	require.FileExists(t, filepath.Join(dir, "demo", "src", "__tests__", "server.test.js"))

	pkg, err := os.ReadFile(filepath.Join(dir, "demo", "package.json"))
	require.NoError(t, err)
	require.Contains(t, string(pkg), `"dev": "nodemon src/server.js"`)
	require.Contains(t, string(pkg), `"author": "Ada"`)

	require.Equal(t, "npm init -y", r.Calls()[0].Command)
	require.Equal(t, filepath.Join(dir, "demo"), r.Calls()[0].Dir)
}

func TestRootCommand_PackageManagerFromSettingsAndFlag(t *testing.T) {
	isolateSettings(t)
	dir := t.TempDir()
	settingsFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(settingsFile, []byte("package_manager: yarn\n"), 0644))
	projectFile := filepath.Join(dir, "project.yaml")
	require.NoError(t, os.WriteFile(projectFile, []byte("name: demo\n"), 0644))

	fs := filesystem.NewMockFileSystem()
	r := newMockRunner(fs)
	out, err := execute(t, NewRootCommand(fs, r), "--from", projectFile, "--config", settingsFile, "--quiet")
	require.NoError(t, err)
	require.Equal(t, "yarn init -y", r.Calls()[0].Command)
	require.NotContains(t, out, "✓ ")
	require.Contains(t, out, "yarn dev")

	r = newMockRunner(fs)
	_, err = execute(t, NewRootCommand(fs, r), "--from", projectFile, "--config", settingsFile, "--package-manager", "pnpm")
	require.NoError(t, err)
	require.Equal(t, "pnpm init", r.Calls()[0].Command)
	require.True(t, fs.Exists("/workspace/demo/src/server.js"))

	_, err = execute(t, NewRootCommand(fs, r), "--from", projectFile, "--package-manager", "bun")
	require.ErrorContains(t, err, "unknown package manager")
}

func TestRootCommand_RequiresTerminalWithoutProjectFile(t *testing.T) {
	isolateSettings(t)
	fs := filesystem.NewMockFileSystem()
	gen := newGenerateCommand(fs, runner.NewMockRunner())
	gen.isTerminal = func() bool { return false }

	_, err := execute(t, newRootCommand(gen))
	require.ErrorContains(t, err, "requires a terminal")
}

func TestRootCommand_PromptAbortGeneratesNothing(t *testing.T) {
	isolateSettings(t)
	fs := filesystem.NewMockFileSystem()
	r := runner.NewMockRunner()
	gen := newGenerateCommand(fs, r)
	gen.isTerminal = func() bool { return true }
	gen.ask = func(*config.Settings) (*models.ProjectConfig, error) { return nil, nil }

	out, err := execute(t, newRootCommand(gen))
	require.NoError(t, err)
	require.Contains(t, out, "Aborted")
	require.Empty(t, r.Calls())
}

func TestRootCommand_PromptedConfig(t *testing.T) {
	isolateSettings(t)
	fs := filesystem.NewMockFileSystem()
	r := newMockRunner(fs)
	gen := newGenerateCommand(fs, r)
	gen.isTerminal = func() bool { return true }
	gen.ask = func(settings *config.Settings) (*models.ProjectConfig, error) {
		return &models.ProjectConfig{
			ProjectName:   "shop",
			Language:      models.LanguageTypeScript,
			Architecture:  models.ArchitectureMicroservices,
			Modules:       []string{"auth"},
			Version:       settings.Defaults.Version,
			License:       settings.Defaults.License,
			TestFramework: models.TestFrameworkNone,
			Features:      models.NewFeatureSet(models.FeatureDocker),
		}, nil
	}

	_, err := execute(t, newRootCommand(gen), "--dir", "projects")
	require.NoError(t, err)
	require.True(t, fs.Exists("/workspace/projects/shop/auth/src/server.ts"))
	require.True(t, fs.Exists("/workspace/projects/shop/Dockerfile"))
}

func TestRootCommand_PipelineFailure(t *testing.T) {
	isolateSettings(t)
	dir := t.TempDir()
	projectFile := filepath.Join(dir, "project.yaml")
	require.NoError(t, os.WriteFile(projectFile, []byte("name: demo\n"), 0644))

	fs := filesystem.NewMockFileSystem()
	r := newMockRunner(fs)
	r.FailOn("npm install", 1, "network down")

	_, err := execute(t, NewRootCommand(fs, r), "--from", projectFile)
	require.Error(t, err)

	var cmdErr *models.CommandError
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, "network down", cmdErr.Stderr)
}

func TestRootCommand_TestFrameworkFlags(t *testing.T) {
	isolateSettings(t)
	dir := t.TempDir()
	projectFile := filepath.Join(dir, "project.yaml")
	require.NoError(t, os.WriteFile(projectFile, []byte("name: demo\n"), 0644))

	fs := filesystem.NewMockFileSystem()
	_, err := execute(t, NewRootCommand(fs, newMockRunner(fs)), "--from", projectFile, "--mocha")
	require.NoError(t, err)
	require.True(t, fs.Exists("/workspace/demo/test/server.test.js"))

	var preset string
	gen := newGenerateCommand(fs, runner.NewMockRunner())
	gen.isTerminal = func() bool { return true }
	gen.ask = func(settings *config.Settings) (*models.ProjectConfig, error) {
		preset = settings.Defaults.TestFramework
		return nil, nil
	}
	_, err = execute(t, newRootCommand(gen), "--jest")
	require.NoError(t, err)
	require.Equal(t, "Jest", preset)

	_, err = execute(t, NewRootCommand(fs, runner.NewMockRunner()), "--jest", "--mocha")
	require.Error(t, err)
}

func TestCountFiles_SkipsGitIgnoredPaths(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/workspace/demo/.gitignore", []byte("node_modules/\ndist/\n.env\n"))
	fs.AddFile("/workspace/demo/.env", []byte("PORT=3000\n"))
	fs.AddFile("/workspace/demo/package.json", []byte(`{}`))
	fs.AddFile("/workspace/demo/src/server.js", []byte(""))
	fs.AddFile("/workspace/demo/dist/server.js", []byte(""))
	fs.AddFile("/workspace/demo/node_modules/express/index.js", []byte(""))

	require.Equal(t, 3, countFiles(fs, "/workspace/demo"))
}
