package cli

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/jakoblorz/go-expressgen/internal/config"
	"github.com/jakoblorz/go-expressgen/internal/filesystem"
	"github.com/jakoblorz/go-expressgen/internal/models"
	"github.com/jakoblorz/go-expressgen/internal/pipeline"
	"github.com/jakoblorz/go-expressgen/internal/runner"
	"github.com/jakoblorz/go-expressgen/internal/tui"
	"github.com/jakoblorz/go-expressgen/internal/tui/prompt"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GenerateCommand collects a ProjectConfig and runs the generation pipeline
type GenerateCommand struct {
	fs         filesystem.FileSystem
	runner     runner.CommandRunner
	isTerminal func() bool
	ask        func(settings *config.Settings) (*models.ProjectConfig, error)
}

func newGenerateCommand(fs filesystem.FileSystem, r runner.CommandRunner) *GenerateCommand {
	return &GenerateCommand{
		fs:     fs,
		runner: r,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		ask: func(settings *config.Settings) (*models.ProjectConfig, error) {
			return prompt.NewFlow(settings).Run()
		},
	}
}

// Run executes the generate command
func (c *GenerateCommand) Run(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	dir, _ := cmd.Flags().GetString("dir")
	pmFlag, _ := cmd.Flags().GetString("package-manager")
	quiet, _ := cmd.Flags().GetBool("quiet")
	configPath, _ := cmd.Flags().GetString("config")

	settings, err := config.LoadSettings(configPath)
	if err != nil {
		return err
	}
	if jest, _ := cmd.Flags().GetBool("jest"); jest {
		settings.Defaults.TestFramework = models.TestFrameworkJest.String()
	}
	if mocha, _ := cmd.Flags().GetBool("mocha"); mocha {
		settings.Defaults.TestFramework = models.TestFrameworkMocha.String()
	}

	pmName := settings.PackageManager
	if pmFlag != "" {
		pmName = pmFlag
	}
	pm, err := config.LookupPackageManager(pmName)
	if err != nil {
		return err
	}

	cfg, err := c.projectConfig(from, settings)
	if err != nil {
		return err
	}
	if cfg == nil {
		fmt.Fprintln(cmd.OutOrStdout(), tui.SubtleStyle.Render("Aborted, nothing was generated."))
		return nil
	}

	parent, err := c.resolveDir(dir)
	if err != nil {
		return err
	}

	plan, err := pipeline.BuildPlan(cfg, parent, pipeline.PlanOptions{PackageManager: pm})
	if err != nil {
		return fmt.Errorf("failed to plan project: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tui.TitleStyle.Render(fmt.Sprintf("🚀 Creating %s in %s", cfg.ProjectName, plan.Root)))

	p := pipeline.New(c.fs, c.runner.WithContext(cmd.Context()), out)
	p.SetVerbose(!quiet)
	p.SetProgressFunc(func(percent int) {
		if quiet {
			fmt.Fprintf(out, "\r%s", tui.Percent(percent))
			return
		}
		fmt.Fprintf(out, "%s ", tui.Percent(percent))
	})

	if _, err := p.Run(plan); err != nil {
		return fmt.Errorf("failed to generate project: %w", err)
	}

	if quiet {
		fmt.Fprintln(out)
	}
	renderSuccess(out, cfg, pm, countFiles(c.fs, plan.Root))
	return nil
}

func (c *GenerateCommand) projectConfig(from string, settings *config.Settings) (*models.ProjectConfig, error) {
	if from != "" {
		return config.LoadProject(from, settings)
	}

	if !c.isTerminal() {
		return nil, fmt.Errorf("interactive mode requires a terminal; use --from <file> to generate from a project file")
	}

	cfg, err := c.ask(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to run TUI: %w", err)
	}
	return cfg, nil
}

func (c *GenerateCommand) resolveDir(dir string) (string, error) {
	if dir != "" && filepath.IsAbs(dir) {
		return filepath.Clean(dir), nil
	}

	cwd, err := c.fs.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(cwd, dir), nil
}

// countFiles counts the generated files below root, skipping paths matched by the
// project's .gitignore such as node_modules/ and .env
func countFiles(fsys filesystem.FileSystem, root string) int {
	ignore := loadGitIgnore(fsys, root)

	n := 0
	_ = fsys.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}

		if ignore != nil {
			if match := ignore.Relative(filepath.ToSlash(rel), d.IsDir()); match != nil && match.Ignore() {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if !d.IsDir() {
			n++
		}
		return nil
	})
	return n
}

func loadGitIgnore(fsys filesystem.FileSystem, root string) gitignore.GitIgnore {
	data, err := fsys.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gitignore.New(bytes.NewReader(data), root, nil)
}

func renderSuccess(out io.Writer, cfg *models.ProjectConfig, pm config.PackageManager, files int) {
	fmt.Fprintln(out, tui.SuccessStyle.Render("[100%] Project setup completed!"))
	fmt.Fprintf(out, "📁 %d files in %s\n", files, cfg.ProjectName)
	fmt.Fprintln(out, tui.HelpStyle.Render(fmt.Sprintf("Next steps:\n  cd %s\n  %s", cfg.ProjectName, pm.RunScript("dev"))))
}
