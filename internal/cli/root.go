package cli

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Masterminds/semver/v3"
	"github.com/jakoblorz/go-expressgen/internal/filesystem"
	"github.com/jakoblorz/go-expressgen/internal/runner"
	"github.com/jakoblorz/go-expressgen/internal/tui"
	"github.com/spf13/cobra"
)

//go:embed version.txt
var versionFile string

// Version returns the tool version from version.txt
func Version() string {
	v, err := semver.NewVersion(strings.TrimSpace(versionFile))
	if err != nil {
		return "0.0.0"
	}
	return v.String()
}

// NewRootCommand creates the root command
func NewRootCommand(fs filesystem.FileSystem, r runner.CommandRunner) *cobra.Command {
	return newRootCommand(newGenerateCommand(fs, r))
}

func newRootCommand(gen *GenerateCommand) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "expressgen",
		Short: "Scaffold a new Express.js project",
		Long: `Express Project Generator creates a ready-to-run Express.js backend.

It asks for the project name, language, architecture, test framework and
optional features, then generates the source tree, installs dependencies
and configures package.json.

https://github.com/developer-diganta/express-project-generator`,
		Example: `  # Answer the questions interactively
  expressgen

  # Generate from a project file into ~/code
  expressgen --from project.yaml --dir ~/code --package-manager pnpm`,
		Version:      Version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		RunE: gen.Run,
	}
	rootCmd.SetVersionTemplate("Express Project Generator: v{{.Version}}\n")

	rootCmd.Flags().StringP("from", "f", "", "Project file (YAML, JSON or TOML) to generate from without prompting")
	rootCmd.Flags().StringP("dir", "d", "", "Directory to create the project in (default: current directory)")
	rootCmd.Flags().String("package-manager", "", "Package manager: npm, yarn or pnpm (default from config, else npm)")
	rootCmd.Flags().BoolP("quiet", "q", false, "Only print progress percentages")
	rootCmd.Flags().String("config", "", "Settings file (default: <user config dir>/expressgen/config.yaml)")
	rootCmd.Flags().Bool("jest", false, "Pre-select Jest as the test framework")
	rootCmd.Flags().Bool("mocha", false, "Pre-select Mocha as the test framework")
	_ = rootCmd.Flags().MarkHidden("jest")
	_ = rootCmd.Flags().MarkHidden("mocha")
	rootCmd.MarkFlagsMutuallyExclusive("jest", "mocha")

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand(filesystem.NewOSFileSystem(), runner.NewOSRunner())
	rootCmd.SilenceErrors = true

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), tui.ErrorStyle.Render("Error: "+err.Error()))
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
