package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/mod/module"
)

// DefaultProjectName is used when the questionnaire is left empty
const DefaultProjectName = "my-app"

var (
	moduleNamePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	packageNamePattern = regexp.MustCompile(`^(@[a-z0-9-~][a-z0-9-._~]*/)?[a-z0-9-~][a-z0-9-._~]*(@[A-Za-z0-9.^~<>=*|-]+)?$`)
)

// reservedModuleNames collide with directories the generator or the toolchain owns
var reservedModuleNames = map[string]bool{
	"src":          true,
	"test":         true,
	"dist":         true,
	"node_modules": true,
}

// ProjectConfig is the fully resolved input of a generation run.
//
// It is produced once by the questionnaire (or a project file) and consumed
// read-only by the pipeline.
type ProjectConfig struct {
	ProjectName   string
	Language      Language
	Architecture  Architecture
	Modules       []string
	AuthorName    string
	Version       string
	Description   string
	License       string
	StartCommand  string
	TestFramework TestFramework
	Features      FeatureSet
	ExtraPackages []string
}

// Ext returns the source file extension for the configured language
func (c *ProjectConfig) Ext() string {
	return c.Language.Ext()
}

// IsTypeScript reports whether TypeScript was selected
func (c *ProjectConfig) IsTypeScript() bool {
	return c.Language == LanguageTypeScript
}

// IsMicroservices reports whether the microservices layout was selected
func (c *ProjectConfig) IsMicroservices() bool {
	return c.Architecture == ArchitectureMicroservices
}

// EntrypointPath returns the path of the runnable server relative to the project root.
// TypeScript microservices compile from the project root, which keeps src/ in the output path.
func (c *ProjectConfig) EntrypointPath() string {
	switch {
	case c.IsTypeScript() && c.IsMicroservices():
		return "dist/src/server.js"
	case c.IsTypeScript():
		return "dist/server.js"
	default:
		return "src/server.js"
	}
}

// ResolvedStartCommand returns StartCommand, or the language default when empty
func (c *ProjectConfig) ResolvedStartCommand() string {
	if strings.TrimSpace(c.StartCommand) != "" {
		return c.StartCommand
	}
	return "node " + c.EntrypointPath()
}

// Validate checks the invariants the pipeline relies on
func (c *ProjectConfig) Validate() error {
	if err := ValidateProjectName(c.ProjectName); err != nil {
		return err
	}
	if !c.Language.IsValid() {
		return fmt.Errorf("invalid language: %q", c.Language)
	}
	if !c.Architecture.IsValid() {
		return fmt.Errorf("invalid architecture: %q", c.Architecture)
	}
	if !c.TestFramework.IsValid() {
		return fmt.Errorf("invalid test framework: %q", c.TestFramework)
	}

	switch c.Architecture {
	case ArchitectureMonolithic:
		if len(c.Modules) > 0 {
			return fmt.Errorf("modules are only allowed for the Microservices architecture")
		}
	case ArchitectureMicroservices:
		if len(c.Modules) == 0 {
			return fmt.Errorf("the Microservices architecture requires at least one module")
		}
	}

	seen := make(map[string]bool, len(c.Modules))
	for _, m := range c.Modules {
		if err := ValidateModuleName(m); err != nil {
			return err
		}
		if seen[strings.ToLower(m)] {
			return fmt.Errorf("duplicate module: %s", m)
		}
		seen[strings.ToLower(m)] = true
	}

	if err := ValidateVersion(c.Version); err != nil {
		return err
	}

	for _, pkg := range c.ExtraPackages {
		if err := ValidatePackageName(pkg); err != nil {
			return err
		}
	}

	return nil
}

// ValidateProjectName checks that name can be used as a single directory name
func ValidateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid project name %q: must be a single directory name", name)
	}
	if err := module.CheckFilePath(name); err != nil {
		return fmt.Errorf("invalid project name %q: %w", name, err)
	}
	return nil
}

// ValidateModuleName checks that name is usable as a directory and route name
func ValidateModuleName(name string) error {
	if !moduleNamePattern.MatchString(name) {
		return fmt.Errorf("invalid module name %q: use letters, digits, '-' or '_' and start with a letter", name)
	}
	if err := module.CheckFilePath(name); err != nil {
		return fmt.Errorf("invalid module name %q: %w", name, err)
	}
	if reservedModuleNames[strings.ToLower(name)] {
		return fmt.Errorf("invalid module name %q: reserved by the generated layout", name)
	}
	return nil
}

// ValidateVersion checks that v is a semantic version
func ValidateVersion(v string) error {
	if _, err := semver.StrictNewVersion(v); err != nil {
		return fmt.Errorf("invalid version %q: %w", v, err)
	}
	return nil
}

// ValidatePackageName checks an npm package name with an optional version range
func ValidatePackageName(name string) error {
	if !packageNamePattern.MatchString(name) {
		return fmt.Errorf("invalid package name: %q", name)
	}
	return nil
}

// SplitList splits a comma or whitespace separated answer into trimmed, non-empty entries
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
