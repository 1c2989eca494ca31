package config

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// DefaultPackageManager is used when no package manager is configured
const DefaultPackageManager = "npm"

// PackageManager holds the command prefixes of a Node.js package manager
type PackageManager struct {
	Name     string
	Init     string
	Install  string
	Add      string
	AddDev   string
	Run      string
	Lockfile string
	// Corepack must be enabled before the binary is available in the node image
	Corepack bool
}

var packageManagers = map[string]PackageManager{
	"npm": {
		Name:     "npm",
		Install:  "npm install",
		Init:     "npm init -y",
		Add:      "npm install",
		AddDev:   "npm install --save-dev",
		Run:      "npm run",
		Lockfile: "package-lock.json",
	},
	"yarn": {
		Name:     "yarn",
		Install:  "yarn install",
		Init:     "yarn init -y",
		Add:      "yarn add",
		AddDev:   "yarn add --dev",
		Run:      "yarn",
		Lockfile: "yarn.lock",
	},
	"pnpm": {
		Name:     "pnpm",
		Install:  "pnpm install",
		Init:     "pnpm init",
		Add:      "pnpm add",
		AddDev:   "pnpm add -D",
		Run:      "pnpm",
		Lockfile: "pnpm-lock.yaml",
		Corepack: true,
	},
}

// PackageManagerNames returns the supported package managers, sorted
func PackageManagerNames() []string {
	names := make([]string, 0, len(packageManagers))
	for name := range packageManagers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupPackageManager returns the preset for name; empty selects npm
func LookupPackageManager(name string) (PackageManager, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultPackageManager
	}

	pm, ok := packageManagers[name]
	if !ok {
		return PackageManager{}, fmt.Errorf("unknown package manager: %s (must be one of %s)", name, strings.Join(PackageManagerNames(), ", "))
	}
	return pm, nil
}

// InstallCommand returns one shell command installing deps, then devDeps.
// Either list may be empty; both empty yields an empty command.
func (pm PackageManager) InstallCommand(deps, devDeps []string) string {
	var parts []string
	if len(deps) > 0 {
		parts = append(parts, pm.Add+" "+joinArgs(deps))
	}
	if len(devDeps) > 0 {
		parts = append(parts, pm.AddDev+" "+joinArgs(devDeps))
	}
	return strings.Join(parts, " && ")
}

// RunScript returns the command running a package.json script
func (pm PackageManager) RunScript(script string) string {
	return pm.Run + " " + script
}

func joinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quoteArg(arg)
	}
	return strings.Join(quoted, " ")
}

// quoteArg quotes arguments carrying shell metacharacters, such as version ranges,
// for the shell the runner uses on this platform
func quoteArg(arg string) string {
	return quoteArgFor(runtime.GOOS, arg)
}

// quoteArgFor quotes arg for sh, or for cmd.exe when goos is windows.
// cmd.exe only understands double quotes and treats '^' as its escape character.
func quoteArgFor(goos, arg string) string {
	plain := "@/._~^-"
	if goos == "windows" {
		plain = "@/._~-"
	}

	safe := strings.IndexFunc(arg, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case strings.ContainsRune(plain, r):
			return false
		}
		return true
	}) == -1
	if safe {
		return arg
	}

	if goos == "windows" {
		return `"` + strings.ReplaceAll(arg, `"`, `""`) + `"`
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
