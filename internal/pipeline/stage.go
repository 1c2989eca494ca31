package pipeline

import (
	"fmt"

	"github.com/jakoblorz/go-expressgen/internal/manifest"
)

// Stage is one phase of a generation run. Stages execute strictly in order.
type Stage int

const (
	StageInit Stage = iota
	StageDependencyInstall
	StageDirectoryCreation
	StageFileEmission
	StageManifestPatch
	StageTestScaffolding
	StageContainerScaffolding
	StageDone
)

var stageNames = map[Stage]string{
	StageInit:                 "Init",
	StageDependencyInstall:    "DependencyInstall",
	StageDirectoryCreation:    "DirectoryCreation",
	StageFileEmission:         "FileEmission",
	StageManifestPatch:        "ManifestPatch",
	StageTestScaffolding:      "TestScaffolding",
	StageContainerScaffolding: "ContainerScaffolding",
	StageDone:                 "Done",
}

// String returns the stage name
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// StepKind selects how a Step is executed
type StepKind int

const (
	// KindCommand runs Command in Dir, creating Dir first
	KindCommand StepKind = iota
	// KindDirectory creates Path
	KindDirectory
	// KindWrite writes Contents to Path
	KindWrite
	// KindAppend appends Contents to Path
	KindAppend
	// KindPatch applies Patch to the manifest at Path
	KindPatch
)

// Step is a single unit of work; every executed step is reported to the tracker exactly once
type Step struct {
	Stage    Stage
	Kind     StepKind
	Path     string
	Dir      string
	Command  string
	Contents string
	Patch    *manifest.Patch
	Label    string
}

// Target returns the path or command the step acts on, for error context
func (s Step) Target() string {
	if s.Kind == KindCommand {
		return s.Command
	}
	return s.Path
}
