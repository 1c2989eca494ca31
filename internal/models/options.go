package models

import (
	"fmt"
	"strings"
)

// Language is the source language of the generated project
type Language string

const (
	LanguageJavaScript Language = "JavaScript"
	LanguageTypeScript Language = "TypeScript"
)

// IsValid checks if the language is supported
func (l Language) IsValid() bool {
	switch l {
	case LanguageJavaScript, LanguageTypeScript:
		return true
	default:
		return false
	}
}

// Ext returns the source file extension without the leading dot
func (l Language) Ext() string {
	if l == LanguageTypeScript {
		return "ts"
	}
	return "js"
}

// String returns the string representation of Language
func (l Language) String() string {
	return string(l)
}

// ParseLanguage parses a language name case-insensitively.
// "js" and "ts" are accepted as shorthands.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "javascript", "js":
		return LanguageJavaScript, nil
	case "typescript", "ts":
		return LanguageTypeScript, nil
	default:
		return "", fmt.Errorf("invalid language: %s (must be JavaScript or TypeScript)", s)
	}
}

// Architecture is the layout of the generated project
type Architecture string

const (
	ArchitectureMonolithic    Architecture = "Monolithic"
	ArchitectureMicroservices Architecture = "Microservices"
)

// IsValid checks if the architecture is supported
func (a Architecture) IsValid() bool {
	switch a {
	case ArchitectureMonolithic, ArchitectureMicroservices:
		return true
	default:
		return false
	}
}

// String returns the string representation of Architecture
func (a Architecture) String() string {
	return string(a)
}

// ParseArchitecture parses an architecture name case-insensitively
func ParseArchitecture(s string) (Architecture, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monolithic", "monolith":
		return ArchitectureMonolithic, nil
	case "microservices", "microservice":
		return ArchitectureMicroservices, nil
	default:
		return "", fmt.Errorf("invalid architecture: %s (must be Monolithic or Microservices)", s)
	}
}

// TestFramework selects the generated test scaffolding
type TestFramework string

const (
	TestFrameworkNone  TestFramework = "None"
	TestFrameworkJest  TestFramework = "Jest"
	TestFrameworkMocha TestFramework = "Mocha"
)

// IsValid checks if the test framework is supported
func (t TestFramework) IsValid() bool {
	switch t {
	case TestFrameworkNone, TestFrameworkJest, TestFrameworkMocha:
		return true
	default:
		return false
	}
}

// Enabled reports whether any test scaffolding should be generated
func (t TestFramework) Enabled() bool {
	return t == TestFrameworkJest || t == TestFrameworkMocha
}

// String returns the string representation of TestFramework
func (t TestFramework) String() string {
	return string(t)
}

// ParseTestFramework parses a test framework name; empty means None
func ParseTestFramework(s string) (TestFramework, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return TestFrameworkNone, nil
	case "jest":
		return TestFrameworkJest, nil
	case "mocha":
		return TestFrameworkMocha, nil
	default:
		return "", fmt.Errorf("invalid test framework: %s (must be None, Jest, or Mocha)", s)
	}
}

// Feature is an optional capability of the generated project
type Feature string

const (
	FeatureJWT     Feature = "JWT"
	FeatureMongoDB Feature = "MongoDB"
	FeatureHelmet  Feature = "Helmet"
	FeatureDocker  Feature = "Docker"
)

// String returns the string representation of Feature
func (f Feature) String() string {
	return string(f)
}

// AllFeatures lists the features in their canonical order
var AllFeatures = []Feature{FeatureJWT, FeatureMongoDB, FeatureHelmet, FeatureDocker}

// ParseFeature parses a feature name case-insensitively
func ParseFeature(s string) (Feature, error) {
	for _, f := range AllFeatures {
		if strings.EqualFold(strings.TrimSpace(s), string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid feature: %s (must be one of JWT, MongoDB, Helmet, Docker)", s)
}

// FeatureSet is a set of enabled features
type FeatureSet map[Feature]bool

// NewFeatureSet builds a set from the given features
func NewFeatureSet(features ...Feature) FeatureSet {
	set := make(FeatureSet, len(features))
	for _, f := range features {
		set[f] = true
	}
	return set
}

// Has reports whether f is enabled
func (s FeatureSet) Has(f Feature) bool {
	return s[f]
}

// List returns the enabled features in canonical order
func (s FeatureSet) List() []Feature {
	var out []Feature
	for _, f := range AllFeatures {
		if s[f] {
			out = append(out, f)
		}
	}
	return out
}
