package registry

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jonathan/pkgscout/internal/types"
)

// basePackages are tooling packages every environment carries; they never
// count as popularity signals.
var basePackages = map[string]struct{}{
	"pip":        {},
	"setuptools": {},
	"wheel":      {},
	"python":     {},
}

// IsBasePackage reports whether name is baseline tooling rather than a real
// project dependency.
func IsBasePackage(name string) bool {
	_, ok := basePackages[types.FoldName(name)]
	return ok
}

// ParseRequirements extracts package names from a requirements.txt body.
// Blank lines, comments, and pip options are skipped; version specifiers,
// extras, and environment markers are cut off.
func ParseRequirements(content string) []string {
	var packages []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if name := requirementName(line); name != "" {
			packages = append(packages, name)
		}
	}
	return packages
}

// requirementName cuts a requirement line down to its package name.
func requirementName(line string) string {
	// Environment markers and inline comments.
	if idx := strings.IndexAny(line, ";#"); idx >= 0 {
		line = line[:idx]
	}
	// Extras: package[extra1,extra2].
	if idx := strings.Index(line, "["); idx >= 0 {
		line = line[:idx]
	}
	// Version specifiers: ==, >=, <=, ~=, !=, >, <, and wheel-style spaces.
	if idx := strings.IndexAny(line, "=<>~! "); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

// pyProject models the two dependency tables we read from pyproject.toml.
type pyProject struct {
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// ParsePyProject extracts package names from a pyproject.toml body, reading
// both PEP 621 [project.dependencies] and [tool.poetry.dependencies].
// Unparseable content yields no packages.
func ParsePyProject(content string) []string {
	var doc pyProject
	if _, err := toml.Decode(content, &doc); err != nil {
		return nil
	}

	var packages []string
	for _, dep := range doc.Project.Dependencies {
		if name := requirementName(strings.TrimSpace(dep)); name != "" {
			packages = append(packages, name)
		}
	}
	for name := range doc.Tool.Poetry.Dependencies {
		if name = strings.TrimSpace(name); name != "" {
			packages = append(packages, name)
		}
	}
	return packages
}
