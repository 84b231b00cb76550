// Package types defines the core data contracts passed between pipeline stages.
package types

import "path/filepath"

// ProjectIntent captures the user's request. It is created once during intake
// and never mutated afterward; every downstream stage receives it read-only.
type ProjectIntent struct {
	// Name is the project directory name.
	Name string `json:"name" validate:"required"`
	// Description of what the project does; drives the advisory and
	// registry research. May be empty.
	Description string `json:"description,omitempty"`
	// Location is the parent directory under which the project is created.
	Location string `json:"location"`
	// RequestedPackages is the user's package list, in input order.
	RequestedPackages []string `json:"requested_packages"`
}

// ProjectDir returns the directory the project will be created in.
func (i *ProjectIntent) ProjectDir() string {
	location := i.Location
	if location == "" {
		location = "."
	}
	return filepath.Join(location, i.Name)
}

// Requested reports whether name matches a requested package, ignoring case.
func (i *ProjectIntent) Requested(name string) bool {
	for _, pkg := range i.RequestedPackages {
		if FoldName(pkg) == FoldName(name) {
			return true
		}
	}
	return false
}
