package types

// PackageDerivation records how a package earned its place in the final set.
type PackageDerivation string

// Package derivations.
const (
	DerivationUserRequested   PackageDerivation = "user-requested"
	DerivationLLMSuggested    PackageDerivation = "llm-suggested"
	DerivationRegistryDerived PackageDerivation = "registry-derived"
)

// FinalPackageSet is the deduplicated, user-approved list of packages to
// install. Packages preserves insertion order; membership is case-insensitive.
type FinalPackageSet struct {
	Packages   []string                     `json:"packages"`
	Derivation map[string]PackageDerivation `json:"derivation"`
}

// NewFinalPackageSet returns an empty set.
func NewFinalPackageSet() *FinalPackageSet {
	return &FinalPackageSet{
		Derivation: make(map[string]PackageDerivation),
	}
}

// Contains reports case-insensitive membership.
func (s *FinalPackageSet) Contains(name string) bool {
	folded := FoldName(name)
	for _, pkg := range s.Packages {
		if FoldName(pkg) == folded {
			return true
		}
	}
	return false
}

// Add appends name with the given derivation. Duplicate names (under case
// folding) are ignored; the first entry wins. Reports whether name was added.
func (s *FinalPackageSet) Add(name string, derivation PackageDerivation) bool {
	if name == "" || s.Contains(name) {
		return false
	}
	s.Packages = append(s.Packages, name)
	s.Derivation[FoldName(name)] = derivation
	return true
}

// Remove deletes name from the set, ignoring case. Reports whether name was present.
func (s *FinalPackageSet) Remove(name string) bool {
	folded := FoldName(name)
	for i, pkg := range s.Packages {
		if FoldName(pkg) == folded {
			s.Packages = append(s.Packages[:i], s.Packages[i+1:]...)
			delete(s.Derivation, folded)
			return true
		}
	}
	return false
}

// DerivationOf returns the recorded derivation for name, ignoring case.
func (s *FinalPackageSet) DerivationOf(name string) (PackageDerivation, bool) {
	d, ok := s.Derivation[FoldName(name)]
	return d, ok
}

// InstallFailure describes one package that failed to install.
type InstallFailure struct {
	Package string `json:"package"`
	Error   string `json:"error"`
}

// InstallOutcome partitions the final package set into installed and failed.
// Together Installed and Failed cover exactly the packages that were attempted.
type InstallOutcome struct {
	Installed []string         `json:"installed"`
	Failed    []InstallFailure `json:"failed"`
}

// Success reports whether every package installed.
func (o *InstallOutcome) Success() bool {
	return len(o.Failed) == 0
}
