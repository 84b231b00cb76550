package types

import "strings"

// SuggestionKind distinguishes replacement suggestions from additions.
type SuggestionKind string

// Suggestion kinds.
const (
	KindReplacement SuggestionKind = "replacement"
	KindAddition    SuggestionKind = "addition"
)

// SuggestionOrigin records which research source produced a suggestion.
type SuggestionOrigin string

// Suggestion origins.
const (
	// OriginAdvisory marks suggestions proposed by the LLM advisory call.
	OriginAdvisory SuggestionOrigin = "advisory"
	// OriginRegistry marks suggestions derived purely from registry popularity.
	OriginRegistry SuggestionOrigin = "registry"
)

// PackageSuggestion is one proposed change to the user's package list.
// Each suggestion carries enough context to render a yes/no prompt without
// any further lookups.
type PackageSuggestion struct {
	Name string         `json:"name"`
	Kind SuggestionKind `json:"kind"`
	// Replaces names the original package; set only when Kind is KindReplacement.
	Replaces    string           `json:"replaces,omitempty"`
	Reason      string           `json:"reason"`
	Description string           `json:"description,omitempty"`
	Origin      SuggestionOrigin `json:"origin"`
}

// RegistrySignal is an intermediate popularity signal for one package,
// aggregated across the manifests of similar repositories. It is used to
// rank and justify suggestions and is never shown to the user directly.
type RegistrySignal struct {
	PackageName     string   `json:"package_name"`
	OccurrenceCount int      `json:"occurrence_count"`
	SourceRepos     []string `json:"source_repos"`
}

// ApprovalDecision records the user's verdict on one suggestion.
// Exactly one decision is made per suggestion; decisions are immutable.
type ApprovalDecision struct {
	Suggestion PackageSuggestion `json:"suggestion"`
	Accepted   bool              `json:"accepted"`
}

// FoldName normalizes a package name for case-insensitive comparison.
func FoldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
