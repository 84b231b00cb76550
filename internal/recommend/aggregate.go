// Package recommend merges advisory and registry research into a single
// ranked, deduplicated candidate list awaiting user approval.
package recommend

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/pkgscout/internal/advisory"
	"github.com/jonathan/pkgscout/internal/registry"
	"github.com/jonathan/pkgscout/internal/types"
)

const (
	// corroborationThreshold is the occurrence count at which a registry
	// signal strengthens an advisory addition's reason.
	corroborationThreshold = 2
	// popularityThreshold is the occurrence count at which a registry-only
	// package becomes a low-confidence suggestion on its own.
	popularityThreshold = 3
	// descriptionFetchLimit bounds concurrent package index lookups.
	descriptionFetchLimit = 4
)

// registryOnlyReason justifies suggestions with no advisory backing.
const registryOnlyReason = "Popular in similar projects."

// Aggregator coordinates the research calls and merges their output.
// All capabilities are injected so the merge logic can run against fakes.
type Aggregator struct {
	Advisor  advisory.Advisor
	Searcher registry.RepoSearcher
	Index    registry.Index
	// Progress receives warning lines when a research source degrades.
	// Nil silences them.
	Progress io.Writer
}

// Aggregate produces the ordered candidate list for the intent: replacements
// first, then advisory additions, then registry-only additions by descending
// popularity. It never fails past its own boundary; when a research source is
// unreachable the result simply carries less, down to an empty list.
func (a *Aggregator) Aggregate(ctx context.Context, intent *types.ProjectIntent) []types.PackageSuggestion {
	signals := a.researchRegistry(ctx, intent)
	result := a.consultAdvisor(ctx, intent, signals)

	suggestions := a.merge(intent, result, signals)
	a.enrichDescriptions(ctx, suggestions)
	return suggestions
}

// researchRegistry collects popularity signals for the intent's description.
// An empty description skips research entirely; failures degrade to no signals.
func (a *Aggregator) researchRegistry(ctx context.Context, intent *types.ProjectIntent) []types.RegistrySignal {
	if a.Searcher == nil || intent.Description == "" {
		return nil
	}
	signals, err := collectSignals(ctx, a.Searcher, intent.Description)
	if err != nil {
		a.warnf("registry research unavailable: %v", err)
		return nil
	}
	return signals
}

// consultAdvisor runs the LLM analysis with the registry names as context.
// Failures degrade to an empty result.
func (a *Aggregator) consultAdvisor(ctx context.Context, intent *types.ProjectIntent, signals []types.RegistrySignal) *advisory.Result {
	if a.Advisor == nil {
		return &advisory.Result{}
	}

	registryNames := make([]string, 0, len(signals))
	for _, signal := range signals {
		registryNames = append(registryNames, signal.PackageName)
	}

	result, err := a.Advisor.Analyze(ctx, &advisory.Request{
		Description:      intent.Description,
		CurrentPackages:  intent.RequestedPackages,
		RegistryPackages: registryNames,
	})
	if err != nil {
		a.warnf("advisory analysis unavailable: %v", err)
		return &advisory.Result{}
	}
	return result
}

// merge applies the corroboration, popularity, and deduplication rules.
func (a *Aggregator) merge(intent *types.ProjectIntent, result *advisory.Result, signals []types.RegistrySignal) []types.PackageSuggestion {
	signalsByName := make(map[string]types.RegistrySignal, len(signals))
	for _, signal := range signals {
		signalsByName[signal.PackageName] = signal
	}

	var suggestions []types.PackageSuggestion
	taken := make(map[string]struct{})
	take := func(name string) bool {
		folded := types.FoldName(name)
		if _, dup := taken[folded]; dup {
			return false
		}
		taken[folded] = struct{}{}
		return true
	}

	// Replacements first, in advisory order. A replacement must target a
	// requested package and must not re-suggest one.
	for _, r := range result.Replacements {
		if !intent.Requested(r.Original) || intent.Requested(r.Suggested) {
			continue
		}
		if !take(r.Suggested) {
			continue
		}
		suggestions = append(suggestions, types.PackageSuggestion{
			Name:     r.Suggested,
			Kind:     types.KindReplacement,
			Replaces: r.Original,
			Reason:   r.Reason,
			Origin:   types.OriginAdvisory,
		})
	}

	// Advisory additions, corroborated reasons augmented. Absence of
	// registry corroboration does not veto a suggestion.
	for _, add := range result.Additions {
		if intent.Requested(add.Name) || !take(add.Name) {
			continue
		}
		reason := add.Reason
		if signal, ok := signalsByName[types.FoldName(add.Name)]; ok && signal.OccurrenceCount >= corroborationThreshold {
			reason = fmt.Sprintf("%s (also seen in %d similar projects)", reason, signal.OccurrenceCount)
		}
		suggestions = append(suggestions, types.PackageSuggestion{
			Name:   add.Name,
			Kind:   types.KindAddition,
			Reason: reason,
			Origin: types.OriginAdvisory,
		})
	}

	// Registry-only packages popular enough to stand on their own.
	for _, signal := range signals {
		if signal.OccurrenceCount < popularityThreshold {
			continue
		}
		if intent.Requested(signal.PackageName) || !take(signal.PackageName) {
			continue
		}
		suggestions = append(suggestions, types.PackageSuggestion{
			Name:   signal.PackageName,
			Kind:   types.KindAddition,
			Reason: registryOnlyReason,
			Origin: types.OriginRegistry,
		})
	}

	return suggestions
}

// enrichDescriptions fills each suggestion's description from the package
// index. Lookups degrade to the index's fallback strings, never abort.
func (a *Aggregator) enrichDescriptions(ctx context.Context, suggestions []types.PackageSuggestion) {
	if a.Index == nil {
		return
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(descriptionFetchLimit)
	for i := range suggestions {
		i := i
		g.Go(func() error {
			suggestions[i].Description = registry.Describe(gCtx, a.Index, suggestions[i].Name)
			return nil
		})
	}
	_ = g.Wait()
}

//nolint:errcheck // progress output is best-effort
func (a *Aggregator) warnf(format string, args ...any) {
	if a.Progress != nil {
		fmt.Fprintf(a.Progress, "Warning: "+format+"\n", args...)
	}
}
