package recommend

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pkgscout/internal/advisory"
	"github.com/jonathan/pkgscout/internal/registry"
	"github.com/jonathan/pkgscout/internal/types"
)

// fakeAdvisor implements advisory.Advisor.
type fakeAdvisor struct {
	result *advisory.Result
	err    error
}

func (f *fakeAdvisor) Analyze(_ context.Context, _ *advisory.Request) (*advisory.Result, error) {
	return f.result, f.err
}

// fakeSearcher implements registry.RepoSearcher with fixed manifests per repo.
type fakeSearcher struct {
	repos     []registry.Repo
	manifests map[string][]string
	err       error
}

func (f *fakeSearcher) SearchRepos(_ context.Context, _ string) ([]registry.Repo, error) {
	return f.repos, f.err
}

func (f *fakeSearcher) ManifestPackages(_ context.Context, repoFullName string) ([]string, error) {
	return f.manifests[repoFullName], nil
}

// fakeIndex implements registry.Index.
type fakeIndex struct {
	summaries map[string]string
}

func (f *fakeIndex) Lookup(_ context.Context, name string) (*registry.PackageInfo, error) {
	summary, ok := f.summaries[name]
	if !ok {
		return nil, registry.ErrNotFound
	}
	return &registry.PackageInfo{Name: name, Summary: summary}, nil
}

func repoFixture(names ...string) []registry.Repo {
	repos := make([]registry.Repo, len(names))
	for i, name := range names {
		repos[i] = registry.Repo{Name: name, FullName: "org/" + name}
	}
	return repos
}

func TestAggregateMergesAllSources(t *testing.T) {
	intent := &types.ProjectIntent{
		Name:              "scraper",
		Description:       "a web scraper",
		RequestedPackages: []string{"beautifulsoup4", "requests"},
	}

	agg := &Aggregator{
		Advisor: &fakeAdvisor{result: &advisory.Result{
			Replacements: []advisory.Replacement{
				{Original: "beautifulsoup4", Suggested: "scrapy", Reason: "built-in crawling"},
			},
			Additions: []advisory.Addition{
				{Name: "lxml", Reason: "fast parsing"},
			},
		}},
		// lxml appears in 2 repos (corroboration), pytest in all 3 (popular on its own).
		Searcher: &fakeSearcher{
			repos: repoFixture("a", "b", "c"),
			manifests: map[string][]string{
				"org/a": {"lxml", "pytest"},
				"org/b": {"lxml", "pytest"},
				"org/c": {"pytest"},
			},
		},
		Index: &fakeIndex{summaries: map[string]string{
			"scrapy": "Crawling framework",
			"lxml":   "XML toolkit",
		}},
	}

	suggestions := agg.Aggregate(context.Background(), intent)
	require.Len(t, suggestions, 3)

	// Replacement first.
	assert.Equal(t, types.KindReplacement, suggestions[0].Kind)
	assert.Equal(t, "scrapy", suggestions[0].Name)
	assert.Equal(t, "beautifulsoup4", suggestions[0].Replaces)
	assert.Equal(t, "Crawling framework", suggestions[0].Description)

	// Advisory addition with corroborated reason.
	assert.Equal(t, "lxml", suggestions[1].Name)
	assert.Equal(t, types.OriginAdvisory, suggestions[1].Origin)
	assert.Equal(t, "fast parsing (also seen in 2 similar projects)", suggestions[1].Reason)

	// Registry-only popular addition.
	assert.Equal(t, "pytest", suggestions[2].Name)
	assert.Equal(t, types.OriginRegistry, suggestions[2].Origin)
	assert.Equal(t, registryOnlyReason, suggestions[2].Reason)
	assert.Equal(t, "Package not found on PyPI", suggestions[2].Description)
}

func TestAggregateDeduplication(t *testing.T) {
	intent := &types.ProjectIntent{
		Name:              "demo",
		Description:       "a data project",
		RequestedPackages: []string{"numpy"},
	}

	agg := &Aggregator{
		Advisor: &fakeAdvisor{result: &advisory.Result{
			Additions: []advisory.Addition{
				{Name: "NumPy", Reason: "already requested"}, // duplicate of a requested package
				{Name: "pandas", Reason: "dataframes"},
				{Name: "Pandas", Reason: "dataframes again"}, // case-folded duplicate
			},
		}},
		Searcher: &fakeSearcher{
			repos: repoFixture("a", "b", "c"),
			manifests: map[string][]string{
				"org/a": {"pandas"},
				"org/b": {"pandas"},
				"org/c": {"pandas"},
			},
		},
	}

	suggestions := agg.Aggregate(context.Background(), intent)

	// pandas is popular enough to be registry-derived, but the advisory
	// addition already claimed the name.
	require.Len(t, suggestions, 1)
	assert.Equal(t, "pandas", suggestions[0].Name)
	assert.Equal(t, types.OriginAdvisory, suggestions[0].Origin)

	names := make(map[string]int)
	for _, s := range suggestions {
		names[types.FoldName(s.Name)]++
	}
	for name, count := range names {
		assert.Equal(t, 1, count, "duplicate suggestion for %s", name)
	}
}

func TestAggregateDropsUnrequestedReplacementTarget(t *testing.T) {
	intent := &types.ProjectIntent{
		Name:              "demo",
		RequestedPackages: []string{"requests"},
	}

	agg := &Aggregator{
		Advisor: &fakeAdvisor{result: &advisory.Result{
			Replacements: []advisory.Replacement{
				// Cannot replace what was not requested.
				{Original: "urllib3", Suggested: "httpx", Reason: "modern API"},
				// Cannot suggest a package the user already requested.
				{Original: "requests", Suggested: "Requests", Reason: "same thing"},
			},
		}},
	}

	suggestions := agg.Aggregate(context.Background(), intent)
	assert.Empty(t, suggestions)
}

func TestAggregateAdvisoryFailureDegrades(t *testing.T) {
	intent := &types.ProjectIntent{
		Name:              "demo",
		Description:       "a web scraper",
		RequestedPackages: []string{"requests"},
	}

	var progress bytes.Buffer
	agg := &Aggregator{
		Advisor: &fakeAdvisor{err: errors.New("model unreachable")},
		Searcher: &fakeSearcher{
			repos: repoFixture("a", "b", "c"),
			manifests: map[string][]string{
				"org/a": {"scrapy"},
				"org/b": {"scrapy"},
				"org/c": {"scrapy"},
			},
		},
		Progress: &progress,
	}

	suggestions := agg.Aggregate(context.Background(), intent)

	require.Len(t, suggestions, 1)
	assert.Equal(t, "scrapy", suggestions[0].Name)
	assert.Equal(t, types.OriginRegistry, suggestions[0].Origin)
	assert.Contains(t, progress.String(), "Warning: advisory analysis unavailable")
}

func TestAggregateRegistryFailureDegrades(t *testing.T) {
	intent := &types.ProjectIntent{
		Name:              "demo",
		Description:       "a web scraper",
		RequestedPackages: []string{"requests"},
	}

	var progress bytes.Buffer
	agg := &Aggregator{
		Advisor: &fakeAdvisor{result: &advisory.Result{
			Additions: []advisory.Addition{{Name: "httpx", Reason: "async HTTP"}},
		}},
		Searcher: &fakeSearcher{err: errors.New("rate limited")},
		Progress: &progress,
	}

	suggestions := agg.Aggregate(context.Background(), intent)

	require.Len(t, suggestions, 1)
	assert.Equal(t, "httpx", suggestions[0].Name)
	assert.Equal(t, "async HTTP", suggestions[0].Reason)
	assert.Contains(t, progress.String(), "Warning: registry research unavailable")
}

func TestAggregateBothSourcesFail(t *testing.T) {
	intent := &types.ProjectIntent{
		Name:              "demo",
		Description:       "anything",
		RequestedPackages: []string{"numpy"},
	}

	agg := &Aggregator{
		Advisor:  &fakeAdvisor{err: errors.New("down")},
		Searcher: &fakeSearcher{err: errors.New("down")},
	}

	assert.Empty(t, agg.Aggregate(context.Background(), intent))
}

func TestAggregateEmptyDescriptionSkipsRegistry(t *testing.T) {
	intent := &types.ProjectIntent{
		Name:              "demo",
		RequestedPackages: []string{"numpy"},
	}

	agg := &Aggregator{
		Advisor: &fakeAdvisor{result: &advisory.Result{}},
		Searcher: &fakeSearcher{
			repos:     repoFixture("a", "b", "c"),
			manifests: map[string][]string{"org/a": {"pytest"}, "org/b": {"pytest"}, "org/c": {"pytest"}},
		},
	}

	// With no description there is nothing to search for; registry-only
	// suggestions require a research pass.
	assert.Empty(t, agg.Aggregate(context.Background(), intent))
}

func TestCollectSignals(t *testing.T) {
	searcher := &fakeSearcher{
		repos: repoFixture("a", "b", "c"),
		manifests: map[string][]string{
			"org/a": {"flask", "pytest", "pip", "flask"}, // in-repo duplicate and base package
			"org/b": {"flask", "pytest"},
			"org/c": {"flask", "setuptools"},
		},
	}

	signals, err := collectSignals(context.Background(), searcher, "a web app")
	require.NoError(t, err)
	require.Len(t, signals, 2)

	assert.Equal(t, "flask", signals[0].PackageName)
	assert.Equal(t, 3, signals[0].OccurrenceCount)
	assert.Len(t, signals[0].SourceRepos, 3)

	assert.Equal(t, "pytest", signals[1].PackageName)
	assert.Equal(t, 2, signals[1].OccurrenceCount)
}
