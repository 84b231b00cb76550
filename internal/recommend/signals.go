package recommend

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/pkgscout/internal/registry"
	"github.com/jonathan/pkgscout/internal/types"
)

// maxSignals caps how many popularity signals feed the merge.
const maxSignals = 15

// manifestFetchLimit bounds concurrent manifest fetches per search.
const manifestFetchLimit = 4

// collectSignals searches for repositories similar to the description and
// folds their manifest packages into occurrence-counted signals, most popular
// first. Each repository contributes at most once per package.
func collectSignals(ctx context.Context, searcher registry.RepoSearcher, description string) ([]types.RegistrySignal, error) {
	repos, err := searcher.SearchRepos(ctx, description)
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		return nil, nil
	}

	type repoPackages struct {
		repo     string
		packages []string
	}

	results := make([]repoPackages, len(repos))

	// Manifest fetches are independent; fan out for latency only.
	// Each goroutine writes its own slot, so no lock is needed.
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(manifestFetchLimit)
	for i, repo := range repos {
		i, repo := i, repo
		g.Go(func() error {
			packages, err := searcher.ManifestPackages(gCtx, repo.FullName)
			if err != nil {
				return nil // a repo without readable manifests is not a failure
			}
			results[i] = repoPackages{repo: repo.FullName, packages: packages}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	signals := make(map[string]*types.RegistrySignal)
	for _, result := range results {
		seen := make(map[string]struct{})
		for _, pkg := range result.packages {
			folded := types.FoldName(pkg)
			if folded == "" || registry.IsBasePackage(folded) {
				continue
			}
			if _, dup := seen[folded]; dup {
				continue
			}
			seen[folded] = struct{}{}

			signal, ok := signals[folded]
			if !ok {
				signal = &types.RegistrySignal{PackageName: folded}
				signals[folded] = signal
			}
			signal.OccurrenceCount++
			signal.SourceRepos = append(signal.SourceRepos, result.repo)
		}
	}

	ordered := make([]types.RegistrySignal, 0, len(signals))
	for _, signal := range signals {
		ordered = append(ordered, *signal)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].OccurrenceCount != ordered[j].OccurrenceCount {
			return ordered[i].OccurrenceCount > ordered[j].OccurrenceCount
		}
		return ordered[i].PackageName < ordered[j].PackageName
	})

	if len(ordered) > maxSignals {
		ordered = ordered[:maxSignals]
	}
	return ordered, nil
}
