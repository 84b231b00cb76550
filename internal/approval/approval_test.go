package approval

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pkgscout/internal/types"
)

func replacement(name, replaces string) types.PackageSuggestion {
	return types.PackageSuggestion{
		Name:     name,
		Kind:     types.KindReplacement,
		Replaces: replaces,
		Reason:   "better fit",
		Origin:   types.OriginAdvisory,
	}
}

func addition(name string, origin types.SuggestionOrigin) types.PackageSuggestion {
	return types.PackageSuggestion{
		Name:   name,
		Kind:   types.KindAddition,
		Reason: "useful",
		Origin: origin,
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		requested    []string
		suggestions  []types.PackageSuggestion
		input        string
		wantPackages []string
		wantDeriv    map[string]types.PackageDerivation
	}{
		{
			name:         "No suggestions keeps requested set",
			requested:    []string{"numpy"},
			suggestions:  nil,
			input:        "",
			wantPackages: []string{"numpy"},
			wantDeriv:    map[string]types.PackageDerivation{"numpy": types.DerivationUserRequested},
		},
		{
			name:         "Accepted replacement removes original",
			requested:    []string{"beautifulsoup4"},
			suggestions:  []types.PackageSuggestion{replacement("scrapy", "beautifulsoup4")},
			input:        "y\n",
			wantPackages: []string{"scrapy"},
			wantDeriv:    map[string]types.PackageDerivation{"scrapy": types.DerivationLLMSuggested},
		},
		{
			name:         "Rejected replacement keeps original",
			requested:    []string{"beautifulsoup4"},
			suggestions:  []types.PackageSuggestion{replacement("scrapy", "beautifulsoup4")},
			input:        "n\n",
			wantPackages: []string{"beautifulsoup4"},
		},
		{
			name:         "Empty input defaults to accept",
			requested:    []string{"requests"},
			suggestions:  []types.PackageSuggestion{addition("pytest", types.OriginAdvisory)},
			input:        "\n",
			wantPackages: []string{"requests", "pytest"},
			wantDeriv:    map[string]types.PackageDerivation{"pytest": types.DerivationLLMSuggested},
		},
		{
			name:         "Rejected addition excluded",
			requested:    []string{"requests"},
			suggestions:  []types.PackageSuggestion{addition("selenium", types.OriginAdvisory)},
			input:        "no\n",
			wantPackages: []string{"requests"},
		},
		{
			name:         "Registry addition derivation",
			requested:    nil,
			suggestions:  []types.PackageSuggestion{addition("pytest", types.OriginRegistry)},
			input:        "yes\n",
			wantPackages: []string{"pytest"},
			wantDeriv:    map[string]types.PackageDerivation{"pytest": types.DerivationRegistryDerived},
		},
		{
			name:      "Mixed decisions in order",
			requested: []string{"beautifulsoup4", "requests"},
			suggestions: []types.PackageSuggestion{
				replacement("scrapy", "beautifulsoup4"),
				addition("lxml", types.OriginAdvisory),
				addition("selenium", types.OriginAdvisory),
			},
			input:        "y\ny\nn\n",
			wantPackages: []string{"requests", "scrapy", "lxml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			controller := NewController(strings.NewReader(tt.input), &out)

			intent := &types.ProjectIntent{Name: "demo", RequestedPackages: tt.requested}
			set, decisions, err := controller.Resolve(context.Background(), intent, tt.suggestions)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPackages, set.Packages)
			assert.Len(t, decisions, len(tt.suggestions))
			for name, want := range tt.wantDeriv {
				got, ok := set.DerivationOf(name)
				require.True(t, ok, "missing derivation for %s", name)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestResolveReprompt(t *testing.T) {
	var out bytes.Buffer
	controller := NewController(strings.NewReader("maybe\nx\nn\n"), &out)

	intent := &types.ProjectIntent{Name: "demo", RequestedPackages: []string{"requests"}}
	set, decisions, err := controller.Resolve(context.Background(), intent,
		[]types.PackageSuggestion{addition("selenium", types.OriginAdvisory)})
	require.NoError(t, err)

	assert.Equal(t, []string{"requests"}, set.Packages)
	require.Len(t, decisions, 1)
	assert.False(t, decisions[0].Accepted)
	assert.Contains(t, out.String(), "Please answer y or n.")
}

func TestResolveAbortOnEOF(t *testing.T) {
	var out bytes.Buffer
	controller := NewController(strings.NewReader(""), &out)

	intent := &types.ProjectIntent{Name: "demo", RequestedPackages: []string{"requests"}}
	_, _, err := controller.Resolve(context.Background(), intent,
		[]types.PackageSuggestion{addition("selenium", types.OriginAdvisory)})

	assert.ErrorIs(t, err, ErrAborted)
}

func TestResolveAbortOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	controller := NewController(strings.NewReader("y\n"), &out)

	intent := &types.ProjectIntent{Name: "demo"}
	_, _, err := controller.Resolve(ctx, intent,
		[]types.PackageSuggestion{addition("pytest", types.OriginAdvisory)})

	assert.ErrorIs(t, err, ErrAborted)
}

func TestResolveFinalAnswerWithoutNewline(t *testing.T) {
	// A reader that ends without a trailing newline still yields a decision.
	var out bytes.Buffer
	controller := NewController(strings.NewReader("y"), &out)

	intent := &types.ProjectIntent{Name: "demo"}
	set, decisions, err := controller.Resolve(context.Background(), intent,
		[]types.PackageSuggestion{addition("pytest", types.OriginAdvisory)})
	require.NoError(t, err)

	require.Len(t, decisions, 1)
	assert.True(t, decisions[0].Accepted)
	assert.Equal(t, []string{"pytest"}, set.Packages)
}
