package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalPackageSetAdd(t *testing.T) {
	tests := []struct {
		name         string
		adds         []string
		wantPackages []string
	}{
		{
			name:         "Distinct names preserved in order",
			adds:         []string{"numpy", "pandas", "requests"},
			wantPackages: []string{"numpy", "pandas", "requests"},
		},
		{
			name:         "Exact duplicate ignored",
			adds:         []string{"numpy", "numpy"},
			wantPackages: []string{"numpy"},
		},
		{
			name:         "Case-folded duplicate ignored, first spelling wins",
			adds:         []string{"Django", "django", "DJANGO"},
			wantPackages: []string{"Django"},
		},
		{
			name:         "Empty name ignored",
			adds:         []string{"", "flask"},
			wantPackages: []string{"flask"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewFinalPackageSet()
			for _, name := range tt.adds {
				set.Add(name, DerivationUserRequested)
			}
			assert.Equal(t, tt.wantPackages, set.Packages)
		})
	}
}

func TestFinalPackageSetRemove(t *testing.T) {
	set := NewFinalPackageSet()
	require.True(t, set.Add("beautifulsoup4", DerivationUserRequested))
	require.True(t, set.Add("requests", DerivationUserRequested))

	assert.True(t, set.Remove("BeautifulSoup4"))
	assert.False(t, set.Contains("beautifulsoup4"))
	assert.Equal(t, []string{"requests"}, set.Packages)

	_, ok := set.DerivationOf("beautifulsoup4")
	assert.False(t, ok)

	assert.False(t, set.Remove("beautifulsoup4"))
}

func TestFinalPackageSetDerivation(t *testing.T) {
	set := NewFinalPackageSet()
	set.Add("numpy", DerivationUserRequested)
	set.Add("scrapy", DerivationLLMSuggested)
	set.Add("pytest", DerivationRegistryDerived)

	d, ok := set.DerivationOf("NumPy")
	require.True(t, ok)
	assert.Equal(t, DerivationUserRequested, d)

	d, ok = set.DerivationOf("scrapy")
	require.True(t, ok)
	assert.Equal(t, DerivationLLMSuggested, d)
}

func TestProjectIntentRequested(t *testing.T) {
	intent := &ProjectIntent{
		Name:              "demo",
		RequestedPackages: []string{"NumPy", "pandas"},
	}

	assert.True(t, intent.Requested("numpy"))
	assert.True(t, intent.Requested("PANDAS"))
	assert.False(t, intent.Requested("requests"))
}

func TestProjectIntentProjectDir(t *testing.T) {
	intent := &ProjectIntent{Name: "demo", Location: "/tmp/projects"}
	assert.Equal(t, "/tmp/projects/demo", intent.ProjectDir())

	intent = &ProjectIntent{Name: "demo"}
	assert.Equal(t, "demo", intent.ProjectDir())
}

func TestInstallOutcomeSuccess(t *testing.T) {
	outcome := &InstallOutcome{Installed: []string{"numpy"}}
	assert.True(t, outcome.Success())

	outcome.Failed = append(outcome.Failed, InstallFailure{Package: "nope", Error: "boom"})
	assert.False(t, outcome.Success())
}
