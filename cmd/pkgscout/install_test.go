package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pkgscout/internal/pipeline"
	"github.com/jonathan/pkgscout/internal/types"
)

func TestResolveConfigPrecedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{
		"name": "from-config",
		"description": "from config file",
		"model": "config-model"
	}`), 0644))

	installConfigPath = configPath
	t.Cleanup(func() { installConfigPath = "" })

	flags := installCommand.Flags()
	require.NoError(t, flags.Set("name", "from-flag"))
	t.Cleanup(func() {
		installName = ""
		flags.Lookup("name").Changed = false
	})

	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GEMINI_MODEL", "env-model")

	cfg, err := resolveConfig(installCommand)
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Name)               // flag beats config
	assert.Equal(t, "from config file", cfg.Description) // config value kept
	assert.Equal(t, "config-model", cfg.Model)           // config beats env
	assert.Equal(t, "env-key", cfg.APIKey)               // env fills the gap
}

func TestResolveConfigMissingFile(t *testing.T) {
	installConfigPath = filepath.Join(t.TempDir(), "missing.json")
	t.Cleanup(func() { installConfigPath = "" })

	_, err := resolveConfig(installCommand)
	assert.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	set := types.NewFinalPackageSet()
	set.Add("numpy", types.DerivationUserRequested)

	outcome := &pipeline.Outcome{
		RunID:      uuid.New(),
		Intent:     &types.ProjectIntent{Name: "demo", Location: "/tmp"},
		FinalSet:   set,
		ProjectDir: "/tmp/demo",
		VenvPath:   "/tmp/demo/.venv",
		Install: &types.InstallOutcome{
			Installed: []string{"numpy"},
			Failed:    []types.InstallFailure{{Package: "ghost", Error: "not found"}},
		},
	}

	var out bytes.Buffer
	printSummary(&out, outcome)

	text := out.String()
	assert.Contains(t, text, "Installation Complete")
	assert.Contains(t, text, "/tmp/demo")
	assert.Contains(t, text, "numpy")
	assert.Contains(t, text, "ghost: not found")
	assert.Contains(t, text, "cd /tmp/demo")
}

func TestPrintBanner(t *testing.T) {
	var out bytes.Buffer
	printBanner(&out)
	assert.Contains(t, out.String(), "pkgscout")
}
