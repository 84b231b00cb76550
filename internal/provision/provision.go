// Package provision creates the project directory and isolated environment,
// then installs the approved packages with uv. All installation side effects
// of the whole program live here.
package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/pkgscout/internal/types"
)

const (
	// VenvDirName is the environment directory created under the project.
	VenvDirName = ".venv"
	// RequirementsFileName lists the successfully installed packages.
	RequirementsFileName = "requirements.txt"

	versionCheckTimeout = 10 * time.Second
	venvCreateTimeout   = 60 * time.Second
	// installTimeout bounds each package install subprocess.
	installTimeout = 5 * time.Minute
)

// Provisioner materializes the environment for a final package set.
type Provisioner struct {
	// Runner executes uv; defaults to ExecRunner.
	Runner Runner
	// Progress receives warning lines; nil silences them.
	Progress io.Writer
}

// NewProvisioner returns a Provisioner using the real uv binary.
func NewProvisioner() *Provisioner {
	return &Provisioner{Runner: ExecRunner{}}
}

// VenvPath returns where the intent's virtual environment lives.
func (p *Provisioner) VenvPath(intent *types.ProjectIntent) string {
	return filepath.Join(intent.ProjectDir(), VenvDirName)
}

// Provision creates the project directory and virtual environment, then
// installs every package in the final set, one subprocess per package so
// failures stay package-granular. Directory and environment problems are
// fatal and happen before any install attempt; install failures are recorded
// per package and never abort sibling installs.
//
// Provision is idempotent: an existing project directory or virtual
// environment is reused, never an error.
func (p *Provisioner) Provision(ctx context.Context, intent *types.ProjectIntent, finalSet *types.FinalPackageSet) (*types.InstallOutcome, error) {
	runner := p.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	projectDir := intent.ProjectDir()
	if err := ensureProjectDir(projectDir); err != nil {
		return nil, err
	}

	if _, _, err := runner.Run(ctx, "", versionCheckTimeout, "uv", "--version"); err != nil {
		return nil, &ToolError{Message: "uv is not installed; install it first", Cause: err}
	}

	venvPath := p.VenvPath(intent)
	if _, err := os.Stat(venvPath); os.IsNotExist(err) {
		if _, stderr, err := runner.Run(ctx, projectDir, venvCreateTimeout, "uv", "venv", VenvDirName); err != nil {
			return nil, &EnvError{Message: "failed to create virtual environment: " + strings.TrimSpace(stderr), Cause: err}
		}
	}

	outcome := &types.InstallOutcome{}
	for _, pkg := range finalSet.Packages {
		_, stderr, err := runner.Run(ctx, projectDir, installTimeout, "uv", "pip", "install", pkg, "--python", venvPath)
		if err != nil {
			outcome.Failed = append(outcome.Failed, types.InstallFailure{
				Package: pkg,
				Error:   installErrorMessage(stderr, err),
			})
			continue
		}
		outcome.Installed = append(outcome.Installed, pkg)
	}

	if len(outcome.Installed) > 0 {
		if err := writeRequirements(projectDir, outcome.Installed); err != nil {
			p.warnf("failed to write %s: %v", RequirementsFileName, err)
		}
	}

	return outcome, nil
}

// ensureProjectDir creates the project directory if needed and verifies it is
// a writable directory.
func ensureProjectDir(projectDir string) error {
	if info, err := os.Stat(projectDir); err == nil && !info.IsDir() {
		return &DirectoryError{Path: projectDir, Message: "path exists and is not a directory"}
	}

	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return &DirectoryError{Path: projectDir, Message: "failed to create project directory", Cause: err}
	}

	// Writability probe; permissions alone do not tell the whole story.
	probe, err := os.CreateTemp(projectDir, ".pkgscout-probe-*")
	if err != nil {
		return &DirectoryError{Path: projectDir, Message: "project directory is not writable", Cause: err}
	}
	probeName := probe.Name()
	_ = probe.Close()
	_ = os.Remove(probeName)

	return nil
}

func installErrorMessage(stderr string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "Installation timeout (5 minutes exceeded)"
	}
	if msg := strings.TrimSpace(stderr); msg != "" {
		return msg
	}
	return err.Error()
}

// writeRequirements records the installed packages, one per line.
func writeRequirements(projectDir string, packages []string) error {
	var sb strings.Builder
	for _, pkg := range packages {
		sb.WriteString(pkg)
		sb.WriteString("\n")
	}
	return os.WriteFile(filepath.Join(projectDir, RequirementsFileName), []byte(sb.String()), 0644)
}

//nolint:errcheck // progress output is best-effort
func (p *Provisioner) warnf(format string, args ...any) {
	if p.Progress != nil {
		fmt.Fprintf(p.Progress, "Warning: "+format+"\n", args...)
	}
}
