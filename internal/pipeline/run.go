// Package pipeline provides the high-level orchestration for one install run:
// aggregate candidates, resolve approvals, provision the environment.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/jonathan/pkgscout/internal/approval"
	"github.com/jonathan/pkgscout/internal/observability"
	"github.com/jonathan/pkgscout/internal/provision"
	"github.com/jonathan/pkgscout/internal/recommend"
	"github.com/jonathan/pkgscout/internal/types"
)

// Options holds the stages and settings for one run. Every external
// capability arrives pre-built so the pipeline itself stays deterministic
// under test.
type Options struct {
	Intent      *types.ProjectIntent
	Aggregator  *recommend.Aggregator
	Controller  *approval.Controller
	Provisioner *provision.Provisioner
	Out         io.Writer
	Verbose     bool
}

// Outcome accumulates the immutable records each stage produced.
type Outcome struct {
	RunID       uuid.UUID
	Intent      *types.ProjectIntent
	Suggestions []types.PackageSuggestion
	Decisions   []types.ApprovalDecision
	FinalSet    *types.FinalPackageSet
	Install     *types.InstallOutcome
	ProjectDir  string
	VenvPath    string
}

// Run executes the three pipeline stages in order. Installation side effects
// are isolated to the final stage; an abort during approval returns
// approval.ErrAborted with nothing provisioned.
//
//nolint:errcheck // progress output is best-effort
func Run(ctx context.Context, opts Options) (*Outcome, error) {
	printer := observability.NewPrinter(opts.Out)

	outcome := &Outcome{
		RunID:      uuid.New(),
		Intent:     opts.Intent,
		ProjectDir: opts.Intent.ProjectDir(),
	}
	if opts.Verbose {
		fmt.Fprintf(opts.Out, "[VERBOSE] Run ID: %s\n", outcome.RunID)
		printer.PrintIntent(opts.Intent)
	}

	fmt.Fprintf(opts.Out, "Step 1/3: Researching package candidates...\n")
	outcome.Suggestions = opts.Aggregator.Aggregate(ctx, opts.Intent)
	if opts.Verbose {
		printer.PrintSuggestions(outcome.Suggestions)
	}

	fmt.Fprintf(opts.Out, "Step 2/3: Reviewing suggestions...\n")
	if len(outcome.Suggestions) > 0 {
		displaySuggestions(opts.Out, outcome.Suggestions)
	} else {
		fmt.Fprintf(opts.Out, "No suggestions; keeping the requested packages as-is.\n")
	}

	finalSet, decisions, err := opts.Controller.Resolve(ctx, opts.Intent, outcome.Suggestions)
	if err != nil {
		return nil, err
	}
	outcome.FinalSet = finalSet
	outcome.Decisions = decisions
	if opts.Verbose {
		printer.PrintFinalSet(finalSet)
	}

	fmt.Fprintf(opts.Out, "Step 3/3: Provisioning environment at %s...\n", outcome.ProjectDir)
	install, err := opts.Provisioner.Provision(ctx, opts.Intent, finalSet)
	if err != nil {
		return nil, err
	}
	outcome.Install = install
	outcome.VenvPath = opts.Provisioner.VenvPath(opts.Intent)
	if opts.Verbose {
		printer.PrintInstallOutcome(install)
	}

	return outcome, nil
}

// displaySuggestions renders the candidate list before the approval prompts,
// replacements first.
//
//nolint:errcheck // progress output is best-effort
func displaySuggestions(out io.Writer, suggestions []types.PackageSuggestion) {
	bold := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.Faint)

	bold.Fprintf(out, "\n═══ Package Analysis Results ═══\n\n")

	for _, s := range suggestions {
		if s.Kind == types.KindReplacement {
			fmt.Fprintf(out, "  Instead of %s consider %s\n",
				color.RedString(s.Replaces), color.GreenString(s.Name))
		} else {
			fmt.Fprintf(out, "  %s\n", color.GreenString(s.Name))
		}
		dim.Fprintf(out, "    Reason: %s\n", s.Reason)
		if s.Description != "" {
			dim.Fprintf(out, "    Description: %s\n", s.Description)
		}
		fmt.Fprintln(out)
	}
}
