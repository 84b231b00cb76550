// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/pkgscout/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintIntent outputs a summary of the collected project intent.
func (p *Printer) PrintIntent(intent *types.ProjectIntent) {
	if intent == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Project:  %s\n", intent.Name))
	if intent.Description != "" {
		sb.WriteString(fmt.Sprintf("About:    %s\n", intent.Description))
	}
	sb.WriteString(fmt.Sprintf("Target:   %s\n", intent.ProjectDir()))
	if len(intent.RequestedPackages) > 0 {
		sb.WriteString(fmt.Sprintf("Packages: %s", strings.Join(intent.RequestedPackages, ", ")))
	} else {
		sb.WriteString("Packages: (none requested)")
	}

	p.printBox("PROJECT INTENT", sb.String())
}

// PrintSuggestions outputs the aggregated candidate list with reasons.
func (p *Printer) PrintSuggestions(suggestions []types.PackageSuggestion) {
	if len(suggestions) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates: %d\n\n", len(suggestions)))

	count := min(len(suggestions), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := suggestions[i]
		if s.Kind == types.KindReplacement {
			sb.WriteString(fmt.Sprintf("• %s (replaces %s)\n", s.Name, s.Replaces))
		} else {
			sb.WriteString(fmt.Sprintf("• %s [%s]\n", s.Name, s.Origin))
		}
		reason := s.Reason
		if len(reason) > 48 {
			reason = reason[:45] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %s\n", reason))
	}
	if len(suggestions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more", len(suggestions)-maxItemsToShow))
	}

	p.printBox("PACKAGE SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFinalSet outputs the approved package set with derivations.
func (p *Printer) PrintFinalSet(set *types.FinalPackageSet) {
	if set == nil || len(set.Packages) == 0 {
		return
	}

	var sb strings.Builder
	for _, pkg := range set.Packages {
		derivation, _ := set.DerivationOf(pkg)
		sb.WriteString(fmt.Sprintf("• %-24s %s\n", pkg, derivation))
	}

	p.printBox("FINAL PACKAGE SET", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInstallOutcome outputs the installed/failed partition.
func (p *Printer) PrintInstallOutcome(outcome *types.InstallOutcome) {
	if outcome == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Installed: %d   Failed: %d\n", len(outcome.Installed), len(outcome.Failed)))
	for _, failure := range outcome.Failed {
		message := failure.Error
		if len(message) > 40 {
			message = message[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("✗ %s: %s\n", failure.Package, message))
	}

	p.printBox("INSTALL OUTCOME", strings.TrimSuffix(sb.String(), "\n"))
}
