// Package approval walks the suggestion list and records a per-item human
// decision, producing the final package set. This is the pipeline's only
// interactive stage.
package approval

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jonathan/pkgscout/internal/types"
)

// ErrAborted is returned when the user interrupts the approval loop.
// No installation side effect happens after an abort.
var ErrAborted = errors.New("approval aborted")

// Controller prompts for accept/reject decisions on an injected terminal pair.
type Controller struct {
	in  *bufio.Reader
	out io.Writer
}

// NewController creates a Controller reading answers from in and writing
// prompts to out.
func NewController(in io.Reader, out io.Writer) *Controller {
	return &Controller{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Resolve presents each suggestion exactly once, in input order, and builds
// the final package set. Every originally requested package stays in the set
// unless the user accepted a replacement for it. Empty input means accept.
func (c *Controller) Resolve(ctx context.Context, intent *types.ProjectIntent, suggestions []types.PackageSuggestion) (*types.FinalPackageSet, []types.ApprovalDecision, error) {
	set := types.NewFinalPackageSet()
	for _, pkg := range intent.RequestedPackages {
		set.Add(pkg, types.DerivationUserRequested)
	}

	decisions := make([]types.ApprovalDecision, 0, len(suggestions))
	for _, suggestion := range suggestions {
		if err := ctx.Err(); err != nil {
			return nil, nil, ErrAborted
		}

		accepted, err := c.confirm(prompt(suggestion))
		if err != nil {
			return nil, nil, err
		}
		decisions = append(decisions, types.ApprovalDecision{Suggestion: suggestion, Accepted: accepted})

		if !accepted {
			continue
		}
		switch suggestion.Kind {
		case types.KindReplacement:
			set.Remove(suggestion.Replaces)
			set.Add(suggestion.Name, types.DerivationLLMSuggested)
		case types.KindAddition:
			set.Add(suggestion.Name, derivationFor(suggestion.Origin))
		}
	}

	return set, decisions, nil
}

// confirm asks one yes/no question, re-prompting on unrecognized input.
// Reader EOF or a read error aborts the whole approval stage.
func (c *Controller) confirm(question string) (bool, error) {
	for {
		fmt.Fprintf(c.out, "%s [Y/n] ", question) //nolint:errcheck

		line, err := c.in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return false, ErrAborted
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "", "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(c.out, "Please answer y or n.") //nolint:errcheck

		if err == io.EOF {
			return false, ErrAborted
		}
	}
}

func prompt(s types.PackageSuggestion) string {
	name := color.GreenString(s.Name)
	if s.Kind == types.KindReplacement {
		return fmt.Sprintf("Use %s instead of %s?", name, color.RedString(s.Replaces))
	}
	return fmt.Sprintf("Install %s?", name)
}

func derivationFor(origin types.SuggestionOrigin) types.PackageDerivation {
	if origin == types.OriginRegistry {
		return types.DerivationRegistryDerived
	}
	return types.DerivationLLMSuggested
}
