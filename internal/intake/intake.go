// Package intake collects and validates the project intent from flags and
// interactive prompts. The intent it returns is immutable for the rest of
// the run.
package intake

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/pkgscout/internal/types"
)

var validate = validator.New()

// InputError represents invalid or missing required user input.
// The pipeline never starts after one.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("input error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("input error: %s", e.Message)
}

// ParsePackageList splits a comma- or whitespace-separated package list.
func ParsePackageList(input string) []string {
	input = strings.ReplaceAll(input, ",", " ")

	var packages []string
	for _, item := range strings.Fields(input) {
		if item != "" {
			packages = append(packages, item)
		}
	}
	return packages
}

// ValidateIntent checks the assembled intent before the pipeline starts.
func ValidateIntent(intent *types.ProjectIntent) error {
	if err := validate.Struct(intent); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &InputError{Field: fieldErrs[0].Field(), Message: "is required"}
		}
		return &InputError{Message: err.Error()}
	}
	return nil
}

// Collector fills missing intent fields through interactive prompts.
type Collector struct {
	in  *bufio.Reader
	out io.Writer
}

// NewCollector creates a Collector over the given terminal pair.
func NewCollector(in io.Reader, out io.Writer) *Collector {
	return &Collector{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Collect assembles a validated ProjectIntent. Fields already present in the
// seed (from flags or config) are kept; missing ones are prompted for. The
// name prompt loops until non-empty; everything else accepts empty input.
func (c *Collector) Collect(seed types.ProjectIntent) (*types.ProjectIntent, error) {
	intent := seed

	if intent.Name == "" {
		for {
			name, err := c.ask("Project name (required): ")
			if err != nil {
				return nil, &InputError{Field: "Name", Message: "no input available"}
			}
			if name != "" {
				intent.Name = name
				break
			}
			fmt.Fprintln(c.out, "Project name is required.") //nolint:errcheck
		}

		if intent.Description == "" {
			description, err := c.ask("Description (optional, helps with recommendations): ")
			if err == nil {
				intent.Description = description
			}
		}
		if intent.Location == "" {
			location, err := c.ask("Location (optional, default: current directory): ")
			if err == nil {
				intent.Location = location
			}
		}
		if len(intent.RequestedPackages) == 0 {
			packages, err := c.ask("Packages (optional, comma or space separated): ")
			if err == nil {
				intent.RequestedPackages = ParsePackageList(packages)
			}
		}
	}

	if intent.Location == "" {
		intent.Location = "."
	}

	if err := ValidateIntent(&intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Collector) ask(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt) //nolint:errcheck

	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
