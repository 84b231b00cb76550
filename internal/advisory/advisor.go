// Package advisory implements the LLM-backed package analysis call.
// It sends the project description and package list to the model and parses
// the structured suggestion envelope it returns.
package advisory

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/pkgscout/internal/llm"
	"github.com/jonathan/pkgscout/internal/prompts"
	"github.com/jonathan/pkgscout/schemas"
)

// Request carries the inputs for one advisory call.
type Request struct {
	Description      string
	CurrentPackages  []string
	RegistryPackages []string
}

// Replacement proposes swapping an originally requested package for a better one.
type Replacement struct {
	Original  string `json:"original"`
	Suggested string `json:"suggested"`
	Reason    string `json:"reason"`
}

// Addition proposes a package the user did not request.
type Addition struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Result is the parsed advisory response.
type Result struct {
	Approved     []string      `json:"approved"`
	Replacements []Replacement `json:"replacements"`
	Additions    []Addition    `json:"additions"`
}

// Advisor is the external advisory capability, injectable for testing.
type Advisor interface {
	Analyze(ctx context.Context, req *Request) (*Result, error)
}

// LLMAdvisor implements Advisor over an llm.Client.
type LLMAdvisor struct {
	client llm.Client
}

// NewLLMAdvisor creates an Advisor backed by the given LLM client.
func NewLLMAdvisor(client llm.Client) *LLMAdvisor {
	return &LLMAdvisor{client: client}
}

// Analyze asks the model for replacement and addition suggestions.
// Malformed entries in the response are dropped rather than failing the call;
// a response that is not valid JSON at all is a ParseError.
func (a *LLMAdvisor) Analyze(ctx context.Context, req *Request) (*Result, error) {
	template, err := prompts.Get("advisory.json", "package_analysis")
	if err != nil {
		return nil, &ParseError{Message: "failed to load analysis prompt", Cause: err}
	}

	prompt := prompts.Format(template, map[string]string{
		"Description":      orNone(req.Description, "Not provided"),
		"CurrentPackages":  orNone(strings.Join(req.CurrentPackages, ", "), "None specified"),
		"RegistryPackages": orNone(strings.Join(req.RegistryPackages, ", "), "None found"),
	})

	response, err := a.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, &APICallError{Message: "package analysis request failed", Cause: err}
	}

	return ParseResult(response)
}

// ParseResult validates and parses a raw advisory response envelope.
func ParseResult(response string) (*Result, error) {
	cleaned := llm.CleanJSONBlock(response)

	schemaResult, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemas.AdvisoryResponse),
		gojsonschema.NewStringLoader(cleaned),
	)
	if err != nil {
		return nil, &ParseError{Message: "advisory response is not valid JSON", Cause: err}
	}
	if !schemaResult.Valid() {
		var details []string
		for _, desc := range schemaResult.Errors() {
			details = append(details, desc.String())
		}
		return nil, &ParseError{Message: "advisory response failed schema validation: " + strings.Join(details, "; ")}
	}

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &ParseError{Message: "failed to decode advisory response", Cause: err}
	}

	sanitize(&result)
	return &result, nil
}

// sanitize drops entries the model should not have produced: multi-word
// package names, names joined with "or"/"and", and replacements that suggest
// the original package back.
func sanitize(result *Result) {
	replacements := result.Replacements[:0]
	for _, r := range result.Replacements {
		if !validPackageName(r.Suggested) || !validPackageName(r.Original) {
			continue
		}
		if strings.EqualFold(r.Original, r.Suggested) {
			continue
		}
		replacements = append(replacements, r)
	}
	result.Replacements = replacements

	additions := result.Additions[:0]
	for _, a := range result.Additions {
		if !validPackageName(a.Name) {
			continue
		}
		additions = append(additions, a)
	}
	result.Additions = additions
}

// validPackageName accepts single-token names only. Hyphens and underscores
// are fine; spaces mean the model listed several packages at once.
func validPackageName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	if strings.Contains(lower, " or ") || strings.Contains(lower, " and ") {
		return false
	}
	return !strings.Contains(name, " ")
}

func orNone(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
