package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const pypiBaseURL = "https://pypi.org/pypi"

// descriptionLimit bounds how much of a long-form description is shown.
const descriptionLimit = 200

// ErrNotFound is returned when a package does not exist on the index.
var ErrNotFound = errors.New("package not found")

// PackageInfo holds the descriptive fields of one package index entry.
type PackageInfo struct {
	Name          string
	Summary       string
	Description   string
	LatestVersion string
}

// Index is the package-index lookup capability, injectable for testing.
type Index interface {
	// Lookup fetches descriptive metadata for a package.
	// Returns ErrNotFound when the package does not exist.
	Lookup(ctx context.Context, name string) (*PackageInfo, error)
}

// PyPIClient implements Index against the PyPI JSON API.
type PyPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPyPIClient creates a package index client.
func NewPyPIClient() *PyPIClient {
	return &PyPIClient{
		baseURL: pypiBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Lookup fetches package metadata from the index.
func (c *PyPIClient) Lookup(ctx context.Context, name string) (*PackageInfo, error) {
	lookupURL := fmt.Sprintf("%s/%s/json", c.baseURL, url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, &Error{URL: lookupURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{URL: lookupURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{URL: lookupURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: lookupURL, Message: "failed to read response body", Cause: err}
	}

	var payload struct {
		Info struct {
			Name        string `json:"name"`
			Summary     string `json:"summary"`
			Description string `json:"description"`
			Version     string `json:"version"`
		} `json:"info"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Error{URL: lookupURL, Message: "failed to decode index response", Cause: err}
	}

	info := &PackageInfo{
		Name:          payload.Info.Name,
		Summary:       payload.Info.Summary,
		Description:   payload.Info.Description,
		LatestVersion: payload.Info.Version,
	}
	if info.Name == "" {
		info.Name = name
	}
	return info, nil
}

// Describe returns a display description for a package, degrading through
// summary, truncated long description, and fixed fallback strings. It never
// returns an error; lookup failures read as a missing package.
func Describe(ctx context.Context, index Index, name string) string {
	info, err := index.Lookup(ctx, name)
	if err != nil {
		return "Package not found on PyPI"
	}
	if info.Summary != "" {
		return info.Summary
	}
	if info.Description != "" {
		desc := strings.TrimSpace(strings.ReplaceAll(info.Description, "\n", " "))
		if len(desc) > descriptionLimit {
			return desc[:descriptionLimit] + "..."
		}
		return desc
	}
	return "No description available"
}
