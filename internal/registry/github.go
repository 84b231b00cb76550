// Package registry provides stateless clients for the external package
// registries: GitHub repository search and the PyPI package index.
package registry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultTimeout is the HTTP request timeout for registry calls.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent identifies registry requests.
	DefaultUserAgent = "Mozilla/5.0 (compatible; pkgscout/1.0)"
	// DefaultMaxRepos bounds how many repositories a search returns.
	DefaultMaxRepos = 5

	githubBaseURL = "https://api.github.com"
)

// requirementsPaths are the manifest locations probed in each repository,
// in order of likelihood.
var requirementsPaths = []string{
	"requirements.txt",
	"requirements/requirements.txt",
	"requirements/base.txt",
	"requirements/production.txt",
}

// Repo identifies one search result.
type Repo struct {
	Name        string
	FullName    string
	Description string
	Stars       int
	URL         string
}

// RepoSearcher is the source-hosting search capability, injectable for testing.
type RepoSearcher interface {
	// SearchRepos finds Python repositories matching the query, by stars descending.
	SearchRepos(ctx context.Context, query string) ([]Repo, error)
	// ManifestPackages returns the package names referenced by a repository's
	// dependency manifests.
	ManifestPackages(ctx context.Context, repoFullName string) ([]string, error)
}

// GitHubClient implements RepoSearcher against the GitHub REST API.
type GitHubClient struct {
	baseURL    string
	token      string
	maxRepos   int
	httpClient *http.Client
}

// NewGitHubClient creates a search client. The token is optional; without it
// requests run against GitHub's unauthenticated rate limits.
func NewGitHubClient(token string) *GitHubClient {
	return &GitHubClient{
		baseURL:  githubBaseURL,
		token:    token,
		maxRepos: DefaultMaxRepos,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// SearchRepos finds Python repositories whose description matches the query.
func (c *GitHubClient) SearchRepos(ctx context.Context, query string) ([]Repo, error) {
	searchURL := fmt.Sprintf("%s/search/repositories?q=%s&sort=stars&order=desc&per_page=%d",
		c.baseURL, url.QueryEscape(query+" language:Python"), c.maxRepos)

	body, err := c.get(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items []struct {
			Name            string `json:"name"`
			FullName        string `json:"full_name"`
			Description     string `json:"description"`
			StargazersCount int    `json:"stargazers_count"`
			HTMLURL         string `json:"html_url"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Error{URL: searchURL, Message: "failed to decode search response", Cause: err}
	}

	repos := make([]Repo, 0, len(payload.Items))
	for _, item := range payload.Items {
		repos = append(repos, Repo{
			Name:        item.Name,
			FullName:    item.FullName,
			Description: item.Description,
			Stars:       item.StargazersCount,
			URL:         item.HTMLURL,
		})
	}
	return repos, nil
}

// ManifestPackages fetches the repository's requirements files and
// pyproject.toml and returns every package name they declare.
func (c *GitHubClient) ManifestPackages(ctx context.Context, repoFullName string) ([]string, error) {
	var packages []string

	for _, path := range requirementsPaths {
		content, err := c.fileContent(ctx, repoFullName, path)
		if err != nil {
			continue // missing manifests are the normal case
		}
		packages = append(packages, ParseRequirements(content)...)
		break // first hit wins, mirroring how projects lay out requirements
	}

	if content, err := c.fileContent(ctx, repoFullName, "pyproject.toml"); err == nil {
		packages = append(packages, ParsePyProject(content)...)
	}

	return packages, nil
}

// fileContent fetches one file through the contents API and decodes its
// base64 payload.
func (c *GitHubClient) fileContent(ctx context.Context, repoFullName, path string) (string, error) {
	contentsURL := fmt.Sprintf("%s/repos/%s/contents/%s", c.baseURL, repoFullName, path)

	body, err := c.get(ctx, contentsURL)
	if err != nil {
		return "", err
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", &Error{URL: contentsURL, Message: "failed to decode contents response", Cause: err}
	}

	// GitHub wraps the base64 payload at 60 columns.
	decoded, err := base64.StdEncoding.DecodeString(stripNewlines(payload.Content))
	if err != nil {
		return "", &Error{URL: contentsURL, Message: "failed to decode file content", Cause: err}
	}
	return string(decoded), nil
}

func (c *GitHubClient) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &Error{URL: requestURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", DefaultUserAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{URL: requestURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: requestURL, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{URL: requestURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return body, nil
}

func stripNewlines(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
