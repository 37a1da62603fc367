package archive

import (
	"context"
	"fmt"
	"net/http"
)

// URLResolver obtains the short-lived ZIP download URL for one run's
// log archive (spec.md §6 "Provider interface (log fetch)").
type URLResolver interface {
	ResolveLogURL(ctx context.Context, repoFullName, providerRunID string) (string, error)
}

// GitHubResolver resolves log archive URLs against the GitHub Actions
// REST API, whose "download workflow run logs" endpoint responds with
// a 302 redirect to a short-lived, pre-signed blob URL rather than the
// archive itself — exactly the "short-lived URL" the spec describes.
// Authentication here is a single static token rather than a full
// GitHub App JWT-and-installation-token exchange: no JWT library is
// wired anywhere in this codebase's dependency stack, so the token is
// treated as an opaque bearer credential the same way pkg/llm treats
// its provider API key.
type GitHubResolver struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewGitHubResolver builds a GitHubResolver. baseURL is normally
// "https://api.github.com"; overridable for GitHub Enterprise or for
// tests pointed at an httptest.Server.
func NewGitHubResolver(baseURL, token string) *GitHubResolver {
	return &GitHubResolver{
		httpClient: &http.Client{
			// The redirect itself is the answer we want — don't follow it.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		baseURL: baseURL,
		token:   token,
	}
}

// ResolveLogURL calls GET /repos/{repoFullName}/actions/runs/{providerRunID}/logs
// and returns the Location header from its redirect response.
func (r *GitHubResolver) ResolveLogURL(ctx context.Context, repoFullName, providerRunID string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/actions/runs/%s/logs", r.baseURL, repoFullName, providerRunID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("archive: build logs request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("archive: request logs url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return "", fmt.Errorf("archive: unexpected status %d resolving logs url", resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("archive: logs redirect missing Location header")
	}
	return location, nil
}
