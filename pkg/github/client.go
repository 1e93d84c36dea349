// SPDX-License-Identifier: Apache-2.0

// Package github is a minimal GitHub releases client: just enough API
// surface for the self-update flow.
package github

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/CLAV88/office-addin/pkg/config"
	"github.com/CLAV88/office-addin/pkg/download"
)

// Release is the subset of the GitHub release payload we consume
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is one downloadable file attached to a release
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Client talks to the GitHub REST API, attaching the configured token
// when one is present. Unauthenticated use works within rate limits.
type Client struct {
	token string
}

// NewClient picks up the token from config or the environment
func NewClient() *Client {
	return &Client{token: config.GetGitHubToken()}
}

// GetLatestRelease fetches the newest non-prerelease release
func (c *Client) GetLatestRelease(owner, repo string) (*Release, error) {
	return c.fetchRelease(fmt.Sprintf("%s/repos/%s/%s/releases/latest", config.GitHubAPI, owner, repo))
}

// GetReleaseByTag fetches the release published under a specific tag
func (c *Client) GetReleaseByTag(owner, repo, tag string) (*Release, error) {
	return c.fetchRelease(fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s", config.GitHubAPI, owner, repo, tag))
}

func (c *Client) fetchRelease(url string) (*Release, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.DoRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GitHub API returned %d: %s", resp.StatusCode, string(body))
	}

	release := &Release{}
	if err := json.NewDecoder(resp.Body).Decode(release); err != nil {
		return nil, fmt.Errorf("failed to decode release: %w", err)
	}

	return release, nil
}

// DownloadFile fetches a release asset to dest, authenticated when a
// token is configured (required for private repositories)
func (c *Client) DownloadFile(url, dest string, progressCallback download.ProgressCallback) error {
	opts := &download.Options{ProgressCallback: progressCallback}
	if c.token != "" {
		opts.Headers = map[string]string{"Authorization": "token " + c.token}
	}
	return download.FileWithOptions(url, dest, opts)
}

// DoRequest runs an HTTP request with the auth header attached
func (c *Client) DoRequest(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	return http.DefaultClient.Do(req)
}

// StripVersionPrefix removes the conventional leading v from a tag name
func StripVersionPrefix(version string) string {
	return strings.TrimPrefix(version, "v")
}
