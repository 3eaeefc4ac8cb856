// Package github reads release metadata for the upgrade command.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/moyo/internal/xhttp"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 10 * time.Second
	mediaType      = "application/vnd.github+json"
	apiVersion     = "2022-11-28"
)

var (
	// ErrNoRelease means the repository has not published a release yet.
	ErrNoRelease = errors.New("no published release")
	// ErrRateLimited means the unauthenticated API quota is spent. Setting
	// GITHUB_TOKEN raises it.
	ErrRateLimited = errors.New("github api rate limit exceeded")
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) { client.httpClient = c }
}

func WithBaseURL(url string) Option {
	return func(client *Client) { client.baseURL = url }
}

// WithToken authenticates requests. An empty token is ignored.
func WithToken(token string) Option {
	return func(client *Client) { client.token = token }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: xhttp.NewHTTPClient(xhttp.WithTimeout(defaultTimeout)),
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Release is the subset of a GitHub release the upgrade command reads.
type Release struct {
	TagName     string    `json:"tag_name"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
}

func (c *Client) GetLatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, owner, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(xhttp.Accept, mediaType)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.token != "" {
		xhttp.SetBearerToken(req, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s/%s: %w", owner, repo, ErrNoRelease)
	case isRateLimited(resp):
		return nil, ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var release Release
	if err := go_json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &release, nil
}

func isRateLimited(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return resp.Header.Get("X-RateLimit-Remaining") == "0"
	}
	return false
}
