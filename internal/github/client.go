// Package github provides a minimal GitHub REST API client covering the
// endpoints needed to discover merged pull requests between two releases:
// tag resolution, commit listing, commit comparison, and pull request lookup.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// PublicBaseURL is the web URL of the public GitHub instance.
	PublicBaseURL = "https://github.com"

	// PublicAPIURL is the REST API URL of the public GitHub instance.
	PublicAPIURL = "https://api.github.com"

	// DefaultTimeout is the default timeout for a single API request.
	DefaultTimeout = 30 * time.Second
)

// Client is a GitHub REST API client scoped to changelog generation.
// Use NewClient with functional options to construct one.
type Client struct {
	baseURL    string
	apiURL     string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the OAuth token used for the Authorization header.
// An empty token leaves requests unauthenticated.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithBaseURL overrides the web base URL (GitHub Enterprise).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithAPIURL overrides the REST API URL (GitHub Enterprise).
func WithAPIURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.apiURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient creates a Client for the public GitHub instance unless
// overridden by options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: PublicBaseURL,
		apiURL:  PublicAPIURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the web base URL used for pull request links.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CommitForTag resolves a git tag to its commit SHA.
// Annotated tags point at tag objects rather than commits; those are
// followed until a commit is reached.
func (c *Client) CommitForTag(ctx context.Context, owner, repo, tag string) (string, error) {
	refURL := c.apiURL + "/repos/" + owner + "/" + repo + "/git/refs/tags/" + url.PathEscape(tag)

	for {
		var ref struct {
			Object struct {
				Type string `json:"type"`
				SHA  string `json:"sha"`
				URL  string `json:"url"`
			} `json:"object"`
		}
		if err := c.getJSON(ctx, refURL, nil, &ref); err != nil {
			return "", fmt.Errorf("resolving tag %s: %w", tag, err)
		}

		switch ref.Object.Type {
		case "commit":
			return ref.Object.SHA, nil
		case "tag":
			refURL = ref.Object.URL
		default:
			return "", fmt.Errorf("resolving tag %s: unexpected object type %q", tag, ref.Object.Type)
		}
	}
}

// LastCommit returns the SHA of the most recent commit on the given branch.
// An empty branch means the repository's default branch.
func (c *Client) LastCommit(ctx context.Context, owner, repo, branch string) (string, error) {
	commitsURL := c.apiURL + "/repos/" + owner + "/" + repo + "/commits"

	var params url.Values
	if branch != "" {
		params = url.Values{"sha": []string{branch}}
	}

	var commits []struct {
		SHA string `json:"sha"`
	}
	if err := c.getJSON(ctx, commitsURL, params, &commits); err != nil {
		return "", fmt.Errorf("listing commits: %w", err)
	}

	if len(commits) == 0 {
		return "", fmt.Errorf("listing commits: no commits on branch %q", branch)
	}

	return commits[0].SHA, nil
}

// LastTag returns the name of the most recent tag in the repository.
func (c *Client) LastTag(ctx context.Context, owner, repo string) (string, error) {
	tagsURL := c.apiURL + "/repos/" + owner + "/" + repo + "/tags"

	var tags []struct {
		Name string `json:"name"`
	}
	if err := c.getJSON(ctx, tagsURL, nil, &tags); err != nil {
		return "", fmt.Errorf("listing tags: %w", err)
	}

	if len(tags) == 0 {
		return "", fmt.Errorf("listing tags: repository %s/%s has no tags", owner, repo)
	}

	return tags[0].Name, nil
}

// CompareCommits returns the commits between base and head (exclusive of
// base), oldest first, as reported by the compare endpoint.
func (c *Client) CompareCommits(ctx context.Context, owner, repo, base, head string) ([]Commit, error) {
	compareURL := c.apiURL + "/repos/" + owner + "/" + repo + "/compare/" + base + "..." + head

	var compare struct {
		Commits *[]struct {
			SHA    string `json:"sha"`
			Commit struct {
				Message string `json:"message"`
			} `json:"commit"`
		} `json:"commits"`
	}
	if err := c.getJSON(ctx, compareURL, nil, &compare); err != nil {
		return nil, fmt.Errorf("comparing %s...%s: %w", base, head, err)
	}

	if compare.Commits == nil {
		return nil, fmt.Errorf("comparing %s...%s: no commits in response", base, head)
	}

	commits := make([]Commit, 0, len(*compare.Commits))
	for _, raw := range *compare.Commits {
		commits = append(commits, Commit{SHA: raw.SHA, Message: raw.Commit.Message})
	}
	return commits, nil
}

// PullRequestDetails returns the body and label names of a pull request.
func (c *Client) PullRequestDetails(ctx context.Context, owner, repo, number string) (PullRequestDetails, error) {
	prURL := c.apiURL + "/repos/" + owner + "/" + repo + "/pulls/" + number

	var pr struct {
		Body   string `json:"body"`
		Labels []struct {
			Name string `json:"name"`
		} `json:"labels"`
	}
	if err := c.getJSON(ctx, prURL, nil, &pr); err != nil {
		return PullRequestDetails{}, fmt.Errorf("getting PR #%s: %w", number, err)
	}

	labels := make([]string, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		labels = append(labels, l.Name)
	}

	return PullRequestDetails{Body: pr.Body, Labels: labels}, nil
}

// PullRequestForCommit returns the pull request associated with a commit,
// or nil if none is found. Lookup failures are treated as "no PR": this
// path is a best-effort fallback for rebase-merged commits.
func (c *Client) PullRequestForCommit(ctx context.Context, owner, repo, sha string) *PullRequest {
	pullsURL := c.apiURL + "/repos/" + owner + "/" + repo + "/commits/" + sha + "/pulls"

	var pulls []struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
	}
	if err := c.getJSON(ctx, pullsURL, nil, &pulls); err != nil {
		return nil
	}

	if len(pulls) == 0 {
		return nil
	}

	// The first entry is the most relevant PR.
	return &PullRequest{
		Number: fmt.Sprintf("%d", pulls[0].Number),
		Title:  pulls[0].Title,
	}
}

// getJSON performs an authenticated GET and decodes the JSON response.
// Non-200 responses are returned as *APIError with the server's error
// message when one is present in the body.
func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return newAPIError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// newAPIError builds an APIError from a non-200 response body.
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		payload.Message = strings.TrimSpace(string(body))
	}
	return &APIError{StatusCode: status, Message: payload.Message}
}
