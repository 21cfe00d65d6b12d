package github

import "fmt"

// Commit is a single commit as returned by the compare endpoint.
type Commit struct {
	SHA     string
	Message string
}

// PullRequest identifies a merged pull request by number and title.
// The number is kept as a string because it comes from both commit message
// parsing and the API.
type PullRequest struct {
	Number string
	Title  string
}

// PullRequestDetails holds the body and labels of a pull request.
type PullRequestDetails struct {
	Body   string
	Labels []string
}

// ExtendedPullRequest pairs a pull request with its fetched details.
type ExtendedPullRequest struct {
	PullRequest PullRequest
	Details     PullRequestDetails
}

// APIError is a non-200 response from the GitHub API.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("GitHub API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, e.Message)
}
