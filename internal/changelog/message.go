package changelog

import (
	"fmt"
	"regexp"

	"github.com/ariel-frischer/changelog/internal/github"
)

var (
	// Merge commits use a double linebreak between the branch name and
	// the PR title.
	mergePRRe = regexp.MustCompile(`^Merge pull request #([0-9]+) from .*\n\n(.*)`)

	// Merge commits of a release branch.
	mergeReleasePRRe = regexp.MustCompile(`^Merge pull request #([0-9]+) from .*/release/.*\n\n(.*)`)

	// Squash-and-merge commits use the PR title with the number in
	// parentheses.
	squashPRRe = regexp.MustCompile(`^(.*) \(#([0-9]+)\).*`)

	// Changelog note in a PR body, e.g. "CHANGELOG: Added some stuff".
	noteRe = regexp.MustCompile(`(?m)^CHANGELOG:\s?(.*)`)
)

// IsPR reports whether a commit message is a merge or squash-and-merge of
// a pull request.
func IsPR(message string) bool {
	return mergePRRe.MatchString(message) || squashPRRe.MatchString(message)
}

// IsReleaseMerge reports whether a commit message merges a release branch.
func IsReleaseMerge(message string) bool {
	return mergeReleasePRRe.MatchString(message)
}

// ExtractPR extracts the pull request number and title from a merge or
// squash-and-merge commit message.
func ExtractPR(message string) (github.PullRequest, error) {
	if m := mergePRRe.FindStringSubmatch(message); m != nil {
		return github.PullRequest{Number: m[1], Title: m[2]}, nil
	}
	if m := squashPRRe.FindStringSubmatch(message); m != nil {
		return github.PullRequest{Number: m[2], Title: m[1]}, nil
	}
	return github.PullRequest{}, fmt.Errorf("commit isn't a PR merge: %s", message)
}

// ExtractNote returns the CHANGELOG note from a PR body, or an empty
// string when the body has none.
func ExtractNote(body string) string {
	m := noteRe.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return m[1]
}
