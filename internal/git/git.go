// Package git inspects the enclosing git repository using go-git: remote
// URL parsing for owner/repo inference and branch detection. No git CLI
// is required.
package git

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Slug identifies a GitHub repository by owner and name.
type Slug struct {
	Owner string
	Repo  string
}

// String returns the owner/repo form.
func (s Slug) String() string {
	return s.Owner + "/" + s.Repo
}

// openRepo opens the git repository containing path, traversing up the
// directory tree to find the repository root. An empty path means the
// current working directory.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// IsRepository checks if path is within a git repository.
func IsRepository(path string) bool {
	_, err := openRepo(path)
	return err == nil
}

// CurrentBranch returns the name of the current branch, or an empty
// string in detached HEAD state.
func CurrentBranch(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", nil
	}

	return head.Name().Short(), nil
}

// RemoteSlug parses the URL of the named remote into an owner/repo slug.
func RemoteSlug(path, remoteName string) (Slug, error) {
	repo, err := openRepo(path)
	if err != nil {
		return Slug{}, err
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return Slug{}, fmt.Errorf("getting remote %q: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return Slug{}, fmt.Errorf("remote %q has no URL", remoteName)
	}

	return ParseRemoteURL(urls[0])
}

// ParseRemoteURL extracts the owner/repo slug from a git remote URL.
// Supported forms:
//   - https://github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//   - ssh://git@github.com/owner/repo.git
func ParseRemoteURL(remoteURL string) (Slug, error) {
	trimmed := remoteURL

	// scp-like syntax: git@host:owner/repo.git
	if !strings.Contains(trimmed, "://") {
		if _, after, found := strings.Cut(trimmed, ":"); found {
			trimmed = after
		} else {
			return Slug{}, fmt.Errorf("unrecognized remote URL %q", remoteURL)
		}
	} else {
		// URL syntax: strip scheme://host/
		_, after, _ := strings.Cut(trimmed, "://")
		if _, path, found := strings.Cut(after, "/"); found {
			trimmed = path
		} else {
			return Slug{}, fmt.Errorf("remote URL %q has no path", remoteURL)
		}
	}

	trimmed = strings.TrimSuffix(trimmed, ".git")
	trimmed = strings.Trim(trimmed, "/")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Slug{}, fmt.Errorf("cannot determine owner/repo from remote URL %q", remoteURL)
	}

	return Slug{Owner: parts[0], Repo: parts[1]}, nil
}
