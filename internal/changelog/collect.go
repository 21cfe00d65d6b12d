package changelog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariel-frischer/changelog/internal/github"
	"golang.org/x/sync/errgroup"
)

// ErrNoPullRequests is returned when the compared range contains commits
// but none of them can be attributed to a pull request.
var ErrNoPullRequests = errors.New("commits found but no pull requests")

// DefaultMaxParallel is the default bound on concurrent PR detail fetches.
const DefaultMaxParallel = 4

// API is the subset of the GitHub client used during collection.
// *github.Client satisfies it; tests provide fakes.
type API interface {
	CommitForTag(ctx context.Context, owner, repo, tag string) (string, error)
	LastCommit(ctx context.Context, owner, repo, branch string) (string, error)
	LastTag(ctx context.Context, owner, repo string) (string, error)
	CompareCommits(ctx context.Context, owner, repo, base, head string) ([]github.Commit, error)
	PullRequestDetails(ctx context.Context, owner, repo, number string) (github.PullRequestDetails, error)
	PullRequestForCommit(ctx context.Context, owner, repo, sha string) *github.PullRequest
}

// Options controls which commit range is collected and how.
type Options struct {
	// Owner and Repo identify the GitHub repository.
	Owner string
	Repo  string

	// PreviousTag is the lower bound of the range. Empty means the
	// repository's most recent tag.
	PreviousTag string

	// CurrentTag is the upper bound of the range. Empty means the head
	// of Branch.
	CurrentTag string

	// Branch selects the branch whose head is the upper bound when
	// CurrentTag is empty. Empty means the repository default branch.
	Branch string

	// IgnoreReleaseMerges skips merge commits of release branches.
	IgnoreReleaseMerges bool

	// MaxParallel bounds concurrent PR detail fetches.
	// Zero or negative means DefaultMaxParallel.
	MaxParallel int
}

// Collect finds the pull requests merged between two releases and fetches
// their details. The result is ordered newest first.
func Collect(ctx context.Context, api API, opts Options) ([]github.ExtendedPullRequest, error) {
	previousTag := opts.PreviousTag
	if previousTag == "" {
		tag, err := api.LastTag(ctx, opts.Owner, opts.Repo)
		if err != nil {
			return nil, fmt.Errorf("finding last tag: %w", err)
		}
		previousTag = tag
	}

	previousCommit, err := api.CommitForTag(ctx, opts.Owner, opts.Repo, previousTag)
	if err != nil {
		return nil, err
	}

	var currentCommit string
	if opts.CurrentTag != "" {
		currentCommit, err = api.CommitForTag(ctx, opts.Owner, opts.Repo, opts.CurrentTag)
	} else {
		currentCommit, err = api.LastCommit(ctx, opts.Owner, opts.Repo, opts.Branch)
	}
	if err != nil {
		return nil, err
	}

	commits, err := api.CompareCommits(ctx, opts.Owner, opts.Repo, previousCommit, currentCommit)
	if err != nil {
		return nil, err
	}

	prs := resolvePullRequests(ctx, api, opts, commits)

	if len(prs) == 0 {
		if len(commits) > 0 {
			return nil, fmt.Errorf("%w on branch %q", ErrNoPullRequests, opts.Branch)
		}
		return nil, nil
	}

	extended, err := fetchDetails(ctx, api, opts, prs)
	if err != nil {
		return nil, err
	}

	// Newest first.
	reverse(extended)
	return extended, nil
}

// resolvePullRequests maps commits to the pull requests that introduced
// them, de-duplicating by PR number while preserving first-seen order.
func resolvePullRequests(ctx context.Context, api API, opts Options, commits []github.Commit) []github.PullRequest {
	var prs []github.PullRequest
	seen := make(map[string]struct{})

	for _, commit := range commits {
		var pr *github.PullRequest

		if IsPR(commit.Message) {
			if opts.IgnoreReleaseMerges && IsReleaseMerge(commit.Message) {
				continue
			}
			extracted, err := ExtractPR(commit.Message)
			if err != nil {
				continue
			}
			pr = &extracted
		} else {
			// Rebase merges carry no marker in the message; ask the
			// API which PR contains the commit.
			pr = api.PullRequestForCommit(ctx, opts.Owner, opts.Repo, commit.SHA)
		}

		if pr == nil {
			continue
		}
		if _, ok := seen[pr.Number]; ok {
			continue
		}
		seen[pr.Number] = struct{}{}
		prs = append(prs, *pr)
	}

	return prs
}

// fetchDetails fetches body and labels for each PR concurrently, bounded
// by opts.MaxParallel. Results keep the input order.
func fetchDetails(ctx context.Context, api API, opts Options, prs []github.PullRequest) ([]github.ExtendedPullRequest, error) {
	maxParallel := opts.MaxParallel
	if maxParallel <= 0 {
		maxParallel = DefaultMaxParallel
	}

	extended := make([]github.ExtendedPullRequest, len(prs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, pr := range prs {
		i, pr := i, pr
		g.Go(func() error {
			details, err := api.PullRequestDetails(ctx, opts.Owner, opts.Repo, pr.Number)
			if err != nil {
				return err
			}
			extended[i] = github.ExtendedPullRequest{PullRequest: pr, Details: details}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return extended, nil
}

func reverse(prs []github.ExtendedPullRequest) {
	for i, j := 0, len(prs)-1; i < j; i, j = i+1, j-1 {
		prs[i], prs[j] = prs[j], prs[i]
	}
}
