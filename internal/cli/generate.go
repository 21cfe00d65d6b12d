package cli

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/ariel-frischer/changelog/internal/config"
	"github.com/ariel-frischer/changelog/internal/errors"
	"github.com/ariel-frischer/changelog/internal/git"
	"github.com/ariel-frischer/changelog/internal/github"
	"github.com/ariel-frischer/changelog/internal/progress"
	"github.com/spf13/cobra"
)

const generateUsage = "changelog generate [OWNER REPO [PREVIOUS [CURRENT]]]"

var (
	generateMarkdownFlag      bool
	generateSingleLineFlag    bool
	generatePlainFlag         bool
	generateIgnoreReleaseFlag bool
	generateBranchFlag        string
	generatePreviousFlag      string
	generateCurrentFlag       string
	generateBaseURLFlag       string
	generateAPIURLFlag        string
	generateTokenFlag         string
	generateTimeoutFlag       int
	generateMaxParallelFlag   int
)

var generateCmd = &cobra.Command{
	Use:     "generate [OWNER REPO [PREVIOUS [CURRENT]]]",
	Aliases: []string{"gen"},
	Short:   "Generate a changelog between two git tags",
	Long: `Generate a changelog between two git tags based on GitHub pull
request merge commit messages.

PREVIOUS defaults to the repository's last tag, CURRENT to the head of
the branch (--branch, default main). With no arguments the owner and
repository are inferred from the origin remote of the enclosing git
repository; OWNER/REPO as a single argument is also accepted.

Examples:
  changelog generate someone one-repo              # Since the last tag
  changelog generate someone one-repo 1.0.0        # Since tag 1.0.0
  changelog generate someone one-repo 1.0.0 1.1.0  # Between two tags
  changelog generate someone/one-repo --markdown   # Slug form, markdown links
  changelog generate                               # Repo inferred from git remote`,
	Args: cobra.MaximumNArgs(4),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVarP(&generateMarkdownFlag, "markdown", "m", false, "Output in markdown")
	generateCmd.Flags().BoolVarP(&generateSingleLineFlag, "single-line", "s", false, "Output as single line joined by \\n characters")
	generateCmd.Flags().BoolVar(&generatePlainFlag, "plain", false, "Plain output (no colors)")
	generateCmd.Flags().BoolVar(&generateIgnoreReleaseFlag, "ignore-release-merge", false, "Leave release merges out of the changelog")
	generateCmd.Flags().StringVar(&generateBranchFlag, "branch", "main", "Override the target branch")
	generateCmd.Flags().StringVar(&generatePreviousFlag, "previous", "", "Previous release tag (defaults to last tag)")
	generateCmd.Flags().StringVar(&generateCurrentFlag, "current", "", "Current release tag (defaults to branch head)")
	generateCmd.Flags().StringVar(&generateBaseURLFlag, "github-base-url", github.PublicBaseURL, "Override for GitHub Enterprise, e.g. https://github.my-company.com")
	generateCmd.Flags().StringVar(&generateAPIURLFlag, "github-api-url", github.PublicAPIURL, "Override for GitHub Enterprise, e.g. https://github.my-company.com/api/v3")
	generateCmd.Flags().StringVar(&generateTokenFlag, "github-token", "", "GitHub oauth token to auth your GitHub requests with")
	generateCmd.Flags().IntVar(&generateTimeoutFlag, "timeout", 30, "Per-request API timeout in seconds")
	generateCmd.Flags().IntVar(&generateMaxParallelFlag, "max-parallel", 0, "Concurrent PR detail fetches (0 = default)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, errors.Configuration,
			"check .changelog/config.yml and ~/.config/changelog/config.yml",
			"run 'changelog config show' to inspect the effective configuration")
	}

	applyGenerateFlags(cmd, cfg)

	target, err := resolveTarget(args, cfg)
	if err != nil {
		return err
	}

	client := github.NewClient(
		github.WithBaseURL(cfg.GitHubBaseURL),
		github.WithAPIURL(cfg.GitHubAPIURL),
		github.WithToken(cfg.GitHubToken),
		github.WithTimeout(time.Duration(cfg.Timeout)*time.Second),
	)

	opts := changelog.Options{
		Owner:               target.slug.Owner,
		Repo:                target.slug.Repo,
		PreviousTag:         target.previous,
		CurrentTag:          target.current,
		Branch:              cfg.Branch,
		IgnoreReleaseMerges: cfg.IgnoreReleaseMerge,
		MaxParallel:         cfg.MaxParallel,
	}

	caps := progress.DetectTerminalCapabilities()
	spin := progress.NewSpinner(fmt.Sprintf("Collecting pull requests for %s...", target.slug), caps)
	if !generatePlainFlag {
		spin.Start()
	}

	prs, err := changelog.Collect(cmd.Context(), client, opts)
	spin.Stop()
	if err != nil {
		return wrapCollectError(err, cfg)
	}

	lines := changelog.Format(client.BaseURL(), target.slug.Owner, target.slug.Repo, prs, changelog.FormatOptions{
		Markdown: cfg.Markdown,
		Plain:    generatePlainFlag || !caps.SupportsColor,
	})

	fmt.Fprintln(cmd.OutOrStdout(), changelog.Render(lines, cfg.SingleLine))
	return nil
}

// applyGenerateFlags overlays explicitly set flags onto the loaded
// configuration, so flags win over files and environment.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Configuration) {
	flags := cmd.Flags()

	if flags.Changed("markdown") {
		cfg.Markdown = generateMarkdownFlag
	}
	if flags.Changed("single-line") {
		cfg.SingleLine = generateSingleLineFlag
	}
	if flags.Changed("ignore-release-merge") {
		cfg.IgnoreReleaseMerge = generateIgnoreReleaseFlag
	}
	if flags.Changed("branch") {
		cfg.Branch = generateBranchFlag
	}
	if flags.Changed("github-base-url") {
		cfg.GitHubBaseURL = generateBaseURLFlag
	}
	if flags.Changed("github-api-url") {
		cfg.GitHubAPIURL = generateAPIURLFlag
	}
	if flags.Changed("github-token") {
		cfg.GitHubToken = generateTokenFlag
	}
	if flags.Changed("timeout") {
		cfg.Timeout = generateTimeoutFlag
	}
	if flags.Changed("max-parallel") {
		cfg.MaxParallel = generateMaxParallelFlag
	}
}

// target is the fully resolved generation target.
type target struct {
	slug     git.Slug
	previous string
	current  string
}

// resolveTarget determines owner/repo and the tag range from positional
// arguments, falling back to the enclosing git repository's remote when
// no repository is given.
func resolveTarget(args []string, cfg *config.Configuration) (target, error) {
	var t target

	switch {
	case len(args) >= 2:
		t.slug = git.Slug{Owner: args[0], Repo: args[1]}
		if len(args) >= 3 {
			t.previous = args[2]
		}
		if len(args) == 4 {
			t.current = args[3]
		}

	case len(args) == 1:
		owner, repo, found := strings.Cut(args[0], "/")
		if !found || owner == "" || repo == "" {
			return target{}, errors.NewArgumentErrorWithUsage(
				fmt.Sprintf("%q is not an OWNER/REPO slug", args[0]),
				generateUsage,
				"pass OWNER and REPO as separate arguments, or a single OWNER/REPO slug")
		}
		t.slug = git.Slug{Owner: owner, Repo: repo}

	default:
		slug, err := git.RemoteSlug("", cfg.Remote)
		if err != nil {
			return target{}, errors.NewArgumentErrorWithUsage(
				"no repository given and none could be inferred",
				generateUsage,
				"pass OWNER and REPO as arguments",
				fmt.Sprintf("or run inside a git repository with a %q remote pointing at GitHub", cfg.Remote))
		}
		t.slug = slug
	}

	// Tag flags fill the range only when it wasn't given positionally.
	if t.previous == "" {
		t.previous = generatePreviousFlag
	} else if generatePreviousFlag != "" {
		return target{}, errors.NewArgumentError(
			"PREVIOUS was given both as an argument and via --previous",
			"use one or the other")
	}
	if t.current == "" {
		t.current = generateCurrentFlag
	} else if generateCurrentFlag != "" {
		return target{}, errors.NewArgumentError(
			"CURRENT was given both as an argument and via --current",
			"use one or the other")
	}

	return t, nil
}

// wrapCollectError turns collection failures into structured CLI errors
// with remediation hints.
func wrapCollectError(err error, cfg *config.Configuration) error {
	var apiErr *github.APIError
	if stderrors.As(err, &apiErr) {
		remediation := []string{
			"check that the repository, tags, and branch exist",
		}
		if apiErr.StatusCode == 401 || apiErr.StatusCode == 403 {
			remediation = []string{
				"set GITHUB_API_TOKEN or pass --github-token",
				"private repositories and rate limits require an authenticated token",
			}
		}
		return errors.Wrap(err, errors.API, remediation...)
	}

	if stderrors.Is(err, changelog.ErrNoPullRequests) {
		return errors.Wrap(err, errors.Runtime,
			fmt.Sprintf("branch %q has commits that belong to no pull request", cfg.Branch),
			"check --branch, or merge changes through pull requests")
	}

	return errors.Wrap(err, errors.Runtime)
}
