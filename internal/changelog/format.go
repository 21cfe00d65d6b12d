package changelog

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/changelog/internal/github"
	"github.com/fatih/color"
)

// levelColors maps release levels to their terminal styling.
var levelColors = map[ReleaseLevel]*color.Color{
	LevelMajor: color.New(color.FgRed, color.Bold),
	LevelMinor: color.New(color.FgYellow, color.Bold),
	LevelPatch: color.New(color.FgGreen, color.Bold),
}

// FormatOptions controls changelog rendering.
type FormatOptions struct {
	// Markdown renders PR numbers as links to the pull request page.
	Markdown bool
	// Plain disables terminal colors on the release headline.
	Plain bool
}

// LevelFor derives the release level from the labels of the given PRs.
// An unlabeled PR counts as minor; each label maps through the known
// level names, with unknown labels counting as minor. The overall level
// is the most significant one seen, starting from patch.
func LevelFor(prs []github.ExtendedPullRequest) ReleaseLevel {
	level := LevelPatch

	for _, pr := range prs {
		if len(pr.Details.Labels) == 0 {
			level = min(level, LevelMinor)
		}
		for _, label := range pr.Details.Labels {
			level = min(level, levelForLabel(label))
		}
	}

	return level
}

// Format renders the PR list as changelog lines: the release headline
// followed by one line per pull request. A PR's CHANGELOG note takes
// precedence over its title.
func Format(baseURL, owner, repo string, prs []github.ExtendedPullRequest, opts FormatOptions) []string {
	lines := make([]string, 0, len(prs)+1)

	level := LevelFor(prs)
	headline := level.Headline()
	if !opts.Plain && !opts.Markdown {
		headline = levelColors[level].Sprint(headline)
	}
	lines = append(lines, headline)

	for _, pr := range prs {
		number := "#" + pr.PullRequest.Number
		if opts.Markdown {
			link := fmt.Sprintf("%s/%s/%s/pull/%s", baseURL, owner, repo, pr.PullRequest.Number)
			number = fmt.Sprintf("[%s](%s)", number, link)
		}

		description := pr.PullRequest.Title
		if note := ExtractNote(pr.Details.Body); note != "" {
			description = note
		}

		lines = append(lines, fmt.Sprintf("- %s %s", description, number))
	}

	return lines
}

// Render joins changelog lines into the final output. In single-line
// mode the lines are joined with the literal two-character sequence \n
// so the result fits in one shell argument.
func Render(lines []string, singleLine bool) string {
	separator := "\n"
	if singleLine {
		separator = `\n`
	}
	return strings.Join(lines, separator)
}
