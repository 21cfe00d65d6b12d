// Package changelog turns the commits between two GitHub releases into a
// changelog: it classifies merge commits, resolves the pull requests behind
// them, derives the semantic-version release level from PR labels, and
// renders the result as text or markdown.
package changelog

// DefaultBranch is the branch compared against when no current tag is given.
const DefaultBranch = "main"

// ReleaseLevel is the semantic-version bump implied by a set of pull
// requests. Lower values are more significant.
type ReleaseLevel int

const (
	// LevelMajor indicates a breaking release.
	LevelMajor ReleaseLevel = 1
	// LevelMinor indicates a feature release.
	LevelMinor ReleaseLevel = 2
	// LevelPatch indicates a fix-only release.
	LevelPatch ReleaseLevel = 3
)

// Headline returns the release headline for the level.
func (l ReleaseLevel) Headline() string {
	switch l {
	case LevelMajor:
		return "MAJOR RELEASE"
	case LevelMinor:
		return "MINOR RELEASE"
	default:
		return "PATCH RELEASE"
	}
}

// labelLevels maps PR label names to release levels. Labels not listed
// here count as minor.
var labelLevels = map[string]ReleaseLevel{
	"patch":    LevelPatch,
	"hotfix":   LevelPatch,
	"fix":      LevelPatch,
	"minor":    LevelMinor,
	"feature":  LevelMinor,
	"breaking": LevelMajor,
	"major":    LevelMajor,
}

// levelForLabel returns the release level a single label implies.
func levelForLabel(label string) ReleaseLevel {
	if level, ok := labelLevels[label]; ok {
		return level
	}
	return LevelMinor
}
