// Package cli implements the changelog command tree.
package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/ariel-frischer/changelog/internal/errors"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Generate a changelog from merged GitHub pull requests",
	Long: `changelog determines which pull requests have been merged since the
last release, or between two releases on the same branch, and renders
them as a changelog with a release-level headline.

PR merges are detected from merge and squash-and-merge commit messages;
rebase-merged commits are resolved through the GitHub API. A PR body may
carry a "CHANGELOG: ..." line that overrides its title in the output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
// Errors are rendered to stderr before returning.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	printError(err)
	return exitCodeFor(err)
}

// printError renders an error to stderr, using the structured format for
// CLIErrors and a plain prefix for everything else.
func printError(err error) {
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) && exitErr.Err == nil {
		// Bare exit code; the command already printed its message.
		return
	}

	var cliErr *errors.CLIError
	if stderrors.As(err, &cliErr) {
		fmt.Fprint(os.Stderr, errors.FormatError(cliErr))
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}

	if stderrors.Is(err, changelog.ErrNoPullRequests) {
		return ExitNoPullRequests
	}

	var cliErr *errors.CLIError
	if stderrors.As(err, &cliErr) && cliErr.Category == errors.Argument {
		return ExitInvalidArguments
	}

	return ExitFailure
}
