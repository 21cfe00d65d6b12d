// Package progress provides terminal capability detection and a spinner
// for long-running API collection. Output degrades gracefully on dumb
// terminals and in pipelines.
package progress

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// TerminalCapabilities describes what the attached terminal supports.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// DetectTerminalCapabilities detects terminal features for stdout.
// Checks: stdout isatty, NO_COLOR env, CHANGELOG_ASCII env, terminal width.
func DetectTerminalCapabilities() TerminalCapabilities {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("CHANGELOG_ASCII") == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// spinnerCharSet selects the spinner animation for the capabilities.
// Unicode terminals get braille dots (set 14), others the ASCII bar (set 9).
func spinnerCharSet(caps TerminalCapabilities) []string {
	if caps.SupportsUnicode {
		return spinner.CharSets[14]
	}
	return spinner.CharSets[9]
}

// Spinner wraps the terminal spinner and turns into a no-op when stderr is
// not a terminal, so command output stays clean in pipelines.
type Spinner struct {
	inner *spinner.Spinner
}

// NewSpinner creates a spinner with the given suffix message.
// The spinner writes to stderr so it never mixes with command output.
func NewSpinner(message string, caps TerminalCapabilities) *Spinner {
	if !caps.IsTTY {
		return &Spinner{}
	}

	s := spinner.New(spinnerCharSet(caps), 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	return &Spinner{inner: s}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if s.inner != nil {
		s.inner.Start()
	}
}

// Stop halts the spinner and clears the line.
func (s *Spinner) Stop() {
	if s.inner != nil {
		s.inner.Stop()
	}
}
