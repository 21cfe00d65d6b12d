package cli

import "fmt"

// Exit codes for the changelog CLI.
// These codes support scripting and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime or API failure
	ExitFailure = 1

	// ExitNoPullRequests indicates the compared range has commits but
	// none could be attributed to a pull request
	ExitNoPullRequests = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3
)

// ExitError carries a specific process exit code out of a command.
// When Err is nil the command has already printed its own message.
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with a bare code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}
