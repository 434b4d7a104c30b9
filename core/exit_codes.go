package core

// Exit codes for the application.
const (
	// ExitCodeSuccess indicates clean shutdown
	ExitCodeSuccess = 0

	// ExitCodeError indicates a runtime failure
	ExitCodeError = 1

	// ExitCodeConfig indicates the configuration could not be loaded or failed a startup check
	ExitCodeConfig = 2
)
