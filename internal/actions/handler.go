package actions

// ActionHandler defines the interface for executing and validating bindings
type ActionHandler interface {
	// Execute runs the code for a call and returns output or error
	Execute(code string, call Call) (string, error)

	// Validate checks the syntax of the code
	Validate(code string) error

	// IsSupported returns true if the handler can run on the current platform
	IsSupported() bool
}
