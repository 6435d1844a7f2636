package actions

import "fmt"

// Executor handles binding execution with platform-specific logic
type Executor struct {
	handlers map[ActionType]ActionHandler
}

// NewExecutor creates a new executor. ports may be nil, which disables MIDI
// bindings.
func NewExecutor(ports OutputOpener) *Executor {
	return &Executor{
		handlers: map[ActionType]ActionHandler{
			ActionTypeShellCommand: &ShellHandler{},
			ActionTypeSleep:        &SleepHandler{},
			ActionTypeMidi:         NewMidiHandler(ports),
		},
	}
}

// Execute runs a binding for a call
// Returns output and error (error if type not supported on current platform)
func (e *Executor) Execute(b *Binding, call Call) (string, error) {
	if b == nil {
		return "", fmt.Errorf("binding is nil")
	}

	handler, ok := e.handlers[b.Type]
	if !ok {
		return "", fmt.Errorf("unknown action type: %s", b.Type)
	}
	if !handler.IsSupported() {
		return "", fmt.Errorf("%s bindings are not supported here", b.Type)
	}

	return handler.Execute(b.Code, call)
}

// Validate checks a binding's code without running it
func (e *Executor) Validate(b *Binding) error {
	if b.On == "" {
		return fmt.Errorf("binding %q has no trigger", b.Name)
	}
	handler, ok := e.handlers[b.Type]
	if !ok {
		return fmt.Errorf("binding %q: unknown action type: %s", b.Name, b.Type)
	}
	if err := handler.Validate(b.Code); err != nil {
		return fmt.Errorf("binding %q: %w", b.Name, err)
	}
	return nil
}

// GetShellName returns the name of the shell used on this platform
func (e *Executor) GetShellName() string {
	handler, ok := e.handlers[ActionTypeShellCommand]
	if !ok {
		return "shell"
	}
	if shellHandler, ok := handler.(*ShellHandler); ok {
		return shellHandler.GetShellName()
	}
	return "shell"
}
