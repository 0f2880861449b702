// Package ui renders terminal prompts and messages. Everything here is a
// thin I/O wrapper: decisions about when to ask live in the orchestrator.
package ui

import "context"

// Prompter collects user input and renders messages. Implementations must
// honor context cancellation on every blocking call.
type Prompter interface {
	// Confirm asks a yes/no question; def is returned on plain Enter.
	Confirm(ctx context.Context, question string, def bool) (bool, error)
	// Input asks for a free-form line.
	Input(ctx context.Context, question string) (string, error)
	// Select asks the user to pick one of options, returning its index.
	Select(ctx context.Context, question string, options []string) (int, error)

	Info(format string, args ...any)
	Warn(format string, args ...any)
	Success(format string, args ...any)
	Print(text string)

	// Busy shows an activity indicator until the returned stop function
	// is called.
	Busy(message string) (stop func())
}
