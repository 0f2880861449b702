package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gitmuse/gitmuse/cmd"
	gmerrors "github.com/gitmuse/gitmuse/internal/errors"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	app, err := cmd.NewApp()
	if err != nil {
		printError(err)
		return 1
	}
	// Release the backend session on every exit path, including
	// interruption.
	defer app.Close()
	if err := app.Execute(ctx); err != nil {
		printError(err)
		return 1
	}
	return 0
}

// printError writes the failure reason to stderr: user-facing errors with
// their remediation hints, anything else verbatim.
func printError(err error) {
	var userErr *gmerrors.UserError
	if errors.As(err, &userErr) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", userErr.Error())
		for _, hint := range userErr.Remediation {
			fmt.Fprintf(os.Stderr, "  hint: %s\n", hint)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
