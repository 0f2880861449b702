package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Terminal is the stdin/stdout implementation of Prompter.
type Terminal struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	isTTY  bool

	lines chan lineResult
}

type lineResult struct {
	text string
	err  error
}

// NewTerminal creates a Prompter over the process's standard streams.
func NewTerminal() *Terminal {
	return newTerminal(os.Stdin, os.Stdout, os.Stderr,
		term.IsTerminal(int(os.Stdout.Fd())))
}

func newTerminal(in io.Reader, out, errOut io.Writer, isTTY bool) *Terminal {
	t := &Terminal{
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
		isTTY:  isTTY,
		lines:  make(chan lineResult),
	}
	go t.readLines()
	return t
}

// readLines feeds stdin lines to the prompt methods so reads can be
// abandoned on context cancellation. The channel is closed once input is
// exhausted so every later prompt sees EOF instead of blocking.
func (t *Terminal) readLines() {
	for {
		line, err := t.in.ReadString('\n')
		t.lines <- lineResult{text: strings.TrimSpace(line), err: err}
		if err != nil {
			close(t.lines)
			return
		}
	}
}

// readLine waits for one line of input or cancellation.
func (t *Terminal) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil && res.text == "" {
			return "", res.err
		}
		return res.text, nil
	}
}

// Confirm asks a yes/no question; def is returned on plain Enter or EOF.
func (t *Terminal) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(t.out, "%s %s [%s] ", color.CyanString("?"), question, hint)
	answer, err := t.readLine(ctx)
	if err == io.EOF {
		return def, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Input asks for a free-form line.
func (t *Terminal) Input(ctx context.Context, question string) (string, error) {
	fmt.Fprintf(t.out, "%s %s ", color.CyanString("?"), question)
	return t.readLine(ctx)
}

// Select asks the user to pick one of options, returning its index. An
// out-of-range or non-numeric answer re-asks.
func (t *Terminal) Select(ctx context.Context, question string, options []string) (int, error) {
	fmt.Fprintf(t.out, "%s %s\n", color.CyanString("?"), question)
	for i, option := range options {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, option)
	}
	for {
		fmt.Fprintf(t.out, "  choice [1-%d]: ", len(options))
		answer, err := t.readLine(ctx)
		if err != nil {
			return 0, err
		}
		choice, convErr := strconv.Atoi(answer)
		if convErr == nil && choice >= 1 && choice <= len(options) {
			return choice - 1, nil
		}
		fmt.Fprintln(t.out, color.YellowString("  please enter a number from the list"))
	}
}

// Info prints an informational message.
func (t *Terminal) Info(format string, args ...any) {
	fmt.Fprintf(t.out, "%s %s\n", color.BlueString("i"), fmt.Sprintf(format, args...))
}

// Warn prints a warning message.
func (t *Terminal) Warn(format string, args ...any) {
	fmt.Fprintf(t.errOut, "%s %s\n", color.YellowString("!"), fmt.Sprintf(format, args...))
}

// Success prints a success message.
func (t *Terminal) Success(format string, args ...any) {
	fmt.Fprintf(t.out, "%s %s\n", color.GreenString("✔"), fmt.Sprintf(format, args...))
}

// Print writes text verbatim, followed by a newline.
func (t *Terminal) Print(text string) {
	fmt.Fprintln(t.out, text)
}

// Busy shows a spinner until the returned stop function is called. A
// plain message is printed instead when stdout is not a terminal.
func (t *Terminal) Busy(message string) func() {
	if !t.isTTY {
		fmt.Fprintf(t.out, "%s...\n", message)
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(t.errOut))
	s.Suffix = " " + message
	s.Start()
	return s.Stop
}
