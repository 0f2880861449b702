package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitmuse/gitmuse/internal/domain"
)

// App wires the CLI together and owns process-wide resources.
type App struct {
	root      *cobra.Command
	container *container
}

// NewApp builds the dependency container and the command tree.
func NewApp() (*App, error) {
	c, err := newContainer()
	if err != nil {
		return nil, err
	}
	root := &cobra.Command{
		Use:   "gitmuse",
		Short: "Commit, changelog and release automation with generated text",
		Long: `gitmuse automates three coupled git workflows: committing with a
generated message, changelog generation over a commit range, and
releasing (commit, changelog, tag, push) in one pass.

A bare message argument behaves as "gitmuse commit <message>".`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			orch, err := c.orchestrator()
			if err != nil {
				return err
			}
			return orch.Commit(cmd.Context(), domain.CommitOptions{
				Message: strings.Join(args, " "),
			})
		},
	}
	root.PersistentFlags().BoolVar(&c.verbose, "verbose", false, "enable debug logging")
	root.AddCommand(
		newCommitCmd(c),
		newChangelogCmd(c),
		newReleaseCmd(c),
		newConfigCmd(c),
		newVersionCmd(),
	)
	return &App{root: root, container: c}, nil
}

// Execute runs the CLI under ctx.
func (a *App) Execute(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

// Close releases process-wide resources. Idempotent.
func (a *App) Close() {
	a.container.Close()
}
