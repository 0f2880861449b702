package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitmuse/gitmuse/internal/domain"
)

// newChangelogCmd creates the changelog command.
func newChangelogCmd(c *container) *cobra.Command {
	var opts domain.ChangelogOptions
	cmd := &cobra.Command{
		Use:     "changelog",
		Aliases: []string{"cl"},
		Short:   "Generate a changelog entry for a commit range",
		Long: `Summarize a commit range into a changelog entry. Without --from the
starting point is picked interactively from the last changelog run, the
latest tag or the first commit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := c.orchestrator()
			if err != nil {
				return err
			}
			return orch.Changelog(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.From, "from", "", "starting reference (exclusive)")
	cmd.Flags().StringVar(&opts.To, "to", "HEAD", "ending reference")
	return cmd
}
