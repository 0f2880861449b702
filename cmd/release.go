package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitmuse/gitmuse/internal/domain"
)

// newReleaseCmd creates the release command.
func newReleaseCmd(c *container) *cobra.Command {
	var opts domain.ReleaseOptions
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Run the full release pipeline",
		Long: `Run the release pipeline: commit pending changes, generate and merge
the changelog, tag the release and push. Each step can be skipped or
confirmed individually; --yes accepts everything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := c.orchestrator()
			if err != nil {
				return err
			}
			return orch.Release(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.From, "from", "", "starting reference for the changelog range")
	cmd.Flags().StringVar(&opts.Version, "version", "", "version to release (skips detection)")
	cmd.Flags().BoolVar(&opts.Tag, "tag", false, "create the tag without asking")
	cmd.Flags().BoolVar(&opts.Push, "push", false, "push without asking")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "skip all confirmations")
	return cmd
}
