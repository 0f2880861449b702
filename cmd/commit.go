package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitmuse/gitmuse/internal/domain"
)

// newCommitCmd creates the commit command.
func newCommitCmd(c *container) *cobra.Command {
	var opts domain.CommitOptions
	cmd := &cobra.Command{
		Use:   "commit [message]",
		Short: "Commit pending changes with a generated message",
		Long: `Stage and commit pending changes. Without a message argument the
staged diff is summarized by the generation backend and the proposed
message can be accepted, edited or regenerated before committing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Message = args[0]
			}
			orch, err := c.orchestrator()
			if err != nil {
				return err
			}
			return orch.Commit(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "stage all changes without asking")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "skip all confirmations")
	return cmd
}
