package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitmuse/gitmuse/internal/service"
)

// newConfigCmd creates the config command.
func newConfigCmd(c *container) *cobra.Command {
	var (
		commitModel    string
		changelogModel string
		listModels     bool
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change model selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if listModels {
				for _, provider := range service.KnownProviders() {
					fmt.Fprintf(out, "%s:\n", provider)
					for _, model := range service.KnownModels(provider) {
						fmt.Fprintf(out, "  %s/%s\n", provider, model)
					}
				}
				return nil
			}
			if commitModel != "" {
				c.cfg.CommitModel = commitModel
			}
			if changelogModel != "" {
				c.cfg.ChangelogModel = changelogModel
			}
			if commitModel != "" || changelogModel != "" {
				if err := c.cfgManager.Save(c.cfg); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "commit_model:    %s\n", c.cfg.CommitModel)
			fmt.Fprintf(out, "changelog_model: %s\n", c.cfg.ChangelogModel)
			return nil
		},
	}
	cmd.Flags().StringVar(&commitModel, "commit-model", "", "provider/model for commit messages")
	cmd.Flags().StringVar(&changelogModel, "changelog-model", "", "provider/model for changelogs")
	cmd.Flags().BoolVar(&listModels, "list-models", false, "list known provider/model pairs")
	return cmd
}
