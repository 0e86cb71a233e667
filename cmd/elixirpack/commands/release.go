package commands

import "github.com/spf13/cobra"

func (c *CLI) newReleaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "release [BUILD_DIR]",
		Short: "Print the default process types of the application",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Release(cmd.OutOrStdout())
		},
	}
}
