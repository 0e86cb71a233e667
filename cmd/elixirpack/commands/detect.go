package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"go.trai.ch/elixirpack/internal/core/domain"
)

func (c *CLI) newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect BUILD_DIR",
		Short: "Exit successfully when BUILD_DIR is an Elixir application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.app.Detect(cmd.Context(), args[0], cmd.OutOrStdout())
			// A negative detection is answered by the exit code alone.
			if errors.Is(err, domain.ErrNotDetected) {
				return quietError{err: err}
			}
			return err
		},
	}
}
