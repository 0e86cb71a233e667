package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/elixirpack/internal/app"
	"go.trai.ch/elixirpack/internal/core/domain"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile BUILD_DIR CACHE_DIR ENV_DIR",
		Short: "Install OTP and Elixir and compile the application in BUILD_DIR",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Compile(cmd.Context(), app.CompileOptions{
				BuildDir:   args[0],
				CacheDir:   args[1],
				EnvDir:     args[2],
				ProcessEnv: domain.ParseEnviron(os.Environ()),
				Stdout:     cmd.OutOrStdout(),
			})
		},
	}
}
