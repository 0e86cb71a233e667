// Package commands implements the CLI commands of the Elixir buildpack.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/elixirpack/internal/app"
	"go.trai.ch/elixirpack/internal/build"
)

// CLI represents the command line interface of the buildpack.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	logOpts app.LogOptions
}

// Application represents the application logic interface.
type Application interface {
	SetLogOptions(opts app.LogOptions)
	Detect(ctx context.Context, appDir string, out io.Writer) error
	Compile(ctx context.Context, opts app.CompileOptions) error
	Release(out io.Writer) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "elixirpack",
		Short:         "Build Elixir applications on Heroku-style platforms",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			c.app.SetLogOptions(c.logOpts)
		},
	}

	// Registered before the default version flag so -v stays verbose.
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&c.logOpts.Verbose, "verbose", "v", false, "Stream the output of every command")
	flags.BoolVarP(&c.logOpts.Quiet, "quiet", "q", false, "Only show step headlines, warnings and errors")
	flags.BoolVar(&c.logOpts.JSON, "json-logs", false, "Write logs as JSON")

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c.rootCmd = rootCmd
	rootCmd.AddCommand(c.newDetectCmd())
	rootCmd.AddCommand(c.newCompileCmd())
	rootCmd.AddCommand(c.newReleaseCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
