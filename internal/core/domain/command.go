package domain

import (
	"fmt"
	"strings"
)

// Command describes an external program invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env replaces the process environment when it has any variables.
	Env Environment
	// Quiet keeps the output out of the log. It is still captured.
	Quiet bool
}

// ShellCommand runs line through sh -c.
func ShellCommand(line, dir string, env Environment) Command {
	return Command{
		Name: "sh",
		Args: []string{"-c", line},
		Dir:  dir,
		Env:  env,
	}
}

// String renders the command line for diagnostics.
func (c Command) String() string {
	if c.Name == "sh" && len(c.Args) == 2 && c.Args[0] == "-c" {
		return c.Args[1]
	}
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// CommandResult is the outcome of a finished command.
type CommandResult struct {
	// Output is the combined stdout and stderr in the order it was written.
	Output   []byte
	ExitCode int
}

// CommandFailure is returned when a command cannot be started or exits non-zero.
type CommandFailure struct {
	Command  string
	ExitCode int
	Output   []byte
	Cause    error
}

// Error implements the error interface.
func (f *CommandFailure) Error() string {
	if f.ExitCode < 0 {
		return fmt.Sprintf("%s: %q could not be run", ErrCommandFailed.Error(), f.Command)
	}
	return fmt.Sprintf("%s: %q exited with status %d", ErrCommandFailed.Error(), f.Command, f.ExitCode)
}

// Unwrap exposes both the failure category and the underlying cause.
func (f *CommandFailure) Unwrap() []error {
	if f.Cause == nil {
		return []error{ErrCommandFailed}
	}
	return []error{ErrCommandFailed, f.Cause}
}
