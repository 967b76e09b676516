package commandmanager

import (
	"context"
	"fmt"
	"time"
)

// CommandConfig describes a single process invocation.
type CommandConfig struct {
	Command string
	Args    []string
	Sudo    bool
	Env     []string // KEY=VALUE pairs added to the inherited environment
	Quiet   bool     // capture output without relaying it
}

// Argv returns the full argument vector, including the sudo prefix when
// Sudo is set. sudoFlags are inserted right after "sudo".
func (c CommandConfig) Argv(sudoFlags ...string) []string {
	argv := make([]string, 0, len(c.Args)+len(sudoFlags)+2)
	if c.Sudo {
		argv = append(argv, "sudo")
		argv = append(argv, sudoFlags...)
	}
	argv = append(argv, c.Command)
	return append(argv, c.Args...)
}

// CommandResult encapsulates the results from a command execution.
type CommandResult struct {
	Command   string
	STDOUT    string
	STDERR    string
	ExitCode  int
	Duration  time.Duration
	Timestamp time.Time
}

// CommandManager runs commands, either locally or on a remote host.
type CommandManager interface {
	Run(ctx context.Context, config CommandConfig) (CommandResult, error)
}

// CommandError is returned when a command exits with a non-zero status.
type CommandError struct {
	Command  string
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q exited with code %d", e.Command, e.ExitCode)
}
