// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tudu/internal/config"
	"tudu/internal/exitcode"
	"tudu/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a signed-in session.
	// Commands like help, version, login, signup return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, backend settings).
	// svc is nil if NeedsAuth() returns false and no backend is configured.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// requireSession resolves the current session for an auth-requiring
// command. Prints the appropriate error and returns a non-zero exit code
// when no session exists.
func requireSession(ctx context.Context, svc service.Service, errOut io.Writer) (*service.Session, int) {
	sess, err := svc.Session(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return nil, exitcode.BackendError
	}
	if sess == nil {
		fmt.Fprintln(errOut, "error: not logged in (run: tudu login)")
		return nil, exitcode.AuthError
	}
	return sess, exitcode.Success
}
