package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tudu/internal/config"
	"tudu/internal/exitcode"
	"tudu/internal/service"
	"tudu/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd opens the interactive interface. Authentication is handled
// inside: the session gate shows the sign-in flow when no session exists.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Open the interactive interface" }
func (c *UICmd) Usage() string     { return "tudu ui [common flags]" }
func (c *UICmd) NeedsAuth() bool   { return false }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if svc == nil {
		fmt.Fprintf(errOut, "error: backend not configured (create %s/%s or set TUDU_URL and TUDU_ANON_KEY)\n", cfg.Dir, config.ConfigFile)
		return exitcode.AuthError
	}
	if err := tui.Run(ctx, cfg, svc); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
