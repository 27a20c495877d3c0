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

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tudu help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tudu                                               Open the interactive interface
  tudu ui [common flags]                             Open the interactive interface
  tudu list [common flags] [--category <c>] [--status all|pending|completed]
            [--search <text>] [--sort due_date|priority]
  tudu add [common flags] [--desc <text>] [--category <c>] [--due <yyyy-mm-dd>]
           [--priority high|medium|low] <title...>
  tudu done [common flags] <n>                       Flip completion of task n
  tudu rm [common flags] [--force] <n>               Delete task n
  tudu login [common flags] [--email <email>]
  tudu signup [common flags] [--email <email>]
  tudu magiclink [common flags] [--email <email>]
  tudu logout [common flags]
  tudu whoami [common flags]
  tudu help
  tudu version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
