package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"tudu/internal/config"
	"tudu/internal/exitcode"
	"tudu/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command. Deletion is permanent, so it asks for
// confirmation unless --force is given.
type RmCmd struct {
	force bool
	input io.Reader // stdin unless overridden for tests
}

// SetInput overrides the confirmation input source (for testing).
func (c *RmCmd) SetInput(r io.Reader) { c.input = r }

// SetForce sets the force flag (for testing).
func (c *RmCmd) SetForce(force bool) { c.force = force }

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "tudu rm [common flags] [--force] <n>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	sess, task, code := resolveTask(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if !c.force && !c.confirm(task, out) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "aborted")
		}
		return exitcode.UserError
	}

	if err := svc.DeleteTodo(ctx, task.ID, sess.UserID); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// confirm asks for explicit confirmation. Anything but y/yes declines.
func (c *RmCmd) confirm(task service.Task, out io.Writer) bool {
	in := c.input
	if in == nil {
		in = os.Stdin
	}
	fmt.Fprintf(out, "delete %q? [y/N] ", task.Title)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
