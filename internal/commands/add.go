package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"tudu/internal/config"
	"tudu/internal/exitcode"
	"tudu/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	desc     string
	category string
	due      string
	priority string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "tudu add [common flags] [--desc <text>] [--category <c>] [--due <yyyy-mm-dd>] [--priority high|medium|low] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.category, "category", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.priority, "priority", string(service.DefaultPriority), "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// Title is mandatory, non-empty after trimming.
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	priority := service.Priority(c.priority)
	if !priority.Known() {
		fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
		return exitcode.UserError
	}

	var due *time.Time
	if c.due != "" {
		d, err := time.Parse("2006-01-02", c.due)
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid due date: %s (want yyyy-mm-dd)\n", c.due)
			return exitcode.UserError
		}
		due = &d
	}

	sess, code := requireSession(ctx, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	draft := service.Draft{
		Title:       title,
		Description: c.desc,
		Category:    c.category,
		DueDate:     due,
		Priority:    priority,
	}
	if err := svc.InsertTodo(ctx, sess.UserID, draft); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
