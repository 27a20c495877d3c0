package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"tudu/internal/config"
	"tudu/internal/exitcode"
	"tudu/internal/service"
	"tudu/internal/view"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It flips the completed flag: a
// completed task becomes pending again. Running it twice restores the
// original state.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Flip a task's completion" }
func (c *DoneCmd) Usage() string     { return "tudu done [common flags] <n>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	sess, task, code := resolveTask(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := svc.ToggleTodo(ctx, task.ID, sess.UserID, task.Completed); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// resolveTask parses a 1-based task number from args and resolves it
// against the same default ordering the list command prints, so that
// "done N" and "rm N" act on the task shown as N.
func resolveTask(ctx context.Context, svc service.Service, args []string, errOut io.Writer) (*service.Session, service.Task, int) {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: task number required")
		return nil, service.Task{}, exitcode.UserError
	}
	num, err := strconv.Atoi(args[0])
	if err != nil || num < 1 {
		fmt.Fprintf(errOut, "error: invalid task number: %s\n", args[0])
		return nil, service.Task{}, exitcode.UserError
	}

	sess, code := requireSession(ctx, svc, errOut)
	if code != exitcode.Success {
		return nil, service.Task{}, code
	}

	tasks, err := svc.ListTodos(ctx, sess.UserID)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return nil, service.Task{}, exitcode.BackendError
	}
	shown := view.Apply(tasks, view.Options{
		Category: view.CategoryAll,
		Status:   view.StatusAll,
		Sort:     view.SortDueDate,
	})
	if num > len(shown) {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", num)
		return nil, service.Task{}, exitcode.UserError
	}
	return sess, shown[num-1], exitcode.Success
}
