package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tudu/internal/config"
	"tudu/internal/exitcode"
	"tudu/internal/output"
	"tudu/internal/service"
	"tudu/internal/view"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command: fetch the owner's tasks and print
// the derived view.
type ListCmd struct {
	category   string
	status     string
	search     string
	sortBy     string
	categories bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "tudu list [common flags] [--category <c>] [--status all|pending|completed] [--search <text>] [--sort due_date|priority]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.category, "category", view.CategoryAll, "")
	fs.StringVar(&c.status, "status", string(view.StatusAll), "")
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.sortBy, "sort", string(view.SortDueDate), "")
	fs.BoolVar(&c.categories, "categories", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	opts, code := c.options(errOut)
	if code != exitcode.Success {
		return code
	}

	sess, code := requireSession(ctx, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	tasks, err := svc.ListTodos(ctx, sess.UserID)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if c.categories {
		output.FormatCategories(out, view.Categories(tasks))
		return exitcode.Success
	}

	shown := view.Apply(tasks, opts)
	if len(shown) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no todos found")
		}
		return exitcode.Success
	}

	for i, task := range shown {
		output.FormatTask(out, i+1, task)
	}
	return exitcode.Success
}

// options validates the filter flags into view options.
func (c *ListCmd) options(errOut io.Writer) (view.Options, int) {
	status := view.Status(c.status)
	switch status {
	case view.StatusAll, view.StatusPending, view.StatusCompleted:
	default:
		fmt.Fprintf(errOut, "error: invalid status: %s\n", c.status)
		return view.Options{}, exitcode.UserError
	}

	sortBy := view.Sort(c.sortBy)
	switch sortBy {
	case view.SortDueDate, view.SortPriority:
	default:
		fmt.Fprintf(errOut, "error: invalid sort: %s\n", c.sortBy)
		return view.Options{}, exitcode.UserError
	}

	return view.Options{
		Category: c.category,
		Status:   status,
		Query:    c.search,
		Sort:     sortBy,
	}, exitcode.Success
}
