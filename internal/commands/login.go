package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tudu/internal/config"
	"tudu/internal/exitcode"
	"tudu/internal/service"
	"tudu/internal/validate"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command: password sign-in against the
// identity provider.
type LoginCmd struct {
	email    string
	password string
	input    io.Reader // stdin unless overridden for tests
}

// SetInput overrides the prompt input source (for testing).
func (c *LoginCmd) SetInput(r io.Reader) { c.input = r }

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in with email and password" }
func (c *LoginCmd) Usage() string     { return "tudu login [common flags] [--email <email>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if svc == nil {
		fmt.Fprintf(errOut, "error: backend not configured (create %s/%s or set TUDU_URL and TUDU_ANON_KEY)\n", cfg.Dir, config.ConfigFile)
		return exitcode.AuthError
	}

	// Already signed in?
	if sess, err := svc.Session(ctx); err == nil && sess != nil {
		if !cfg.Quiet {
			fmt.Fprintf(out, "already logged in as %s\n", sess.Email)
		}
		return exitcode.Success
	}

	email, password, code := promptCredentials(c.input, c.email, c.password, out, errOut)
	if code != exitcode.Success {
		return code
	}

	// Local validation, before any network call.
	if !validate.Email(email) {
		fmt.Fprintln(errOut, "error: please enter a valid email")
		return exitcode.UserError
	}
	if !validate.Password(password) {
		fmt.Fprintf(errOut, "error: password must be at least %d characters\n", validate.MinPasswordLen)
		return exitcode.UserError
	}

	if err := svc.SignInWithPassword(ctx, email, password); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
