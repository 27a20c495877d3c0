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
	"tudu/internal/validate"
)

func init() {
	Register(&SignupCmd{})
	Register(&MagicLinkCmd{})
}

// SignupCmd implements the signup command. The account is not active
// until confirmed via the email the provider sends.
type SignupCmd struct {
	email    string
	password string
	input    io.Reader
}

// SetInput overrides the prompt input source (for testing).
func (c *SignupCmd) SetInput(r io.Reader) { c.input = r }

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return nil }
func (c *SignupCmd) Synopsis() string  { return "Create an account" }
func (c *SignupCmd) Usage() string     { return "tudu signup [common flags] [--email <email>]" }
func (c *SignupCmd) NeedsAuth() bool   { return false }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if svc == nil {
		fmt.Fprintln(errOut, "error: backend not configured")
		return exitcode.AuthError
	}

	email, password, code := promptCredentials(c.input, c.email, c.password, out, errOut)
	if code != exitcode.Success {
		return code
	}

	if !validate.Email(email) {
		fmt.Fprintln(errOut, "error: please enter a valid email")
		return exitcode.UserError
	}
	if !validate.Password(password) {
		fmt.Fprintf(errOut, "error: password must be at least %d characters\n", validate.MinPasswordLen)
		return exitcode.UserError
	}

	if err := svc.SignUp(ctx, email, password); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "signup successful, check your email to confirm your account")
	}
	return exitcode.Success
}

// MagicLinkCmd implements the magiclink command: passwordless sign-in via
// a one-time link.
type MagicLinkCmd struct {
	email string
	input io.Reader
}

// SetInput overrides the prompt input source (for testing).
func (c *MagicLinkCmd) SetInput(r io.Reader) { c.input = r }

func (c *MagicLinkCmd) Name() string      { return "magiclink" }
func (c *MagicLinkCmd) Aliases() []string { return nil }
func (c *MagicLinkCmd) Synopsis() string  { return "Request a one-time sign-in link" }
func (c *MagicLinkCmd) Usage() string     { return "tudu magiclink [common flags] [--email <email>]" }
func (c *MagicLinkCmd) NeedsAuth() bool   { return false }

func (c *MagicLinkCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
}

func (c *MagicLinkCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if svc == nil {
		fmt.Fprintln(errOut, "error: backend not configured")
		return exitcode.AuthError
	}

	email := c.email
	if email == "" {
		var code int
		email, code = promptLine(c.input, "email: ", "email required", out, errOut)
		if code != exitcode.Success {
			return code
		}
	}

	if !validate.Email(email) {
		fmt.Fprintln(errOut, "error: please enter a valid email")
		return exitcode.UserError
	}

	if err := svc.SignInWithMagicLink(ctx, email); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "magic link sent, check your email to log in")
	}
	return exitcode.Success
}

// promptCredentials collects email and password, prompting for whichever
// is empty. Prompts share one reader so buffered input is not lost
// between them.
func promptCredentials(in io.Reader, email, password string, out, errOut io.Writer) (string, string, int) {
	if in == nil {
		in = os.Stdin
	}
	reader := bufio.NewReader(in)

	var code int
	if email == "" {
		email, code = readPrompt(reader, "email: ", "email required", out, errOut)
		if code != exitcode.Success {
			return "", "", code
		}
	}
	if password == "" {
		password, code = readPrompt(reader, "password: ", "password required", out, errOut)
		if code != exitcode.Success {
			return "", "", code
		}
	}
	return email, password, exitcode.Success
}

// promptLine prints prompt and reads one trimmed line from in (stdin by
// default).
func promptLine(in io.Reader, prompt, missing string, out, errOut io.Writer) (string, int) {
	if in == nil {
		in = os.Stdin
	}
	return readPrompt(bufio.NewReader(in), prompt, missing, out, errOut)
}

func readPrompt(r *bufio.Reader, prompt, missing string, out, errOut io.Writer) (string, int) {
	fmt.Fprint(out, prompt)
	line, err := r.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		fmt.Fprintf(errOut, "error: %s\n", missing)
		return "", exitcode.UserError
	}
	return line, exitcode.Success
}
