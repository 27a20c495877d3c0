package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/supabase-community/gotrue-go/types"
	"golang.org/x/oauth2"

	"tudu/internal/service"
)

// storedSession is the on-disk shape of session.json.
type storedSession struct {
	Token  oauth2.Token `json:"token"`
	UserID string       `json:"user_id"`
	Email  string       `json:"email"`
}

// Session returns the current session, or nil when not signed in.
// An expired token is refreshed through the provider first; a session the
// provider refuses to refresh is discarded as ended.
func (c *Client) Session(ctx context.Context) (*service.Session, error) {
	c.mu.Lock()
	c.loadLocked()
	sess := c.session
	c.mu.Unlock()

	if sess == nil {
		return nil, nil
	}
	if sess.Token.Valid() {
		out := *sess
		return &out, nil
	}
	if sess.Token.RefreshToken == "" {
		c.clearSession()
		return nil, nil
	}

	resp, err := c.auth.Token(types.TokenRequest{
		GrantType:    "refresh_token",
		RefreshToken: sess.Token.RefreshToken,
	})
	if err != nil {
		if isTransportError(err) {
			return nil, err
		}
		// Refresh token rejected: the session is over.
		c.clearSession()
		return nil, nil
	}
	return c.adoptSession(resp.Session)
}

// OnSessionChange registers fn for session-change events. The returned
// function deregisters it; calling it more than once is harmless.
func (c *Client) OnSessionChange(fn func(*service.Session)) service.Unsubscribe {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// SignInWithPassword authenticates with the password grant.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) error {
	resp, err := c.auth.Token(types.TokenRequest{
		GrantType: "password",
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return err
	}
	_, err = c.adoptSession(resp.Session)
	return err
}

// SignUp registers a new account. The provider sends a confirmation email;
// no session exists until the account is confirmed and signed in.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	_, err := c.auth.Signup(types.SignupRequest{Email: email, Password: password})
	return err
}

// SignInWithMagicLink asks the provider to email a one-time sign-in link.
func (c *Client) SignInWithMagicLink(ctx context.Context, email string) error {
	return c.auth.OTP(types.OTPRequest{Email: email, CreateUser: true})
}

// SignOut revokes the session with the provider and discards it locally.
// The local session is cleared even when the revoke call fails; the
// provider owns token expiry.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.loadLocked()
	sess := c.session
	c.mu.Unlock()

	var revokeErr error
	if sess != nil && sess.Token.AccessToken != "" {
		revokeErr = c.auth.WithToken(sess.Token.AccessToken).Logout()
	}
	c.clearSession()
	return revokeErr
}

// accessToken returns a valid access token for record store calls.
func (c *Client) accessToken(ctx context.Context) (string, string, error) {
	sess, err := c.Session(ctx)
	if err != nil {
		return "", "", err
	}
	if sess == nil {
		return "", "", fmt.Errorf("not logged in (run: tudu login)")
	}
	return sess.Token.AccessToken, sess.UserID, nil
}

// adoptSession converts a provider session into the active one,
// persists it, and notifies listeners.
func (c *Client) adoptSession(s types.Session) (*service.Session, error) {
	sess := &service.Session{
		Token: oauth2.Token{
			AccessToken:  s.AccessToken,
			TokenType:    s.TokenType,
			RefreshToken: s.RefreshToken,
			Expiry:       time.Now().Add(time.Duration(s.ExpiresIn) * time.Second),
		},
		UserID: s.User.ID.String(),
		Email:  s.User.Email,
	}

	c.mu.Lock()
	c.session = sess
	c.loaded = true
	c.mu.Unlock()

	if err := c.saveSession(sess); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	c.notify(sess)

	out := *sess
	return &out, nil
}

// loadLocked reads session.json once. Caller holds c.mu.
func (c *Client) loadLocked() {
	if c.loaded {
		return
	}
	c.loaded = true

	data, err := os.ReadFile(c.cfg.SessionPath())
	if err != nil {
		return
	}
	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return
	}
	c.session = &service.Session{Token: stored.Token, UserID: stored.UserID, Email: stored.Email}
}

// saveSession writes session.json with mode 0600.
func (c *Client) saveSession(sess *service.Session) error {
	if err := c.cfg.EnsureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(storedSession{Token: sess.Token, UserID: sess.UserID, Email: sess.Email}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.cfg.SessionPath(), data, 0600)
}

// clearSession drops the in-memory and on-disk session and notifies
// listeners that the session ended.
func (c *Client) clearSession() {
	c.mu.Lock()
	had := c.session != nil
	c.session = nil
	c.loaded = true
	c.mu.Unlock()

	os.Remove(c.cfg.SessionPath())
	if had {
		c.notify(nil)
	}
}

// notify calls every registered listener outside the lock.
func (c *Client) notify(sess *service.Session) {
	c.mu.Lock()
	fns := make([]func(*service.Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		var copySess *service.Session
		if sess != nil {
			s := *sess
			copySess = &s
		}
		fn(copySess)
	}
}
