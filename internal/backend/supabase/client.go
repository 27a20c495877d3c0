// Package supabase implements service.Service against a Supabase-style
// backend: a GoTrue identity API under /auth/v1 and a PostgREST record
// store under /rest/v1. The wire protocol is spoken by the community
// GoTrue and PostgREST clients; this package owns session persistence
// and change notification.
package supabase

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/postgrest-go"

	"tudu/internal/config"
	"tudu/internal/service"
)

// Collection is the record store table holding tasks.
const Collection = "todos"

// Client implements service.Service against a Supabase-style backend.
type Client struct {
	auth    gotrue.Client
	baseURL string
	anonKey string
	cfg     *config.Config

	mu        sync.Mutex
	session   *service.Session
	loaded    bool
	nextSubID int
	listeners map[int]func(*service.Session)
}

// New creates a client for the backend configured in cfg.
func New(cfg *config.Config) (*Client, error) {
	if !cfg.HasBackend() {
		return nil, fmt.Errorf("backend not configured (set url and anon_key in %s, or TUDU_URL and TUDU_ANON_KEY)", config.ConfigFile)
	}
	base := strings.TrimRight(cfg.Backend.URL, "/")
	return &Client{
		auth:      gotrue.New(config.AppName, cfg.Backend.AnonKey).WithCustomGoTrueURL(base + "/auth/v1"),
		baseURL:   base,
		anonKey:   cfg.Backend.AnonKey,
		cfg:       cfg,
		listeners: make(map[int]func(*service.Session)),
	}, nil
}

// rest returns a record store client authorized as the session's user.
// The anon key identifies the project; the bearer token carries the user.
func (c *Client) rest(token string) *postgrest.Client {
	return postgrest.NewClient(c.baseURL+"/rest/v1", "public", map[string]string{
		"apikey":        c.anonKey,
		"Authorization": "Bearer " + token,
	})
}

// isTransportError distinguishes network failures from responses the
// provider itself produced.
func isTransportError(err error) bool {
	var ue *url.Error
	return errors.As(err, &ue)
}
