// Package admin is a client for the server's HTTP API, used to create and
// inspect games and tournaments.
package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lox/sushiforbots/protocol"
)

// HTTPError is returned for any response with a status of 400 or above.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// TournamentInfo summarises a tournament.
type TournamentInfo struct {
	ID          string `json:"id"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	MatchSize   int    `json:"match_size"`
	Status      string `json:"status"`
}

// Client talks to the admin API rooted at a base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New returns a client for baseURL, e.g. "http://localhost:7878".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListGames returns every game the server knows about.
func (c *Client) ListGames(ctx context.Context) ([]protocol.GameInfo, error) {
	var games []protocol.GameInfo
	if err := c.list(ctx, "/api/games", "games", &games); err != nil {
		return nil, err
	}
	return games, nil
}

// CreateGame creates a lobby for up to maxPlayers and returns the server's
// response document.
func (c *Client) CreateGame(ctx context.Context, maxPlayers int) (map[string]any, error) {
	var out map[string]any
	body := map[string]int{"max_players": maxPlayers}
	if err := c.do(ctx, http.MethodPost, "/api/games", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetGame returns the server's document for one game.
func (c *Client) GetGame(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/games/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTournaments returns every tournament. A missing match size defaults
// to 2.
func (c *Client) ListTournaments(ctx context.Context) ([]TournamentInfo, error) {
	var tournaments []TournamentInfo
	if err := c.list(ctx, "/api/tournaments", "tournaments", &tournaments); err != nil {
		return nil, err
	}
	for i := range tournaments {
		if tournaments[i].MatchSize == 0 {
			tournaments[i].MatchSize = 2
		}
	}
	return tournaments, nil
}

// CreateTournament creates a tournament for up to maxPlayers playing
// matches of matchSize.
func (c *Client) CreateTournament(ctx context.Context, maxPlayers, matchSize int) (map[string]any, error) {
	var out map[string]any
	body := map[string]int{"max_players": maxPlayers, "match_size": matchSize}
	if err := c.do(ctx, http.MethodPost, "/api/tournaments", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTournament returns the server's document for one tournament.
func (c *Client) GetTournament(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/tournaments/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// list decodes either {"<key>": [...]} or a bare array into out.
func (c *Client) list(ctx context.Context, path, key string, out any) error {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		inner, ok := wrapped[key]
		if !ok {
			return fmt.Errorf("decode %s: missing %q", path, key)
		}
		raw = inner
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &HTTPError{Status: resp.StatusCode, Body: string(data)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
