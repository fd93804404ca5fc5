// Package spectate subscribes to the server's live event stream for a game
// or a tournament.
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// ErrStop may be returned from a Handler to end Watch without an error.
var ErrStop = errors.New("stop watching")

// Kind selects which stream to watch.
type Kind int

const (
	Game Kind = iota
	Tournament
)

func (k Kind) String() string {
	if k == Tournament {
		return "tournament"
	}
	return "game"
}

// Target identifies a stream.
type Target struct {
	Kind Kind
	ID   string
}

// Path returns the unescaped websocket path for the target.
func (t Target) Path() string {
	if t.Kind == Tournament {
		return "/ws/tournaments/" + t.ID
	}
	return "/ws/games/" + t.ID
}

// Event is one decoded frame. Type is taken from the "type" (or "event")
// field when present.
type Event struct {
	Type string
	Data map[string]any
	Raw  json.RawMessage
}

// Handler receives events in arrival order.
type Handler func(Event) error

// Watch streams events for target until ctx ends, the server closes the
// stream, or fn returns an error. baseURL may use http(s) or ws(s).
func Watch(ctx context.Context, baseURL string, target Target, fn Handler) error {
	u, err := streamURL(baseURL, target)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		event, err := decode(data)
		if err != nil {
			return err
		}
		if err := fn(event); err != nil {
			if errors.Is(err, ErrStop) {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}
			return err
		}
	}
}

func decode(data []byte) (Event, error) {
	event := Event{Raw: json.RawMessage(data)}
	if err := json.Unmarshal(data, &event.Data); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	for _, key := range []string{"type", "event"} {
		if s, ok := event.Data[key].(string); ok {
			event.Type = s
			break
		}
	}
	return event, nil
}

func streamURL(baseURL string, target Target) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL: unsupported scheme %q", u.Scheme)
	}
	u.Path += target.Path()
	return u.String(), nil
}
