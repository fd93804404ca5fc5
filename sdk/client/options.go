package client

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithClock sets the clock used to time decisions.
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithHooks installs lifecycle callbacks.
func WithHooks(hooks Hooks) Option {
	return func(s *Session) {
		s.hooks = hooks
		s.hooksSet = true
	}
}

// ConnOption configures a Conn.
type ConnOption func(*Conn)

// WithTimeout sets the per-operation deadline. Zero disables it.
func WithTimeout(d time.Duration) ConnOption {
	return func(c *Conn) {
		c.timeout = d
	}
}
