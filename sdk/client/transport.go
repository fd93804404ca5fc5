package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"
)

const DefaultTimeout = 30 * time.Second

var (
	// ErrTimeout is returned when a read or write misses its deadline. The
	// connection stays usable.
	ErrTimeout = errors.New("transport timeout")
	// ErrConnectionClosed is returned once the peer has gone away or the
	// connection failed.
	ErrConnectionClosed = errors.New("connection closed")
	// ErrCancelled is returned when the caller's context ends during a
	// blocking operation. The connection is closed.
	ErrCancelled = errors.New("cancelled")
)

// Transport moves single lines to and from the server. Lines never carry
// the trailing newline.
type Transport interface {
	ReadLine(ctx context.Context) (string, error)
	WriteLine(ctx context.Context, line string) error
	Close() error
}

// Conn is a Transport over a stream connection.
type Conn struct {
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration

	// partial holds bytes of a line interrupted by a timeout.
	partial string

	closeOnce sync.Once
	closeErr  error
}

var _ Transport = (*Conn)(nil)

// Dial opens a TCP connection to addr.
func Dial(ctx context.Context, addr string, opts ...ConnOption) (*Conn, error) {
	c := newConn(opts)
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("dial %s: %w", addr, ErrCancelled)
		}
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	c.attach(conn)
	return c, nil
}

// NewConn wraps an established connection.
func NewConn(conn net.Conn, opts ...ConnOption) *Conn {
	c := newConn(opts)
	c.attach(conn)
	return c
}

func newConn(opts []ConnOption) *Conn {
	c := &Conn{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Conn) attach(conn net.Conn) {
	c.conn = conn
	c.reader = bufio.NewReader(conn)
}

// ReadLine blocks until a full line arrives, the deadline passes, or ctx
// ends.
func (c *Conn) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		_ = c.Close()
		return "", ErrCancelled
	}
	if err := c.conn.SetReadDeadline(c.deadline()); err != nil {
		return "", c.mapError(ctx, err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Unix(1, 0))
	})
	defer stop()

	line, err := c.reader.ReadString('\n')
	if err != nil {
		c.partial += line
		return "", c.mapError(ctx, err)
	}
	line = c.partial + line
	c.partial = ""
	return strings.TrimRight(line, "\r\n"), nil
}

// WriteLine sends line followed by a newline.
func (c *Conn) WriteLine(ctx context.Context, line string) error {
	if ctx.Err() != nil {
		_ = c.Close()
		return ErrCancelled
	}
	if err := c.conn.SetWriteDeadline(c.deadline()); err != nil {
		return c.mapError(ctx, err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetWriteDeadline(time.Unix(1, 0))
	})
	defer stop()

	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		return c.mapError(ctx, err)
	}
	return nil
}

// Close releases the connection. Only the first call has any effect.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		if c.conn != nil {
			c.closeErr = c.conn.Close()
		}
	})
	return c.closeErr
}

// RemoteAddr returns the server address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// deadline is wall-clock time; net.Conn deadlines are absolute.
func (c *Conn) deadline() time.Time {
	if c.timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.timeout)
}

func (c *Conn) mapError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		_ = c.Close()
		return ErrCancelled
	}
	var netErr net.Error
	switch {
	case errors.Is(err, os.ErrDeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return ErrTimeout
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed), errors.Is(err, io.ErrClosedPipe):
		return ErrConnectionClosed
	default:
		return fmt.Errorf("%w: %w", ErrConnectionClosed, err)
	}
}
