package client

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeConn(t *testing.T, opts ...ConnOption) (*Conn, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		_ = server.Close()
		_ = client.Close()
	})
	return NewConn(client, opts...), server
}

func TestConnReadWrite(t *testing.T) {
	conn, server := pipeConn(t)
	ctx := context.Background()

	go func() {
		_, _ = server.Write([]byte("WELCOME g1 0 tok\r\nHAND 0:Tempura\n"))
	}()

	line, err := conn.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "WELCOME g1 0 tok", line)

	line, err = conn.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "HAND 0:Tempura", line)

	received := make(chan string, 1)
	go func() {
		l, _ := bufio.NewReader(server).ReadString('\n')
		received <- l
	}()
	require.NoError(t, conn.WriteLine(ctx, "PLAY 0"))
	assert.Equal(t, "PLAY 0\n", <-received)
}

func TestConnTimeout(t *testing.T) {
	conn, server := pipeConn(t, WithTimeout(20*time.Millisecond))

	_, err := conn.ReadLine(context.Background())
	require.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrConnectionClosed)

	// A timeout leaves the connection usable, including any partial line.
	go func() {
		_, _ = server.Write([]byte("OK\n"))
	}()
	line, err := conn.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OK", line)
}

func TestConnDeadlineIsWallClock(t *testing.T) {
	conn, server := pipeConn(t, WithTimeout(2*time.Second))

	before := time.Now()
	deadline := conn.deadline()
	assert.False(t, deadline.Before(before.Add(2*time.Second)))
	assert.WithinDuration(t, before.Add(2*time.Second), deadline, time.Second)

	go func() {
		time.Sleep(50 * time.Millisecond)
		_, _ = server.Write([]byte("OK slow\n"))
	}()
	line, err := conn.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OK slow", line)

	assert.True(t, NewConn(server, WithTimeout(0)).deadline().IsZero())
}

func TestConnPartialLineSurvivesTimeout(t *testing.T) {
	conn, server := pipeConn(t, WithTimeout(50*time.Millisecond))

	wrote := make(chan struct{})
	go func() {
		_, _ = server.Write([]byte("GAME_ST"))
		close(wrote)
	}()
	_, err := conn.ReadLine(context.Background())
	require.ErrorIs(t, err, ErrTimeout)
	<-wrote

	go func() {
		_, _ = server.Write([]byte("ART 2 300\n"))
	}()
	line, err := conn.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GAME_START 2 300", line)
}

func TestConnClosedByPeer(t *testing.T) {
	conn, server := pipeConn(t)
	require.NoError(t, server.Close())

	_, err := conn.ReadLine(context.Background())
	require.ErrorIs(t, err, ErrConnectionClosed)
	assert.NotErrorIs(t, err, ErrTimeout)

	err = conn.WriteLine(context.Background(), "READY")
	require.ErrorIs(t, err, ErrConnectionClosed)
}

func TestConnCancelled(t *testing.T) {
	conn, _ := pipeConn(t, WithTimeout(0))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := conn.ReadLine(ctx)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrCancelled)
	case <-time.After(time.Second):
		t.Fatal("read was not interrupted")
	}

	// The connection was released; closing again is harmless.
	assert.NoError(t, conn.Close())
	_, err := conn.ReadLine(context.Background())
	assert.ErrorIs(t, err, ErrConnectionClosed)
}

func TestConnCancelledBeforeRead(t *testing.T) {
	conn, _ := pipeConn(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conn.ReadLine(ctx)
	require.ErrorIs(t, err, ErrCancelled)
	err = conn.WriteLine(context.Background(), "READY")
	assert.ErrorIs(t, err, ErrConnectionClosed)
}

func TestSessionOverPipe(t *testing.T) {
	conn, server := pipeConn(t, WithTimeout(time.Second))

	serverErr := make(chan error, 1)
	go func() {
		r := bufio.NewReader(server)
		expect := func(want string) bool {
			got, err := r.ReadString('\n')
			if err != nil {
				serverErr <- err
				return false
			}
			return assert.Equal(t, want+"\n", got)
		}
		send := func(line string) {
			_, _ = server.Write([]byte(line + "\n"))
		}

		if !expect("JOIN g1 Alice") {
			return
		}
		send("WELCOME g1 0 tok")
		if !expect("READY") {
			return
		}
		send("OK")
		send("GAME_START 2 300")
		send("HAND 0:Egg Nigiri 1:Squid Nigiri")
		if !expect("PLAY 1") {
			return
		}
		send(`GAME_END {"Alice":3,"Bob":0} WINNER:Alice`)
		serverErr <- nil
	}()

	state, err := NewSession(conn, bestNigiri).RunGame(context.Background(), "g1", "Alice")
	require.NoError(t, err)
	require.NoError(t, <-serverErr)
	assert.True(t, state.Won())
}
