package transport_test

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dantte-lp/goeventstore/internal/builder"
	"github.com/dantte-lp/goeventstore/internal/frame"
	"github.com/dantte-lp/goeventstore/internal/rawmsg"
	"github.com/dantte-lp/goeventstore/internal/transport"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// listenOnce starts a TCP listener that accepts exactly one connection and
// hands it to handle in a new goroutine.
func listenOnce(t *testing.T, handle func(net.Conn)) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		handle(conn)
	}()

	return ln.Addr().String()
}

func TestSendReceivesPong(t *testing.T) {
	t.Parallel()

	addr := listenOnce(t, func(conn net.Conn) {
		defer conn.Close()
		buf := make([]byte, 4096)
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		f, _, err := frame.Decode(buf[:n])
		if err != nil || f == nil {
			return
		}
		reply := frame.Frame{
			CorrelationID: f.CorrelationID,
			Message:       rawmsg.Message{Kind: rawmsg.KindPong},
		}
		conn.Write(frame.Encode(nil, reply))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := transport.Dial(ctx, transport.Config{Addr: addr, DialTimeout: time.Second}, nil, discardLogger())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	msg, err := conn.Send(ctx, builder.Ping())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.Kind != rawmsg.KindPong {
		t.Fatalf("Kind = %v, want KindPong", msg.Kind)
	}
}

func TestSendAutoRepliesToHeartbeat(t *testing.T) {
	t.Parallel()

	received := make(chan []byte, 2)
	addr := listenOnce(t, func(conn net.Conn) {
		defer conn.Close()

		hb := frame.Frame{
			CorrelationID: uuid.New(),
			Message:       rawmsg.Message{Kind: rawmsg.KindHeartbeatRequest},
		}
		conn.Write(frame.Encode(nil, hb))

		buf := make([]byte, 4096)
		for i := 0; i < 2; i++ {
			n, err := conn.Read(buf)
			if err != nil {
				return
			}
			got := make([]byte, n)
			copy(got, buf[:n])
			received <- got

			f, _, err := frame.Decode(got)
			if err == nil && f != nil && f.Message.Kind == rawmsg.KindPing {
				reply := frame.Frame{
					CorrelationID: f.CorrelationID,
					Message:       rawmsg.Message{Kind: rawmsg.KindPong},
				}
				conn.Write(frame.Encode(nil, reply))
			}
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := transport.Dial(ctx, transport.Config{Addr: addr, DialTimeout: time.Second}, nil, discardLogger())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	heartbeatReply := <-received
	hf, _, err := frame.Decode(heartbeatReply)
	if err != nil || hf == nil {
		t.Fatalf("decode heartbeat reply: %v", err)
	}
	if hf.Message.Kind != rawmsg.KindHeartbeatResponse {
		t.Fatalf("Kind = %v, want KindHeartbeatResponse", hf.Message.Kind)
	}

	if _, err := conn.Send(ctx, builder.Ping()); err != nil {
		t.Fatalf("Send after heartbeat: %v", err)
	}
}

func TestCloseFailsPendingSend(t *testing.T) {
	t.Parallel()

	addr := listenOnce(t, func(conn net.Conn) {
		// Accept but never reply; hold the connection open until the test
		// closes it.
		buf := make([]byte, 4096)
		conn.Read(buf)
		<-make(chan struct{})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := transport.Dial(ctx, transport.Config{Addr: addr, DialTimeout: time.Second}, nil, discardLogger())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := conn.Send(context.Background(), builder.Ping())
		errCh <- err
	}()

	time.Sleep(50 * time.Millisecond)
	conn.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, transport.ErrConnectionClosed) {
			t.Fatalf("Send error = %v, want ErrConnectionClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Send did not return after Close")
	}
}
