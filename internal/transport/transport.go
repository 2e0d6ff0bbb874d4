// Package transport owns the single TCP connection to an EventStore node
// and the request/response multiplexing on top of it. Every outbound
// message carries a correlation id (internal/builder.Package defaults one
// when the caller doesn't supply it); the background read loop demuxes
// inbound frames back to their waiting caller purely by that id, the same
// scheme original_source/src/client.rs delegates to tokio-proto's
// RequestIdSource/ClientService pair. Go has no direct equivalent of that
// multiplexed-protocol runtime, so it is rebuilt here as a goroutine plus a
// mutex-guarded map of correlation id to awaiter channel, in the style of
// internal/bfd.Manager's session maps and select-loop run goroutine.
package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dantte-lp/goeventstore/internal/adapted"
	"github.com/dantte-lp/goeventstore/internal/builder"
	"github.com/dantte-lp/goeventstore/internal/credential"
	"github.com/dantte-lp/goeventstore/internal/esmetrics"
	"github.com/dantte-lp/goeventstore/internal/frame"
	"github.com/dantte-lp/goeventstore/internal/rawmsg"
)

// -------------------------------------------------------------------------
// Errors
// -------------------------------------------------------------------------

var (
	// ErrConnectionClosed is returned to every pending caller, and to any
	// new Send call, once the connection has been closed or has dropped.
	ErrConnectionClosed = errors.New("transport: connection closed")

	// ErrAlreadyPending is returned if Package ever mints a correlation id
	// that collides with one already awaiting a reply. uuid.New() makes
	// this practically unreachable; it exists so a collision fails loudly
	// instead of silently stealing another caller's response.
	ErrAlreadyPending = errors.New("transport: correlation id already pending")

	// ErrBadRequest is returned when the server replies with the
	// protocol-level BadRequest message instead of the expected reply.
	ErrBadRequest = errors.New("transport: server returned BadRequest")

	// ErrNotAuthenticated is returned when the server rejects the
	// connection's credentials.
	ErrNotAuthenticated = errors.New("transport: server returned NotAuthenticated")
)

const readBufferSize = 64 * 1024

// Config carries everything a Connection needs to dial and operate.
// esconfig.ConnectionConfig values map onto this one field-for-field.
type Config struct {
	Addr              string
	Username          string
	Password          string
	DialTimeout       time.Duration
	WriteTimeout      time.Duration
	PendingBufferSize int
}

// awaiter is the per-in-flight-request channel the read loop delivers a
// reply (or a terminal error) to.
type awaiter chan replyOrErr

type replyOrErr struct {
	msg adapted.Message
	err error
}

// Connection is a single multiplexed TCP connection to an EventStore node.
// One background goroutine owns the socket read side; writes are
// serialized by writeMu. Safe for concurrent use by multiple callers.
type Connection struct {
	addr string
	conn net.Conn

	auth *credential.UsernamePassword

	writeMu      sync.Mutex
	writeTimeout time.Duration

	mu      sync.Mutex
	pending map[uuid.UUID]awaiter
	closed  bool
	closeErr error

	metrics *esmetrics.Collector
	logger  *slog.Logger

	readDone chan struct{}
}

// Dial opens a TCP connection to cfg.Addr and starts the background read
// loop. If cfg.Username is non-empty, an optional credential pair is
// attached to every outgoing frame (the server decides per-message whether
// to honor it, matching the wire protocol's per-frame auth section).
func Dial(ctx context.Context, cfg Config, metrics *esmetrics.Collector, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "transport"), slog.String("addr", cfg.Addr))

	dialer := &net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", cfg.Addr, err)
	}

	var auth *credential.UsernamePassword
	if cfg.Username != "" {
		up, err := credential.New(cfg.Username, cfg.Password)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("transport: credentials: %w", err)
		}
		auth = &up
	}

	bufSize := cfg.PendingBufferSize
	if bufSize <= 0 {
		bufSize = 256
	}

	c := &Connection{
		addr:     cfg.Addr,
		conn:     conn,
		auth:     auth,
		writeTimeout: cfg.WriteTimeout,
		pending:  make(map[uuid.UUID]awaiter, bufSize),
		metrics:  metrics,
		logger:   logger,
		readDone: make(chan struct{}),
	}

	go c.readLoop()

	logger.Info("connection established")
	return c, nil
}

// Addr returns the remote address this connection was dialed to.
func (c *Connection) Addr() string { return c.addr }

// Close closes the underlying socket and fails every pending request with
// ErrConnectionClosed. It blocks until the read loop has exited.
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.closeErr = ErrConnectionClosed
	c.mu.Unlock()

	err := c.conn.Close()
	<-c.readDone
	return err
}

// Send writes msg wrapped in a fresh-correlation-id frame and blocks until
// either a reply with the same correlation id arrives, ctx is cancelled, or
// the connection is closed.
func (c *Connection) Send(ctx context.Context, msg rawmsg.Message) (adapted.Message, error) {
	f := builder.Package(c.auth, nil, msg)
	return c.send(ctx, f)
}

func (c *Connection) send(ctx context.Context, f frame.Frame) (adapted.Message, error) {
	ch := make(awaiter, 1)

	c.mu.Lock()
	if c.closed {
		err := c.closeErr
		c.mu.Unlock()
		return adapted.Message{}, err
	}
	if _, exists := c.pending[f.CorrelationID]; exists {
		c.mu.Unlock()
		return adapted.Message{}, fmt.Errorf("%w: %s", ErrAlreadyPending, f.CorrelationID)
	}
	c.pending[f.CorrelationID] = ch
	pendingCount := len(c.pending)
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.SetPendingCorrelations(c.addr, pendingCount)
	}

	if err := c.writeFrame(f); err != nil {
		c.removePending(f.CorrelationID)
		return adapted.Message{}, err
	}

	select {
	case r := <-ch:
		return r.msg, r.err
	case <-ctx.Done():
		c.removePending(f.CorrelationID)
		return adapted.Message{}, ctx.Err()
	}
}

func (c *Connection) removePending(id uuid.UUID) {
	c.mu.Lock()
	delete(c.pending, id)
	n := len(c.pending)
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.SetPendingCorrelations(c.addr, n)
	}
}

// writeFrame serializes and writes f under the write lock, applying the
// connection's write deadline.
func (c *Connection) writeFrame(f frame.Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	buf := frame.Encode(nil, f)

	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return fmt.Errorf("transport: set write deadline: %w", err)
		}
	}
	if _, err := c.conn.Write(buf); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	if c.metrics != nil {
		c.metrics.IncFramesSent(c.addr)
	}
	return nil
}

// -------------------------------------------------------------------------
// Read loop
// -------------------------------------------------------------------------

// readLoop owns the socket's read side for the connection's lifetime. It
// accumulates bytes into buf, calls frame.Decode repeatedly (the
// incremental decode contract: nil frame means "need more bytes"), and
// dispatches each decoded frame either to the matching pending awaiter or,
// for an inbound HeartbeatRequest, replies immediately with
// HeartbeatResponse using the same correlation id.
func (c *Connection) readLoop() {
	defer close(c.readDone)

	r := bufio.NewReaderSize(c.conn, readBufferSize)
	buf := make([]byte, 0, readBufferSize)
	chunk := make([]byte, readBufferSize)

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			buf = c.drainFrames(buf)
		}
		if err != nil {
			c.failAll(readErr(err))
			return
		}
	}
}

func readErr(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrConnectionClosed, err)
	}
	return fmt.Errorf("%w: read: %w", ErrConnectionClosed, err)
}

// drainFrames decodes as many complete frames as buf holds, dispatches
// each, and returns the unconsumed remainder.
func (c *Connection) drainFrames(buf []byte) []byte {
	for {
		f, consumed, err := frame.Decode(buf)
		if err != nil {
			c.logger.Warn("frame decode error, dropping connection", slog.Any("error", err))
			if c.metrics != nil {
				c.metrics.IncDecodeErrors(c.addr, "frame")
			}
			c.conn.Close()
			return nil
		}
		if f == nil {
			return buf
		}
		if c.metrics != nil {
			c.metrics.IncFramesReceived(c.addr)
		}
		c.dispatch(*f)
		buf = buf[consumed:]
		if len(buf) == 0 {
			return buf[:0]
		}
	}
}

// dispatch routes a decoded frame to its awaiter, or auto-replies to a
// server heartbeat.
func (c *Connection) dispatch(f frame.Frame) {
	if f.Message.Kind == rawmsg.KindHeartbeatRequest {
		c.replyHeartbeat(f.CorrelationID)
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[f.CorrelationID]
	if ok {
		delete(c.pending, f.CorrelationID)
	}
	n := len(c.pending)
	c.mu.Unlock()

	if !ok {
		c.logger.Debug("reply with no matching awaiter", slog.String("correlation_id", f.CorrelationID.String()))
		return
	}
	if c.metrics != nil {
		c.metrics.SetPendingCorrelations(c.addr, n)
	}

	msg, err := adaptReply(f.Message)
	ch <- replyOrErr{msg: msg, err: err}
}

// adaptReply turns a raw reply into an adapted.Message, surfacing the
// protocol-level BadRequest/NotAuthenticated kinds as sentinel errors
// rather than forcing every caller to switch on Kind themselves. NotHandled
// is not a sentinel: it is adapted like any other reply and returned as a
// Message with its NotHandled info set.
func adaptReply(raw rawmsg.Message) (adapted.Message, error) {
	switch raw.Kind {
	case rawmsg.KindBadRequest:
		return adapted.Message{}, ErrBadRequest
	case rawmsg.KindNotAuthenticated:
		return adapted.Message{}, ErrNotAuthenticated
	}

	msg, err := adapted.TryAdapt(raw)
	if err != nil {
		return adapted.Message{}, err
	}
	return msg, nil
}

func (c *Connection) replyHeartbeat(correlationID uuid.UUID) {
	id := correlationID
	f := builder.Package(c.auth, &id, builder.HeartbeatResponse())
	if err := c.writeFrame(f); err != nil {
		c.logger.Warn("failed to reply to heartbeat", slog.Any("error", err))
	}
}

// failAll delivers err to every pending awaiter and marks the connection
// closed, so any Send racing the read loop's exit observes the same
// terminal error instead of blocking forever.
func (c *Connection) failAll(err error) {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		c.closeErr = err
	}
	pending := c.pending
	c.pending = make(map[uuid.UUID]awaiter)
	c.mu.Unlock()

	for _, ch := range pending {
		ch <- replyOrErr{err: c.closeErr}
	}

	if c.metrics != nil {
		c.metrics.SetPendingCorrelations(c.addr, 0)
	}
	c.logger.Info("connection read loop stopped", slog.Any("error", err))
}
