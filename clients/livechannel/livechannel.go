package livechannel

import (
	"context"
	"dashpulse/config"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// State describes the live channel connection lifecycle.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
	// StateDegraded means the channel is down and the fixed-cadence poll is
	// substituting. Advisory only: reconnect attempts continue underneath it.
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Stats is a point-in-time view of channel health.
type Stats struct {
	State         State
	MessageCount  uint64
	LastMessageAt time.Time
	Reconnects    uint64
}

// Client owns the live channel connection lifecycle: a single run loop dials,
// reads until failure, and redials after backoff. Raw frames are delivered on
// Frames() and state transitions on States(); parsing is the consumer's job.
type Client struct {
	logger *zap.Logger

	url          string
	dialer       *websocket.Dialer
	pingInterval time.Duration
	backoffBase  time.Duration
	backoffMax   time.Duration

	connMu  sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn

	frames  chan json.RawMessage
	states  chan State
	closeCh chan struct{}
	closed  sync.Once

	state           int32
	msgCount        uint64
	lastMsgUnixNano int64
	reconnects      uint64
}

func NewClient(logger *zap.Logger, cfg *config.Config) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		logger: logger,

		url: cfg.LiveChannel.URL,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.LiveChannel.HandshakeTimeout,
		},
		pingInterval: cfg.LiveChannel.PingInterval,
		backoffBase:  cfg.LiveChannel.BackoffBase,
		backoffMax:   cfg.LiveChannel.BackoffMax,

		frames:  make(chan json.RawMessage, 1024),
		states:  make(chan State, 16),
		closeCh: make(chan struct{}),

		state: int32(StateClosed),
	}
}

// Frames returns the channel of raw inbound frames.
func (c *Client) Frames() <-chan json.RawMessage {
	return c.frames
}

// States returns the channel of state transitions.
func (c *Client) States() <-chan State {
	return c.states
}

// Stats returns a snapshot of channel health counters.
func (c *Client) Stats() Stats {
	ns := atomic.LoadInt64(&c.lastMsgUnixNano)
	var t time.Time
	if ns > 0 {
		t = time.Unix(0, ns)
	}

	return Stats{
		State:         State(atomic.LoadInt32(&c.state)),
		MessageCount:  atomic.LoadUint64(&c.msgCount),
		LastMessageAt: t,
		Reconnects:    atomic.LoadUint64(&c.reconnects),
	}
}

// Run drives the connection lifecycle until ctx is canceled or Close is
// called. It is the only place that dials, so at most one connect attempt is
// ever in flight.
func (c *Client) Run(ctx context.Context) {
	failures := 0

	for {
		if c.stopping(ctx) {
			return
		}

		c.setState(StateConnecting)
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			delay := Backoff(c.backoffBase, c.backoffMax, failures)
			failures++
			c.logger.Warn("live channel dial failed",
				zap.Error(err),
				zap.Int("failures", failures),
				zap.Duration("retryIn", delay),
			)
			c.setState(StateDegraded)
			if !c.wait(ctx, delay) {
				return
			}
			continue
		}
		failures = 0

		conn.SetCloseHandler(func(code int, text string) error {
			c.logger.Warn("live channel close frame received",
				zap.Int("code", code),
				zap.String("reason", text),
			)
			return nil
		})

		c.connMu.Lock()
		c.conn = conn
		c.connMu.Unlock()

		c.setState(StateOpen)
		c.logger.Info("live channel open", zap.String("url", c.url))

		pingDone := make(chan struct{})
		go c.pingLoop(pingDone)
		c.readLoop()
		close(pingDone)

		c.connMu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
			c.conn = nil
		}
		c.connMu.Unlock()

		c.setState(StateClosed)
		atomic.AddUint64(&c.reconnects, 1)

		if !c.wait(ctx, c.backoffBase) {
			return
		}
	}
}

// Close stops the run loop and closes the underlying connection.
func (c *Client) Close() error {
	c.closed.Do(func() {
		close(c.closeCh)
	})

	c.connMu.Lock()
	defer c.connMu.Unlock()

	var err error
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}
	return err
}

func (c *Client) readLoop() {
	for {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			return
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			c.logger.Warn("live channel read failed", zap.Error(err))
			return
		}

		// Some backends reply to keepalives with plain text.
		if string(b) == "PONG" || string(b) == "PING" {
			continue
		}

		atomic.AddUint64(&c.msgCount, 1)
		atomic.StoreInt64(&c.lastMsgUnixNano, time.Now().UnixNano())

		select {
		case c.frames <- json.RawMessage(append([]byte(nil), b...)):
		default:
			c.logger.Warn("dropping live channel frame: buffer full")
		}
	}
}

func (c *Client) pingLoop(done <-chan struct{}) {
	t := time.NewTicker(c.pingInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			c.connMu.Lock()
			conn := c.conn
			c.connMu.Unlock()

			if conn == nil {
				return
			}

			c.writeMu.Lock()
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				c.logger.Warn("live channel ping failed", zap.Error(err))
				return
			}

		case <-done:
			return
		case <-c.closeCh:
			return
		}
	}
}

func (c *Client) setState(s State) {
	if State(atomic.SwapInt32(&c.state, int32(s))) == s {
		return
	}

	select {
	case c.states <- s:
	default:
		c.logger.Warn("dropping live channel state transition: buffer full",
			zap.String("state", s.String()),
		)
	}
}

func (c *Client) stopping(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-c.closeCh:
		return true
	default:
		return false
	}
}

func (c *Client) wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-c.closeCh:
		return false
	case <-t.C:
		return true
	}
}

// Backoff returns the reconnect delay after the given number of consecutive
// failures: base * 2^failures, capped at max.
func Backoff(base, max time.Duration, failures int) time.Duration {
	if failures <= 0 {
		return base
	}
	if failures > 30 {
		return max
	}

	d := base << uint(failures)
	if d > max || d < 0 {
		return max
	}
	return d
}
