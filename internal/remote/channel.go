package remote

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"webterm/internal/events"
	"webterm/internal/logger"
)

// ErrNotConnected is returned by Send while the socket is down.
var ErrNotConnected = errors.New("socket not connected")

const (
	writeWait      = 5 * time.Second
	minBackoff     = 500 * time.Millisecond
	maxBackoff     = 30 * time.Second
	maxMessageSize = 4 << 20
)

// Channel is the client side of the command-resolution socket. Responses and
// lifecycle changes are published on the bus.
type Channel struct {
	url     string
	bus     *events.Bus
	traffic logger.TrafficLogger
	dialer  *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewChannel(url string, bus *events.Bus, traffic logger.TrafficLogger) *Channel {
	if traffic == nil {
		traffic = logger.NoopTrafficLogger{}
	}
	return &Channel{
		url:     url,
		bus:     bus,
		traffic: traffic,
		dialer:  &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}
}

// URL returns the socket endpoint.
func (c *Channel) URL() string { return c.url }

// Connected reports whether a connection is currently open.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Connect dials once and starts reading in the background. The read loop
// ends when the connection drops.
func (c *Channel) Connect(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		c.publish(events.Connection{State: events.StateError, URL: c.url, Err: err})
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	c.attach(conn)
	go c.readLoop(conn)
	return nil
}

// Run keeps the channel connected until ctx is done, reconnecting with
// exponential backoff.
func (c *Channel) Run(ctx context.Context) {
	backoff := minBackoff
	for ctx.Err() == nil {
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.publish(events.Connection{State: events.StateError, URL: c.url, Err: err})
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = minBackoff
		c.attach(conn)

		stop := context.AfterFunc(ctx, func() { conn.Close() })
		c.readLoop(conn)
		stop()
	}
}

func (c *Channel) attach(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.publish(events.Connection{State: events.StateConnected, URL: c.url})
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		conn.Close()
		c.publish(events.Connection{State: events.StateDisconnected, URL: c.url})
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.traffic.State(string(events.StateError), err)
			}
			return
		}
		event, data, ok := DecodeFrame(msg)
		if !ok {
			log.Warnf("drop malformed frame (%d bytes)", len(msg))
			continue
		}
		c.traffic.Received(event, data.Raw)
		if event != EventResponse {
			continue
		}
		command, response := DecodeResponse(data)
		c.publish(events.Response{Command: command, Response: response})
	}
}

// Send writes one {"event", "data"} frame. It does not wait for a reply.
func (c *Channel) Send(event, payload string) error {
	frame, err := EncodeFrame(event, payload)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.traffic.State(string(events.StateError), err)
		return fmt.Errorf("send %s: %w", event, err)
	}
	c.traffic.Sent(event, payload)
	return nil
}

// Close sends a close frame and drops the connection.
func (c *Channel) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return conn.Close()
}

func (c *Channel) publish(evt events.Event) {
	if conn, ok := evt.(events.Connection); ok {
		c.traffic.State(string(conn.State), conn.Err)
	}
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(evt); err != nil {
		log.WithError(err).WithField("event", evt.Kind()).Debug("publish")
	}
}
