// Package stream is a client for the Bybit v5 WebSocket streams. It
// handles the connection lifecycle (JSON ping keepalive, reconnect with
// resubscribe, private-stream login) and delivers raw topic payloads to
// registered handlers. It keeps no market state: interpreting payloads,
// including order book deltas, is the caller's concern.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/veiloq/bybit-client/pkg/bybit"
	"github.com/veiloq/bybit-client/pkg/logging"
)

// Public stream endpoints per category.
const (
	MainnetSpotURL    = "wss://stream.bybit.com/v5/public/spot"
	MainnetLinearURL  = "wss://stream.bybit.com/v5/public/linear"
	MainnetPrivateURL = "wss://stream.bybit.com/v5/private"
	TestnetSpotURL    = "wss://stream-testnet.bybit.com/v5/public/spot"
	TestnetLinearURL  = "wss://stream-testnet.bybit.com/v5/public/linear"
	TestnetPrivateURL = "wss://stream-testnet.bybit.com/v5/private"
)

// MessageHandler receives the raw JSON payload of one topic message.
type MessageHandler func(message []byte)

// Config holds stream client configuration.
type Config struct {
	URL string

	// Credentials enables the private-stream login handshake when set.
	Credentials bybit.Credentials

	// PingInterval is how often the JSON ping op is sent. The server
	// drops connections that stay silent longer than its own limit.
	PingInterval time.Duration

	// ReconnectInterval is the pause between dial attempts.
	ReconnectInterval time.Duration

	// MaxRetries bounds the dial attempts per Connect call.
	MaxRetries int

	Logger logging.Logger
}

// Client manages one WebSocket connection to a v5 stream endpoint.
type Client struct {
	config Config
	logger logging.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	done      chan struct{}

	handlersMu sync.RWMutex
	handlers   map[string]MessageHandler

	writeMu sync.Mutex
}

// request is the op envelope for outgoing control messages.
type request struct {
	Op   string   `json:"op"`
	Args []string `json:"args,omitempty"`
}

// NewClient creates a stream client. Defaults: 20s ping interval, 5s
// reconnect interval, 3 dial attempts.
func NewClient(config Config) *Client {
	if config.PingInterval <= 0 {
		config.PingInterval = 20 * time.Second
	}
	if config.ReconnectInterval <= 0 {
		config.ReconnectInterval = 5 * time.Second
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Client{
		config:   config,
		logger:   logger,
		handlers: make(map[string]MessageHandler),
	}
}

// Connect dials the stream endpoint, performs the login handshake when
// credentials are configured, and starts the read and keepalive loops.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
		conn, _, err := dialer.DialContext(ctx, c.config.URL, nil)
		if err != nil {
			lastErr = err
			c.logger.Warn("stream dial failed",
				logging.Int("attempt", attempt),
				logging.Error(err),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.config.ReconnectInterval):
				continue
			}
		}

		c.conn = conn
		c.connected = true
		c.done = make(chan struct{})

		if c.config.Credentials.APIKey != "" {
			if err := c.authenticate(); err != nil {
				conn.Close()
				c.connected = false
				return fmt.Errorf("stream authentication: %w", err)
			}
		}

		go c.readPump(ctx)
		go c.keepalive(ctx)

		c.logger.Info("stream connected", logging.String("url", c.config.URL))

		if err := c.resubscribe(); err != nil {
			c.logger.Warn("resubscribe failed", logging.Error(err))
		}
		return nil
	}

	return fmt.Errorf("stream connect: max retries exceeded: %w", lastErr)
}

// Close terminates the connection. Registered handlers are kept so a later
// Connect resubscribes to the same topics.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.connected = false
	close(c.done)
	return c.conn.Close()
}

// IsConnected reports the connection status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Subscribe registers a handler and sends the subscribe op for the topic.
//
// Example:
//
//	err := client.Subscribe(stream.KlineTopic("1", "BTCUSDT"), func(msg []byte) {
//		fmt.Printf("kline update: %s\n", msg)
//	})
func (c *Client) Subscribe(topic string, handler MessageHandler) error {
	c.handlersMu.Lock()
	c.handlers[topic] = handler
	c.handlersMu.Unlock()

	if !c.IsConnected() {
		// Queued: Connect sends subscriptions on establishment.
		return nil
	}
	return c.send(request{Op: "subscribe", Args: []string{topic}})
}

// Unsubscribe removes the handler and sends the unsubscribe op.
func (c *Client) Unsubscribe(topic string) error {
	c.handlersMu.Lock()
	_, ok := c.handlers[topic]
	delete(c.handlers, topic)
	c.handlersMu.Unlock()

	if !ok {
		return fmt.Errorf("not subscribed to topic %q", topic)
	}
	if !c.IsConnected() {
		return nil
	}
	return c.send(request{Op: "unsubscribe", Args: []string{topic}})
}

// authenticate performs the private stream login. The signature covers
// "GET/realtime" plus an expiry a short interval in the future.
func (c *Client) authenticate() error {
	expires := time.Now().Add(10 * time.Second).UnixMilli()
	signature, err := bybit.SignWebSocket(c.config.Credentials, expires)
	if err != nil {
		return err
	}
	return c.sendLocked(request{
		Op:   "auth",
		Args: []string{c.config.Credentials.APIKey, fmt.Sprintf("%d", expires), signature},
	})
}

func (c *Client) resubscribe() error {
	c.handlersMu.RLock()
	topics := make([]string, 0, len(c.handlers))
	for topic := range c.handlers {
		topics = append(topics, topic)
	}
	c.handlersMu.RUnlock()

	if len(topics) == 0 {
		return nil
	}
	return c.sendLocked(request{Op: "subscribe", Args: topics})
}

// send marshals and writes one control message.
func (c *Client) send(req request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return fmt.Errorf("stream not connected")
	}
	return c.sendLocked(req)
}

// sendLocked writes without taking the connection lock; callers hold it.
func (c *Client) sendLocked(req request) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(req)
}

func (c *Client) keepalive(ctx context.Context) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	done := c.done
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			if err := c.send(request{Op: "ping"}); err != nil {
				c.logger.Warn("ping failed", logging.Error(err))
				return
			}
		}
	}
}

func (c *Client) readPump(ctx context.Context) {
	conn := c.conn
	done := c.done

	defer func() {
		c.mu.Lock()
		wasConnected := c.connected
		if c.connected {
			c.connected = false
			close(done)
		}
		conn.Close()
		c.mu.Unlock()

		if wasConnected && ctx.Err() == nil {
			go c.reconnect(ctx)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(c.config.PingInterval * 3))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("stream read error", logging.Error(err))
			}
			return
		}

		c.dispatch(message)
	}
}

// dispatch routes a message to its topic handler. Control acks (pong,
// subscribe, auth) carry no topic and are logged at debug level only.
func (c *Client) dispatch(message []byte) {
	var msg struct {
		Topic   string `json:"topic"`
		Op      string `json:"op"`
		Success *bool  `json:"success"`
		RetMsg  string `json:"ret_msg"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("undecodable stream message", logging.Error(err))
		return
	}

	if msg.Topic == "" {
		if msg.Success != nil && !*msg.Success {
			c.logger.Error("stream op rejected",
				logging.String("op", msg.Op),
				logging.String("ret_msg", msg.RetMsg),
			)
		} else {
			c.logger.Debug("stream ack", logging.String("op", msg.Op))
		}
		return
	}

	c.handlersMu.RLock()
	handler, ok := c.handlers[msg.Topic]
	c.handlersMu.RUnlock()

	if ok {
		handler(message)
	}
}

func (c *Client) reconnect(ctx context.Context) {
	c.logger.Info("stream reconnecting")
	if err := c.Connect(ctx); err != nil {
		c.logger.Error("stream reconnect failed", logging.Error(err))
	}
}
