package events

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 16
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	readLimit    = 4096
)

// Client is one subscribed websocket connection.
type Client struct {
	id           string
	ws           *websocket.Conn
	send         chan []byte
	writeTimeout time.Duration
	logger       *zap.Logger
}

func newClient(id string, ws *websocket.Conn, writeTimeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		id:           id,
		ws:           ws,
		send:         make(chan []byte, sendBuffer),
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// ID returns the subscriber identifier.
func (c *Client) ID() string {
	return c.id
}

// enqueue never blocks; a full buffer drops the message. Callers hold the
// hub lock so send cannot be closed underneath.
func (c *Client) enqueue(msg []byte) {
	select {
	case c.send <- msg:
	default:
		c.logger.Warn("dropping station event, buffer full", zap.String("subscriber_id", c.id))
	}
}

// readPump only services control frames; subscribers have nothing to say.
func (c *Client) readPump(onClose func(*Client)) {
	defer onClose(c)

	c.ws.SetReadLimit(readLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info("subscriber read closed", zap.String("subscriber_id", c.id), zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteMessage(messageType, data)
}
