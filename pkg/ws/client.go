package ws

import (
	"errors"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Client struct {
	ID     string
	UserID string

	conn *websocket.Conn
	send chan []byte
}

func NewClient(conn *websocket.Conn, userID string) *Client {
	if conn == nil {
		return nil
	}

	c := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, 128),
	}

	go c.runWriter()
	return c
}

func (c *Client) runWriter() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}

	c.conn.Close()
}

// Write queues a message for delivery. Delivery is best effort: when the
// client's buffer is full the message is dropped so a stalled connection
// never blocks the broadcaster. It returns an error instead of panicking
// when the client has already been unregistered.
func (c *Client) Write(msg []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("connection is closed")
		}
	}()

	select {
	case c.send <- msg:
		return nil
	default:
		return errors.New("client buffer is full")
	}
}

func (c *Client) close() {
	close(c.send)
}
