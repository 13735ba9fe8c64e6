package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
	sendBuffer     = 32
)

// JoinAuthorizer decides whether the user may subscribe to a project's room.
// Wired to the membership guard by the websocket handler.
type JoinAuthorizer func(ctx context.Context, projectID, userID string) error

// clientMessage is the inbound subscription protocol:
// {"action":"join","project":"<id>"} / {"action":"leave","project":"<id>"}.
type clientMessage struct {
	Action  string `json:"action"`
	Project string `json:"project"`
}

// errorMessage is pushed back when a join is rejected.
type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Client is one websocket connection. The hub never touches the connection;
// it only writes into send, which writePump drains.
type Client struct {
	id     string
	userID string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte

	// mu guards closed. The hub closes send via closeSend while readPump may
	// still be processing inbound frames; pushError checks the flag under the
	// same mutex so it can never write to a closed channel.
	mu     sync.Mutex
	closed bool

	authorize JoinAuthorizer
	log       zerolog.Logger
}

// NewClient registers a connection with the hub and starts its pumps.
// Returns nil and closes the connection when the hub has already shut down.
func NewClient(hub *Hub, conn *websocket.Conn, userID string, authorize JoinAuthorizer, log zerolog.Logger) *Client {
	c := &Client{
		id:        uuid.NewString(),
		userID:    userID,
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		authorize: authorize,
		log:       log,
	}

	select {
	case hub.register <- c:
	case <-hub.done:
		_ = conn.Close()
		return nil
	}

	go c.writePump()
	go c.readPump()
	return c
}

// closeSend closes the send channel exactly once. Only the hub goroutine
// calls this; pumps observe the closure through the channel and the flag.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump consumes join/leave messages until the connection drops.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Str("client_id", c.id).Msg("websocket read failed")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Project == "" {
			c.pushError("invalid message")
			continue
		}

		switch msg.Action {
		case "join":
			if err := c.authorize(context.Background(), msg.Project, c.userID); err != nil {
				c.pushError("cannot join project " + msg.Project)
				continue
			}
			select {
			case c.hub.join <- subscription{client: c, projectID: msg.Project}:
			case <-c.hub.done:
				return
			}
		case "leave":
			select {
			case c.hub.leave <- subscription{client: c, projectID: msg.Project}:
			case <-c.hub.done:
				return
			}
		default:
			c.pushError("unknown action " + msg.Action)
		}
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings. A closed send channel (hub shutdown or slow-consumer drop) ends the
// connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// pushError replies to a bad inbound frame. The hub may have already dropped
// this client and closed send, so the write happens under the closed check.
func (c *Client) pushError(message string) {
	payload, err := json.Marshal(errorMessage{Type: "error", Message: message})
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}
