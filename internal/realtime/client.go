package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Client is one websocket connection bound to an authenticated user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// ServeConn registers an upgraded connection for a user and runs its pumps.
// Blocks until the connection closes.
func (h *Hub) ServeConn(conn *websocket.Conn, userID string) {
	c := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), userID: userID}
	h.register(c)
	log.Printf("realtime: user connected: %s", userID)

	go c.writePump()
	c.readPump()
	log.Printf("realtime: user disconnected: %s", userID)
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
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
				log.Printf("realtime: read error for %s: %v", c.userID, err)
			}
			return
		}
		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}
		c.handle(frame)
	}
}

// handle processes client-to-server frames. Both are best-effort UI signals
// with no persisted effect beyond the echo.
func (c *Client) handle(frame Frame) {
	switch frame.Event {
	case "typing":
		var data struct {
			RoomID   string `json:"roomId"`
			IsTyping bool   `json:"isTyping"`
		}
		if err := json.Unmarshal(frame.Data, &data); err != nil || data.RoomID == "" {
			return
		}
		c.hub.SendToUser(data.RoomID, "user_typing", map[string]any{
			"userId":   c.userID,
			"isTyping": data.IsTyping,
		})
	case "notification_read":
		var id string
		if err := json.Unmarshal(frame.Data, &id); err != nil {
			return
		}
		c.hub.SendToUser(c.userID, "notification_read_confirmed", id)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
