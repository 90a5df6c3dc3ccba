/*
Package api
File: hub.go
Description:
    The WebSocket Hub pushes session events (arrivals, encounter updates,
    log lines) to every open browser tab.

    Architecture:
    - Hub: owns the client registry and the broadcast channel.
    - Client: one browser connection with its own outbound buffer.
    - ServeWs: upgrades a GET request to a WebSocket and registers it.
*/

package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/everforgeworks/galaxies-frontier/internal/log"
)

// Event types pushed over the socket.
const (
	EventNewGame   = "new_game"
	EventDeparture = "departure"
	EventArrival   = "arrival"
	EventEncounter = "encounter"
	EventState     = "state"
)

// Message is the JSON envelope for all real-time communication.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	Sender  string      `json:"sender"`
}

// Client represents a single connected browser tab.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients map[*Client]bool

	// Broadcast is buffered so game handlers never wait on slow sockets.
	Broadcast chan []byte

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub creates a Hub. Run must be started in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Run is the Hub's event loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Debug("ws client registered", "clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: assume the client hung.
					close(client.send)
					delete(h.clients, client)
				}
			}

		case <-h.done:
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

// Stop ends Run and disconnects every client.
func (h *Hub) Stop() {
	close(h.done)
}

// Publish wraps a payload in a Message and queues it for broadcast.
// Events are dropped, not blocked on, when the queue is full.
func (h *Hub) Publish(eventType string, payload interface{}) {
	data, err := json.Marshal(Message{Type: eventType, Payload: payload, Sender: "core"})
	if err != nil {
		log.Error("marshal ws event", "type", eventType, "error", err)
		return
	}
	select {
	case h.Broadcast <- data:
	default:
		log.Warn("ws broadcast queue full, event dropped", "type", eventType)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the HTTP connection and registers the client.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("ws upgrade failed", "error", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so close frames are processed. The
// browser drives the game over HTTP; inbound socket messages are ignored.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("ws read error", "error", err)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
