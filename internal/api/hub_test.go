package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/galaxies-frontier/internal/game"
)

func TestHub_PublishReachesClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.register <- client

	hub.Publish(EventArrival, map[string]int{"system_id": 3})

	select {
	case raw := <-client.send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, EventArrival, msg.Type)
		assert.Equal(t, "core", msg.Sender)
		assert.Equal(t, map[string]any{"system_id": float64(3)}, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- client
	hub.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	_, open := <-client.send
	assert.False(t, open)
}

func TestHub_PublishDropsWhenQueueFull(t *testing.T) {
	hub := NewHub() // Run is not started, so nothing drains the queue.
	for i := 0; i < cap(hub.Broadcast)+10; i++ {
		hub.Publish(EventState, i)
	}
	assert.Len(t, hub.Broadcast, cap(hub.Broadcast))
}

func TestServer_PublishesNewGame(t *testing.T) {
	u, err := game.DefaultUniverse()
	require.NoError(t, err)
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.register <- client

	s := NewServer(u, hub)
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	status, _ := call(t, ts, http.MethodPost, "/api/game/new", game.NewGameOptions{Size: 20, Seed: 3})
	require.Equal(t, http.StatusOK, status)

	select {
	case raw := <-client.send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, EventNewGame, msg.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("new game was not broadcast")
	}
}

func TestServeWs_Upgrades(t *testing.T) {
	u, err := game.DefaultUniverse()
	require.NoError(t, err)
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	ts := httptest.NewServer(NewServer(u, hub).Routes())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
}
