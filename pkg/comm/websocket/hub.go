// Package websocket streams simulation events to websocket clients.
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/uartsim/pkg/sim"
)

// DefaultBacklog is the number of events buffered per client.
const DefaultBacklog = 256

// Hub casts events to all connected clients as JSON text messages.
// A client which can't keep up with Backlog events is dropped.
type Hub struct {
	Backlog int

	lock    sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	ch   chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.ch)
	})
}

// NewHub creates a Hub.
func NewHub() *Hub {
	return &Hub{Backlog: DefaultBacklog, clients: make(map[*client]struct{})}
}

// Handler returns the http.Handler accepting websocket clients.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.Serve)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.clients)
}

// Serve writes events to conn until it's closed or dropped.
func (h *Hub) Serve(conn *websocket.Conn) {
	backlog := h.Backlog
	if backlog <= 0 {
		backlog = DefaultBacklog
	}
	c := &client{conn: conn, ch: make(chan []byte, backlog)}
	h.lock.Lock()
	if h.clients == nil {
		h.clients = make(map[*client]struct{})
	}
	h.clients[c] = struct{}{}
	h.lock.Unlock()
	glog.V(1).Infof("websocket client %s connected", conn.Request().RemoteAddr)

	go h.drain(c)
	for msg := range c.ch {
		if err := websocket.Message.Send(conn, string(msg)); err != nil {
			glog.Warningf("websocket client %s: %v", conn.Request().RemoteAddr, err)
			break
		}
	}
	h.remove(c)
	conn.Close()
}

// drain reads until the client goes away. Clients aren't expected to send.
func (h *Hub) drain(c *client) {
	var msg []byte
	for {
		if err := websocket.Message.Receive(c.conn, &msg); err != nil {
			h.remove(c)
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.lock.Lock()
	delete(h.clients, c)
	h.lock.Unlock()
	c.close()
}

// HandleEvent implements sim.EventListener.
func (h *Hub) HandleEvent(e sim.Event) {
	msg, err := json.Marshal(e)
	if err != nil {
		glog.Errorf("encode event error: %v", err)
		return
	}
	h.Broadcast(msg)
}

// Broadcast queues msg for every client.
func (h *Hub) Broadcast(msg []byte) {
	h.lock.Lock()
	defer h.lock.Unlock()
	for c := range h.clients {
		select {
		case c.ch <- msg:
		default:
			glog.Warningf("websocket client %s too slow, dropped", c.conn.Request().RemoteAddr)
			delete(h.clients, c)
			c.close()
		}
	}
}

// Close drops all clients.
func (h *Hub) Close() error {
	h.lock.Lock()
	defer h.lock.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
	return nil
}
