// Package realtime fans comment events out to the evaluators watching an application.
package realtime

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"labelstartup-backend/internal/logger"

	"github.com/gorilla/websocket"
)

// Presence and typing events, published next to the comment.* events of the service layer.
const (
	EventPresenceJoined = "presence.joined"
	EventPresenceLeft   = "presence.left"
	EventTyping         = "typing"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Event is the frame sent to clients.
type Event struct {
	Channel string    `json:"channel"`
	Type    string    `json:"type"`
	Payload any       `json:"payload"`
	SentAt  time.Time `json:"sent_at"`
}

// Member is a connected user as shown in the presence list.
type Member struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
}

type presencePayload struct {
	Member Member   `json:"member"`
	Online []Member `json:"online"`
}

// Options configures a Hub.
type Options struct {
	// SendBuffer is the number of frames queued per client before it is dropped.
	SendBuffer int
	// CheckOrigin validates the Origin header of upgrade requests. Nil allows same-host only.
	CheckOrigin func(r *http.Request) bool
}

// Hub keeps one set of clients per channel. Publishing never blocks: a client whose buffer
// is full is disconnected.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	buffer   int
	now      func() time.Time
}

func NewHub(opts Options) *Hub {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 32
	}
	return &Hub{
		channels: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		buffer: opts.SendBuffer,
		now:    time.Now,
	}
}

// Publish sends an event to every client of channel.
func (h *Hub) Publish(channel, event string, payload any) {
	h.broadcast(channel, event, payload, nil)
}

func (h *Hub) broadcast(channel, event string, payload any, skip *client) {
	frame, err := json.Marshal(Event{Channel: channel, Type: event, Payload: payload, SentAt: h.now().UTC()})
	if err != nil {
		logger.Error("Failed to encode realtime event", "channel", channel, "event", event, "error", err)
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.channels[channel] {
		if c == skip {
			continue
		}
		select {
		case c.send <- frame:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logger.Warn("Dropping slow realtime client", "channel", channel, "userID", c.member.UserID)
		h.leave(c)
	}
}

// Online lists the members connected to channel, sorted by name, once per user.
func (h *Hub) Online(channel string) []Member {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.onlineLocked(channel)
}

func (h *Hub) onlineLocked(channel string) []Member {
	seen := map[string]bool{}
	out := []Member{}
	for c := range h.channels[channel] {
		if seen[c.member.UserID] {
			continue
		}
		seen[c.member.UserID] = true
		out = append(out, c.member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out
}

// Serve upgrades the request and attaches the connection to channel until it closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, channel string, member Member) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{hub: h, conn: conn, channel: channel, member: member, send: make(chan []byte, h.buffer)}
	h.join(c)

	go c.writePump()
	c.readPump()
	return nil
}

func (h *Hub) join(c *client) {
	h.mu.Lock()
	clients, ok := h.channels[c.channel]
	if !ok {
		clients = make(map[*client]struct{})
		h.channels[c.channel] = clients
	}
	clients[c] = struct{}{}
	online := h.onlineLocked(c.channel)
	h.mu.Unlock()

	logger.Debug("Realtime client joined", "channel", c.channel, "userID", c.member.UserID)
	h.broadcast(c.channel, EventPresenceJoined, presencePayload{Member: c.member, Online: online}, nil)
}

// leave detaches c once; later calls are no-ops.
func (h *Hub) leave(c *client) {
	h.mu.Lock()
	clients, ok := h.channels[c.channel]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.channels, c.channel)
	}
	online := h.onlineLocked(c.channel)
	h.mu.Unlock()

	logger.Debug("Realtime client left", "channel", c.channel, "userID", c.member.UserID)
	h.broadcast(c.channel, EventPresenceLeft, presencePayload{Member: c.member, Online: online}, nil)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*client
	for _, clients := range h.channels {
		for c := range clients {
			all = append(all, c)
		}
	}
	h.mu.Unlock()
	for _, c := range all {
		c.conn.Close()
	}
}
