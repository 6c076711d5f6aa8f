package core

import (
	"context"
	"log"
	"sync"

	"github.com/automoto/flaparena/shared/messages"
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

const sendBuffer = 256

// client is one websocket connection. send is closed by the hub only, under
// the hub lock.
type client struct {
	id      string
	account Account
	conn    *websocket.Conn
	send    chan []byte
}

type member struct {
	account Account
	ready   bool
	conns   int
}

// Hub tracks the lobby roster and fans messages out to connected clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	members map[messages.UserID]*member
	order   []messages.UserID
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		members: make(map[messages.UserID]*member),
	}
}

func newClient(acct Account, conn *websocket.Conn) *client {
	return &client{
		id:      uuid.NewString(),
		account: acct,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
	}
}

func (h *Hub) join(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = struct{}{}
	m, ok := h.members[c.account.UserID]
	if !ok {
		m = &member{account: c.account}
		h.members[c.account.UserID] = m
		h.order = append(h.order, c.account.UserID)
	}
	m.conns++
	log.Printf("[lobbyd] %s joined (conn=%s)", c.account.Username, c.id)
	h.broadcastLocked(messages.TypeLobbyState, h.rosterLocked())
}

func (h *Hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.dropLocked(c) {
		return
	}
	log.Printf("[lobbyd] %s left (conn=%s)", c.account.Username, c.id)
	h.broadcastLocked(messages.TypeLobbyState, h.rosterLocked())
}

// dropLocked removes c and updates its member's connection count. A member
// with no connections left is no longer ready. It reports false if c was
// already gone.
func (h *Hub) dropLocked(c *client) bool {
	if _, ok := h.clients[c]; !ok {
		return false
	}
	delete(h.clients, c)
	close(c.send)
	if m, ok := h.members[c.account.UserID]; ok {
		m.conns--
		if m.conns <= 0 {
			m.conns = 0
			m.ready = false
		}
	}
	return true
}

// handle applies one client action.
func (h *Hub) handle(c *client, a messages.Action) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch a.Action {
	case messages.ActionReady:
		m := h.members[c.account.UserID]
		if m == nil {
			return
		}
		payload := messages.PlayerReady{UserID: c.account.UserID}
		if m.ready {
			h.sendLocked(c, messages.TypePlayerAlreadyReady, payload)
			return
		}
		m.ready = true
		log.Printf("[lobbyd] %s is ready", c.account.Username)
		h.broadcastLocked(messages.TypePlayerReady, payload)
	case messages.ActionInfo:
		h.sendLocked(c, messages.TypeLobbyState, h.rosterLocked())
	default:
		log.Printf("[lobbyd] ignoring action %q from %s", a.Action, c.account.Username)
	}
}

// Roster returns the lobby as sent in snapshots.
func (h *Hub) Roster() []messages.LobbyUser {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rosterLocked()
}

func (h *Hub) rosterLocked() []messages.LobbyUser {
	out := make([]messages.LobbyUser, 0, len(h.order))
	for _, id := range h.order {
		m := h.members[id]
		out = append(out, messages.LobbyUser{
			UserID:    id,
			Username:  m.account.Username,
			Connected: m.conns > 0,
			Ready:     m.ready,
		})
	}
	return out
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcastLocked(typ string, payload any) {
	frame, err := messages.EncodeEnvelope(typ, payload)
	if err != nil {
		log.Printf("[lobbyd] encode %s: %v", typ, err)
		return
	}
	dropped := false
	for c := range h.clients {
		if !h.pushLocked(c, frame) {
			dropped = true
		}
	}
	if dropped {
		h.announceDropsLocked()
	}
}

func (h *Hub) sendLocked(c *client, typ string, payload any) {
	frame, err := messages.EncodeEnvelope(typ, payload)
	if err != nil {
		log.Printf("[lobbyd] encode %s: %v", typ, err)
		return
	}
	if !h.pushLocked(c, frame) {
		h.announceDropsLocked()
	}
}

// announceDropsLocked sends a fresh snapshot after slow clients were dropped.
// The snapshot can overflow further clients, so it repeats until a round
// drops nobody.
func (h *Hub) announceDropsLocked() {
	for dropped := true; dropped && len(h.clients) > 0; {
		dropped = false
		frame, err := messages.EncodeEnvelope(messages.TypeLobbyState, h.rosterLocked())
		if err != nil {
			log.Printf("[lobbyd] encode %s: %v", messages.TypeLobbyState, err)
			return
		}
		for c := range h.clients {
			if !h.pushLocked(c, frame) {
				dropped = true
			}
		}
	}
}

// pushLocked queues frame for c. A client whose buffer is full is dropped
// and pushLocked reports false; the caller announces the new roster.
func (h *Hub) pushLocked(c *client, frame []byte) bool {
	if _, ok := h.clients[c]; !ok {
		return true
	}
	select {
	case c.send <- frame:
		return true
	default:
		log.Printf("[lobbyd] dropping slow client %s (%s)", c.id, c.account.Username)
		h.dropLocked(c)
		if c.conn != nil {
			_ = c.conn.CloseNow()
		}
		return false
	}
}

// Shutdown closes every client connection with a going-away status.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (c *client) writePump(ctx context.Context) {
	for frame := range c.send {
		if err := c.conn.Write(ctx, websocket.MessageText, frame); err != nil {
			log.Printf("[lobbyd] write to %s: %v", c.id, err)
			_ = c.conn.CloseNow()
			return
		}
	}
}

func (c *client) readPump(ctx context.Context, h *Hub) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if s := websocket.CloseStatus(err); s != websocket.StatusNormalClosure && s != websocket.StatusGoingAway {
				log.Printf("[lobbyd] read from %s: %v", c.id, err)
			}
			return
		}
		a, err := messages.DecodeAction(data)
		if err != nil {
			log.Printf("[lobbyd] bad action from %s: %v", c.id, err)
			continue
		}
		h.handle(c, a)
	}
}
