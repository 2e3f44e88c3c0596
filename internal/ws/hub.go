package ws

import (
	"context"
	"log"
	"sync"

	"senior-house/internal/models"
)

// Hub tracks live connections by room channel and by personal channel.
// Membership lives only in memory and is dropped on disconnect.
type Hub struct {
	mu    sync.RWMutex
	rooms map[int]map[*Client]struct{}
	users map[int]map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[int]map[*Client]struct{}),
		users: make(map[int]map[*Client]struct{}),
	}
}

func addMember(set map[int]map[*Client]struct{}, key int, c *Client) {
	if _, ok := set[key]; !ok {
		set[key] = make(map[*Client]struct{})
	}
	set[key][c] = struct{}{}
}

func removeMember(set map[int]map[*Client]struct{}, key int, c *Client) {
	if members, ok := set[key]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(set, key)
		}
	}
}

// Register adds the client to its user's personal channel.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	addMember(h.users, c.UserID(), c)
}

// Unregister removes the client from every channel and stops its delivery.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	removeMember(h.users, c.UserID(), c)
	for _, roomID := range c.joinedRooms() {
		removeMember(h.rooms, roomID, c)
		c.removeRoom(roomID)
	}
	h.mu.Unlock()
	c.close()
}

// JoinRoom subscribes c to roomID. Callers check participation first.
func (h *Hub) JoinRoom(roomID int, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	addMember(h.rooms, roomID, c)
	c.addRoom(roomID)
}

func (h *Hub) LeaveRoom(roomID int, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	removeMember(h.rooms, roomID, c)
	c.removeRoom(roomID)
}

// SendToRoom broadcasts to every connection that joined roomID.
func (h *Hub) SendToRoom(roomID int, event string, data any) {
	h.mu.RLock()
	targets := snapshot(h.rooms[roomID])
	h.mu.RUnlock()
	h.deliver(targets, event, data)
}

// SendToUser delivers to every connection of userID.
func (h *Hub) SendToUser(userID int, event string, data any) {
	h.mu.RLock()
	targets := snapshot(h.users[userID])
	h.mu.RUnlock()
	h.deliver(targets, event, data)
}

// Send delivers to a single connection.
func (h *Hub) Send(c *Client, event string, data any) {
	h.deliver([]*Client{c}, event, data)
}

// SendError reports a failed event to the triggering connection only.
func (h *Hub) SendError(c *Client, code, message string) {
	h.Send(c, models.EventError, models.ErrorPayload{Code: code, Message: message})
}

func snapshot(members map[*Client]struct{}) []*Client {
	out := make([]*Client, 0, len(members))
	for c := range members {
		out = append(out, c)
	}
	return out
}

func (h *Hub) deliver(targets []*Client, event string, data any) {
	if len(targets) == 0 {
		return
	}
	payload, err := encode(event, data)
	if err != nil {
		log.Printf("ws: encode failed event=%s err=%v", event, err)
		return
	}
	for _, c := range targets {
		if !c.enqueue(payload) {
			log.Printf("ws: dropping slow connection conn_id=%s user_id=%d", c.info.ConnID, c.info.UserID)
			h.Unregister(c)
			publishLifecycle(context.Background(), c.info, "ws_error", "send buffer full")
		}
	}
}

// Online reports how many connections userID has.
func (h *Hub) Online(userID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// RoomSize reports how many connections joined roomID.
func (h *Hub) RoomSize(roomID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
