package ws

import (
	"sync"
)

const sendBuffer = 64

// Client is the per-connection context passed to every event handler. It
// carries the authenticated user and the rooms this connection joined.
type Client struct {
	info ConnInfo
	send chan []byte

	mu     sync.Mutex
	rooms  map[int]struct{}
	closed bool
}

func NewClient(info ConnInfo) *Client {
	return &Client{
		info:  info,
		send:  make(chan []byte, sendBuffer),
		rooms: make(map[int]struct{}),
	}
}

func (c *Client) UserID() int { return c.info.UserID }

func (c *Client) Info() ConnInfo { return c.info }

// enqueue never blocks. It returns false when the client is closed or its
// buffer is full.
func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// close stops delivery. The send channel is closed exactly once.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) addRoom(roomID int) {
	c.mu.Lock()
	c.rooms[roomID] = struct{}{}
	c.mu.Unlock()
}

func (c *Client) removeRoom(roomID int) {
	c.mu.Lock()
	delete(c.rooms, roomID)
	c.mu.Unlock()
}

// InRoom reports whether the connection joined roomID.
func (c *Client) InRoom(roomID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.rooms[roomID]
	return ok
}

func (c *Client) joinedRooms() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]int, 0, len(c.rooms))
	for id := range c.rooms {
		ids = append(ids, id)
	}
	return ids
}
