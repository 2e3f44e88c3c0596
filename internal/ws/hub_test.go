package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"senior-house/internal/models"
)

func newTestClient(userID int) *Client {
	return NewClient(ConnInfo{ConnID: newConnID(), UserID: userID})
}

// drain returns the frames queued on c without blocking.
func drain(t *testing.T, c *Client) []models.ClientEvent {
	t.Helper()
	var frames []models.ClientEvent
	for {
		select {
		case raw, ok := <-c.send:
			if !ok {
				return frames
			}
			var frame models.ClientEvent
			require.NoError(t, json.Unmarshal(raw, &frame))
			frames = append(frames, frame)
		default:
			return frames
		}
	}
}

func eventNames(frames []models.ClientEvent) []string {
	names := make([]string, 0, len(frames))
	for _, f := range frames {
		names = append(names, f.Event)
	}
	return names
}

func TestHubJoinAndLeaveRoom(t *testing.T) {
	hub := NewHub()
	c := newTestClient(1)
	hub.Register(c)

	hub.JoinRoom(7, c)
	assert.Equal(t, 1, hub.RoomSize(7))
	assert.True(t, c.InRoom(7))

	hub.LeaveRoom(7, c)
	assert.Equal(t, 0, hub.RoomSize(7))
	assert.False(t, c.InRoom(7))
}

func TestHubUnregisterDropsMembership(t *testing.T) {
	hub := NewHub()
	c := newTestClient(1)
	hub.Register(c)
	hub.JoinRoom(7, c)
	hub.JoinRoom(8, c)

	hub.Unregister(c)

	assert.Equal(t, 0, hub.Online(1))
	assert.Equal(t, 0, hub.RoomSize(7))
	assert.Equal(t, 0, hub.RoomSize(8))
	assert.False(t, c.enqueue([]byte("x")))

	// second unregister is a no-op
	hub.Unregister(c)
}

func TestHubSendToRoomOnlyReachesMembers(t *testing.T) {
	hub := NewHub()
	inRoom := newTestClient(1)
	outside := newTestClient(2)
	hub.Register(inRoom)
	hub.Register(outside)
	hub.JoinRoom(3, inRoom)

	hub.SendToRoom(3, models.EventNewMessage, models.RoomRef{RoomID: 3})

	assert.Equal(t, []string{models.EventNewMessage}, eventNames(drain(t, inRoom)))
	assert.Empty(t, drain(t, outside))
}

func TestHubSendToUserReachesEveryConnection(t *testing.T) {
	hub := NewHub()
	phone := newTestClient(5)
	laptop := newTestClient(5)
	hub.Register(phone)
	hub.Register(laptop)

	hub.SendToUser(5, models.EventUnreadTotal, models.UnreadTotalPayload{Count: 2})

	for _, c := range []*Client{phone, laptop} {
		frames := drain(t, c)
		require.Len(t, frames, 1)
		var payload models.UnreadTotalPayload
		require.NoError(t, json.Unmarshal(frames[0].Data, &payload))
		assert.Equal(t, 2, payload.Count)
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := newTestClient(9)
	hub.Register(slow)

	for i := 0; i < sendBuffer+1; i++ {
		hub.SendToUser(9, models.EventUnreadTotal, models.UnreadTotalPayload{Count: i})
	}

	assert.Equal(t, 0, hub.Online(9))
	assert.Len(t, drain(t, slow), sendBuffer)
}
