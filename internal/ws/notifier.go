package ws

import (
	"context"
	"log"

	"senior-house/internal/models"
)

// UnreadCounter recomputes unread counts from the current rows.
type UnreadCounter interface {
	UnreadCountForUser(ctx context.Context, userID int) (int, error)
	UnreadCountForRoom(ctx context.Context, roomID, userID int) (int, error)
}

// Notifier fans out message and read events after they are committed. HTTP
// handlers and the websocket dispatcher share it.
type Notifier struct {
	hub    *Hub
	counts UnreadCounter
}

func NewNotifier(hub *Hub, counts UnreadCounter) *Notifier {
	return &Notifier{hub: hub, counts: counts}
}

// MessageSent pushes the new message to the room and refreshes both parties'
// room lists and badges.
func (n *Notifier) MessageSent(ctx context.Context, room models.ChatRoom, msg models.ChatMessage) {
	n.hub.SendToRoom(room.ID, models.EventNewMessage, msg)

	last := models.LastMessageOf(msg)
	receiver := room.OtherParty(msg.SenderID)
	for _, userID := range []int{room.ApplicantID, room.EmployerID} {
		n.hub.SendToUser(userID, models.EventLastMessageUpdated, last)
		n.pushUnreadTotal(ctx, userID)
	}
	n.pushRoomUnread(ctx, room.ID, receiver)
}

// MessagesRead tells the room who read and refreshes both parties' badges.
func (n *Notifier) MessagesRead(ctx context.Context, room models.ChatRoom, readerID int, updated int64) {
	n.hub.SendToRoom(room.ID, models.EventMessagesRead, models.MessagesReadPayload{
		RoomID:   room.ID,
		ReaderID: readerID,
		Updated:  updated,
	})
	for _, userID := range []int{room.ApplicantID, room.EmployerID} {
		n.pushUnreadTotal(ctx, userID)
	}
	n.pushRoomUnread(ctx, room.ID, readerID)
}

func (n *Notifier) pushUnreadTotal(ctx context.Context, userID int) {
	count, err := n.counts.UnreadCountForUser(ctx, userID)
	if err != nil {
		log.Printf("ws: unread total failed user_id=%d err=%v", userID, err)
		return
	}
	n.hub.SendToUser(userID, models.EventUnreadTotal, models.UnreadTotalPayload{Count: count})
}

func (n *Notifier) pushRoomUnread(ctx context.Context, roomID, userID int) {
	count, err := n.counts.UnreadCountForRoom(ctx, roomID, userID)
	if err != nil {
		log.Printf("ws: room unread failed room_id=%d user_id=%d err=%v", roomID, userID, err)
		return
	}
	n.hub.SendToUser(userID, models.EventRoomUnreadCount, models.RoomUnreadPayload{RoomID: roomID, Count: count})
}
