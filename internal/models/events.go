package models

import (
	"encoding/json"
	"time"
)

// Inbound websocket event names.
const (
	EventJoin         = "join"
	EventLeave        = "leave"
	EventSendMessage  = "send_message"
	EventReadMessages = "read_messages"
)

// Outbound websocket event names.
const (
	EventConnected          = "connected"
	EventJoined             = "joined"
	EventLeft               = "left"
	EventError              = "error"
	EventNewMessage         = "new_message"
	EventMessagesRead       = "messages_read"
	EventUnreadTotal        = "unread_total"
	EventRoomUnreadCount    = "room_unread_count"
	EventLastMessageUpdated = "last_message_updated"
)

// ClientEvent is a frame sent by a websocket client.
type ClientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServerEvent is a frame pushed to a websocket client.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type RoomRef struct {
	RoomID int `json:"room_id"`
}

type SendMessagePayload struct {
	RoomID      int    `json:"room_id"`
	Message     string `json:"message"`
	MessageType string `json:"message_type"`
}

type ConnectedPayload struct {
	ConnID string `json:"conn_id"`
	UserID int    `json:"user_id"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MessagesReadPayload struct {
	RoomID   int   `json:"room_id"`
	ReaderID int   `json:"reader_id"`
	Updated  int64 `json:"updated"`
}

type UnreadTotalPayload struct {
	Count int `json:"count"`
}

type RoomUnreadPayload struct {
	RoomID int `json:"room_id"`
	Count  int `json:"count"`
}

type LastMessagePayload struct {
	RoomID      int         `json:"room_id"`
	Message     string      `json:"message"`
	MessageType MessageType `json:"message_type"`
	SenderID    int         `json:"sender_id"`
	CreatedAt   time.Time   `json:"created_at"`
}

// LastMessageOf builds the room list update for msg.
func LastMessageOf(msg ChatMessage) LastMessagePayload {
	return LastMessagePayload{
		RoomID:      msg.RoomID,
		Message:     msg.Message,
		MessageType: msg.MessageType,
		SenderID:    msg.SenderID,
		CreatedAt:   msg.CreatedAt,
	}
}
