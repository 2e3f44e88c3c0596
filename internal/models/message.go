package models

import (
	"strings"
	"time"
)

// MessageType tags what a chat message carries.
type MessageType string

const (
	MessageText   MessageType = "text"
	MessageImage  MessageType = "image"
	MessageFile   MessageType = "file"
	MessageSystem MessageType = "system"
)

// ParseUserMessageType validates a type supplied by a participant. An empty
// value means text. System messages are never accepted from users.
func ParseUserMessageType(s string) (MessageType, error) {
	switch t := MessageType(strings.TrimSpace(s)); t {
	case "":
		return MessageText, nil
	case MessageText, MessageImage, MessageFile:
		return t, nil
	}
	return "", ErrInvalidMessageType
}

// ChatMessage is an append-only entry in a room. Only IsRead changes after insert.
type ChatMessage struct {
	ID          int         `db:"id" json:"id"`
	RoomID      int         `db:"room_id" json:"room_id"`
	SenderID    int         `db:"sender_id" json:"sender_id"`
	Message     string      `db:"message" json:"message"`
	MessageType MessageType `db:"message_type" json:"message_type"`
	IsRead      bool        `db:"is_read" json:"is_read"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// MessagePage is a page of messages, newest first.
type MessagePage struct {
	Items   []ChatMessage `json:"items"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	HasMore bool          `json:"has_more"`
}

// ApplicationAnnouncement is the system message seeded into a room on application.
func ApplicationAnnouncement(applicantNickname, jobTitle string) string {
	return applicantNickname + "님이 '" + jobTitle + "'에 지원했습니다."
}

// ReactivationAnnouncement is the system message appended when a closed room reopens.
func ReactivationAnnouncement(nickname string) string {
	return nickname + "님이 대화방에 다시 참여했습니다."
}
