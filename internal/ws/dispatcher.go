package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"senior-house/internal/models"
	"senior-house/internal/observability"
)

// Error codes sent in the "error" event.
const (
	CodeBadRequest  = "BAD_REQUEST"
	CodeForbidden   = "FORBIDDEN"
	CodeConflict    = "CONFLICT"
	CodeNotFound    = "NOT_FOUND"
	CodeServerError = "SERVER_ERROR"
)

// ChatEngine is the part of the chat service the dispatcher drives.
type ChatEngine interface {
	UnreadCounter
	Room(ctx context.Context, roomID, userID int) (models.ChatRoom, error)
	Send(ctx context.Context, roomID, senderID int, body, messageType string) (models.ChatMessage, models.ChatRoom, error)
	MarkRead(ctx context.Context, roomID, readerID int) (models.ChatRoom, int64, error)
}

// Dispatcher routes inbound frames of a connection.
type Dispatcher struct {
	hub      *Hub
	chats    ChatEngine
	notifier *Notifier
}

func NewDispatcher(hub *Hub, chats ChatEngine, notifier *Notifier) *Dispatcher {
	return &Dispatcher{hub: hub, chats: chats, notifier: notifier}
}

// ErrorCode maps a domain error to the code reported to clients.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, models.ErrValidation):
		return CodeBadRequest
	case errors.Is(err, models.ErrForbidden):
		return CodeForbidden
	case errors.Is(err, models.ErrConflict):
		return CodeConflict
	case errors.Is(err, models.ErrNotFound):
		return CodeNotFound
	}
	return CodeServerError
}

// Dispatch handles one raw frame. Failures, panics included, are reported to c
// only and never end the connection.
func (d *Dispatcher) Dispatch(ctx context.Context, c *Client, raw []byte) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("ws: handler panic conn_id=%s user_id=%d panic=%v", c.info.ConnID, c.UserID(), p)
			d.hub.SendError(c, CodeServerError, "internal error")
		}
	}()

	var frame models.ClientEvent
	if err := json.Unmarshal(raw, &frame); err != nil {
		d.hub.SendError(c, CodeBadRequest, "malformed frame")
		return
	}
	var err error
	switch frame.Event {
	case models.EventJoin:
		err = d.join(ctx, c, frame.Data)
	case models.EventLeave:
		err = d.leave(c, frame.Data)
	case models.EventSendMessage:
		err = d.sendMessage(ctx, c, frame.Data)
	case models.EventReadMessages:
		err = d.readMessages(ctx, c, frame.Data)
	default:
		d.hub.SendError(c, CodeBadRequest, "unknown event: "+frame.Event)
		return
	}
	observability.IncWSEvent(wsKind, frame.Event)
	if err != nil {
		d.reportError(c, frame.Event, err)
	}
}

func (d *Dispatcher) reportError(c *Client, event string, err error) {
	code := ErrorCode(err)
	message := err.Error()
	if code == CodeServerError {
		log.Printf("ws: event failed event=%s conn_id=%s user_id=%d err=%v", event, c.info.ConnID, c.UserID(), err)
		message = "internal error"
	}
	d.hub.SendError(c, code, message)
}

func decodeRoomRef(data json.RawMessage) (models.RoomRef, error) {
	var ref models.RoomRef
	if err := json.Unmarshal(data, &ref); err != nil || ref.RoomID <= 0 {
		return ref, models.Validationf("room_id is required")
	}
	return ref, nil
}

func (d *Dispatcher) join(ctx context.Context, c *Client, data json.RawMessage) error {
	ref, err := decodeRoomRef(data)
	if err != nil {
		return err
	}
	if _, err := d.chats.Room(ctx, ref.RoomID, c.UserID()); err != nil {
		return err
	}
	d.hub.JoinRoom(ref.RoomID, c)
	d.hub.Send(c, models.EventJoined, ref)
	return nil
}

func (d *Dispatcher) leave(c *Client, data json.RawMessage) error {
	ref, err := decodeRoomRef(data)
	if err != nil {
		return err
	}
	d.hub.LeaveRoom(ref.RoomID, c)
	d.hub.Send(c, models.EventLeft, ref)
	return nil
}

func (d *Dispatcher) sendMessage(ctx context.Context, c *Client, data json.RawMessage) error {
	var payload models.SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.RoomID <= 0 {
		return models.Validationf("room_id is required")
	}
	if strings.TrimSpace(payload.Message) == "" {
		return models.ErrEmptyMessage
	}
	msg, room, err := d.chats.Send(ctx, payload.RoomID, c.UserID(), payload.Message, payload.MessageType)
	if err != nil {
		return err
	}
	d.notifier.MessageSent(ctx, room, msg)
	return nil
}

func (d *Dispatcher) readMessages(ctx context.Context, c *Client, data json.RawMessage) error {
	ref, err := decodeRoomRef(data)
	if err != nil {
		return err
	}
	room, updated, err := d.chats.MarkRead(ctx, ref.RoomID, c.UserID())
	if err != nil {
		return err
	}
	d.notifier.MessagesRead(ctx, room, c.UserID(), updated)
	return nil
}
