package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"senior-house/internal/models"
	"senior-house/internal/observability"
	"senior-house/internal/repositories"
)

const (
	DefaultMessagesPerPage = 50
	MaxMessagesPerPage     = 100
)

// ChatService owns the room lifecycle, messages and unread counts.
type ChatService struct {
	store repositories.Store
}

func NewChatService(store repositories.Store) *ChatService {
	return &ChatService{store: store}
}

// RoomRequest identifies a room triple and the user re-engaging with it.
// Announcement is the system message written when the room is created.
type RoomRequest struct {
	JobID        int
	ApplicantID  int
	EmployerID   int
	CallerID     int
	Announcement string
}

// CreateOrGet runs CreateOrGetIn in its own transaction.
func (s *ChatService) CreateOrGet(ctx context.Context, req RoomRequest) (models.RoomResult, error) {
	var result models.RoomResult
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		result, err = s.CreateOrGetIn(ctx, tx, req)
		return err
	})
	return result, err
}

// CreateOrGetIn creates the room for the triple or brings an existing one back
// for the caller, inside the caller's transaction. A new room gets the
// announcement; a reactivated room gets a rejoin notice.
func (s *ChatService) CreateOrGetIn(ctx context.Context, tx repositories.Store, req RoomRequest) (models.RoomResult, error) {
	if req.CallerID != req.ApplicantID && req.CallerID != req.EmployerID {
		return models.RoomResult{}, models.ErrNotRoomParticipant
	}

	rooms := tx.Rooms()
	room, err := rooms.LockTriple(ctx, req.JobID, req.ApplicantID, req.EmployerID)
	if err != nil {
		return models.RoomResult{}, fmt.Errorf("lock room: %w", err)
	}
	if room == nil {
		created, err := rooms.Insert(ctx, req.JobID, req.ApplicantID, req.EmployerID)
		if err != nil {
			return models.RoomResult{}, fmt.Errorf("insert room: %w", err)
		}
		if created != nil {
			if _, err := tx.Messages().Create(ctx, created.ID, req.CallerID, req.Announcement, models.MessageSystem); err != nil {
				return models.RoomResult{}, fmt.Errorf("announce room: %w", err)
			}
			observability.IncRoomTransition("created")
			return models.RoomResult{Room: *created, Created: true}, nil
		}
		// a concurrent request inserted the row first
		room, err = rooms.LockTriple(ctx, req.JobID, req.ApplicantID, req.EmployerID)
		if err != nil {
			return models.RoomResult{}, fmt.Errorf("lock room: %w", err)
		}
		if room == nil {
			return models.RoomResult{}, models.ErrRoomNotFound
		}
	}

	next, reactivated := room.Rejoin(room.RoleOf(req.CallerID))
	if next == *room {
		return models.RoomResult{Room: next}, nil
	}
	if err := rooms.SaveState(ctx, &next); err != nil {
		return models.RoomResult{}, fmt.Errorf("save room: %w", err)
	}
	if reactivated {
		caller, err := tx.Users().GetByID(ctx, req.CallerID)
		if err != nil {
			return models.RoomResult{}, mapNotFound(err, repositories.ErrUserNotFound, models.ErrUserNotFound)
		}
		if _, err := tx.Messages().Create(ctx, next.ID, req.CallerID, models.ReactivationAnnouncement(caller.Nickname), models.MessageSystem); err != nil {
			return models.RoomResult{}, fmt.Errorf("announce reactivation: %w", err)
		}
		observability.IncRoomTransition("reactivated")
	} else {
		observability.IncRoomTransition("rejoined")
	}
	return models.RoomResult{Room: next, Reactivated: reactivated}, nil
}

// Leave sets the caller's left flag. The room goes inactive once both sides left.
func (s *ChatService) Leave(ctx context.Context, roomID, userID int) (models.ChatRoom, error) {
	ctx, span := tracer.Start(ctx, "chat.leave")
	defer span.End()

	var result models.ChatRoom
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		room, err := tx.Rooms().Lock(ctx, roomID)
		if err != nil {
			return mapNotFound(err, repositories.ErrRoomNotFound, models.ErrRoomNotFound)
		}
		role := room.RoleOf(userID)
		if role == models.RoleNone {
			return models.ErrNotRoomParticipant
		}
		next := room.Leave(role)
		result = next
		if next == room {
			return nil
		}
		if err := tx.Rooms().SaveState(ctx, &result); err != nil {
			return err
		}
		if next.State() == models.RoomBothLeft {
			observability.IncRoomTransition("deactivated")
		} else {
			observability.IncRoomTransition("left")
		}
		return nil
	})
	return result, err
}

// ListRooms returns the rooms visible to userID, most recently active first.
func (s *ChatService) ListRooms(ctx context.Context, userID int) ([]models.RoomSummary, error) {
	return s.store.Rooms().ListVisible(ctx, userID)
}

// Room returns a room after checking that userID takes part in it.
func (s *ChatService) Room(ctx context.Context, roomID, userID int) (models.ChatRoom, error) {
	room, err := s.store.Rooms().Get(ctx, roomID)
	if err != nil {
		return models.ChatRoom{}, mapNotFound(err, repositories.ErrRoomNotFound, models.ErrRoomNotFound)
	}
	if !room.IsParticipant(userID) {
		return models.ChatRoom{}, models.ErrNotRoomParticipant
	}
	return room, nil
}

// FindRoomForJob looks up userID's room for a job, including rooms the user left.
func (s *ChatService) FindRoomForJob(ctx context.Context, jobID, userID int) (models.ChatRoom, error) {
	room, err := s.store.Rooms().FindForJob(ctx, jobID, userID)
	if err != nil {
		return models.ChatRoom{}, err
	}
	if room == nil {
		return models.ChatRoom{}, models.ErrRoomNotFound
	}
	return *room, nil
}

// Messages returns one page of a room's messages, newest first.
func (s *ChatService) Messages(ctx context.Context, roomID, userID, page, perPage int) (models.MessagePage, error) {
	if _, err := s.Room(ctx, roomID, userID); err != nil {
		return models.MessagePage{}, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultMessagesPerPage
	}
	if perPage > MaxMessagesPerPage {
		perPage = MaxMessagesPerPage
	}

	items, err := s.store.Messages().List(ctx, roomID, perPage+1, (page-1)*perPage)
	if err != nil {
		return models.MessagePage{}, err
	}
	hasMore := len(items) > perPage
	if hasMore {
		items = items[:perPage]
	}
	if items == nil {
		items = []models.ChatMessage{}
	}
	return models.MessagePage{Items: items, Page: page, PerPage: perPage, HasMore: hasMore}, nil
}

// Send appends a participant message and bumps the room's activity time.
// Empty bodies are rejected by the transports before they reach Send.
func (s *ChatService) Send(ctx context.Context, roomID, senderID int, body, messageType string) (models.ChatMessage, models.ChatRoom, error) {
	ctx, span := tracer.Start(ctx, "chat.send")
	defer span.End()
	span.SetAttributes(attribute.Int("room.id", roomID))

	msgType, err := models.ParseUserMessageType(messageType)
	if err != nil {
		return models.ChatMessage{}, models.ChatRoom{}, err
	}
	room, err := s.Room(ctx, roomID, senderID)
	if err != nil {
		return models.ChatMessage{}, models.ChatRoom{}, err
	}

	var msg models.ChatMessage
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		msg, err = tx.Messages().Create(ctx, roomID, senderID, body, msgType)
		if err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		return tx.Rooms().Touch(ctx, roomID)
	})
	if err != nil {
		return models.ChatMessage{}, models.ChatRoom{}, err
	}

	observability.IncMessageSent(string(msgType))
	observability.PublishDomainEvent(ctx, "message_sent", map[string]any{
		"room_id":      roomID,
		"message_id":   msg.ID,
		"sender_id":    senderID,
		"message_type": msgType,
	})
	return msg, room, nil
}

// MarkRead marks the other party's unread messages as read. Calling it again
// updates nothing.
func (s *ChatService) MarkRead(ctx context.Context, roomID, readerID int) (models.ChatRoom, int64, error) {
	room, err := s.Room(ctx, roomID, readerID)
	if err != nil {
		return models.ChatRoom{}, 0, err
	}
	updated, err := s.store.Messages().MarkRead(ctx, roomID, readerID)
	if err != nil {
		return models.ChatRoom{}, 0, err
	}
	return room, updated, nil
}

// UnreadCountForUser counts unread messages from others across the user's active rooms.
func (s *ChatService) UnreadCountForUser(ctx context.Context, userID int) (int, error) {
	return s.store.Messages().UnreadCountForUser(ctx, userID)
}

// UnreadCountForRoom is UnreadCountForUser scoped to one room.
func (s *ChatService) UnreadCountForRoom(ctx context.Context, roomID, userID int) (int, error) {
	return s.store.Messages().UnreadCountForRoom(ctx, roomID, userID)
}
