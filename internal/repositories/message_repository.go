package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"senior-house/internal/models"
)

// MessageRepository defines interactions for chat messages.
type MessageRepository interface {
	Create(ctx context.Context, roomID, senderID int, body string, msgType models.MessageType) (models.ChatMessage, error)
	List(ctx context.Context, roomID, limit, offset int) ([]models.ChatMessage, error)
	MarkRead(ctx context.Context, roomID, readerID int) (int64, error)
	UnreadCountForUser(ctx context.Context, userID int) (int, error)
	UnreadCountForRoom(ctx context.Context, roomID, userID int) (int, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db sqlx.ExtContext
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db sqlx.ExtContext) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, room_id, sender_id, message, message_type, is_read, created_at`

// Create appends a message to a room.
func (r *MessageRepo) Create(ctx context.Context, roomID, senderID int, body string, msgType models.MessageType) (models.ChatMessage, error) {
	var msg models.ChatMessage
	err := sqlx.GetContext(ctx, r.db, &msg, `INSERT INTO chat_messages (room_id, sender_id, message, message_type)
		VALUES ($1, $2, $3, $4) RETURNING `+messageColumns, roomID, senderID, body, msgType)
	return msg, err
}

// List returns messages of a room, newest first.
func (r *MessageRepo) List(ctx context.Context, roomID, limit, offset int) ([]models.ChatMessage, error) {
	msgs := []models.ChatMessage{}
	err := sqlx.SelectContext(ctx, r.db, &msgs, `SELECT `+messageColumns+` FROM chat_messages
		WHERE room_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`, roomID, limit, offset)
	return msgs, err
}

// MarkRead flags every unread message of the other party as read.
func (r *MessageRepo) MarkRead(ctx context.Context, roomID, readerID int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE chat_messages SET is_read=TRUE
		WHERE room_id=$1 AND sender_id<>$2 AND is_read=FALSE`, roomID, readerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// unreadFilter counts messages addressed to $1 in rooms it still sees. System
// announcements are not counted.
const unreadFilter = `FROM chat_messages m
	JOIN chat_rooms r ON r.id = m.room_id
	WHERE r.is_active = TRUE
	AND ((r.applicant_id = $1 AND r.applicant_left = FALSE) OR (r.employer_id = $1 AND r.employer_left = FALSE))
	AND m.sender_id <> $1 AND m.is_read = FALSE AND m.message_type <> 'system'`

// UnreadCountForUser aggregates unread messages over all of the user's rooms.
func (r *MessageRepo) UnreadCountForUser(ctx context.Context, userID int) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) `+unreadFilter, userID)
	return count, err
}

// UnreadCountForRoom counts unread messages for the user in one room.
func (r *MessageRepo) UnreadCountForRoom(ctx context.Context, roomID, userID int) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) `+unreadFilter+` AND m.room_id = $2`, userID, roomID)
	return count, err
}
