package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"senior-house/internal/models"
)

// ChatRepository abstracts chat room persistence.
type ChatRepository interface {
	Get(ctx context.Context, roomID int) (models.ChatRoom, error)
	// Lock fetches a room by id with a row lock held until the transaction ends.
	Lock(ctx context.Context, roomID int) (models.ChatRoom, error)
	// LockTriple returns nil when no room exists for the triple.
	LockTriple(ctx context.Context, jobID, applicantID, employerID int) (*models.ChatRoom, error)
	// Insert returns nil when a concurrent insert won the unique constraint.
	Insert(ctx context.Context, jobID, applicantID, employerID int) (*models.ChatRoom, error)
	SaveState(ctx context.Context, room *models.ChatRoom) error
	Touch(ctx context.Context, roomID int) error
	FindForJob(ctx context.Context, jobID, userID int) (*models.ChatRoom, error)
	ListVisible(ctx context.Context, userID int) ([]models.RoomSummary, error)
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db sqlx.ExtContext
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db sqlx.ExtContext) *ChatRepo {
	return &ChatRepo{db: db}
}

const roomColumns = `id, job_id, applicant_id, employer_id, is_active, applicant_left, employer_left, created_at, updated_at`

func (r *ChatRepo) one(ctx context.Context, query string, args ...any) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := sqlx.GetContext(ctx, r.db, &room, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Get fetches a room by id.
func (r *ChatRepo) Get(ctx context.Context, roomID int) (models.ChatRoom, error) {
	room, err := r.one(ctx, `SELECT `+roomColumns+` FROM chat_rooms WHERE id=$1`, roomID)
	if err != nil {
		return models.ChatRoom{}, err
	}
	if room == nil {
		return models.ChatRoom{}, ErrRoomNotFound
	}
	return *room, nil
}

// Lock fetches a room FOR UPDATE.
func (r *ChatRepo) Lock(ctx context.Context, roomID int) (models.ChatRoom, error) {
	room, err := r.one(ctx, `SELECT `+roomColumns+` FROM chat_rooms WHERE id=$1 FOR UPDATE`, roomID)
	if err != nil {
		return models.ChatRoom{}, err
	}
	if room == nil {
		return models.ChatRoom{}, ErrRoomNotFound
	}
	return *room, nil
}

// LockTriple fetches the room of a (job, applicant, employer) triple FOR UPDATE.
func (r *ChatRepo) LockTriple(ctx context.Context, jobID, applicantID, employerID int) (*models.ChatRoom, error) {
	return r.one(ctx, `SELECT `+roomColumns+` FROM chat_rooms
		WHERE job_id=$1 AND applicant_id=$2 AND employer_id=$3 FOR UPDATE`, jobID, applicantID, employerID)
}

// Insert creates an active room for the triple.
func (r *ChatRepo) Insert(ctx context.Context, jobID, applicantID, employerID int) (*models.ChatRoom, error) {
	return r.one(ctx, `INSERT INTO chat_rooms (job_id, applicant_id, employer_id)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT uq_chat_room DO NOTHING
		RETURNING `+roomColumns, jobID, applicantID, employerID)
}

// SaveState persists the lifecycle columns of room and bumps updated_at.
func (r *ChatRepo) SaveState(ctx context.Context, room *models.ChatRoom) error {
	err := r.db.QueryRowxContext(ctx, `UPDATE chat_rooms
		SET is_active=$2, applicant_left=$3, employer_left=$4, updated_at=NOW()
		WHERE id=$1 RETURNING updated_at`,
		room.ID, room.IsActive, room.ApplicantLeft, room.EmployerLeft).Scan(&room.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	return err
}

// Touch bumps updated_at so the room moves to the top of room lists.
func (r *ChatRepo) Touch(ctx context.Context, roomID int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE chat_rooms SET updated_at=NOW() WHERE id=$1`, roomID)
	return err
}

// FindForJob returns the most recent room of jobID in which userID takes part.
func (r *ChatRepo) FindForJob(ctx context.Context, jobID, userID int) (*models.ChatRoom, error) {
	return r.one(ctx, `SELECT `+roomColumns+` FROM chat_rooms
		WHERE job_id=$1 AND (applicant_id=$2 OR employer_id=$2)
		ORDER BY updated_at DESC LIMIT 1`, jobID, userID)
}

type roomListRow struct {
	models.ChatRoom
	JobTitle        string     `db:"job_title"`
	OtherID         int        `db:"other_id"`
	OtherNickname   string     `db:"other_nickname"`
	OtherRole       string     `db:"other_role"`
	LastID          *int       `db:"last_id"`
	LastSenderID    *int       `db:"last_sender_id"`
	LastMessage     *string    `db:"last_message"`
	LastMessageType *string    `db:"last_message_type"`
	LastIsRead      *bool      `db:"last_is_read"`
	LastCreatedAt   *time.Time `db:"last_created_at"`
	UnreadCount     int        `db:"unread_count"`
}

// ListVisible returns the rooms userID has not left, most recent activity first.
func (r *ChatRepo) ListVisible(ctx context.Context, userID int) ([]models.RoomSummary, error) {
	query := `SELECT r.id, r.job_id, r.applicant_id, r.employer_id, r.is_active, r.applicant_left, r.employer_left,
		r.created_at, r.updated_at,
		j.title AS job_title,
		o.id AS other_id, o.nickname AS other_nickname, o.role AS other_role,
		lm.id AS last_id, lm.sender_id AS last_sender_id, lm.message AS last_message,
		lm.message_type AS last_message_type, lm.is_read AS last_is_read, lm.created_at AS last_created_at,
		(SELECT COUNT(*) FROM chat_messages m
			WHERE m.room_id = r.id AND m.sender_id <> $1 AND m.is_read = FALSE AND m.message_type <> 'system') AS unread_count
		FROM chat_rooms r
		JOIN job_posts j ON j.id = r.job_id
		JOIN users o ON o.id = CASE WHEN r.applicant_id = $1 THEN r.employer_id ELSE r.applicant_id END
		LEFT JOIN LATERAL (
			SELECT id, sender_id, message, message_type, is_read, created_at FROM chat_messages
			WHERE room_id = r.id ORDER BY created_at DESC, id DESC LIMIT 1
		) lm ON TRUE
		WHERE r.is_active = TRUE
		AND ((r.applicant_id = $1 AND r.applicant_left = FALSE) OR (r.employer_id = $1 AND r.employer_left = FALSE))
		ORDER BY r.updated_at DESC`

	var rows []roomListRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, userID); err != nil {
		return nil, err
	}
	summaries := make([]models.RoomSummary, 0, len(rows))
	for _, row := range rows {
		summary := models.RoomSummary{
			Room:        row.ChatRoom,
			JobTitle:    row.JobTitle,
			OtherUser:   models.UserRef{ID: row.OtherID, Nickname: row.OtherNickname, Role: models.Role(row.OtherRole)},
			UnreadCount: row.UnreadCount,
		}
		if row.LastID != nil {
			summary.LastMessage = &models.ChatMessage{
				ID:          *row.LastID,
				RoomID:      row.ID,
				SenderID:    deref(row.LastSenderID),
				Message:     deref(row.LastMessage),
				MessageType: models.MessageType(deref(row.LastMessageType)),
				IsRead:      deref(row.LastIsRead),
				CreatedAt:   deref(row.LastCreatedAt),
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
