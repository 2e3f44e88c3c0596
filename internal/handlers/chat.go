package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"senior-house/internal/models"
)

// ChatService is the chat room and messaging API used by the handlers.
type ChatService interface {
	ListRooms(ctx context.Context, userID int) ([]models.RoomSummary, error)
	UnreadCountForUser(ctx context.Context, userID int) (int, error)
	FindRoomForJob(ctx context.Context, jobID, userID int) (models.ChatRoom, error)
	Messages(ctx context.Context, roomID, userID, page, perPage int) (models.MessagePage, error)
	Send(ctx context.Context, roomID, senderID int, body, messageType string) (models.ChatMessage, models.ChatRoom, error)
	MarkRead(ctx context.Context, roomID, readerID int) (models.ChatRoom, int64, error)
	Leave(ctx context.Context, roomID, userID int) (models.ChatRoom, error)
}

// Notifier pushes committed chat changes to live connections.
type Notifier interface {
	MessageSent(ctx context.Context, room models.ChatRoom, msg models.ChatMessage)
	MessagesRead(ctx context.Context, room models.ChatRoom, readerID int, updated int64)
}

// ChatHandler manages chat room endpoints.
type ChatHandler struct {
	chats    ChatService
	notifier Notifier
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(chats ChatService, notifier Notifier) *ChatHandler {
	return &ChatHandler{chats: chats, notifier: notifier}
}

// ListRooms returns the rooms visible to the authenticated user.
func (h *ChatHandler) ListRooms(c *gin.Context) {
	rooms, err := h.chats.ListRooms(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// UnreadCount returns the total unread badge.
func (h *ChatHandler) UnreadCount(c *gin.Context) {
	count, err := h.chats.UnreadCountForUser(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// FindRoom returns the caller's room for a job, if any.
func (h *ChatHandler) FindRoom(c *gin.Context) {
	jobID, ok := pathInt(c, "job_id")
	if !ok {
		return
	}
	room, err := h.chats.FindRoomForJob(c.Request.Context(), jobID, c.GetInt("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

// GetMessages returns one page of the room's messages.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	roomID, ok := pathInt(c, "room_id")
	if !ok {
		return
	}
	page, err := h.chats.Messages(c.Request.Context(), roomID, c.GetInt("userID"),
		queryInt(c, "page", 1), queryInt(c, "per_page", 0))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type postMessageRequest struct {
	Message     string `json:"message"`
	MessageType string `json:"message_type"`
}

// PostMessage sends a message and fans it out like a websocket send.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	roomID, ok := pathInt(c, "room_id")
	if !ok {
		return
	}
	var req postMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(c, models.ErrEmptyMessage)
		return
	}

	msg, room, err := h.chats.Send(c.Request.Context(), roomID, c.GetInt("userID"), req.Message, req.MessageType)
	if err != nil {
		writeError(c, err)
		return
	}
	h.notifier.MessageSent(c.Request.Context(), room, msg)
	c.JSON(http.StatusCreated, msg)
}

// MarkRead marks the other party's messages as read.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	roomID, ok := pathInt(c, "room_id")
	if !ok {
		return
	}
	userID := c.GetInt("userID")
	room, updated, err := h.chats.MarkRead(c.Request.Context(), roomID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	h.notifier.MessagesRead(c.Request.Context(), room, userID, updated)
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// Leave hides the room for the caller and closes it once both sides left.
func (h *ChatHandler) Leave(c *gin.Context) {
	roomID, ok := pathInt(c, "room_id")
	if !ok {
		return
	}
	room, err := h.chats.Leave(c.Request.Context(), roomID, c.GetInt("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}
