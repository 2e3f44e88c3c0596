package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"senior-house/internal/mocks"
	"senior-house/internal/models"
)

func asUser(userID int, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("role", string(role))
		c.Next()
	}
}

func setupChatRouter(handler *ChatHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(1, models.RoleIndividual))
	r.GET("/chats", handler.ListRooms)
	r.GET("/chats/unread", handler.UnreadCount)
	r.GET("/chats/find-room/:job_id", handler.FindRoom)
	r.GET("/chats/:room_id/messages", handler.GetMessages)
	r.POST("/chats/:room_id/messages", handler.PostMessage)
	r.POST("/chats/:room_id/read", handler.MarkRead)
	r.POST("/chats/:room_id/leave", handler.Leave)
	return r
}

func serve(router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var room = models.ChatRoom{ID: 3, JobID: 9, ApplicantID: 1, EmployerID: 2, IsActive: true}

func TestListRoomsSuccess(t *testing.T) {
	chats := new(mocks.ChatServiceMock)
	router := setupChatRouter(NewChatHandler(chats, new(mocks.NotifierMock)))

	chats.On("ListRooms", mock.Anything, 1).Return([]models.RoomSummary{{Room: room, JobTitle: "경비원", UnreadCount: 2}}, nil).Once()

	rec := serve(router, http.MethodGet, "/chats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Rooms []models.RoomSummary `json:"rooms"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Rooms, 1)
	assert.Equal(t, 2, resp.Rooms[0].UnreadCount)
	chats.AssertExpectations(t)
}

func TestListRoomsServiceError(t *testing.T) {
	chats := new(mocks.ChatServiceMock)
	router := setupChatRouter(NewChatHandler(chats, new(mocks.NotifierMock)))

	chats.On("ListRooms", mock.Anything, 1).Return(nil, assert.AnError).Once()

	rec := serve(router, http.MethodGet, "/chats", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestUnreadCount(t *testing.T) {
	chats := new(mocks.ChatServiceMock)
	router := setupChatRouter(NewChatHandler(chats, new(mocks.NotifierMock)))

	chats.On("UnreadCountForUser", mock.Anything, 1).Return(4, nil).Once()

	rec := serve(router, http.MethodGet, "/chats/unread", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":4}`, rec.Body.String())
}

func TestFindRoomNotFound(t *testing.T) {
	chats := new(mocks.ChatServiceMock)
	router := setupChatRouter(NewChatHandler(chats, new(mocks.NotifierMock)))

	chats.On("FindRoomForJob", mock.Anything, 9, 1).Return(nil, models.ErrRoomNotFound).Once()

	rec := serve(router, http.MethodGet, "/chats/find-room/9", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMessagesPassesPaging(t *testing.T) {
	chats := new(mocks.ChatServiceMock)
	router := setupChatRouter(NewChatHandler(chats, new(mocks.NotifierMock)))

	chats.On("Messages", mock.Anything, 3, 1, 2, 10).Return(models.MessagePage{Page: 2, PerPage: 10, Items: []models.ChatMessage{}}, nil).Once()

	rec := serve(router, http.MethodGet, "/chats/3/messages?page=2&per_page=10", "")

	require.Equal(t, http.StatusOK, rec.Code)
	chats.AssertExpectations(t)
}

func TestGetMessagesInvalidRoom(t *testing.T) {
	router := setupChatRouter(NewChatHandler(new(mocks.ChatServiceMock), new(mocks.NotifierMock)))

	rec := serve(router, http.MethodGet, "/chats/abc/messages", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostMessageNotifies(t *testing.T) {
	chats := new(mocks.ChatServiceMock)
	notifier := new(mocks.NotifierMock)
	router := setupChatRouter(NewChatHandler(chats, notifier))

	msg := models.ChatMessage{ID: 11, RoomID: 3, SenderID: 1, Message: "언제 면접 가능할까요?", MessageType: models.MessageText}
	chats.On("Send", mock.Anything, 3, 1, "언제 면접 가능할까요?", "").Return(msg, room, nil).Once()
	notifier.On("MessageSent", mock.Anything, room, msg).Once()

	rec := serve(router, http.MethodPost, "/chats/3/messages", `{"message":"언제 면접 가능할까요?"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	chats.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestPostMessageRejectsEmptyBody(t *testing.T) {
	chats := new(mocks.ChatServiceMock)
	notifier := new(mocks.NotifierMock)
	router := setupChatRouter(NewChatHandler(chats, notifier))

	rec := serve(router, http.MethodPost, "/chats/3/messages", `{"message":"  "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	chats.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "MessageSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostMessageNonParticipant(t *testing.T) {
	chats := new(mocks.ChatServiceMock)
	notifier := new(mocks.NotifierMock)
	router := setupChatRouter(NewChatHandler(chats, notifier))

	chats.On("Send", mock.Anything, 3, 1, "hi", "").Return(nil, nil, models.ErrNotRoomParticipant).Once()

	rec := serve(router, http.MethodPost, "/chats/3/messages", `{"message":"hi"}`)

	require.Equal(t, http.StatusForbidden, rec.Code)
	notifier.AssertNotCalled(t, "MessageSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkReadNotifies(t *testing.T) {
	chats := new(mocks.ChatServiceMock)
	notifier := new(mocks.NotifierMock)
	router := setupChatRouter(NewChatHandler(chats, notifier))

	chats.On("MarkRead", mock.Anything, 3, 1).Return(room, int64(3), nil).Once()
	notifier.On("MessagesRead", mock.Anything, room, 1, int64(3)).Once()

	rec := serve(router, http.MethodPost, "/chats/3/read", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":3}`, rec.Body.String())
	notifier.AssertExpectations(t)
}

func TestLeave(t *testing.T) {
	chats := new(mocks.ChatServiceMock)
	router := setupChatRouter(NewChatHandler(chats, new(mocks.NotifierMock)))

	left := room
	left.ApplicantLeft = true
	chats.On("Leave", mock.Anything, 3, 1).Return(left, nil).Once()

	rec := serve(router, http.MethodPost, "/chats/3/leave", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"applicant_left":true`)
}
