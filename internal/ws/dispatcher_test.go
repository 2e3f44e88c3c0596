package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"senior-house/internal/models"
)

type chatEngineMock struct {
	mock.Mock
}

func (m *chatEngineMock) Room(ctx context.Context, roomID, userID int) (models.ChatRoom, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Get(0).(models.ChatRoom), args.Error(1)
}

func (m *chatEngineMock) Send(ctx context.Context, roomID, senderID int, body, messageType string) (models.ChatMessage, models.ChatRoom, error) {
	args := m.Called(ctx, roomID, senderID, body, messageType)
	return args.Get(0).(models.ChatMessage), args.Get(1).(models.ChatRoom), args.Error(2)
}

func (m *chatEngineMock) MarkRead(ctx context.Context, roomID, readerID int) (models.ChatRoom, int64, error) {
	args := m.Called(ctx, roomID, readerID)
	return args.Get(0).(models.ChatRoom), args.Get(1).(int64), args.Error(2)
}

func (m *chatEngineMock) UnreadCountForUser(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *chatEngineMock) UnreadCountForRoom(ctx context.Context, roomID, userID int) (int, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Int(0), args.Error(1)
}

const (
	applicantID = 10
	employerID  = 20
)

var testRoom = models.ChatRoom{ID: 1, JobID: 3, ApplicantID: applicantID, EmployerID: employerID, IsActive: true}

func frame(t *testing.T, event string, data any) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	out, err := json.Marshal(models.ClientEvent{Event: event, Data: raw})
	require.NoError(t, err)
	return out
}

func errorOf(t *testing.T, frames []models.ClientEvent) models.ErrorPayload {
	t.Helper()
	require.Len(t, frames, 1)
	require.Equal(t, models.EventError, frames[0].Event)
	var payload models.ErrorPayload
	require.NoError(t, json.Unmarshal(frames[0].Data, &payload))
	return payload
}

func newDispatcher(engine *chatEngineMock) (*Hub, *Dispatcher) {
	hub := NewHub()
	return hub, NewDispatcher(hub, engine, NewNotifier(hub, engine))
}

func TestDispatchJoinChecksParticipation(t *testing.T) {
	engine := new(chatEngineMock)
	hub, d := newDispatcher(engine)
	outsider := newTestClient(99)
	hub.Register(outsider)
	engine.On("Room", mock.Anything, 1, 99).Return(models.ChatRoom{}, models.ErrNotRoomParticipant)

	d.Dispatch(context.Background(), outsider, frame(t, models.EventJoin, models.RoomRef{RoomID: 1}))

	assert.Equal(t, CodeForbidden, errorOf(t, drain(t, outsider)).Code)
	assert.False(t, outsider.InRoom(1))
	assert.Equal(t, 1, hub.Online(99))
}

func TestDispatchJoinRechecksEveryTime(t *testing.T) {
	engine := new(chatEngineMock)
	hub, d := newDispatcher(engine)
	c := newTestClient(applicantID)
	hub.Register(c)
	engine.On("Room", mock.Anything, 1, applicantID).Return(testRoom, nil).Once()
	engine.On("Room", mock.Anything, 1, applicantID).Return(models.ChatRoom{}, models.ErrNotRoomParticipant).Once()

	d.Dispatch(context.Background(), c, frame(t, models.EventJoin, models.RoomRef{RoomID: 1}))
	assert.Equal(t, []string{models.EventJoined}, eventNames(drain(t, c)))

	d.Dispatch(context.Background(), c, frame(t, models.EventJoin, models.RoomRef{RoomID: 1}))
	assert.Equal(t, CodeForbidden, errorOf(t, drain(t, c)).Code)
	engine.AssertNumberOfCalls(t, "Room", 2)
}

func TestDispatchSendMessageRejectsEmptyBody(t *testing.T) {
	engine := new(chatEngineMock)
	hub, d := newDispatcher(engine)
	c := newTestClient(applicantID)
	hub.Register(c)

	d.Dispatch(context.Background(), c, frame(t, models.EventSendMessage, models.SendMessagePayload{RoomID: 1, Message: "   "}))

	assert.Equal(t, CodeBadRequest, errorOf(t, drain(t, c)).Code)
	engine.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchSendMessageFansOut(t *testing.T) {
	engine := new(chatEngineMock)
	hub, d := newDispatcher(engine)
	sender := newTestClient(applicantID)
	receiver := newTestClient(employerID)
	hub.Register(sender)
	hub.Register(receiver)
	hub.JoinRoom(1, sender)
	hub.JoinRoom(1, receiver)

	msg := models.ChatMessage{ID: 5, RoomID: 1, SenderID: applicantID, Message: "안녕하세요", MessageType: models.MessageText, CreatedAt: time.Now()}
	engine.On("Send", mock.Anything, 1, applicantID, "안녕하세요", "").Return(msg, testRoom, nil)
	engine.On("UnreadCountForUser", mock.Anything, applicantID).Return(0, nil)
	engine.On("UnreadCountForUser", mock.Anything, employerID).Return(1, nil)
	engine.On("UnreadCountForRoom", mock.Anything, 1, employerID).Return(1, nil)

	d.Dispatch(context.Background(), sender, frame(t, models.EventSendMessage, models.SendMessagePayload{RoomID: 1, Message: "안녕하세요"}))

	assert.Equal(t, []string{models.EventNewMessage, models.EventLastMessageUpdated, models.EventUnreadTotal},
		eventNames(drain(t, sender)))
	assert.Equal(t, []string{models.EventNewMessage, models.EventLastMessageUpdated, models.EventUnreadTotal, models.EventRoomUnreadCount},
		eventNames(drain(t, receiver)))
	engine.AssertExpectations(t)
}

func TestDispatchReadMessagesNotifiesRoom(t *testing.T) {
	engine := new(chatEngineMock)
	hub, d := newDispatcher(engine)
	reader := newTestClient(employerID)
	other := newTestClient(applicantID)
	hub.Register(reader)
	hub.Register(other)
	hub.JoinRoom(1, reader)
	hub.JoinRoom(1, other)

	engine.On("MarkRead", mock.Anything, 1, employerID).Return(testRoom, int64(3), nil)
	engine.On("UnreadCountForUser", mock.Anything, mock.Anything).Return(0, nil)
	engine.On("UnreadCountForRoom", mock.Anything, 1, employerID).Return(0, nil)

	d.Dispatch(context.Background(), reader, frame(t, models.EventReadMessages, models.RoomRef{RoomID: 1}))

	frames := drain(t, other)
	require.NotEmpty(t, frames)
	assert.Equal(t, models.EventMessagesRead, frames[0].Event)
	var payload models.MessagesReadPayload
	require.NoError(t, json.Unmarshal(frames[0].Data, &payload))
	assert.Equal(t, employerID, payload.ReaderID)
	assert.Equal(t, int64(3), payload.Updated)
	assert.Contains(t, eventNames(drain(t, reader)), models.EventRoomUnreadCount)
}

func TestDispatchUnknownAndMalformedFrames(t *testing.T) {
	engine := new(chatEngineMock)
	hub, d := newDispatcher(engine)
	c := newTestClient(applicantID)
	hub.Register(c)

	d.Dispatch(context.Background(), c, []byte("not json"))
	assert.Equal(t, CodeBadRequest, errorOf(t, drain(t, c)).Code)

	d.Dispatch(context.Background(), c, frame(t, "dance", struct{}{}))
	assert.Equal(t, CodeBadRequest, errorOf(t, drain(t, c)).Code)
	assert.Equal(t, 1, hub.Online(applicantID))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeConflict, ErrorCode(models.ErrDuplicateApplication))
	assert.Equal(t, CodeNotFound, ErrorCode(models.ErrRoomNotFound))
	assert.Equal(t, CodeBadRequest, ErrorCode(models.ErrInvalidMessageType))
	assert.Equal(t, CodeServerError, ErrorCode(assert.AnError))
}

func TestDispatchRecoversHandlerPanic(t *testing.T) {
	engine := new(chatEngineMock)
	hub, d := newDispatcher(engine)
	reader := newTestClient(applicantID)
	other := newTestClient(employerID)
	hub.Register(reader)
	hub.Register(other)
	hub.JoinRoom(1, reader)
	hub.JoinRoom(1, other)
	engine.On("MarkRead", mock.Anything, 1, applicantID).Run(func(mock.Arguments) {
		var counts map[int]int
		counts[1]++
	})

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), reader, frame(t, models.EventReadMessages, models.RoomRef{RoomID: 1}))
	})

	payload := errorOf(t, drain(t, reader))
	assert.Equal(t, CodeServerError, payload.Code)
	assert.Equal(t, "internal error", payload.Message)
	assert.Empty(t, drain(t, other))
	assert.Equal(t, 2, hub.RoomSize(1))
	assert.Equal(t, 1, hub.Online(employerID))
}
