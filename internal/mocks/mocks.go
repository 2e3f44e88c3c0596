package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"senior-house/internal/models"
)

type ChatServiceMock struct {
	mock.Mock
}

func (m *ChatServiceMock) ListRooms(ctx context.Context, userID int) ([]models.RoomSummary, error) {
	args := m.Called(ctx, userID)
	var rooms []models.RoomSummary
	if val := args.Get(0); val != nil {
		rooms = val.([]models.RoomSummary)
	}
	return rooms, args.Error(1)
}

func (m *ChatServiceMock) UnreadCountForUser(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *ChatServiceMock) FindRoomForJob(ctx context.Context, jobID, userID int) (models.ChatRoom, error) {
	args := m.Called(ctx, jobID, userID)
	var room models.ChatRoom
	if val := args.Get(0); val != nil {
		room = val.(models.ChatRoom)
	}
	return room, args.Error(1)
}

func (m *ChatServiceMock) Messages(ctx context.Context, roomID, userID, page, perPage int) (models.MessagePage, error) {
	args := m.Called(ctx, roomID, userID, page, perPage)
	var result models.MessagePage
	if val := args.Get(0); val != nil {
		result = val.(models.MessagePage)
	}
	return result, args.Error(1)
}

func (m *ChatServiceMock) Send(ctx context.Context, roomID, senderID int, body, messageType string) (models.ChatMessage, models.ChatRoom, error) {
	args := m.Called(ctx, roomID, senderID, body, messageType)
	var msg models.ChatMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.ChatMessage)
	}
	var room models.ChatRoom
	if val := args.Get(1); val != nil {
		room = val.(models.ChatRoom)
	}
	return msg, room, args.Error(2)
}

func (m *ChatServiceMock) MarkRead(ctx context.Context, roomID, readerID int) (models.ChatRoom, int64, error) {
	args := m.Called(ctx, roomID, readerID)
	var room models.ChatRoom
	if val := args.Get(0); val != nil {
		room = val.(models.ChatRoom)
	}
	var updated int64
	if val := args.Get(1); val != nil {
		updated = val.(int64)
	}
	return room, updated, args.Error(2)
}

func (m *ChatServiceMock) Leave(ctx context.Context, roomID, userID int) (models.ChatRoom, error) {
	args := m.Called(ctx, roomID, userID)
	var room models.ChatRoom
	if val := args.Get(0); val != nil {
		room = val.(models.ChatRoom)
	}
	return room, args.Error(1)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) MessageSent(ctx context.Context, room models.ChatRoom, msg models.ChatMessage) {
	m.Called(ctx, room, msg)
}

func (m *NotifierMock) MessagesRead(ctx context.Context, room models.ChatRoom, readerID int, updated int64) {
	m.Called(ctx, room, readerID, updated)
}

type ApplicationServiceMock struct {
	mock.Mock
}

func (m *ApplicationServiceMock) Apply(ctx context.Context, userID, jobID int, message string) (models.ApplyResult, error) {
	args := m.Called(ctx, userID, jobID, message)
	var result models.ApplyResult
	if val := args.Get(0); val != nil {
		result = val.(models.ApplyResult)
	}
	return result, args.Error(1)
}

func (m *ApplicationServiceMock) UpdateStatus(ctx context.Context, applicationID, actingUserID int, status models.ApplicationStatus) (models.JobApplication, error) {
	args := m.Called(ctx, applicationID, actingUserID, status)
	var app models.JobApplication
	if val := args.Get(0); val != nil {
		app = val.(models.JobApplication)
	}
	return app, args.Error(1)
}

func (m *ApplicationServiceMock) CheckStatus(ctx context.Context, userID, jobID int) (models.ApplicationState, error) {
	args := m.Called(ctx, userID, jobID)
	var state models.ApplicationState
	if val := args.Get(0); val != nil {
		state = val.(models.ApplicationState)
	}
	return state, args.Error(1)
}

func (m *ApplicationServiceMock) CheckStatuses(ctx context.Context, userID int, jobIDs []int) (map[int]models.ApplicationState, error) {
	args := m.Called(ctx, userID, jobIDs)
	var states map[int]models.ApplicationState
	if val := args.Get(0); val != nil {
		states = val.(map[int]models.ApplicationState)
	}
	return states, args.Error(1)
}

func (m *ApplicationServiceMock) ListForUser(ctx context.Context, userID int) ([]models.ApplicationView, error) {
	args := m.Called(ctx, userID)
	var list []models.ApplicationView
	if val := args.Get(0); val != nil {
		list = val.([]models.ApplicationView)
	}
	return list, args.Error(1)
}

func (m *ApplicationServiceMock) ListForJob(ctx context.Context, jobID, employerID int) ([]models.ApplicationView, error) {
	args := m.Called(ctx, jobID, employerID)
	var list []models.ApplicationView
	if val := args.Get(0); val != nil {
		list = val.([]models.ApplicationView)
	}
	return list, args.Error(1)
}

func (m *ApplicationServiceMock) OpenChat(ctx context.Context, jobID, callerID, applicantID int) (models.RoomResult, error) {
	args := m.Called(ctx, jobID, callerID, applicantID)
	var result models.RoomResult
	if val := args.Get(0); val != nil {
		result = val.(models.RoomResult)
	}
	return result, args.Error(1)
}
