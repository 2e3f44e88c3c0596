package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"senior-house/internal/mocks"
	"senior-house/internal/models"
)

type fixture struct {
	store     *mocks.MemStore
	chats     *ChatService
	apps      *ApplicationService
	applicant models.User
	employer  models.User
	job       models.JobPost
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := mocks.NewMemStore()
	chats := NewChatService(store)
	f := fixture{
		store:     store,
		chats:     chats,
		apps:      NewApplicationService(store, chats, nil),
		applicant: store.AddUser("박영희", models.RoleIndividual, false),
		employer:  store.AddUser("행복요양원", models.RoleCompany, true),
	}
	f.job = store.AddJob(f.employer.ID, "요양보호사 모집")
	return f
}

func (f fixture) apply(t *testing.T) models.ApplyResult {
	t.Helper()
	res, err := f.apps.Apply(context.Background(), f.applicant.ID, f.job.ID, "관심 있습니다")
	require.NoError(t, err)
	return res
}

func roomIDs(list []models.RoomSummary) []int {
	ids := make([]int, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.Room.ID)
	}
	return ids
}

func TestLeaveHidesRoomOnlyForLeaver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomID := f.apply(t).Room.Room.ID

	room, err := f.chats.Leave(ctx, roomID, f.applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomLeftByApplicant, room.State())

	mine, err := f.chats.ListRooms(ctx, f.applicant.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := f.chats.ListRooms(ctx, f.employer.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{roomID}, roomIDs(theirs))
	assert.Equal(t, f.applicant.ID, theirs[0].OtherUser.ID)
	assert.Equal(t, f.job.Title, theirs[0].JobTitle)
}

func TestBothLeftDeactivatesAndCreateOrGetReactivates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomID := f.apply(t).Room.Room.ID

	_, err := f.chats.Leave(ctx, roomID, f.applicant.ID)
	require.NoError(t, err)
	room, err := f.chats.Leave(ctx, roomID, f.employer.ID)
	require.NoError(t, err)
	assert.False(t, room.IsActive)
	assert.Equal(t, models.RoomBothLeft, room.State())

	for _, id := range []int{f.applicant.ID, f.employer.ID} {
		list, err := f.chats.ListRooms(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, list)
	}

	res, err := f.chats.CreateOrGet(ctx, RoomRequest{JobID: f.job.ID, ApplicantID: f.applicant.ID, EmployerID: f.employer.ID, CallerID: f.employer.ID})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.True(t, res.Reactivated)
	assert.Equal(t, roomID, res.Room.ID)
	assert.True(t, res.Room.IsActive)
	assert.False(t, res.Room.EmployerLeft)
	assert.True(t, res.Room.ApplicantLeft)
	assert.Equal(t, 1, f.store.RoomCount())

	msgs := f.store.MessagesIn(roomID)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.MessageSystem, msgs[1].MessageType)
	assert.Equal(t, models.ReactivationAnnouncement(f.employer.Nickname), msgs[1].Message)

	employerRooms, err := f.chats.ListRooms(ctx, f.employer.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{roomID}, roomIDs(employerRooms))
	applicantRooms, err := f.chats.ListRooms(ctx, f.applicant.ID)
	require.NoError(t, err)
	assert.Empty(t, applicantRooms)
}

func TestCreateOrGetOnActiveRoomIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.apply(t).Room

	res, err := f.chats.CreateOrGet(ctx, RoomRequest{JobID: f.job.ID, ApplicantID: f.applicant.ID, EmployerID: f.employer.ID, CallerID: f.applicant.ID})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.False(t, res.Reactivated)
	assert.Equal(t, first.Room.ID, res.Room.ID)
	assert.Len(t, f.store.MessagesIn(first.Room.ID), 1)
}

func TestCreateOrGetRejectsOutsider(t *testing.T) {
	f := newFixture(t)
	outsider := f.store.AddUser("김철수", models.RoleIndividual, false)

	_, err := f.chats.CreateOrGet(context.Background(), RoomRequest{JobID: f.job.ID, ApplicantID: f.applicant.ID, EmployerID: f.employer.ID, CallerID: outsider.ID})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestLeaveErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomID := f.apply(t).Room.Room.ID
	outsider := f.store.AddUser("김철수", models.RoleIndividual, false)

	_, err := f.chats.Leave(ctx, roomID, outsider.ID)
	assert.ErrorIs(t, err, models.ErrNotRoomParticipant)

	_, err = f.chats.Leave(ctx, 9999, f.applicant.ID)
	assert.ErrorIs(t, err, models.ErrRoomNotFound)
}

func TestUnreadCountsFollowMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomID := f.apply(t).Room.Room.ID

	for _, body := range []string{"안녕하세요", "면접 가능하신가요?", "연락 부탁드립니다"} {
		_, _, err := f.chats.Send(ctx, roomID, f.employer.ID, body, "")
		require.NoError(t, err)
	}

	count, err := f.chats.UnreadCountForUser(ctx, f.applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	perRoom, err := f.chats.UnreadCountForRoom(ctx, roomID, f.applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, perRoom)

	_, updated, err := f.chats.MarkRead(ctx, roomID, f.applicant.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, updated)

	count, err = f.chats.UnreadCountForUser(ctx, f.applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	employerCount, err := f.chats.UnreadCountForUser(ctx, f.employer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, employerCount)

	_, again, err := f.chats.MarkRead(ctx, roomID, f.applicant.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, again)
}

func TestUnreadExcludesRoomsTheUserLeft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomID := f.apply(t).Room.Room.ID

	_, _, err := f.chats.Send(ctx, roomID, f.employer.ID, "안녕하세요", "text")
	require.NoError(t, err)
	_, err = f.chats.Leave(ctx, roomID, f.applicant.ID)
	require.NoError(t, err)

	count, err := f.chats.UnreadCountForUser(ctx, f.applicant.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSendValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomID := f.apply(t).Room.Room.ID
	outsider := f.store.AddUser("김철수", models.RoleIndividual, false)

	_, _, err := f.chats.Send(ctx, roomID, f.applicant.ID, "hi", "system")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, _, err = f.chats.Send(ctx, roomID, outsider.ID, "hi", "text")
	assert.ErrorIs(t, err, models.ErrNotRoomParticipant)

	_, _, err = f.chats.Send(ctx, 9999, f.applicant.ID, "hi", "text")
	assert.ErrorIs(t, err, models.ErrRoomNotFound)

	msg, room, err := f.chats.Send(ctx, roomID, f.applicant.ID, "사진입니다", "image")
	require.NoError(t, err)
	assert.Equal(t, models.MessageImage, msg.MessageType)
	assert.Equal(t, roomID, room.ID)
}

func TestSendRollsBackOnStoreFailure(t *testing.T) {
	f := newFixture(t)
	roomID := f.apply(t).Room.Room.ID
	f.store.FailOn["Messages.Create"] = errors.New("db down")

	_, _, err := f.chats.Send(context.Background(), roomID, f.applicant.ID, "hi", "")
	require.Error(t, err)
	assert.Len(t, f.store.MessagesIn(roomID), 1)
}

func TestMessagesPaginatesNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomID := f.apply(t).Room.Room.ID
	for _, body := range []string{"1", "2", "3"} {
		_, _, err := f.chats.Send(ctx, roomID, f.employer.ID, body, "")
		require.NoError(t, err)
	}

	page, err := f.chats.Messages(ctx, roomID, f.applicant.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "3", page.Items[0].Message)
	assert.True(t, page.HasMore)

	page, err = f.chats.Messages(ctx, roomID, f.applicant.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, models.MessageSystem, page.Items[1].MessageType)
	assert.False(t, page.HasMore)
}

func TestFindRoomForJobIncludesLeftRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomID := f.apply(t).Room.Room.ID
	_, err := f.chats.Leave(ctx, roomID, f.applicant.ID)
	require.NoError(t, err)

	room, err := f.chats.FindRoomForJob(ctx, f.job.ID, f.applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, roomID, room.ID)

	_, err = f.chats.FindRoomForJob(ctx, f.job.ID+100, f.applicant.ID)
	assert.ErrorIs(t, err, models.ErrRoomNotFound)
}
