package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planora/internal/domain/entity"
	"planora/pkg/errors"
)

func newDirectoryFixture() (*RoomDirectoryUseCase, *fakeRoomRepo, *fakeParticipantRepo, *fakeMessageRepo, *fakeProjectRepo) {
	roomRepo := newFakeRoomRepo()
	participantRepo := newFakeParticipantRepo()
	messageRepo := newFakeMessageRepo()
	projectRepo := newFakeProjectRepo()
	uc := NewRoomDirectoryUseCase(roomRepo, participantRepo, messageRepo, projectRepo)
	return uc, roomRepo, participantRepo, messageRepo, projectRepo
}

func TestListRoomsEmptyForNewUser(t *testing.T) {
	uc, _, _, _, _ := newDirectoryFixture()

	rooms, err := uc.ListRooms(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestListRoomsUnreadCounts(t *testing.T) {
	uc, roomRepo, participantRepo, messageRepo, _ := newDirectoryFixture()
	ctx := context.Background()

	room := &entity.Room{ID: "room-1", Kind: entity.RoomKindGroup, Name: "general"}
	require.NoError(t, roomRepo.Create(ctx, room))

	watermark := time.Now().Add(-time.Hour)
	require.NoError(t, participantRepo.Create(ctx, &entity.Participant{
		RoomID: "room-1", UserID: "alice", Role: entity.RoleMember, LastReadAt: &watermark,
	}))

	// Two unread from bob, one already read, one of alice's own.
	for _, m := range []*entity.Message{
		{RoomID: "room-1", SenderID: "bob", Content: "old", CreatedAt: watermark.Add(-time.Minute)},
		{RoomID: "room-1", SenderID: "bob", Content: "new 1", CreatedAt: watermark.Add(time.Minute)},
		{RoomID: "room-1", SenderID: "bob", Content: "new 2", CreatedAt: watermark.Add(2 * time.Minute)},
		{RoomID: "room-1", SenderID: "alice", Content: "mine", CreatedAt: watermark.Add(3 * time.Minute)},
	} {
		require.NoError(t, messageRepo.Create(ctx, m))
	}

	rooms, err := uc.ListRooms(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, 2, rooms[0].UnreadCount)

	// Marking the room read drains the count.
	require.NoError(t, uc.MarkRoomRead(ctx, "alice", "room-1"))
	rooms, err = uc.ListRooms(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, rooms[0].UnreadCount)
}

func TestListRoomsNilWatermarkCountsEverything(t *testing.T) {
	uc, roomRepo, participantRepo, messageRepo, _ := newDirectoryFixture()
	ctx := context.Background()

	require.NoError(t, roomRepo.Create(ctx, &entity.Room{ID: "room-1", Kind: entity.RoomKindGroup}))
	require.NoError(t, participantRepo.Create(ctx, &entity.Participant{
		RoomID: "room-1", UserID: "alice", Role: entity.RoleMember,
	}))
	require.NoError(t, messageRepo.Create(ctx, &entity.Message{RoomID: "room-1", SenderID: "bob", Content: "hi"}))

	rooms, err := uc.ListRooms(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, 1, rooms[0].UnreadCount)
}

func TestListRoomsOrderedByCreationDescending(t *testing.T) {
	uc, roomRepo, participantRepo, _, _ := newDirectoryFixture()
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"room-a", "room-b", "room-c"} {
		require.NoError(t, roomRepo.Create(ctx, &entity.Room{
			ID: id, Kind: entity.RoomKindGroup, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
		require.NoError(t, participantRepo.Create(ctx, &entity.Participant{
			RoomID: id, UserID: "alice", Role: entity.RoleMember,
		}))
	}

	rooms, err := uc.ListRooms(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, "room-c", rooms[0].ID)
	assert.Equal(t, "room-b", rooms[1].ID)
	assert.Equal(t, "room-a", rooms[2].ID)
}

func TestListRoomsResolvesProjectNames(t *testing.T) {
	uc, roomRepo, participantRepo, _, projectRepo := newDirectoryFixture()
	ctx := context.Background()

	projectRepo.names["proj-1"] = "Website Redesign"
	require.NoError(t, roomRepo.Create(ctx, &entity.Room{
		ID: "room-1", Kind: entity.RoomKindProject, ProjectID: "proj-1",
	}))
	require.NoError(t, participantRepo.Create(ctx, &entity.Participant{
		RoomID: "room-1", UserID: "alice", Role: entity.RoleMember,
	}))

	rooms, err := uc.ListRooms(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Website Redesign", rooms[0].ProjectName)
}

func TestGetRoomForbiddenForNonParticipant(t *testing.T) {
	uc, roomRepo, _, _, _ := newDirectoryFixture()
	ctx := context.Background()

	require.NoError(t, roomRepo.Create(ctx, &entity.Room{ID: "room-1", Kind: entity.RoomKindGroup}))

	_, err := uc.GetRoom(ctx, "mallory", "room-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestMarkRoomReadForbiddenForNonParticipant(t *testing.T) {
	uc, _, _, _, _ := newDirectoryFixture()

	err := uc.MarkRoomRead(context.Background(), "mallory", "room-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}
