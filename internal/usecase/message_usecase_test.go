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

func newMessageFixture(t *testing.T) (*MessageUseCase, *fakeMessageRepo, *fakeProfileRepo) {
	t.Helper()
	ctx := context.Background()

	roomRepo := newFakeRoomRepo()
	participantRepo := newFakeParticipantRepo()
	messageRepo := newFakeMessageRepo()
	profileRepo := newFakeProfileRepo()

	require.NoError(t, roomRepo.Create(ctx, &entity.Room{ID: "room-1", Kind: entity.RoomKindGroup}))
	require.NoError(t, participantRepo.Create(ctx, &entity.Participant{
		RoomID: "room-1", UserID: "alice", Role: entity.RoleAdmin,
	}))
	require.NoError(t, participantRepo.Create(ctx, &entity.Participant{
		RoomID: "room-1", UserID: "bob", Role: entity.RoleMember,
	}))

	return NewMessageUseCase(roomRepo, participantRepo, messageRepo, profileRepo), messageRepo, profileRepo
}

func TestListMessagesOrderingWithTieBreak(t *testing.T) {
	uc, messageRepo, _ := newMessageFixture(t)
	ctx := context.Background()

	at := time.Now().Add(-time.Minute)
	for _, m := range []*entity.Message{
		{ID: "msg-b", RoomID: "room-1", SenderID: "bob", Content: "tied later id", CreatedAt: at},
		{ID: "msg-c", RoomID: "room-1", SenderID: "bob", Content: "newest", CreatedAt: at.Add(time.Second)},
		{ID: "msg-a", RoomID: "room-1", SenderID: "alice", Content: "tied earlier id", CreatedAt: at},
	} {
		require.NoError(t, messageRepo.Create(ctx, m))
	}

	messages, err := uc.ListMessages(ctx, "alice", "room-1", 0)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	assert.Equal(t, "msg-a", messages[0].ID)
	assert.Equal(t, "msg-b", messages[1].ID)
	assert.Equal(t, "msg-c", messages[2].ID)
}

func TestListMessagesJoinsSenderProfiles(t *testing.T) {
	uc, messageRepo, profileRepo := newMessageFixture(t)
	ctx := context.Background()

	profileRepo.profiles["bob"] = &entity.UserProfile{ID: "bob", DisplayName: "Bob"}
	require.NoError(t, messageRepo.Create(ctx, &entity.Message{RoomID: "room-1", SenderID: "bob", Content: "hi"}))

	messages, err := uc.ListMessages(ctx, "alice", "room-1", 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.NotNil(t, messages[0].Sender)
	assert.Equal(t, "Bob", messages[0].Sender.DisplayName)
}

func TestListMessagesForbiddenForNonParticipant(t *testing.T) {
	uc, _, _ := newMessageFixture(t)

	_, err := uc.ListMessages(context.Background(), "mallory", "room-1", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSendMessageAppends(t *testing.T) {
	uc, messageRepo, _ := newMessageFixture(t)

	message, err := uc.SendMessage(context.Background(), "alice", SendMessageInput{
		RoomID: "room-1", Content: "hello",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, message.ID)
	assert.Equal(t, entity.MessageTypeText, message.Type)
	assert.Len(t, messageRepo.messages, 1)
}

func TestSendMessageAttachmentOnlyBecomesFile(t *testing.T) {
	uc, _, _ := newMessageFixture(t)

	message, err := uc.SendMessage(context.Background(), "alice", SendMessageInput{
		RoomID: "room-1", AttachmentURL: "https://files.example.com/report.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MessageTypeFile, message.Type)
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	uc, _, _ := newMessageFixture(t)

	_, err := uc.SendMessage(context.Background(), "alice", SendMessageInput{RoomID: "room-1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INVALID_ARGUMENT"))
}

func TestSendMessageForbiddenForNonParticipant(t *testing.T) {
	uc, _, _ := newMessageFixture(t)

	_, err := uc.SendMessage(context.Background(), "mallory", SendMessageInput{
		RoomID: "room-1", Content: "let me in",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestEditMessageAuthorOnly(t *testing.T) {
	uc, messageRepo, _ := newMessageFixture(t)
	ctx := context.Background()

	require.NoError(t, messageRepo.Create(ctx, &entity.Message{
		ID: "msg-1", RoomID: "room-1", SenderID: "bob", Content: "typo",
	}))

	_, err := uc.EditMessage(ctx, "msg-1", "alice", "fixed")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	edited, err := uc.EditMessage(ctx, "msg-1", "bob", "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", edited.Content)
	assert.True(t, edited.IsEdited)
}

func TestDeleteMessageSoftDeletes(t *testing.T) {
	uc, messageRepo, _ := newMessageFixture(t)
	ctx := context.Background()

	require.NoError(t, messageRepo.Create(ctx, &entity.Message{
		ID: "msg-1", RoomID: "room-1", SenderID: "bob", Content: "regret",
	}))

	require.NoError(t, uc.DeleteMessage(ctx, "msg-1", "bob"))

	// The row survives for ordering; the content does not.
	stored, err := messageRepo.GetByID(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	assert.Empty(t, stored.Content)

	messages, err := uc.ListMessages(ctx, "alice", "room-1", 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].IsDeleted)
	assert.Empty(t, messages[0].Content)
}

func TestDeleteMessageByRoomAdmin(t *testing.T) {
	uc, messageRepo, _ := newMessageFixture(t)
	ctx := context.Background()

	require.NoError(t, messageRepo.Create(ctx, &entity.Message{
		ID: "msg-1", RoomID: "room-1", SenderID: "bob", Content: "spam",
	}))

	// alice is the room admin.
	require.NoError(t, uc.DeleteMessage(ctx, "msg-1", "alice"))
}

func TestDeleteMessageForbiddenForOtherMember(t *testing.T) {
	uc, messageRepo, _ := newMessageFixture(t)
	ctx := context.Background()

	require.NoError(t, messageRepo.Create(ctx, &entity.Message{
		ID: "msg-1", RoomID: "room-1", SenderID: "alice", Content: "mine",
	}))

	err := uc.DeleteMessage(ctx, "msg-1", "bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}
