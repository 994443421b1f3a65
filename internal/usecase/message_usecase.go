package usecase

import (
	"context"

	"planora/internal/domain/entity"
	"planora/internal/domain/repository"
	"planora/internal/infrastructure/ratelimit"
	"planora/pkg/errors"
	"planora/pkg/logger"
)

const defaultMessageLimit = 100

// MessageUseCase appends, lists, edits and deletes room messages. Every
// successful write lands in the repository and from there flows through the
// change feed to connected sessions; nothing is pushed directly from here.
type MessageUseCase struct {
	roomRepo        repository.RoomRepository
	participantRepo repository.ParticipantRepository
	messageRepo     repository.MessageRepository
	profileRepo     repository.ProfileRepository
	rateLimiter     *ratelimit.RateLimiter
}

func NewMessageUseCase(
	roomRepo repository.RoomRepository,
	participantRepo repository.ParticipantRepository,
	messageRepo repository.MessageRepository,
	profileRepo repository.ProfileRepository,
) *MessageUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &MessageUseCase{
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		messageRepo:     messageRepo,
		profileRepo:     profileRepo,
		rateLimiter:     rateLimiter,
	}
}

type SendMessageInput struct {
	RoomID        string
	Content       string
	AttachmentURL string
}

type MessageView struct {
	*entity.Message
	Sender *entity.UserProfile `json:"sender,omitempty"`
}

// ListMessages returns up to limit messages in display order (createdAt
// ascending, ties by id), joined with minimal sender profiles in a single
// batch lookup.
func (uc *MessageUseCase) ListMessages(ctx context.Context, userID, roomID string, limit int) ([]*MessageView, error) {
	if userID == "" {
		return nil, errors.NotAuthenticated("User id is required", nil)
	}
	if limit <= 0 {
		limit = defaultMessageLimit
	}

	if _, err := uc.participantRepo.Get(ctx, roomID, userID); err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Forbidden("User is not a participant of this room", err)
		}
		return nil, err
	}

	messages, err := uc.messageRepo.ListByRoom(ctx, roomID, limit)
	if err != nil {
		logger.Error("ListMessages: failed to list messages for room %s: %v", roomID, err)
		return nil, err
	}

	senderIDs := make([]string, 0, len(messages))
	seen := make(map[string]bool, len(messages))
	for _, message := range messages {
		if message.SenderID == "" || message.Type == entity.MessageTypeSystem || seen[message.SenderID] {
			continue
		}
		seen[message.SenderID] = true
		senderIDs = append(senderIDs, message.SenderID)
	}

	profiles := map[string]*entity.UserProfile{}
	if len(senderIDs) > 0 {
		profiles, err = uc.profileRepo.GetProfiles(ctx, senderIDs)
		if err != nil {
			logger.Warn("ListMessages: failed to resolve sender profiles for room %s: %v", roomID, err)
			profiles = map[string]*entity.UserProfile{}
		}
	}

	views := make([]*MessageView, 0, len(messages))
	for _, message := range messages {
		if message.IsDeleted {
			// Deleted messages keep their slot and timestamps; content never
			// reaches the client.
			redacted := *message
			redacted.Content = ""
			redacted.AttachmentURL = ""
			message = &redacted
		}
		views = append(views, &MessageView{
			Message: message,
			Sender:  profiles[message.SenderID],
		})
	}

	return views, nil
}

// SendMessage appends a message to a room the sender participates in.
func (uc *MessageUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*entity.Message, error) {
	if senderID == "" {
		return nil, errors.NotAuthenticated("Sender id is required", nil)
	}
	if input.Content == "" && input.AttachmentURL == "" {
		return nil, errors.InvalidArgument("Message content cannot be empty", nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow(senderID, "send_message")
	if !allowed {
		logger.Warn("SendMessage: user %s rate limited for %v", senderID, waitTime)
		return nil, errors.TooManyRequests("Sending messages too quickly, slow down", waitTime)
	}

	if _, err := uc.roomRepo.GetByID(ctx, input.RoomID); err != nil {
		return nil, err
	}
	if _, err := uc.participantRepo.Get(ctx, input.RoomID, senderID); err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Forbidden("Sender is not a participant of this room", err)
		}
		return nil, err
	}

	messageType := entity.MessageTypeText
	if input.Content == "" && input.AttachmentURL != "" {
		messageType = entity.MessageTypeFile
	}

	message := &entity.Message{
		RoomID:        input.RoomID,
		SenderID:      senderID,
		Content:       input.Content,
		Type:          messageType,
		AttachmentURL: input.AttachmentURL,
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		logger.Error("SendMessage: failed to append message to room %s: %v", input.RoomID, err)
		return nil, err
	}

	return message, nil
}

// EditMessage replaces the content of the author's own message and marks it
// edited.
func (uc *MessageUseCase) EditMessage(ctx context.Context, messageID, requesterID, content string) (*entity.Message, error) {
	if requesterID == "" {
		return nil, errors.NotAuthenticated("User id is required", nil)
	}
	if content == "" {
		return nil, errors.InvalidArgument("Message content cannot be empty", nil)
	}

	message, err := uc.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.SenderID != requesterID {
		return nil, errors.Forbidden("Only the author can edit a message", nil)
	}
	if message.IsDeleted {
		return nil, errors.InvalidArgument("Cannot edit a deleted message", nil)
	}

	message.Content = content
	message.IsEdited = true
	if err := uc.messageRepo.Update(ctx, message); err != nil {
		logger.Error("EditMessage: failed to update message %s: %v", messageID, err)
		return nil, err
	}

	return message, nil
}

// DeleteMessage soft-deletes a message: the row stays for ordering and reply
// integrity, the content is cleared. Allowed for the author and for room
// admins.
func (uc *MessageUseCase) DeleteMessage(ctx context.Context, messageID, requesterID string) error {
	if requesterID == "" {
		return errors.NotAuthenticated("User id is required", nil)
	}

	message, err := uc.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	if message.SenderID != requesterID {
		membership, err := uc.participantRepo.Get(ctx, message.RoomID, requesterID)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				return errors.Forbidden("Only the author or a room admin can delete a message", err)
			}
			return err
		}
		if membership.Role != entity.RoleAdmin {
			return errors.Forbidden("Only the author or a room admin can delete a message", nil)
		}
	}

	message.IsDeleted = true
	message.Content = ""
	message.AttachmentURL = ""
	if err := uc.messageRepo.Update(ctx, message); err != nil {
		logger.Error("DeleteMessage: failed to delete message %s: %v", messageID, err)
		return err
	}

	logger.Info("DeleteMessage: message %s deleted by %s", messageID, requesterID)
	return nil
}
