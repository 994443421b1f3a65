package usecase

import (
	"context"
	"fmt"

	"planora/internal/domain/entity"
	"planora/internal/domain/repository"
	"planora/internal/infrastructure/ratelimit"
	"planora/pkg/errors"
	"planora/pkg/logger"
)

// MembershipUseCase creates non-direct rooms and manages who belongs to them.
// Room deletion cascades through messages and participants and verifies the
// room is actually gone afterwards.
type MembershipUseCase struct {
	roomRepo        repository.RoomRepository
	participantRepo repository.ParticipantRepository
	messageRepo     repository.MessageRepository
	rateLimiter     *ratelimit.RateLimiter
}

func NewMembershipUseCase(
	roomRepo repository.RoomRepository,
	participantRepo repository.ParticipantRepository,
	messageRepo repository.MessageRepository,
) *MembershipUseCase {
	return &MembershipUseCase{
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		messageRepo:     messageRepo,
		rateLimiter:     ratelimit.NewRateLimiter(),
	}
}

type CreateRoomInput struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	Kind        string `json:"kind" validate:"required,oneof=group project general"`
	ProjectID   string `json:"project_id"`
}

// CreateRoom creates a group, project or general room with the creator as
// admin. Direct rooms are never created here; they only come out of the
// resolver so the per-pair dedup holds.
func (uc *MembershipUseCase) CreateRoom(ctx context.Context, creatorID string, input CreateRoomInput) (*entity.Room, error) {
	if creatorID == "" {
		return nil, errors.NotAuthenticated("User id is required", nil)
	}

	kind := entity.RoomKind(input.Kind)
	switch kind {
	case entity.RoomKindGroup, entity.RoomKindGeneral:
	case entity.RoomKindProject:
		if input.ProjectID == "" {
			return nil, errors.InvalidArgument("A project room needs a project id", nil)
		}
	case entity.RoomKindDirect:
		return nil, errors.InvalidArgument("Direct rooms are resolved, not created", nil)
	default:
		return nil, errors.InvalidArgument(fmt.Sprintf("Unknown room kind %q", input.Kind), nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow(creatorID, "create_room")
	if !allowed {
		logger.Warn("CreateRoom: user %s rate limited for %v", creatorID, waitTime)
		return nil, errors.TooManyRequests("Creating rooms too quickly, slow down", waitTime)
	}

	room := &entity.Room{
		Name:        input.Name,
		Description: input.Description,
		Kind:        kind,
		ProjectID:   input.ProjectID,
		CreatedBy:   creatorID,
	}
	if err := uc.roomRepo.Create(ctx, room); err != nil {
		logger.Error("CreateRoom: failed to create room for user %s: %v", creatorID, err)
		return nil, err
	}

	creator := &entity.Participant{
		RoomID: room.ID,
		UserID: creatorID,
		Role:   entity.RoleAdmin,
	}
	if err := uc.participantRepo.Create(ctx, creator); err != nil {
		logger.Error("CreateRoom: failed to add creator %s to room %s: %v", creatorID, room.ID, err)
		return nil, err
	}

	logger.Info("CreateRoom: user %s created %s room %s", creatorID, room.Kind, room.ID)
	return room, nil
}

// Invite adds a user to a room. Only admins invite; inviting an existing
// member is a conflict, not a silent no-op, so clients can tell the
// difference.
func (uc *MembershipUseCase) Invite(ctx context.Context, roomID, inviterID, userID string) (*entity.Participant, error) {
	if inviterID == "" {
		return nil, errors.NotAuthenticated("User id is required", nil)
	}
	if userID == "" {
		return nil, errors.InvalidArgument("Invited user id is required", nil)
	}

	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Kind == entity.RoomKindDirect {
		return nil, errors.InvalidArgument("Direct rooms have a fixed pair of members", nil)
	}

	if err := uc.requireAdmin(ctx, roomID, inviterID); err != nil {
		return nil, err
	}

	if _, err := uc.participantRepo.Get(ctx, roomID, userID); err == nil {
		return nil, errors.Conflict("User is already a participant of this room")
	} else if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	participant := &entity.Participant{
		RoomID: roomID,
		UserID: userID,
		Role:   entity.RoleMember,
	}
	if err := uc.participantRepo.Create(ctx, participant); err != nil {
		logger.Error("Invite: failed to add user %s to room %s: %v", userID, roomID, err)
		return nil, err
	}

	uc.postSystemMessage(ctx, roomID, fmt.Sprintf("%s joined the room", userID))

	logger.Info("Invite: user %s added to room %s by %s", userID, roomID, inviterID)
	return participant, nil
}

// Remove takes a user out of a room. Admins remove anyone; everyone may
// remove themselves (leave).
func (uc *MembershipUseCase) Remove(ctx context.Context, roomID, requesterID, userID string) error {
	if requesterID == "" {
		return errors.NotAuthenticated("User id is required", nil)
	}

	if requesterID != userID {
		if err := uc.requireAdmin(ctx, roomID, requesterID); err != nil {
			return err
		}
	}

	if _, err := uc.participantRepo.Get(ctx, roomID, userID); err != nil {
		return err
	}

	if err := uc.participantRepo.Delete(ctx, roomID, userID); err != nil {
		logger.Error("Remove: failed to remove user %s from room %s: %v", userID, roomID, err)
		return err
	}

	uc.postSystemMessage(ctx, roomID, fmt.Sprintf("%s left the room", userID))

	logger.Info("Remove: user %s removed from room %s by %s", userID, roomID, requesterID)
	return nil
}

// UpdateRole changes a participant's role. Admin only.
func (uc *MembershipUseCase) UpdateRole(ctx context.Context, roomID, requesterID, userID string, role entity.ParticipantRole) error {
	if requesterID == "" {
		return errors.NotAuthenticated("User id is required", nil)
	}
	switch role {
	case entity.RoleAdmin, entity.RoleModerator, entity.RoleMember:
	default:
		return errors.InvalidArgument(fmt.Sprintf("Unknown role %q", role), nil)
	}

	if err := uc.requireAdmin(ctx, roomID, requesterID); err != nil {
		return err
	}
	if _, err := uc.participantRepo.Get(ctx, roomID, userID); err != nil {
		return err
	}

	if err := uc.participantRepo.UpdateRole(ctx, roomID, userID, role); err != nil {
		logger.Error("UpdateRole: failed to set role %s for user %s in room %s: %v", role, userID, roomID, err)
		return err
	}

	return nil
}

// ListMembers returns the room's participants to a fellow participant.
func (uc *MembershipUseCase) ListMembers(ctx context.Context, roomID, requesterID string) ([]*entity.Participant, error) {
	if requesterID == "" {
		return nil, errors.NotAuthenticated("User id is required", nil)
	}

	if _, err := uc.participantRepo.Get(ctx, roomID, requesterID); err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Forbidden("User is not a participant of this room", err)
		}
		return nil, err
	}

	return uc.participantRepo.ListByRoom(ctx, roomID)
}

// DeleteRoom removes the room and everything under it: messages first, then
// participants, then the room itself. After the cascade it re-reads the room;
// finding it still present means the store lied about the delete, and that is
// reported as fatal rather than retried.
func (uc *MembershipUseCase) DeleteRoom(ctx context.Context, roomID, requesterID string) error {
	if requesterID == "" {
		return errors.NotAuthenticated("User id is required", nil)
	}

	if _, err := uc.roomRepo.GetByID(ctx, roomID); err != nil {
		return err
	}
	if err := uc.requireAdmin(ctx, roomID, requesterID); err != nil {
		return err
	}

	if err := uc.messageRepo.DeleteByRoom(ctx, roomID); err != nil {
		logger.Error("DeleteRoom: failed to delete messages of room %s: %v", roomID, err)
		return err
	}
	if err := uc.participantRepo.DeleteByRoom(ctx, roomID); err != nil {
		logger.Error("DeleteRoom: failed to delete participants of room %s: %v", roomID, err)
		return err
	}
	if err := uc.roomRepo.Delete(ctx, roomID); err != nil {
		logger.Error("DeleteRoom: failed to delete room %s: %v", roomID, err)
		return err
	}

	if _, err := uc.roomRepo.GetByID(ctx, roomID); err == nil {
		logger.Fatal("DeleteRoom: room %s still readable after delete", roomID)
		return errors.Fatal("Room still exists after a reported delete", nil)
	} else if !errors.Is(err, "NOT_FOUND") {
		logger.Error("DeleteRoom: could not verify deletion of room %s: %v", roomID, err)
		return err
	}

	logger.Info("DeleteRoom: room %s deleted by %s", roomID, requesterID)
	return nil
}

func (uc *MembershipUseCase) requireAdmin(ctx context.Context, roomID, userID string) error {
	membership, err := uc.participantRepo.Get(ctx, roomID, userID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return errors.Forbidden("User is not a participant of this room", err)
		}
		return err
	}
	if membership.Role != entity.RoleAdmin {
		return errors.Forbidden("Only a room admin can do this", nil)
	}
	return nil
}

// postSystemMessage records a membership change in the room timeline. Failing
// to post it never fails the membership operation itself.
func (uc *MembershipUseCase) postSystemMessage(ctx context.Context, roomID, content string) {
	message := &entity.Message{
		RoomID:   roomID,
		SenderID: "system",
		Content:  content,
		Type:     entity.MessageTypeSystem,
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		logger.Warn("postSystemMessage: failed to record event in room %s: %v", roomID, err)
	}
}
