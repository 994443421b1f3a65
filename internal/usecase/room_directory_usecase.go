package usecase

import (
	"context"
	"sort"
	"time"

	"planora/internal/domain/entity"
	"planora/internal/domain/repository"
	"planora/pkg/errors"
	"planora/pkg/logger"
)

// RoomDirectoryUseCase lists the rooms a user participates in, annotated
// with unread counts and project names. Grouping by kind is left to the
// presentation layer.
type RoomDirectoryUseCase struct {
	roomRepo        repository.RoomRepository
	participantRepo repository.ParticipantRepository
	messageRepo     repository.MessageRepository
	projectRepo     repository.ProjectRepository
}

func NewRoomDirectoryUseCase(
	roomRepo repository.RoomRepository,
	participantRepo repository.ParticipantRepository,
	messageRepo repository.MessageRepository,
	projectRepo repository.ProjectRepository,
) *RoomDirectoryUseCase {
	return &RoomDirectoryUseCase{
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		messageRepo:     messageRepo,
		projectRepo:     projectRepo,
	}
}

type RoomSummary struct {
	*entity.Room
	Role        entity.ParticipantRole `json:"role"`
	UnreadCount int                    `json:"unread_count"`
	ProjectName string                 `json:"project_name,omitempty"`
}

// ListRooms returns the user's rooms ordered by creation time descending.
// A user with no memberships gets an empty list, not an error.
func (uc *RoomDirectoryUseCase) ListRooms(ctx context.Context, userID string) ([]*RoomSummary, error) {
	if userID == "" {
		return nil, errors.NotAuthenticated("User id is required", nil)
	}

	memberships, err := uc.participantRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.Error("ListRooms: failed to list memberships for user %s: %v", userID, err)
		return nil, err
	}
	if len(memberships) == 0 {
		return []*RoomSummary{}, nil
	}

	byRoom := make(map[string]*entity.Participant, len(memberships))
	roomIDs := make([]string, 0, len(memberships))
	for _, membership := range memberships {
		byRoom[membership.RoomID] = membership
		roomIDs = append(roomIDs, membership.RoomID)
	}

	rooms, err := uc.roomRepo.GetByIDs(ctx, roomIDs)
	if err != nil {
		logger.Error("ListRooms: failed to fetch rooms for user %s: %v", userID, err)
		return nil, err
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID > rooms[j].ID
		}
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})

	// One batch query for every project name, never one per room.
	var projectIDs []string
	for _, room := range rooms {
		if room.ProjectID != "" {
			projectIDs = append(projectIDs, room.ProjectID)
		}
	}
	projectNames := map[string]string{}
	if len(projectIDs) > 0 {
		projectNames, err = uc.projectRepo.GetNames(ctx, projectIDs)
		if err != nil {
			logger.Warn("ListRooms: failed to resolve project names: %v", err)
			projectNames = map[string]string{}
		}
	}

	summaries := make([]*RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		membership := byRoom[room.ID]
		unread, err := uc.messageRepo.CountUnread(ctx, room.ID, userID, membership.LastReadAt)
		if err != nil {
			logger.Error("ListRooms: failed to count unread for room %s: %v", room.ID, err)
			return nil, err
		}

		summaries = append(summaries, &RoomSummary{
			Room:        room,
			Role:        membership.Role,
			UnreadCount: unread,
			ProjectName: projectNames[room.ProjectID],
		})
	}

	return summaries, nil
}

// GetRoom returns a single room summary for a participant.
func (uc *RoomDirectoryUseCase) GetRoom(ctx context.Context, userID, roomID string) (*RoomSummary, error) {
	if userID == "" {
		return nil, errors.NotAuthenticated("User id is required", nil)
	}

	membership, err := uc.participantRepo.Get(ctx, roomID, userID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Forbidden("User is not a participant of this room", err)
		}
		return nil, err
	}

	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	unread, err := uc.messageRepo.CountUnread(ctx, roomID, userID, membership.LastReadAt)
	if err != nil {
		return nil, err
	}

	summary := &RoomSummary{
		Room:        room,
		Role:        membership.Role,
		UnreadCount: unread,
	}
	if room.ProjectID != "" {
		names, err := uc.projectRepo.GetNames(ctx, []string{room.ProjectID})
		if err == nil {
			summary.ProjectName = names[room.ProjectID]
		}
	}

	return summary, nil
}

// MarkRoomRead advances the caller's read watermark to now. Only the owning
// user ever moves their own watermark.
func (uc *RoomDirectoryUseCase) MarkRoomRead(ctx context.Context, userID, roomID string) error {
	if userID == "" {
		return errors.NotAuthenticated("User id is required", nil)
	}

	if _, err := uc.participantRepo.Get(ctx, roomID, userID); err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return errors.Forbidden("User is not a participant of this room", err)
		}
		return err
	}

	if err := uc.participantRepo.UpdateLastReadAt(ctx, roomID, userID, time.Now()); err != nil {
		logger.Error("MarkRoomRead: failed to update watermark for user %s in room %s: %v", userID, roomID, err)
		return err
	}

	return nil
}
