package usecase

import (
	"context"

	"planora/internal/domain/entity"
	"planora/internal/domain/repository"
	"planora/pkg/errors"
	"planora/pkg/logger"
)

// RoomResolverUseCase guarantees idempotent creation of one-to-one rooms:
// at most one direct room ever exists per unordered pair of users.
type RoomResolverUseCase struct {
	roomRepo        repository.RoomRepository
	participantRepo repository.ParticipantRepository
	locks           pairLock
}

func NewRoomResolverUseCase(
	roomRepo repository.RoomRepository,
	participantRepo repository.ParticipantRepository,
) *RoomResolverUseCase {
	return &RoomResolverUseCase{
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
	}
}

// ResolveDirectRoom returns the direct room for the pair, creating it on
// first contact. Resolution is serialized per unordered pair; concurrent
// first contacts cannot create two rooms.
func (uc *RoomResolverUseCase) ResolveDirectRoom(ctx context.Context, callerID, userA, userB string) (*entity.Room, error) {
	if userA == userB {
		logger.Warn("ResolveDirectRoom: user %s attempted a self room", userA)
		return nil, errors.InvalidArgument("A direct room needs two distinct users", nil)
	}
	if callerID == "" || (callerID != userA && callerID != userB) {
		return nil, errors.NotAuthenticated("Caller must be one of the two room members", nil)
	}

	pairKey := entity.PairKey(userA, userB)

	lock := uc.locks.forKey(pairKey)
	lock.Lock()
	defer lock.Unlock()

	existing, err := uc.roomRepo.ListDirectByPairKey(ctx, pairKey)
	if err != nil {
		logger.Error("ResolveDirectRoom: failed to query pair %s: %v", pairKey, err)
		return nil, err
	}

	if len(existing) > 1 {
		// The dedup invariant is broken in the store. Pick the earliest
		// deterministically so both users keep converging on the same room,
		// and report the fault for operator attention.
		logger.Fatal("ResolveDirectRoom: %d direct rooms exist for pair %s, using earliest %s",
			len(existing), pairKey, existing[0].ID)
		return existing[0], nil
	}
	if len(existing) == 1 {
		return existing[0], nil
	}

	otherID := userA
	if callerID == userA {
		otherID = userB
	}

	room := &entity.Room{
		Kind:      entity.RoomKindDirect,
		PairKey:   pairKey,
		CreatedBy: callerID,
	}
	if err := uc.roomRepo.Create(ctx, room); err != nil {
		logger.Error("ResolveDirectRoom: failed to create room for pair %s: %v", pairKey, err)
		return nil, err
	}

	creator := &entity.Participant{
		RoomID: room.ID,
		UserID: callerID,
		Role:   entity.RoleAdmin,
	}
	if err := uc.participantRepo.Create(ctx, creator); err != nil {
		logger.Error("ResolveDirectRoom: failed to add creator %s to room %s: %v", callerID, room.ID, err)
		return nil, err
	}

	other := &entity.Participant{
		RoomID: room.ID,
		UserID: otherID,
		Role:   entity.RoleMember,
	}
	if err := uc.participantRepo.Create(ctx, other); err != nil {
		logger.Error("ResolveDirectRoom: failed to add member %s to room %s: %v", otherID, room.ID, err)
		return nil, err
	}

	logger.Info("ResolveDirectRoom: created direct room %s for pair %s", room.ID, pairKey)
	return room, nil
}
