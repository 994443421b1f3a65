package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"planora/internal/domain/entity"
	"planora/pkg/errors"
)

// In-memory repositories mirroring the firestore adapters closely enough for
// use case tests: ids are assigned on create, missing rows return NOT_FOUND.

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*entity.Room
	seq   int

	// failDeletes makes Delete report success while leaving the row in
	// place, simulating a store that lies about deletion.
	failDeletes bool
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[string]*entity.Room)}
}

func (r *fakeRoomRepo) Create(ctx context.Context, room *entity.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	if room.ID == "" {
		room.ID = fmt.Sprintf("room-%03d", r.seq)
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}
	room.UpdatedAt = room.CreatedAt
	clone := *room
	r.rooms[room.ID] = &clone
	return nil
}

func (r *fakeRoomRepo) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, errors.NotFound("Room", nil)
	}
	clone := *room
	return &clone, nil
}

func (r *fakeRoomRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Room
	for _, id := range ids {
		if room, ok := r.rooms[id]; ok {
			clone := *room
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeRoomRepo) ListDirectByPairKey(ctx context.Context, pairKey string) ([]*entity.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Room
	for _, room := range r.rooms {
		if room.Kind == entity.RoomKindDirect && room.PairKey == pairKey {
			clone := *room
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeRoomRepo) Update(ctx context.Context, room *entity.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.ID]; !ok {
		return errors.NotFound("Room", nil)
	}
	clone := *room
	r.rooms[room.ID] = &clone
	return nil
}

func (r *fakeRoomRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failDeletes {
		return nil
	}
	delete(r.rooms, id)
	return nil
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants map[string]*entity.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[string]*entity.Participant)}
}

func participantKey(roomID, userID string) string {
	return roomID + "_" + userID
}

func (r *fakeParticipantRepo) Create(ctx context.Context, participant *entity.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if participant.JoinedAt.IsZero() {
		participant.JoinedAt = time.Now()
	}
	clone := *participant
	r.participants[participantKey(participant.RoomID, participant.UserID)] = &clone
	return nil
}

func (r *fakeParticipantRepo) Get(ctx context.Context, roomID, userID string) (*entity.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	participant, ok := r.participants[participantKey(roomID, userID)]
	if !ok {
		return nil, errors.NotFound("Participant", nil)
	}
	clone := *participant
	return &clone, nil
}

func (r *fakeParticipantRepo) ListByRoom(ctx context.Context, roomID string) ([]*entity.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Participant
	for _, participant := range r.participants {
		if participant.RoomID == roomID {
			clone := *participant
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeParticipantRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Participant
	for _, participant := range r.participants {
		if participant.UserID == userID {
			clone := *participant
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeParticipantRepo) UpdateRole(ctx context.Context, roomID, userID string, role entity.ParticipantRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	participant, ok := r.participants[participantKey(roomID, userID)]
	if !ok {
		return errors.NotFound("Participant", nil)
	}
	participant.Role = role
	return nil
}

func (r *fakeParticipantRepo) UpdateLastReadAt(ctx context.Context, roomID, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	participant, ok := r.participants[participantKey(roomID, userID)]
	if !ok {
		return errors.NotFound("Participant", nil)
	}
	participant.LastReadAt = &at
	return nil
}

func (r *fakeParticipantRepo) Delete(ctx context.Context, roomID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.participants, participantKey(roomID, userID))
	return nil
}

func (r *fakeParticipantRepo) DeleteByRoom(ctx context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, participant := range r.participants {
		if participant.RoomID == roomID {
			delete(r.participants, key)
		}
	}
	return nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages map[string]*entity.Message
	seq      int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[string]*entity.Message)}
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	if message.ID == "" {
		message.ID = fmt.Sprintf("msg-%03d", r.seq)
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	message.UpdatedAt = message.CreatedAt
	clone := *message
	r.messages[message.ID] = &clone
	return nil
}

func (r *fakeMessageRepo) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	message, ok := r.messages[id]
	if !ok {
		return nil, errors.NotFound("Message", nil)
	}
	clone := *message
	return &clone, nil
}

func (r *fakeMessageRepo) ListByRoom(ctx context.Context, roomID string, limit int) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Message
	for _, message := range r.messages {
		if message.RoomID == roomID {
			clone := *message
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Before(result[j])
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeMessageRepo) CountUnread(ctx context.Context, roomID, userID string, since *time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, message := range r.messages {
		if message.RoomID != roomID || message.SenderID == userID || message.IsDeleted {
			continue
		}
		if since != nil && !message.CreatedAt.After(*since) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *fakeMessageRepo) Update(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[message.ID]; !ok {
		return errors.NotFound("Message", nil)
	}
	message.UpdatedAt = time.Now()
	clone := *message
	r.messages[message.ID] = &clone
	return nil
}

func (r *fakeMessageRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.messages, id)
	return nil
}

func (r *fakeMessageRepo) DeleteByRoom(ctx context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, message := range r.messages {
		if message.RoomID == roomID {
			delete(r.messages, id)
		}
	}
	return nil
}

type fakeProfileRepo struct {
	profiles map[string]*entity.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*entity.UserProfile)}
}

func (r *fakeProfileRepo) GetProfiles(ctx context.Context, userIDs []string) (map[string]*entity.UserProfile, error) {
	result := make(map[string]*entity.UserProfile)
	for _, id := range userIDs {
		if profile, ok := r.profiles[id]; ok {
			clone := *profile
			result[id] = &clone
		}
	}
	return result, nil
}

type fakeProjectRepo struct {
	names map[string]string
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{names: make(map[string]string)}
}

func (r *fakeProjectRepo) GetNames(ctx context.Context, projectIDs []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, id := range projectIDs {
		if name, ok := r.names[id]; ok {
			result[id] = name
		}
	}
	return result, nil
}
