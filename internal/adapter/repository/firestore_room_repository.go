package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"planora/internal/domain/entity"
	"planora/internal/domain/repository"
	"planora/pkg/errors"
)

type firestoreRoomRepository struct {
	client *firestore.Client
}

func NewFirestoreRoomRepository(client *firestore.Client) repository.RoomRepository {
	return &firestoreRoomRepository{
		client: client,
	}
}

func (r *firestoreRoomRepository) Create(ctx context.Context, room *entity.Room) error {
	if room.ID == "" {
		room.ID = uuid.New().String()
	}

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	return withRetry(ctx, "Failed to create room", func(ctx context.Context) error {
		_, err := r.client.Collection("rooms").Doc(room.ID).Set(ctx, room)
		return err
	})
}

func (r *firestoreRoomRepository) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	var room entity.Room

	err := withRetry(ctx, "Failed to get room", func(ctx context.Context) error {
		doc, err := r.client.Collection("rooms").Doc(id).Get(ctx)
		if err != nil {
			return err
		}
		return doc.DataTo(&room)
	})
	if err != nil {
		if errors.Is(err, "DEPENDENCY_UNAVAILABLE") {
			return nil, err
		}
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Room", err)
		}
		return nil, errors.Internal("Failed to get room", err)
	}

	return &room, nil
}

func (r *firestoreRoomRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Room, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.client.Collection("rooms").Doc(id))
	}

	var rooms []*entity.Room
	err := withRetry(ctx, "Failed to fetch rooms", func(ctx context.Context) error {
		docs, err := r.client.GetAll(ctx, refs)
		if err != nil {
			return err
		}

		rooms = rooms[:0]
		for _, doc := range docs {
			if !doc.Exists() {
				continue
			}
			var room entity.Room
			if err := doc.DataTo(&room); err != nil {
				continue
			}
			rooms = append(rooms, &room)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rooms, nil
}

func (r *firestoreRoomRepository) ListDirectByPairKey(ctx context.Context, pairKey string) ([]*entity.Room, error) {
	var rooms []*entity.Room

	err := withRetry(ctx, "Failed to query direct rooms", func(ctx context.Context) error {
		query := r.client.Collection("rooms").
			Where("pairKey", "==", pairKey).
			Where("kind", "==", string(entity.RoomKindDirect))

		docs, err := query.Documents(ctx).GetAll()
		if err != nil {
			return err
		}

		rooms = rooms[:0]
		for _, doc := range docs {
			var room entity.Room
			if err := doc.DataTo(&room); err != nil {
				continue
			}
			rooms = append(rooms, &room)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Oldest first, ties by id, so callers can pick deterministically.
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})

	return rooms, nil
}

func (r *firestoreRoomRepository) Update(ctx context.Context, room *entity.Room) error {
	room.UpdatedAt = time.Now()

	return withRetry(ctx, "Failed to update room", func(ctx context.Context) error {
		_, err := r.client.Collection("rooms").Doc(room.ID).Set(ctx, room)
		return err
	})
}

func (r *firestoreRoomRepository) Delete(ctx context.Context, id string) error {
	return withRetry(ctx, "Failed to delete room", func(ctx context.Context) error {
		_, err := r.client.Collection("rooms").Doc(id).Delete(ctx)
		return err
	})
}
