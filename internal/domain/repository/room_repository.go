package repository

import (
	"context"

	"planora/internal/domain/entity"
)

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	// GetByIDs returns the rooms that still exist for the given ids; missing
	// ids are skipped, not errors.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Room, error)
	// ListDirectByPairKey returns every direct room recorded for the canonical
	// pair key, oldest first. More than one result means the dedup invariant
	// is broken.
	ListDirectByPairKey(ctx context.Context, pairKey string) ([]*entity.Room, error)
	Update(ctx context.Context, room *entity.Room) error
	Delete(ctx context.Context, id string) error
}
