package repository

import (
	"context"
	"time"

	"planora/internal/domain/entity"
)

type ParticipantRepository interface {
	Create(ctx context.Context, participant *entity.Participant) error
	Get(ctx context.Context, roomID, userID string) (*entity.Participant, error)
	ListByRoom(ctx context.Context, roomID string) ([]*entity.Participant, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Participant, error)
	UpdateRole(ctx context.Context, roomID, userID string, role entity.ParticipantRole) error
	UpdateLastReadAt(ctx context.Context, roomID, userID string, at time.Time) error
	Delete(ctx context.Context, roomID, userID string) error
	DeleteByRoom(ctx context.Context, roomID string) error
}
