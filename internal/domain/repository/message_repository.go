package repository

import (
	"context"
	"time"

	"planora/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)
	// ListByRoom returns up to limit messages ordered by createdAt ascending,
	// ties broken by id. A cursor can be layered on later without changing
	// the ordering contract.
	ListByRoom(ctx context.Context, roomID string, limit int) ([]*entity.Message, error)
	// CountUnread counts messages in the room newer than the watermark that
	// were authored by someone other than userID. A nil watermark counts all.
	CountUnread(ctx context.Context, roomID, userID string, since *time.Time) (int, error)
	Update(ctx context.Context, message *entity.Message) error
	Delete(ctx context.Context, id string) error
	DeleteByRoom(ctx context.Context, roomID string) error
}
