package repository

import (
	"context"

	"planora/internal/domain/entity"
)

// ChangeFeed streams write notifications for rooms, participants and
// messages. Delivery is at-least-once and unordered across entity types; the
// channel closes when the feed drops and subscribers are expected to
// resubscribe and refresh everything they serve.
type ChangeFeed interface {
	Subscribe(ctx context.Context) (<-chan entity.ChangeEvent, error)
}
