package sync

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"planora/internal/domain/entity"
	"planora/internal/domain/repository"
	"planora/internal/infrastructure/websocket"
	"planora/pkg/logger"
)

// Broadcaster is the push side the controller fans invalidations into.
type Broadcaster interface {
	Publish(topic string, payload []byte)
	ActiveTopics() []string
}

// Controller bridges the repository change feed to connected sessions. It
// translates every change event into topic invalidations; delivery is
// at-least-once and a duplicate invalidation only costs one extra refetch.
type Controller struct {
	feed            repository.ChangeFeed
	participantRepo repository.ParticipantRepository
	broadcaster     Broadcaster
}

func NewController(
	feed repository.ChangeFeed,
	participantRepo repository.ParticipantRepository,
	broadcaster Broadcaster,
) *Controller {
	return &Controller{
		feed:            feed,
		participantRepo: participantRepo,
		broadcaster:     broadcaster,
	}
}

// Run consumes the change feed until ctx is cancelled. When the feed drops it
// resubscribes with backoff and invalidates every active topic, because
// events may have been lost while disconnected.
func (c *Controller) Run(ctx context.Context) {
	first := true
	for {
		events, err := c.subscribe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Sync: could not subscribe to change feed: %v", err)
			return
		}

		if !first {
			c.invalidateAll()
		}
		first = false

		for event := range events {
			c.handle(ctx, event)
		}
		if ctx.Err() != nil {
			return
		}
		logger.Warn("Sync: change feed dropped, resubscribing")
	}
}

func (c *Controller) subscribe(ctx context.Context) (<-chan entity.ChangeEvent, error) {
	var events <-chan entity.ChangeEvent

	operation := func() error {
		var err error
		events, err = c.feed.Subscribe(ctx)
		return err
	}

	policy := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(500*time.Millisecond),
		backoff.WithMaxInterval(30*time.Second),
		backoff.WithMaxElapsedTime(0),
	), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Controller) handle(ctx context.Context, event entity.ChangeEvent) {
	c.broadcaster.Publish(websocket.RoomTopic(event.RoomID), websocket.InvalidatePayload(websocket.RoomTopic(event.RoomID)))

	// Any change in a room can move its unread count or directory ordering,
	// so every current participant's room list goes stale. The event's own
	// user is invalidated separately: after a removal they no longer appear
	// in the room listing.
	if event.UserID != "" {
		c.invalidateRoomList(event.UserID)
	}

	participants, err := c.participantRepo.ListByRoom(ctx, event.RoomID)
	if err != nil {
		logger.Warn("Sync: failed to list participants of room %s: %v", event.RoomID, err)
		return
	}
	for _, participant := range participants {
		if participant.UserID == event.UserID {
			continue
		}
		c.invalidateRoomList(participant.UserID)
	}
}

func (c *Controller) invalidateRoomList(userID string) {
	topic := websocket.RoomListTopic(userID)
	c.broadcaster.Publish(topic, websocket.InvalidatePayload(topic))
}

// invalidateAll marks every watched topic stale. Used after a feed gap, when
// there is no way to know what changed in between.
func (c *Controller) invalidateAll() {
	topics := c.broadcaster.ActiveTopics()
	logger.Info("Sync: invalidating all %d active topics after feed gap", len(topics))
	for _, topic := range topics {
		c.broadcaster.Publish(topic, websocket.InvalidatePayload(topic))
	}
}
