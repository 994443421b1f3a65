package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"golang.org/x/sync/errgroup"

	"planora/internal/domain/entity"
	"planora/internal/domain/repository"
	"planora/pkg/logger"
)

// firestoreChangeFeed turns snapshot listeners over the three chat
// collections into a single ChangeEvent stream. The stream closes when any
// listener fails; subscribers resubscribe and refresh everything they serve.
type firestoreChangeFeed struct {
	client *firestore.Client
}

func NewFirestoreChangeFeed(client *firestore.Client) repository.ChangeFeed {
	return &firestoreChangeFeed{
		client: client,
	}
}

func (f *firestoreChangeFeed) Subscribe(ctx context.Context) (<-chan entity.ChangeEvent, error) {
	events := make(chan entity.ChangeEvent, 64)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return f.watch(gctx, "rooms", entity.ChangeEntityRoom, events) })
	g.Go(func() error { return f.watch(gctx, "participants", entity.ChangeEntityParticipant, events) })
	g.Go(func() error { return f.watch(gctx, "messages", entity.ChangeEntityMessage, events) })

	go func() {
		if err := g.Wait(); err != nil && gctx.Err() == nil {
			logger.Warn("Change feed stopped: %v", err)
		}
		close(events)
	}()

	return events, nil
}

func (f *firestoreChangeFeed) watch(ctx context.Context, collection string, ent entity.ChangeEntity, out chan<- entity.ChangeEvent) error {
	snapshots := f.client.Collection(collection).Snapshots(ctx)
	defer snapshots.Stop()

	first := true
	for {
		snapshot, err := snapshots.Next()
		if err != nil {
			return err
		}

		// The initial snapshot replays every existing document as an add;
		// skipping it keeps subscribers from a storm of stale invalidations.
		if first {
			first = false
			continue
		}

		for _, change := range snapshot.Changes {
			event := entity.ChangeEvent{
				Entity:    ent,
				Operation: mapChangeKind(change.Kind),
				RoomID:    roomIDOf(ent, change.Doc),
			}
			if ent == entity.ChangeEntityParticipant {
				event.UserID = fieldString(change.Doc, "userId")
			}

			select {
			case out <- event:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func mapChangeKind(kind firestore.DocumentChangeKind) entity.ChangeOperation {
	switch kind {
	case firestore.DocumentAdded:
		return entity.ChangeOpCreate
	case firestore.DocumentModified:
		return entity.ChangeOpUpdate
	default:
		return entity.ChangeOpDelete
	}
}

func roomIDOf(ent entity.ChangeEntity, doc *firestore.DocumentSnapshot) string {
	if ent == entity.ChangeEntityRoom {
		return doc.Ref.ID
	}
	return fieldString(doc, "roomId")
}

func fieldString(doc *firestore.DocumentSnapshot, field string) string {
	data := doc.Data()
	if data == nil {
		return ""
	}
	if value, ok := data[field].(string); ok {
		return value
	}
	return ""
}
