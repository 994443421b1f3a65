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

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	now := time.Now()
	message.CreatedAt = now
	message.UpdatedAt = now

	return withRetry(ctx, "Failed to create message", func(ctx context.Context) error {
		_, err := r.client.Collection("messages").Doc(message.ID).Set(ctx, message)
		return err
	})
}

func (r *firestoreMessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	var message entity.Message

	err := withRetry(ctx, "Failed to get message", func(ctx context.Context) error {
		doc, err := r.client.Collection("messages").Doc(id).Get(ctx)
		if err != nil {
			return err
		}
		return doc.DataTo(&message)
	})
	if err != nil {
		if errors.Is(err, "DEPENDENCY_UNAVAILABLE") {
			return nil, err
		}
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	return &message, nil
}

func (r *firestoreMessageRepository) ListByRoom(ctx context.Context, roomID string, limit int) ([]*entity.Message, error) {
	var messages []*entity.Message

	err := withRetry(ctx, "Failed to list messages", func(ctx context.Context) error {
		query := r.client.Collection("messages").
			Where("roomId", "==", roomID).
			OrderBy("createdAt", firestore.Asc)
		if limit > 0 {
			query = query.Limit(limit)
		}

		docs, err := query.Documents(ctx).GetAll()
		if err != nil {
			return err
		}

		messages = messages[:0]
		for _, doc := range docs {
			var message entity.Message
			if err := doc.DataTo(&message); err != nil {
				continue
			}
			messages = append(messages, &message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The store orders by createdAt only; apply the id tie-break here.
	sortMessages(messages)

	return messages, nil
}

func (r *firestoreMessageRepository) CountUnread(ctx context.Context, roomID, userID string, since *time.Time) (int, error) {
	count := 0

	err := withRetry(ctx, "Failed to count unread messages", func(ctx context.Context) error {
		query := r.client.Collection("messages").Where("roomId", "==", roomID)
		if since != nil {
			query = query.Where("createdAt", ">", *since)
		}

		docs, err := query.Documents(ctx).GetAll()
		if err != nil {
			return err
		}

		count = 0
		for _, doc := range docs {
			var message entity.Message
			if err := doc.DataTo(&message); err != nil {
				continue
			}
			if message.SenderID == userID || message.IsDeleted {
				continue
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *firestoreMessageRepository) Update(ctx context.Context, message *entity.Message) error {
	message.UpdatedAt = time.Now()

	return withRetry(ctx, "Failed to update message", func(ctx context.Context) error {
		_, err := r.client.Collection("messages").Doc(message.ID).Set(ctx, message)
		return err
	})
}

func (r *firestoreMessageRepository) Delete(ctx context.Context, id string) error {
	return withRetry(ctx, "Failed to delete message", func(ctx context.Context) error {
		_, err := r.client.Collection("messages").Doc(id).Delete(ctx)
		return err
	})
}

func (r *firestoreMessageRepository) DeleteByRoom(ctx context.Context, roomID string) error {
	return withRetry(ctx, "Failed to delete room messages", func(ctx context.Context) error {
		docs, err := r.client.Collection("messages").Where("roomId", "==", roomID).Documents(ctx).GetAll()
		if err != nil {
			return err
		}

		// Room cascade is the one hard-delete path for messages.
		for _, doc := range docs {
			if _, err := doc.Ref.Delete(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

func sortMessages(messages []*entity.Message) {
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Before(messages[j])
	})
}
