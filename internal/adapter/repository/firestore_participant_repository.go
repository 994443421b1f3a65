package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"planora/internal/domain/entity"
	"planora/internal/domain/repository"
	"planora/pkg/errors"
)

type firestoreParticipantRepository struct {
	client *firestore.Client
}

func NewFirestoreParticipantRepository(client *firestore.Client) repository.ParticipantRepository {
	return &firestoreParticipantRepository{
		client: client,
	}
}

// participantDocID keys the collection by the composite (room, user) pair so
// the uniqueness of a membership row falls out of the document id.
func participantDocID(roomID, userID string) string {
	return roomID + "_" + userID
}

func (r *firestoreParticipantRepository) Create(ctx context.Context, participant *entity.Participant) error {
	if participant.JoinedAt.IsZero() {
		participant.JoinedAt = time.Now()
	}

	return withRetry(ctx, "Failed to create participant", func(ctx context.Context) error {
		docID := participantDocID(participant.RoomID, participant.UserID)
		_, err := r.client.Collection("participants").Doc(docID).Set(ctx, participant)
		return err
	})
}

func (r *firestoreParticipantRepository) Get(ctx context.Context, roomID, userID string) (*entity.Participant, error) {
	var participant entity.Participant

	err := withRetry(ctx, "Failed to get participant", func(ctx context.Context) error {
		doc, err := r.client.Collection("participants").Doc(participantDocID(roomID, userID)).Get(ctx)
		if err != nil {
			return err
		}
		return doc.DataTo(&participant)
	})
	if err != nil {
		if errors.Is(err, "DEPENDENCY_UNAVAILABLE") {
			return nil, err
		}
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Participant", err)
		}
		return nil, errors.Internal("Failed to get participant", err)
	}

	return &participant, nil
}

func (r *firestoreParticipantRepository) ListByRoom(ctx context.Context, roomID string) ([]*entity.Participant, error) {
	return r.list(ctx, r.client.Collection("participants").Where("roomId", "==", roomID))
}

func (r *firestoreParticipantRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Participant, error) {
	return r.list(ctx, r.client.Collection("participants").Where("userId", "==", userID))
}

func (r *firestoreParticipantRepository) list(ctx context.Context, query firestore.Query) ([]*entity.Participant, error) {
	var participants []*entity.Participant

	err := withRetry(ctx, "Failed to list participants", func(ctx context.Context) error {
		docs, err := query.Documents(ctx).GetAll()
		if err != nil {
			return err
		}

		participants = participants[:0]
		for _, doc := range docs {
			var participant entity.Participant
			if err := doc.DataTo(&participant); err != nil {
				continue
			}
			participants = append(participants, &participant)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return participants, nil
}

func (r *firestoreParticipantRepository) UpdateRole(ctx context.Context, roomID, userID string, role entity.ParticipantRole) error {
	return withRetry(ctx, "Failed to update participant role", func(ctx context.Context) error {
		docID := participantDocID(roomID, userID)
		_, err := r.client.Collection("participants").Doc(docID).Update(ctx, []firestore.Update{
			{Path: "role", Value: string(role)},
		})
		return err
	})
}

func (r *firestoreParticipantRepository) UpdateLastReadAt(ctx context.Context, roomID, userID string, at time.Time) error {
	return withRetry(ctx, "Failed to update read watermark", func(ctx context.Context) error {
		docID := participantDocID(roomID, userID)
		_, err := r.client.Collection("participants").Doc(docID).Update(ctx, []firestore.Update{
			{Path: "lastReadAt", Value: at},
		})
		return err
	})
}

func (r *firestoreParticipantRepository) Delete(ctx context.Context, roomID, userID string) error {
	return withRetry(ctx, "Failed to delete participant", func(ctx context.Context) error {
		_, err := r.client.Collection("participants").Doc(participantDocID(roomID, userID)).Delete(ctx)
		return err
	})
}

func (r *firestoreParticipantRepository) DeleteByRoom(ctx context.Context, roomID string) error {
	return withRetry(ctx, "Failed to delete room participants", func(ctx context.Context) error {
		docs, err := r.client.Collection("participants").Where("roomId", "==", roomID).Documents(ctx).GetAll()
		if err != nil {
			return err
		}

		for _, doc := range docs {
			if _, err := doc.Ref.Delete(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
