package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"planora/internal/domain/entity"
	"planora/internal/domain/repository"
)

// The users collection is owned by the identity/profile service; this adapter
// only reads the minimal projection chat needs.
type firestoreProfileRepository struct {
	client *firestore.Client
}

func NewFirestoreProfileRepository(client *firestore.Client) repository.ProfileRepository {
	return &firestoreProfileRepository{
		client: client,
	}
}

func (r *firestoreProfileRepository) GetProfiles(ctx context.Context, userIDs []string) (map[string]*entity.UserProfile, error) {
	profiles := make(map[string]*entity.UserProfile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(userIDs))
	seen := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		refs = append(refs, r.client.Collection("users").Doc(id))
	}

	err := withRetry(ctx, "Failed to fetch profiles", func(ctx context.Context) error {
		docs, err := r.client.GetAll(ctx, refs)
		if err != nil {
			return err
		}

		for _, doc := range docs {
			if !doc.Exists() {
				continue
			}
			var profile entity.UserProfile
			if err := doc.DataTo(&profile); err != nil {
				continue
			}
			profile.ID = doc.Ref.ID
			profiles[profile.ID] = &profile
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return profiles, nil
}
