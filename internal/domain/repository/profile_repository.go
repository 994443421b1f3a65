package repository

import (
	"context"

	"planora/internal/domain/entity"
)

// ProfileRepository is the external profile service. GetProfiles is a batch
// call: one request for any number of user ids.
type ProfileRepository interface {
	GetProfiles(ctx context.Context, userIDs []string) (map[string]*entity.UserProfile, error)
}
