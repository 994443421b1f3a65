package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"planora/internal/domain/repository"
)

// The projects collection is owned by the project-management side of the
// application; chat only resolves display names for project rooms.
type firestoreProjectRepository struct {
	client *firestore.Client
}

func NewFirestoreProjectRepository(client *firestore.Client) repository.ProjectRepository {
	return &firestoreProjectRepository{
		client: client,
	}
}

func (r *firestoreProjectRepository) GetNames(ctx context.Context, projectIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(projectIDs))
	if len(projectIDs) == 0 {
		return names, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(projectIDs))
	seen := make(map[string]bool, len(projectIDs))
	for _, id := range projectIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		refs = append(refs, r.client.Collection("projects").Doc(id))
	}

	err := withRetry(ctx, "Failed to fetch project names", func(ctx context.Context) error {
		docs, err := r.client.GetAll(ctx, refs)
		if err != nil {
			return err
		}

		for _, doc := range docs {
			if !doc.Exists() {
				continue
			}
			var project struct {
				Name string `firestore:"name"`
			}
			if err := doc.DataTo(&project); err != nil {
				continue
			}
			names[doc.Ref.ID] = project.Name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return names, nil
}
