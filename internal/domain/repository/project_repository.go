package repository

import "context"

// ProjectRepository resolves project metadata owned by the surrounding
// application. GetNames is a batch call keyed by project id.
type ProjectRepository interface {
	GetNames(ctx context.Context, projectIDs []string) (map[string]string, error)
}
