// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/signcfg/internal/domain/entities"
)

// CredentialsSource provides the raw key-value pairs of a signing credentials file
type CredentialsSource interface {
	// Location names the source in messages (usually a file path)
	Location() string

	// Load returns found=false and a nil error when the source does not exist.
	// An existing source that cannot be read or parsed returns an error.
	Load(ctx context.Context) (props map[string]string, found bool, err error)
}

// ProjectRepository loads the project definition
type ProjectRepository interface {
	// GetProject returns the project rooted at the repository's directory
	GetProject(ctx context.Context) (*entities.Project, error)
}
