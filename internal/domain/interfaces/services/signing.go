// Package services defines interfaces for domain service contracts.
package services

import (
	"context"

	"github.com/ochairo/signcfg/internal/domain/entities"
	"github.com/ochairo/signcfg/internal/domain/interfaces/repositories"
)

// SigningService defines the signing decisions taken once per evaluation
type SigningService interface {
	// Resolve reads the credentials source and computes readiness
	Resolve(ctx context.Context, source repositories.CredentialsSource) (*entities.SigningResolution, error)

	// Configure registers the release signing config and binds build types
	Configure(project *entities.Project, resolution *entities.SigningResolution) *entities.BuildConfiguration
}
