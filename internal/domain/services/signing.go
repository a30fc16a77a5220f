// Package services contains domain logic for resolving release signing.
package services

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/ochairo/signcfg/internal/domain/entities"
	"github.com/ochairo/signcfg/internal/domain/interfaces"
	"github.com/ochairo/signcfg/internal/domain/interfaces/repositories"
)

// SigningResolver decides whether release credentials are usable and binds them
type SigningResolver struct {
	logger interfaces.Logger
}

// NewSigningResolver creates a new signing resolver
func NewSigningResolver(logger interfaces.Logger) *SigningResolver {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &SigningResolver{logger: logger}
}

// Resolve loads the credentials source once and evaluates readiness.
// A missing source is not an error. A source that exists but fails to load
// is returned as *ConfigParseError.
func (s *SigningResolver) Resolve(ctx context.Context, source repositories.CredentialsSource) (*entities.SigningResolution, error) {
	props, found, err := source.Load(ctx)
	if err != nil {
		var parseErr *ConfigParseError
		if errors.As(err, &parseErr) {
			return nil, err
		}
		return nil, &ConfigParseError{Path: source.Location(), Err: err}
	}

	resolution := s.Evaluate(source.Location(), props, found)

	s.logger.Debug("signing credentials evaluated",
		interfaces.F("source", resolution.Source),
		interfaces.F("found", resolution.Found),
		interfaces.F("ready", resolution.Ready),
		interfaces.F("missing", resolution.Missing),
	)

	return resolution, nil
}

// Evaluate computes the readiness predicate from already loaded properties
func (s *SigningResolver) Evaluate(location string, props map[string]string, found bool) *entities.SigningResolution {
	resolution := &entities.SigningResolution{
		Source: location,
		Found:  found,
	}

	values := make(map[string]string, len(entities.RequiredCredentialKeys))
	for _, key := range entities.RequiredCredentialKeys {
		value, ok := props[key]
		if !found || !ok {
			resolution.Missing = append(resolution.Missing, key)
			continue
		}
		values[key] = value
	}

	if len(resolution.Missing) > 0 {
		return resolution
	}

	resolution.Ready = true
	resolution.Credentials = &entities.KeystoreCredentials{
		StoreFile:     values[entities.PropStoreFile],
		StorePassword: values[entities.PropStorePassword],
		KeyAlias:      values[entities.PropKeyAlias],
		KeyPassword:   values[entities.PropKeyPassword],
	}

	return resolution
}

// SigningConfigFor builds the release signing config, or nil when not ready
func (s *SigningResolver) SigningConfigFor(rootDir string, resolution *entities.SigningResolution) *entities.SigningConfig {
	if !resolution.IsReady() {
		return nil
	}

	creds := resolution.Credentials
	return &entities.SigningConfig{
		Name:          entities.ReleaseSigningConfigName,
		StoreFile:     ResolveProjectPath(rootDir, creds.StoreFile),
		StorePassword: creds.StorePassword,
		KeyAlias:      creds.KeyAlias,
		KeyPassword:   creds.KeyPassword,
	}
}

// Configure produces the build configuration for a project.
// The project is not modified; build types are copied before binding.
func (s *SigningResolver) Configure(project *entities.Project, resolution *entities.SigningResolution) *entities.BuildConfiguration {
	config := &entities.BuildConfiguration{
		Namespace:      project.Namespace,
		ApplicationID:  project.ApplicationID,
		SigningConfigs: make(map[string]*entities.SigningConfig),
		BuildTypes:     make(map[string]*entities.BuildType, len(project.BuildTypes)),
	}

	for name, bt := range project.BuildTypes {
		config.BuildTypes[name] = bt.Clone()
	}
	if _, ok := config.BuildTypes[entities.BuildTypeRelease]; !ok {
		config.BuildTypes[entities.BuildTypeRelease] = &entities.BuildType{Name: entities.BuildTypeRelease}
	}

	ready := resolution.IsReady()
	release := config.BuildTypes[entities.BuildTypeRelease]

	if ready {
		signing := s.SigningConfigFor(project.RootDir, resolution)
		config.SigningConfigs[signing.Name] = signing
		release.SigningConfig = signing
	} else {
		release.SigningConfig = nil
	}

	s.logger.Info("release signing configured",
		interfaces.F("ready", ready),
		interfaces.F("signing_config", release.SigningConfig),
	)

	return config
}

// ResolveProjectPath resolves p against rootDir unless it is already absolute
func ResolveProjectPath(rootDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(rootDir, p)
}
