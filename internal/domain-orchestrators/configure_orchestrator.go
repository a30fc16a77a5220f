// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ochairo/signcfg/internal/domain/entities"
	"github.com/ochairo/signcfg/internal/domain/interfaces"
	"github.com/ochairo/signcfg/internal/domain/interfaces/gateways"
	"github.com/ochairo/signcfg/internal/domain/interfaces/repositories"
	"github.com/ochairo/signcfg/internal/domain/interfaces/services"
	domainservices "github.com/ochairo/signcfg/internal/domain/services"
)

// SourceFactory opens the credentials source at an absolute path
type SourceFactory func(path string) repositories.CredentialsSource

// ConfigureOrchestrator coordinates the signing configuration workflow
type ConfigureOrchestrator struct {
	projects      repositories.ProjectRepository
	signing       services.SigningService
	sources       SourceFactory
	fingerprinter gateways.KeystoreFingerprinter
	logger        interfaces.Logger

	propertiesFile      string
	expectedFingerprint string
}

// ConfigureOrchestratorConfig holds configuration for the orchestrator
type ConfigureOrchestratorConfig struct {
	// PropertiesFile overrides the project's credentials file when set
	PropertiesFile string

	// ExpectedFingerprint pins the keystore SHA-256 when set
	ExpectedFingerprint string
}

// NewConfigureOrchestrator creates a new configure orchestrator
func NewConfigureOrchestrator(
	projects repositories.ProjectRepository,
	signing services.SigningService,
	sources SourceFactory,
	fingerprinter gateways.KeystoreFingerprinter,
	logger interfaces.Logger,
	config ConfigureOrchestratorConfig,
) *ConfigureOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &ConfigureOrchestrator{
		projects:            projects,
		signing:             signing,
		sources:             sources,
		fingerprinter:       fingerprinter,
		logger:              logger,
		propertiesFile:      config.PropertiesFile,
		expectedFingerprint: config.ExpectedFingerprint,
	}
}

// ConfigureResult contains the result of a configuration evaluation
type ConfigureResult struct {
	Project             *entities.Project
	Resolution          *entities.SigningResolution
	Configuration       *entities.BuildConfiguration
	KeystoreFingerprint string
	KeystoreMissing     bool
	Duration            time.Duration
}

// Ready reports whether the release build type received the release signing config
func (r *ConfigureResult) Ready() bool {
	return r.Resolution.IsReady()
}

// ReleaseSigning returns the release signing config, or nil for the toolchain default
func (r *ConfigureResult) ReleaseSigning() *entities.SigningConfig {
	return r.Configuration.Release().SigningConfig
}

// Configure loads the project, resolves signing once, and binds the build types
func (o *ConfigureOrchestrator) Configure(ctx context.Context) (*ConfigureResult, error) {
	startTime := time.Now()
	result := &ConfigureResult{}

	// Step 1: Load project definition
	project, err := o.projects.GetProject(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	result.Project = project

	// Step 2: Resolve credentials
	propertiesFile := project.PropertiesFile
	if o.propertiesFile != "" {
		propertiesFile = o.propertiesFile
	}
	source := o.sources(domainservices.ResolveProjectPath(project.RootDir, propertiesFile))

	resolution, err := o.signing.Resolve(ctx, source)
	if err != nil {
		return nil, err
	}
	result.Resolution = resolution

	// Step 3: Register signing config and bind build types
	result.Configuration = o.signing.Configure(project, resolution)

	// Step 4: Fingerprint the keystore for audit output
	signing := result.ReleaseSigning()
	switch {
	case signing != nil && o.fingerprinter != nil:
		if err := o.fingerprintKeystore(ctx, result, signing.StoreFile); err != nil {
			return nil, err
		}
	case signing == nil && o.expectedFingerprint != "":
		o.logger.Warn("keystore fingerprint pin not checked: no release signing config",
			interfaces.F("expected_sha256", o.expectedFingerprint),
		)
	}

	result.Duration = time.Since(startTime)

	if !resolution.IsReady() {
		o.logger.Warn("release build will use the toolchain default signature",
			interfaces.F("reason", resolution.Reason()),
		)
	}

	return result, nil
}

func (o *ConfigureOrchestrator) fingerprintKeystore(ctx context.Context, result *ConfigureResult, storeFile string) error {
	sum, err := o.fingerprinter.Fingerprint(storeFile)
	if errors.Is(err, fs.ErrNotExist) {
		// Signing itself is done by the host toolchain, which reports this failure
		result.KeystoreMissing = true
		o.logger.Warn("keystore file not found", interfaces.F("store_file", storeFile))
		if o.expectedFingerprint != "" {
			return fmt.Errorf("cannot verify keystore fingerprint: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fingerprint keystore: %w", err)
	}
	result.KeystoreFingerprint = sum

	if o.expectedFingerprint != "" {
		if err := o.fingerprinter.VerifyFingerprint(ctx, storeFile, o.expectedFingerprint); err != nil {
			return err
		}
	}

	return nil
}
