package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/signcfg/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/signcfg/internal/domain-orchestrators"
	"github.com/ochairo/signcfg/internal/domain/interfaces"
	"github.com/ochairo/signcfg/internal/domain/interfaces/repositories"
	"github.com/ochairo/signcfg/internal/domain/services"
	"github.com/ochairo/signcfg/internal/external-adapters/gpg"
	"github.com/ochairo/signcfg/internal/external-adapters/properties"
	"github.com/ochairo/signcfg/internal/external-adapters/yaml"
)

// errReleaseKeyRequired is returned when --require-release-key is set and credentials are incomplete
var errReleaseKeyRequired = errors.New("release signing credentials are incomplete")

// commonOptions are the flags shared by resolve and export
type commonOptions struct {
	projectDir        string
	propertiesFile    string
	decryptKey        string
	keystoreSHA256    string
	requireReleaseKey bool
	quiet             bool
}

func registerCommonFlags(fs *flag.FlagSet) *commonOptions {
	opts := &commonOptions{}
	fs.StringVar(&opts.projectDir, "project", defaultProjectDir, "Project root (directory holding key.properties)")
	fs.StringVar(&opts.propertiesFile, "properties", "", "Credentials file, relative to the project root (default from signcfg.yml or key.properties)")
	fs.StringVar(&opts.decryptKey, "decrypt-key", "", "OpenPGP private key for encrypted credentials files")
	fs.StringVar(&opts.keystoreSHA256, "keystore-sha256", "", "Expected SHA-256 of the keystore file")
	fs.BoolVar(&opts.requireReleaseKey, "require-release-key", false, "Fail (exit 3) when release credentials are incomplete")
	fs.BoolVar(&opts.quiet, "quiet", false, "Only output errors")
	return opts
}

func newLogger(quiet bool) interfaces.Logger {
	level := interfaces.LevelWarn
	switch {
	case os.Getenv(envDebug) == "1":
		level = interfaces.LevelDebug
	case quiet:
		level = interfaces.LevelError
	}
	return interfaces.NewWriterLogger(os.Stderr, level)
}

// newSourceFactory opens plain files directly and *.gpg / *.asc files through OpenPGP
func newSourceFactory(decryptKey string, logger interfaces.Logger) (orchestrators.SourceFactory, error) {
	decrypter := gpg.NewDecrypter([]byte(os.Getenv(envPassphrase)))
	if decryptKey != "" {
		if err := decrypter.ImportKeyFromFile(decryptKey); err != nil {
			return nil, fmt.Errorf("failed to import decryption key: %w", err)
		}
		logger.Debug("imported decryption keys",
			interfaces.F("key_file", decryptKey),
			interfaces.F("keyring_size", decrypter.GetKeyringSize()),
		)
	}

	return func(path string) repositories.CredentialsSource {
		if properties.IsEncrypted(path) {
			return properties.NewFileSource(path, properties.WithDecrypter(decrypter))
		}
		return properties.NewFileSource(path)
	}, nil
}

// configure runs the configure workflow with the real adapters
func configure(ctx context.Context, opts *commonOptions, logger interfaces.Logger) (*orchestrators.ConfigureResult, error) {
	rootDir, err := filepath.Abs(opts.projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	sources, err := newSourceFactory(opts.decryptKey, logger)
	if err != nil {
		return nil, err
	}

	orch := orchestrators.NewConfigureOrchestrator(
		yaml.NewProjectRepository(rootDir),
		services.NewSigningResolver(logger),
		sources,
		gateways.NewKeystoreFingerprinter(),
		logger,
		orchestrators.ConfigureOrchestratorConfig{
			PropertiesFile:      opts.propertiesFile,
			ExpectedFingerprint: opts.keystoreSHA256,
		},
	)

	result, err := orch.Configure(ctx)
	if err != nil {
		return nil, err
	}

	if opts.requireReleaseKey && !result.Ready() {
		return result, fmt.Errorf("%w: %s", errReleaseKeyRequired, result.Resolution.Reason())
	}

	return result, nil
}

// exitCode maps an execution error to the process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errReleaseKeyRequired):
		return exitNotReady
	default:
		return exitError
	}
}
