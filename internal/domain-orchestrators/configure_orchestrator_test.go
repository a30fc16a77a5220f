package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ochairo/signcfg/internal/domain-adapters/gateways"
	"github.com/ochairo/signcfg/internal/domain/entities"
	"github.com/ochairo/signcfg/internal/domain/interfaces"
	"github.com/ochairo/signcfg/internal/domain/interfaces/repositories"
	"github.com/ochairo/signcfg/internal/domain/services"
	"github.com/ochairo/signcfg/internal/external-adapters/properties"
	"github.com/ochairo/signcfg/internal/external-adapters/yaml"
)

// Mock implementations for testing
type mockProjectRepository struct {
	project *entities.Project
	err     error
}

func (m *mockProjectRepository) GetProject(_ context.Context) (*entities.Project, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.project, nil
}

type mockSource struct {
	location string
	props    map[string]string
	found    bool
	err      error
}

func (m *mockSource) Location() string { return m.location }

func (m *mockSource) Load(_ context.Context) (map[string]string, bool, error) {
	return m.props, m.found, m.err
}

type mockFingerprinter struct {
	sum       string
	err       error
	verifyErr error
	verified  string
}

func (m *mockFingerprinter) Fingerprint(_ string) (string, error) {
	return m.sum, m.err
}

func (m *mockFingerprinter) VerifyFingerprint(_ context.Context, _, expected string) error {
	m.verified = expected
	return m.verifyErr
}

func completeProps() map[string]string {
	return map[string]string{
		"storeFile":     "rel.jks",
		"storePassword": "p",
		"keyAlias":      "a",
		"keyPassword":   "k",
	}
}

func newOrchestrator(project *entities.Project, source *mockSource, fp *mockFingerprinter, cfg ConfigureOrchestratorConfig) (*ConfigureOrchestrator, *string) {
	var openedPath string
	factory := func(path string) repositories.CredentialsSource {
		openedPath = path
		source.location = path
		return source
	}
	o := NewConfigureOrchestrator(
		&mockProjectRepository{project: project},
		services.NewSigningResolver(nil),
		factory,
		fp,
		nil,
		cfg,
	)
	return o, &openedPath
}

func TestConfigure_Ready(t *testing.T) {
	project := entities.NewDefaultProject("/work/android")
	fp := &mockFingerprinter{sum: "abc123"}
	o, opened := newOrchestrator(project, &mockSource{props: completeProps(), found: true}, fp, ConfigureOrchestratorConfig{})

	result, err := o.Configure(context.Background())
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	if *opened != filepath.Join("/work/android", "key.properties") {
		t.Errorf("opened source %q, want key.properties in project root", *opened)
	}
	if !result.Ready() {
		t.Fatal("Ready() = false, want true")
	}
	signing := result.ReleaseSigning()
	if signing == nil || signing.KeyAlias != "a" {
		t.Fatalf("ReleaseSigning() = %v, want alias a", signing)
	}
	if result.KeystoreFingerprint != "abc123" {
		t.Errorf("KeystoreFingerprint = %q, want abc123", result.KeystoreFingerprint)
	}
}

func TestConfigure_NotReady(t *testing.T) {
	project := entities.NewDefaultProject("/work/android")
	o, _ := newOrchestrator(project, &mockSource{props: map[string]string{"storeFile": "rel.jks", "storePassword": "p"}, found: true},
		&mockFingerprinter{err: errors.New("should not be called")}, ConfigureOrchestratorConfig{})

	result, err := o.Configure(context.Background())
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if result.Ready() {
		t.Error("Ready() = true, want false")
	}
	if result.ReleaseSigning() != nil {
		t.Error("release should use the toolchain default signature")
	}
	if result.KeystoreFingerprint != "" {
		t.Error("no fingerprint expected when not ready")
	}
}

func TestConfigure_PropertiesOverride(t *testing.T) {
	project := entities.NewDefaultProject("/work/android")
	o, opened := newOrchestrator(project, &mockSource{found: false}, &mockFingerprinter{},
		ConfigureOrchestratorConfig{PropertiesFile: "/secure/key.properties"})

	if _, err := o.Configure(context.Background()); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if *opened != "/secure/key.properties" {
		t.Errorf("opened source %q, want override", *opened)
	}
}

func TestConfigure_ParseErrorAborts(t *testing.T) {
	project := entities.NewDefaultProject("/work/android")
	o, _ := newOrchestrator(project, &mockSource{found: true, err: errors.New("invalid unicode literal")},
		&mockFingerprinter{}, ConfigureOrchestratorConfig{})

	result, err := o.Configure(context.Background())
	if !services.IsConfigParseError(err) {
		t.Fatalf("Configure() error = %v, want ConfigParseError", err)
	}
	if result != nil {
		t.Error("no configuration should be produced on parse error")
	}
}

func TestConfigure_ProjectError(t *testing.T) {
	o := NewConfigureOrchestrator(
		&mockProjectRepository{err: errors.New("bad yaml")},
		services.NewSigningResolver(nil),
		func(string) repositories.CredentialsSource { return &mockSource{} },
		nil, nil, ConfigureOrchestratorConfig{},
	)

	_, err := o.Configure(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to load project") {
		t.Errorf("Configure() error = %v, want project load failure", err)
	}
}

func TestConfigure_FingerprintPin(t *testing.T) {
	project := entities.NewDefaultProject("/work/android")

	t.Run("mismatch aborts", func(t *testing.T) {
		fp := &mockFingerprinter{sum: "abc", verifyErr: errors.New("keystore fingerprint mismatch")}
		o, _ := newOrchestrator(project, &mockSource{props: completeProps(), found: true}, fp,
			ConfigureOrchestratorConfig{ExpectedFingerprint: "def"})

		if _, err := o.Configure(context.Background()); err == nil {
			t.Fatal("Configure() should fail on fingerprint mismatch")
		}
		if fp.verified != "def" {
			t.Errorf("verified against %q, want def", fp.verified)
		}
	})

	t.Run("missing keystore is a warning", func(t *testing.T) {
		fp := &mockFingerprinter{err: os.ErrNotExist}
		o, _ := newOrchestrator(project, &mockSource{props: completeProps(), found: true}, fp, ConfigureOrchestratorConfig{})

		result, err := o.Configure(context.Background())
		if err != nil {
			t.Fatalf("Configure() error = %v", err)
		}
		if !result.KeystoreMissing {
			t.Error("KeystoreMissing = false, want true")
		}
		if !result.Ready() {
			t.Error("a missing keystore file does not change readiness")
		}
	})

	t.Run("missing keystore with pin aborts", func(t *testing.T) {
		fp := &mockFingerprinter{err: os.ErrNotExist}
		o, _ := newOrchestrator(project, &mockSource{props: completeProps(), found: true}, fp,
			ConfigureOrchestratorConfig{ExpectedFingerprint: "def"})

		if _, err := o.Configure(context.Background()); err == nil {
			t.Fatal("Configure() should fail when a pinned keystore is missing")
		}
	})

	t.Run("pin without release signing warns", func(t *testing.T) {
		fp := &mockFingerprinter{sum: "abc"}
		var logs bytes.Buffer
		o := NewConfigureOrchestrator(
			&mockProjectRepository{project: project},
			services.NewSigningResolver(nil),
			func(path string) repositories.CredentialsSource {
				return &mockSource{location: path, props: map[string]string{"storeFile": "rel.jks"}, found: true}
			},
			fp,
			interfaces.NewWriterLogger(&logs, interfaces.LevelWarn),
			ConfigureOrchestratorConfig{ExpectedFingerprint: "def"},
		)

		result, err := o.Configure(context.Background())
		if err != nil {
			t.Fatalf("Configure() error = %v", err)
		}
		if result.Ready() {
			t.Fatal("Ready() = true, want false")
		}
		if fp.verified != "" {
			t.Errorf("verified against %q, want no verification", fp.verified)
		}
		if !strings.Contains(logs.String(), "fingerprint pin not checked") {
			t.Errorf("missing pin warning in logs:\n%s", logs.String())
		}
	})
}

// TestConfigure_EndToEnd wires the real adapters against a temporary project
func TestConfigure_EndToEnd(t *testing.T) {
	root := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	newReal := func() *ConfigureOrchestrator {
		return NewConfigureOrchestrator(
			yaml.NewProjectRepository(root),
			services.NewSigningResolver(nil),
			func(path string) repositories.CredentialsSource { return properties.NewFileSource(path) },
			gateways.NewKeystoreFingerprinter(),
			nil,
			ConfigureOrchestratorConfig{},
		)
	}

	// No key.properties yet
	result, err := newReal().Configure(context.Background())
	if err != nil {
		t.Fatalf("Configure() without key.properties error = %v", err)
	}
	if result.Ready() || result.Resolution.Found {
		t.Errorf("absent file: Ready=%v Found=%v, want both false", result.Ready(), result.Resolution.Found)
	}

	// Complete credentials with the keystore present
	write("rel.jks", "keystore-bytes")
	write("key.properties", "storeFile=rel.jks\nstorePassword=p\nkeyAlias=a\nkeyPassword=k\n")

	first, err := newReal().Configure(context.Background())
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if !first.Ready() {
		t.Fatalf("Ready() = false: %s", first.Resolution.Reason())
	}
	if got := first.ReleaseSigning().StoreFile; got != filepath.Join(root, "rel.jks") {
		t.Errorf("StoreFile = %q", got)
	}
	if len(first.KeystoreFingerprint) != 64 {
		t.Errorf("KeystoreFingerprint = %q, want sha256 hex", first.KeystoreFingerprint)
	}

	second, err := newReal().Configure(context.Background())
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if second.ReleaseSigning().KeyAlias != first.ReleaseSigning().KeyAlias ||
		second.KeystoreFingerprint != first.KeystoreFingerprint {
		t.Error("repeated evaluation should give the same binding")
	}

	// Corrupt credentials file
	write("key.properties", "storeFile=\\uXYZW\n")
	if _, err := newReal().Configure(context.Background()); !services.IsConfigParseError(err) {
		t.Errorf("Configure() error = %v, want ConfigParseError", err)
	}
}
