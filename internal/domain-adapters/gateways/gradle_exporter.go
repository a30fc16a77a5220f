package gateways

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kballard/go-shellquote"
	"github.com/magiconair/properties"

	"github.com/ochairo/signcfg/internal/domain/entities"
)

// Android Gradle plugin properties that override signing from the command line
const (
	InjectedStoreFile     = "android.injected.signing.store.file"
	InjectedStorePassword = "android.injected.signing.store.password"
	InjectedKeyAlias      = "android.injected.signing.key.alias"
	InjectedKeyPassword   = "android.injected.signing.key.password"
)

const notConfiguredComment = "# release signing not configured; toolchain default applies\n"

// GradleExporter renders a signing config for the Android Gradle plugin
type GradleExporter struct{}

// NewGradleExporter creates a new Gradle exporter
func NewGradleExporter() *GradleExporter {
	return &GradleExporter{}
}

// Args returns -P arguments for gradle as separate argv entries, or nil
// when cfg is nil
func (e *GradleExporter) Args(cfg *entities.SigningConfig) []string {
	if cfg == nil {
		return nil
	}

	pairs := injectedPairs(cfg)
	args := make([]string, 0, len(pairs))
	for _, kv := range pairs {
		args = append(args, fmt.Sprintf("-P%s=%s", kv[0], kv[1]))
	}
	return args
}

// ShellArgs returns the -P arguments quoted for a POSIX shell, so paths
// and passwords with whitespace or metacharacters stay single words.
// It returns "" when cfg is nil.
func (e *GradleExporter) ShellArgs(cfg *entities.SigningConfig) string {
	return shellquote.Join(e.Args(cfg)...)
}

// WriteProperties writes the injected properties in .properties syntax.
// A nil cfg writes only a comment so stale credentials are not left behind.
func (e *GradleExporter) WriteProperties(w io.Writer, cfg *entities.SigningConfig) error {
	if cfg == nil {
		_, err := io.WriteString(w, notConfiguredComment)
		return err
	}

	p := properties.NewProperties()
	p.DisableExpansion = true
	for _, kv := range injectedPairs(cfg) {
		if _, _, err := p.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to set %s: %w", kv[0], err)
		}
	}

	if _, err := p.Write(w, properties.ISO_8859_1); err != nil {
		return fmt.Errorf("failed to write properties: %w", err)
	}
	return nil
}

// WriteFile writes the injected properties to path with owner-only permissions
func (e *GradleExporter) WriteFile(path string, cfg *entities.SigningConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	//nolint:gosec // G304: path is the operator-provided output file
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	// O_TRUNC keeps the mode of an existing file
	if err := f.Chmod(0600); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to restrict %s: %w", path, err)
	}

	if err := e.WriteProperties(f, cfg); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func injectedPairs(cfg *entities.SigningConfig) [][2]string {
	return [][2]string{
		{InjectedStoreFile, cfg.StoreFile},
		{InjectedStorePassword, cfg.StorePassword},
		{InjectedKeyAlias, cfg.KeyAlias},
		{InjectedKeyPassword, cfg.KeyPassword},
	}
}
