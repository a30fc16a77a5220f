package properties

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Decrypter unwraps an encrypted credentials file before parsing
type Decrypter interface {
	Decrypt(ctx context.Context, r io.Reader) ([]byte, error)
}

// FileSource implements repositories.CredentialsSource for a file on disk
type FileSource struct {
	path      string
	decrypter Decrypter
}

// Option configures a FileSource
type Option func(*FileSource)

// WithDecrypter makes the source decrypt the file contents before parsing
func WithDecrypter(d Decrypter) Option {
	return func(s *FileSource) {
		s.decrypter = d
	}
}

// NewFileSource creates a credentials source for path
func NewFileSource(path string, opts ...Option) *FileSource {
	s := &FileSource{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsEncrypted reports whether path names an OpenPGP-encrypted credentials file
func IsEncrypted(path string) bool {
	return strings.HasSuffix(path, ".gpg") || strings.HasSuffix(path, ".asc")
}

// Location returns the file path
func (s *FileSource) Location() string {
	return s.path
}

// Load reads and parses the file. A missing file yields found=false.
func (s *FileSource) Load(ctx context.Context) (map[string]string, bool, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, true, fmt.Errorf("%s is a directory", s.path)
	}

	//nolint:gosec // G304: path is the operator-provided credentials file
	f, err := os.Open(s.path)
	if err != nil {
		return nil, true, fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	var data []byte
	if s.decrypter != nil {
		data, err = s.decrypter.Decrypt(ctx, f)
		if err != nil {
			return nil, true, fmt.Errorf("failed to decrypt file: %w", err)
		}
	} else {
		data, err = io.ReadAll(f)
		if err != nil {
			return nil, true, fmt.Errorf("failed to read file: %w", err)
		}
	}

	props, err := Parse(data)
	if err != nil {
		return nil, true, err
	}

	return props, true, nil
}
