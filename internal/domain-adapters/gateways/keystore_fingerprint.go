// Package gateways implements infrastructure collaborators for signing configuration.
package gateways

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// keystoreFingerprinter computes SHA-256 fingerprints of keystore files
type keystoreFingerprinter struct{}

// NewKeystoreFingerprinter creates a new keystore fingerprinter
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewKeystoreFingerprinter() *keystoreFingerprinter {
	return &keystoreFingerprinter{}
}

// Fingerprint returns the hex SHA-256 of the keystore file
func (f *keystoreFingerprinter) Fingerprint(filePath string) (string, error) {
	//nolint:gosec // G304: filePath is the keystore named in the credentials file
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open keystore: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("failed to hash keystore: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyFingerprint checks the keystore against a pinned SHA-256 (case-insensitive hex)
func (f *keystoreFingerprinter) VerifyFingerprint(_ context.Context, filePath, expectedSum string) error {
	actualSum, err := f.Fingerprint(filePath)
	if err != nil {
		return err
	}

	if actualSum != strings.ToLower(strings.TrimSpace(expectedSum)) {
		return fmt.Errorf("keystore fingerprint mismatch: expected %s, got %s", expectedSum, actualSum)
	}

	return nil
}
