// Package gateways defines interfaces for infrastructure collaborators.
package gateways

import "context"

// KeystoreFingerprinter computes digests of keystore files
type KeystoreFingerprinter interface {
	Fingerprint(filePath string) (string, error)
	VerifyFingerprint(ctx context.Context, filePath, expectedSum string) error
}
