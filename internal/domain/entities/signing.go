// Package entities defines core domain models and data structures.
package entities

import "fmt"

// ReleaseSigningConfigName is the name under which release credentials are registered
const ReleaseSigningConfigName = "release"

// Property keys recognized in the credentials file
const (
	PropStoreFile     = "storeFile"
	PropStorePassword = "storePassword"
	PropKeyAlias      = "keyAlias"
	PropKeyPassword   = "keyPassword"
)

// RequiredCredentialKeys lists every key that must be present for release signing
var RequiredCredentialKeys = []string{
	PropStoreFile,
	PropStorePassword,
	PropKeyAlias,
	PropKeyPassword,
}

// KeystoreCredentials holds the four values read from the credentials file.
// It only exists when all four keys were present at the same time.
type KeystoreCredentials struct {
	StoreFile     string
	StorePassword string
	KeyAlias      string
	KeyPassword   string
}

// SigningConfig is a named signing identity applied to build types
type SigningConfig struct {
	Name          string
	StoreFile     string // Resolved against the project root
	StorePassword string
	KeyAlias      string
	KeyPassword   string
}

// String never includes the passwords or the key alias
func (c *SigningConfig) String() string {
	if c == nil {
		return "<default>"
	}
	return fmt.Sprintf("%s(storeFile=%s)", c.Name, c.StoreFile)
}

// SigningResolution is the result of evaluating the readiness predicate
type SigningResolution struct {
	Source      string   // Location of the credentials file
	Found       bool     // Whether the file existed
	Ready       bool     // True iff all required keys were present
	Credentials *KeystoreCredentials
	Missing     []string // Required keys that were absent
}

// IsReady reports whether release signing can be configured
func (r *SigningResolution) IsReady() bool {
	return r != nil && r.Ready
}

// Reason returns a short human-readable explanation of the readiness result
func (r *SigningResolution) Reason() string {
	switch {
	case r.IsReady():
		return "release credentials complete"
	case !r.Found:
		return fmt.Sprintf("%s not found", r.Source)
	default:
		return fmt.Sprintf("%s is missing %v", r.Source, r.Missing)
	}
}
