// Package gpg provides OpenPGP decryption for encrypted credentials files.
package gpg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

// maxPlaintextSize bounds the decrypted credentials file
const maxPlaintextSize = 1024 * 1024

const armorHeader = "-----BEGIN PGP MESSAGE-----"

// ErrNoPassphrase is returned when a passphrase is needed but none was configured
var ErrNoPassphrase = errors.New("passphrase required but not provided")

// Decrypter decrypts OpenPGP messages using ProtonMail's go-crypto.
// Symmetric messages use the passphrase directly; public-key messages use
// imported private keys, unlocking them with the passphrase when needed.
type Decrypter struct {
	keyring    openpgp.EntityList
	passphrase []byte
}

// NewDecrypter creates a new decrypter. passphrase may be empty.
func NewDecrypter(passphrase []byte) *Decrypter {
	return &Decrypter{
		keyring:    make(openpgp.EntityList, 0),
		passphrase: passphrase,
	}
}

// ImportKeyFromFile imports a private key from a file (armored or binary)
func (d *Decrypter) ImportKeyFromFile(keyPath string) error {
	//nolint:gosec // G304: keyPath is user-provided for key import
	f, err := os.Open(keyPath)
	if err != nil {
		return fmt.Errorf("failed to open key file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		// Try reading as binary
		if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil {
			return fmt.Errorf("failed to reset file: %w", seekErr)
		}
		entities, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(entities) == 0 {
		return fmt.Errorf("no keys found in file")
	}

	d.keyring = append(d.keyring, entities...)
	return nil
}

// GetKeyringSize returns the number of keys in the keyring
func (d *Decrypter) GetKeyringSize() int {
	return len(d.keyring)
}

// Decrypt reads an armored or binary OpenPGP message and returns its plaintext
func (d *Decrypter) Decrypt(_ context.Context, r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)

	// Peek to determine if the message is armored
	var body io.Reader = br
	if peek, _ := br.Peek(len(armorHeader)); string(peek) == armorHeader {
		block, err := armor.Decode(br)
		if err != nil {
			return nil, fmt.Errorf("failed to decode armor: %w", err)
		}
		body = block.Body
	}

	md, err := openpgp.ReadMessage(body, d.keyring, d.prompt(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt message: %w", err)
	}

	// Reading to EOF also checks the integrity tag
	data, err := io.ReadAll(io.LimitReader(md.UnverifiedBody, maxPlaintextSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read plaintext: %w", err)
	}
	if len(data) > maxPlaintextSize {
		return nil, fmt.Errorf("plaintext exceeds %d bytes", maxPlaintextSize)
	}

	return data, nil
}

// prompt answers openpgp's key prompt once. ReadMessage keeps calling the
// prompt while decryption fails, so a second call means the passphrase is wrong.
func (d *Decrypter) prompt() openpgp.PromptFunction {
	called := false
	return func(keys []openpgp.Key, symmetric bool) ([]byte, error) {
		if called {
			return nil, fmt.Errorf("incorrect passphrase")
		}
		called = true

		if len(d.passphrase) == 0 {
			return nil, ErrNoPassphrase
		}

		if symmetric {
			return d.passphrase, nil
		}

		for _, k := range keys {
			if k.PrivateKey != nil && k.PrivateKey.Encrypted {
				//nolint:errcheck // Keys the passphrase does not unlock stay encrypted and are skipped
				k.PrivateKey.Decrypt(d.passphrase)
			}
		}
		return nil, nil
	}
}
