package bundle

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// VerificationMethod indicates how an archive was verified
type VerificationMethod int

const (
	// VerificationNone means no check was requested
	VerificationNone VerificationMethod = iota
	// VerificationSHA256 compares the archive digest against a known value
	VerificationSHA256
	// VerificationGPG checks a detached OpenPGP signature
	VerificationGPG
)

// String returns the method name
func (m VerificationMethod) String() string {
	switch m {
	case VerificationSHA256:
		return "sha256"
	case VerificationGPG:
		return "gpg"
	default:
		return "none"
	}
}

// Verifier checks fetched archives.
type Verifier struct{}

// NewVerifier creates a new verifier
func NewVerifier() *Verifier {
	return &Verifier{}
}

// VerifySHA256 compares the digest of path with expected (hex, case-insensitive).
func (v *Verifier) VerifySHA256(path, expected string) error {
	expected = strings.ToLower(strings.TrimSpace(expected))
	if len(expected) != sha256.Size*2 {
		return fmt.Errorf("invalid sha256 %q: %w", expected, ErrVerification)
	}

	actual, err := calculateSHA256(path)
	if err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}

	if actual != expected {
		return fmt.Errorf("checksum mismatch: expected %s, got %s: %w", expected, actual, ErrVerification)
	}
	return nil
}

// VerifySignature checks a detached signature over path using the keys in
// keyringPath. Armored and binary forms are accepted for both files.
func (v *Verifier) VerifySignature(path, signaturePath, keyringPath string) error {
	keyring, err := loadKeyring(keyringPath)
	if err != nil {
		return fmt.Errorf("load keyring: %w", err)
	}

	sig, err := os.ReadFile(signaturePath)
	if err != nil {
		return fmt.Errorf("read signature: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, file, bytes.NewReader(sig), nil)
	if err != nil {
		// Try non-armored signature
		if _, serr := file.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("rewind archive: %w", serr)
		}
		_, err = openpgp.CheckDetachedSignature(keyring, file, bytes.NewReader(sig), nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %v: %w", err, ErrVerification)
	}
	return nil
}

func loadKeyring(path string) (openpgp.EntityList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		keyring, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse keyring: %w", err)
		}
	}
	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring %s contains no keys", path)
	}
	return keyring, nil
}

// calculateSHA256 calculates the SHA256 checksum of a file
func calculateSHA256(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
