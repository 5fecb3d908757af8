package repo

import (
	"context"

	"github.com/anthropics/pgp-disc/internal/biz/domain"
)

// PublicKey is one keyring entry usable as an encryption recipient
type PublicKey struct {
	Fingerprint string
	UID         string // Primary uid, empty when the keyring has none
}

// CryptoRepo is the external crypto tool collaborator. Calls are synchronous
// and may block on subprocess I/O; no timeout is imposed.
type CryptoRepo interface {
	// Available reports whether the tool can be executed at all.
	Available(ctx context.Context) (bool, error)

	// VersionLine returns the tool's first version banner line.
	VersionLine(ctx context.Context) (string, error)

	// ListSecretFingerprints returns local secret key fingerprints,
	// sorted and deduplicated.
	ListSecretFingerprints(ctx context.Context) ([]string, error)

	// ListPublicKeys returns public keys with their primary uid.
	ListPublicKeys(ctx context.Context) ([]PublicKey, error)

	// Encrypt produces an armored block for the recipient.
	Encrypt(ctx context.Context, recipient, plaintext string) (string, error)

	// Decrypt attempts to recover plaintext from an armored block. The
	// result is always a classified outcome, never an error: non-success
	// tiers are valid results, not process failures.
	Decrypt(ctx context.Context, armored string) domain.DecryptOutcome
}
