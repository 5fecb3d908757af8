package gpg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/anthropics/pgp-disc/internal/biz/domain"
	"github.com/anthropics/pgp-disc/internal/biz/repo"
)

// Client drives the local gpg executable. Every operation runs one short
// subprocess to completion; calls block for the duration of the external
// process and carry no timeout of their own.
type Client struct {
	binary string
	logger *zap.Logger
}

// NewClient creates a gpg client using the given binary name or path
func NewClient(binary string, logger *zap.Logger) *Client {
	return &Client{binary: binary, logger: logger}
}

func (c *Client) run(ctx context.Context, stdin string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, c.binary, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

// Available reports whether the gpg binary can be executed
func (c *Client) Available(ctx context.Context) (bool, error) {
	_, _, err := c.run(ctx, "", "--version")
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	if binaryNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to run %s: %w", c.binary, err)
}

func binaryNotFound(err error) bool {
	var execErr *exec.Error
	return errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound)
}

// VersionLine returns the first line of `gpg --version`
func (c *Client) VersionLine(ctx context.Context) (string, error) {
	stdout, _, err := c.run(ctx, "", "--version")
	if err != nil {
		if binaryNotFound(err) {
			return "", domain.ErrCryptoUnavailable
		}
		return "", fmt.Errorf("%s --version failed: %w", c.binary, err)
	}

	line, _, _ := strings.Cut(stdout, "\n")
	return strings.TrimSpace(line), nil
}

// ListSecretFingerprints returns local secret key fingerprints, sorted and
// deduplicated.
func (c *Client) ListSecretFingerprints(ctx context.Context) ([]string, error) {
	stdout, stderr, err := c.run(ctx, "", "--batch", "--with-colons", "--list-secret-keys")
	if err != nil {
		if binaryNotFound(err) {
			return nil, domain.ErrCryptoUnavailable
		}
		return nil, fmt.Errorf("gpg list-secret-keys failed: %w (%s)", err, strings.TrimSpace(stderr))
	}
	return parseSecretFingerprints(stdout), nil
}

// ListPublicKeys returns keyring public keys with their primary uid
func (c *Client) ListPublicKeys(ctx context.Context) ([]repo.PublicKey, error) {
	stdout, stderr, err := c.run(ctx, "", "--batch", "--with-colons", "--list-keys")
	if err != nil {
		if binaryNotFound(err) {
			return nil, domain.ErrCryptoUnavailable
		}
		return nil, fmt.Errorf("gpg list-keys failed: %w (%s)", err, strings.TrimSpace(stderr))
	}
	return parsePublicKeys(stdout), nil
}

// Encrypt produces an armored block for the recipient.
// --trust-model always avoids the interactive untrusted-key prompt, which
// would hang a --batch invocation.
func (c *Client) Encrypt(ctx context.Context, recipient, plaintext string) (string, error) {
	stdout, stderr, err := c.run(ctx, plaintext,
		"--batch", "--yes", "--armor", "--encrypt",
		"--trust-model", "always",
		"-r", recipient)
	if err != nil {
		if binaryNotFound(err) {
			return "", domain.ErrCryptoUnavailable
		}
		return "", fmt.Errorf("gpg encrypt failed: %s", firstNonEmpty(strings.TrimSpace(stderr), err.Error()))
	}
	return stdout, nil
}

// Decrypt attempts to recover plaintext from an armored block, classifying
// any failure into the decrypt outcome taxonomy.
func (c *Client) Decrypt(ctx context.Context, armored string) domain.DecryptOutcome {
	stdout, stderr, err := c.run(ctx, armored, "--batch", "--decrypt")
	if err == nil {
		return domain.Decrypted(stdout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		c.logger.Debug("gpg exited non-zero", zap.String("stderr", stderr))
		return domain.ClassifyDecryptFailure(stderr)
	}

	// gpg never ran: spawn or pipe failure, not a crypto verdict.
	return domain.DecryptIoFailure(err.Error())
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
