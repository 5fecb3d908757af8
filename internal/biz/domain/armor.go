package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	armorBegin = "-----BEGIN PGP MESSAGE-----"
	armorEnd   = "-----END PGP MESSAGE-----"
)

// DetectArmor scans chat text for an embedded armored PGP block.
// Both markers must appear within the same text; a begin marker whose end
// marker arrives in a later message is never detected. The returned id is a
// stable lookup handle derived from the block bytes, not a security property.
func DetectArmor(text string) (id, block string, ok bool) {
	start := strings.Index(text, armorBegin)
	if start < 0 {
		return "", "", false
	}

	endRel := strings.Index(text[start:], armorEnd)
	if endRel < 0 {
		return "", "", false
	}
	endAbs := start + endRel + len(armorEnd)

	block = strings.TrimSpace(text[start:endAbs])
	return BlockID(block), block, true
}

// BlockID computes the fingerprint of an armored block: the first 8 bytes of
// its SHA-256 digest, hex encoded.
func BlockID(block string) string {
	digest := sha256.Sum256([]byte(block))
	return hex.EncodeToString(digest[:8])
}
