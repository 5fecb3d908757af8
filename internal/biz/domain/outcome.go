package domain

import "strings"

// OutcomeKind discriminates DecryptOutcome
type OutcomeKind int

const (
	// OutcomeSuccess carries the recovered plaintext
	OutcomeSuccess OutcomeKind = iota
	// OutcomeNotForMe means the message is not addressed to a local secret key
	OutcomeNotForMe
	// OutcomeInvalidMessage means the input had no usable OpenPGP framing
	OutcomeInvalidMessage
	// OutcomeBackendFailure is any other gpg failure; diagnostic for logs only
	OutcomeBackendFailure
	// OutcomeIoFailure means gpg could not be spawned or piped to
	OutcomeIoFailure
)

// DecryptOutcome is the classified result of a decrypt attempt. Every caller
// must branch on all five kinds.
type DecryptOutcome struct {
	Kind       OutcomeKind
	Plaintext  string // Set for OutcomeSuccess
	Diagnostic string // Raw gpg stderr (or IO error text); debug logging only
}

// Decrypted builds a success outcome
func Decrypted(plaintext string) DecryptOutcome {
	return DecryptOutcome{Kind: OutcomeSuccess, Plaintext: plaintext}
}

// DecryptIoFailure builds an IO-failure outcome
func DecryptIoFailure(diagnostic string) DecryptOutcome {
	return DecryptOutcome{Kind: OutcomeIoFailure, Diagnostic: diagnostic}
}

var notForMePhrases = []string{
	"no secret key",
	"decryption failed: no secret key",
	"secret key not available",
}

var invalidMessagePhrases = []string{
	"no valid openpgp data found",
	"invalid armor header",
	"crc error",
	"unexpected end of file",
	"bad armor",
	"invalid packet",
}

// ClassifyDecryptFailure maps a gpg failure diagnostic onto the outcome
// taxonomy. Matching is case-insensitive substring, first tier wins: missing
// secret key beats malformed framing beats the backend-failure catch-all.
// Total: every diagnostic lands in exactly one tier.
func ClassifyDecryptFailure(diagnostic string) DecryptOutcome {
	s := strings.ToLower(diagnostic)

	for _, p := range notForMePhrases {
		if strings.Contains(s, p) {
			return DecryptOutcome{Kind: OutcomeNotForMe, Diagnostic: diagnostic}
		}
	}

	for _, p := range invalidMessagePhrases {
		if strings.Contains(s, p) {
			return DecryptOutcome{Kind: OutcomeInvalidMessage, Diagnostic: diagnostic}
		}
	}

	return DecryptOutcome{Kind: OutcomeBackendFailure, Diagnostic: diagnostic}
}
