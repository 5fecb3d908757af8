package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/anthropics/pgp-disc/internal/biz/domain"
	"github.com/anthropics/pgp-disc/internal/biz/repo"
)

// Mock implementations

type sentMessage struct {
	channelID uint64
	text      string
}

type mockTransport struct {
	sent       []sentMessage
	sendErr    error
	history    []domain.ChatEvent
	historyErr error
}

func (m *mockTransport) Events() <-chan domain.ChatEvent {
	return nil
}

func (m *mockTransport) Send(ctx context.Context, channelID uint64, text string) error {
	m.sent = append(m.sent, sentMessage{channelID: channelID, text: text})
	return m.sendErr
}

func (m *mockTransport) FetchHistory(ctx context.Context, channelID uint64, count int) ([]domain.ChatEvent, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	if count < len(m.history) {
		return m.history[:count], nil
	}
	return m.history, nil
}

type encryptCall struct {
	recipient string
	plaintext string
}

type mockCrypto struct {
	available    bool
	version      string
	secretFprs   []string
	publicKeys   []repo.PublicKey
	encrypted    string
	encryptErr   error
	encryptCalls []encryptCall
	decryptCalls int
	outcome      domain.DecryptOutcome
}

func (m *mockCrypto) Available(ctx context.Context) (bool, error) {
	return m.available, nil
}

func (m *mockCrypto) VersionLine(ctx context.Context) (string, error) {
	return m.version, nil
}

func (m *mockCrypto) ListSecretFingerprints(ctx context.Context) ([]string, error) {
	return m.secretFprs, nil
}

func (m *mockCrypto) ListPublicKeys(ctx context.Context) ([]repo.PublicKey, error) {
	return m.publicKeys, nil
}

func (m *mockCrypto) Encrypt(ctx context.Context, recipient, plaintext string) (string, error) {
	m.encryptCalls = append(m.encryptCalls, encryptCall{recipient: recipient, plaintext: plaintext})
	if m.encryptErr != nil {
		return "", m.encryptErr
	}
	return m.encrypted, nil
}

func (m *mockCrypto) Decrypt(ctx context.Context, armored string) domain.DecryptOutcome {
	m.decryptCalls++
	return m.outcome
}

func newTestRouter(crypto *mockCrypto, transport *mockTransport) (*Router, *domain.Overrides, *domain.Inbox) {
	overrides := &domain.Overrides{}
	inbox := domain.NewInbox()
	r := NewRouter(7, overrides, inbox, crypto, transport, zap.NewNop())
	return r, overrides, inbox
}

func containsLine(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestRouter_SendUsesStaticDefaultChannel(t *testing.T) {
	transport := &mockTransport{}
	r, _, _ := newTestRouter(&mockCrypto{}, transport)

	outcome, lines, _, err := r.Route(context.Background(), "send hello world")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome != Continue {
		t.Error("Expected Continue outcome")
	}

	if len(transport.sent) != 1 {
		t.Fatalf("Expected 1 send, got %d", len(transport.sent))
	}
	if transport.sent[0].channelID != 7 || transport.sent[0].text != "hello world" {
		t.Errorf("Expected (7, \"hello world\"), got (%d, %q)",
			transport.sent[0].channelID, transport.sent[0].text)
	}
	if !containsLine(lines, "→ sent") {
		t.Error("Expected a sent-confirmation line")
	}
}

func TestRouter_PgpSendExplicitRecipient(t *testing.T) {
	crypto := &mockCrypto{encrypted: "ARMORED"}
	transport := &mockTransport{}
	r, _, _ := newTestRouter(crypto, transport)

	_, lines, _, err := r.Route(context.Background(), "pgp send -r alice secret text")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(crypto.encryptCalls) != 1 {
		t.Fatalf("Expected 1 encrypt call, got %d", len(crypto.encryptCalls))
	}
	call := crypto.encryptCalls[0]
	if call.recipient != "alice" || call.plaintext != "secret text" {
		t.Errorf("Expected encrypt(alice, \"secret text\"), got (%q, %q)", call.recipient, call.plaintext)
	}

	if len(transport.sent) != 1 || transport.sent[0].text != "ARMORED" {
		t.Errorf("Expected armored result posted, got %+v", transport.sent)
	}
	if !containsLine(lines, "alice") {
		t.Error("Expected confirmation naming the recipient")
	}
}

func TestRouter_PgpSendSessionRecipient(t *testing.T) {
	crypto := &mockCrypto{encrypted: "ARMORED"}
	transport := &mockTransport{}
	r, _, _ := newTestRouter(crypto, transport)

	if _, _, _, err := r.Route(context.Background(), "export recipient bob"); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, _, _, err := r.Route(context.Background(), "pgp send hi there"); err != nil {
		t.Fatalf("pgp send failed: %v", err)
	}

	if crypto.encryptCalls[0].recipient != "bob" {
		t.Errorf("Expected session recipient bob, got %q", crypto.encryptCalls[0].recipient)
	}
}

func TestRouter_PgpSendMissingRecipient(t *testing.T) {
	crypto := &mockCrypto{}
	transport := &mockTransport{}
	r, _, _ := newTestRouter(crypto, transport)

	_, _, _, err := r.Route(context.Background(), "pgp send hi")
	if !errors.Is(err, domain.ErrMissingRecipient) {
		t.Fatalf("Expected ErrMissingRecipient, got %v", err)
	}

	if len(crypto.encryptCalls) != 0 {
		t.Error("No encrypt call should happen without a recipient")
	}
	if len(transport.sent) != 0 {
		t.Error("No send should happen without a recipient")
	}
}

func TestRouter_PgpSendNoRetryAfterSendFailure(t *testing.T) {
	crypto := &mockCrypto{encrypted: "ARMORED"}
	transport := &mockTransport{sendErr: &domain.TransportError{Op: "send", Err: errors.New("503")}}
	r, _, _ := newTestRouter(crypto, transport)

	_, _, _, err := r.Route(context.Background(), "pgp send -r alice hi")
	if err == nil {
		t.Fatal("Expected the send failure to surface")
	}

	if len(transport.sent) != 1 {
		t.Errorf("Expected exactly one send attempt, got %d", len(transport.sent))
	}
	if len(crypto.encryptCalls) != 1 {
		t.Errorf("Expected exactly one encrypt call, got %d", len(crypto.encryptCalls))
	}
}

func TestRouter_PgpDecryptUnknownID(t *testing.T) {
	crypto := &mockCrypto{}
	r, _, _ := newTestRouter(crypto, &mockTransport{})

	_, _, _, err := r.Route(context.Background(), "pgp decrypt unknown-id")

	var blockErr *domain.UnknownBlockError
	if !errors.As(err, &blockErr) {
		t.Fatalf("Expected UnknownBlockError, got %v", err)
	}
	if blockErr.ID != "unknown-id" {
		t.Errorf("Expected offending id in error, got %q", blockErr.ID)
	}
	if crypto.decryptCalls != 0 {
		t.Error("No decrypt call should be made for an unknown id")
	}
}

func TestRouter_PgpDecryptRendersOutcome(t *testing.T) {
	cases := []struct {
		name    string
		outcome domain.DecryptOutcome
		expect  string
	}{
		{"success", domain.Decrypted("the plaintext"), "the plaintext"},
		{"not for me", domain.ClassifyDecryptFailure("gpg: decryption failed: No secret key"), "Not for me"},
		{"invalid", domain.ClassifyDecryptFailure("gpg: bad armor"), "Invalid PGP message"},
		{"backend failure", domain.ClassifyDecryptFailure("gpg: agent refused"), "Decrypt error"},
		{"io failure", domain.DecryptIoFailure("spawn failed"), "Decrypt error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			crypto := &mockCrypto{outcome: tc.outcome}
			r, _, inbox := newTestRouter(crypto, &mockTransport{})
			inbox.Record("abc", "BLOCK")

			_, lines, _, err := r.Route(context.Background(), "pgp decrypt abc")
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !containsLine(lines, tc.expect) {
				t.Errorf("Expected a line containing %q, got %v", tc.expect, lines)
			}
			if inbox.Len() != 1 {
				t.Error("Decrypt must not re-record the block")
			}
		})
	}
}

func TestRouter_PgpDecryptLast(t *testing.T) {
	crypto := &mockCrypto{outcome: domain.Decrypted("pt")}
	r, _, inbox := newTestRouter(crypto, &mockTransport{})

	_, lines, _, err := r.Route(context.Background(), "pgp decrypt-last")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !containsLine(lines, "No PGP messages captured yet.") {
		t.Error("Expected a warning on empty inbox")
	}
	if crypto.decryptCalls != 0 {
		t.Error("Empty inbox must not trigger a decrypt call")
	}

	inbox.Record("old", "OLD")
	inbox.Record("new", "NEW")
	_, lines, _, err = r.Route(context.Background(), "pgp decrypt-last")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !containsLine(lines, "id=new") {
		t.Errorf("Expected latest sighting decrypted, got %v", lines)
	}
}

func TestRouter_ExportChannelFlow(t *testing.T) {
	transport := &mockTransport{}
	r, _, _ := newTestRouter(&mockCrypto{}, transport)

	if _, _, _, err := r.Route(context.Background(), "export channel 42"); err != nil {
		t.Fatalf("export channel failed: %v", err)
	}
	if r.EffectiveChannel() != 42 {
		t.Errorf("Expected effective channel 42, got %d", r.EffectiveChannel())
	}

	if _, _, _, err := r.Route(context.Background(), "send to the override"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if transport.sent[0].channelID != 42 {
		t.Errorf("Send must respect the override, got %d", transport.sent[0].channelID)
	}

	if _, _, _, err := r.Route(context.Background(), "export unset channel"); err != nil {
		t.Fatalf("unset failed: %v", err)
	}
	if r.EffectiveChannel() != 7 {
		t.Errorf("Expected fallback to static default 7, got %d", r.EffectiveChannel())
	}
}

func TestRouter_ExportShow(t *testing.T) {
	r, _, _ := newTestRouter(&mockCrypto{}, &mockTransport{})

	_, lines, _, err := r.Route(context.Background(), "export show")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !containsLine(lines, "7") {
		t.Error("Expected the effective channel in the listing")
	}
	if !containsLine(lines, "(not set)") {
		t.Error("Expected the unset recipient placeholder")
	}
}

func TestRouter_LoadReplaysThroughInboundPath(t *testing.T) {
	block := "-----BEGIN PGP MESSAGE-----\nX\n-----END PGP MESSAGE-----"
	transport := &mockTransport{history: []domain.ChatEvent{
		{ChannelID: 7, Author: "alice", Content: "plain hello"},
		{ChannelID: 7, Author: "bob", Content: block},
	}}
	crypto := &mockCrypto{outcome: domain.ClassifyDecryptFailure("no secret key")}
	r, _, inbox := newTestRouter(crypto, transport)

	_, lines, _, err := r.Route(context.Background(), "load 2")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if inbox.Len() != 1 {
		t.Errorf("Expected the armored sighting recorded, inbox has %d", inbox.Len())
	}
	if crypto.decryptCalls != 1 {
		t.Errorf("Expected one decrypt attempt, got %d", crypto.decryptCalls)
	}
	if !containsLine(lines, "plain hello") {
		t.Error("Expected the plain event replayed")
	}
	if !containsLine(lines, "not for me") {
		t.Error("Expected the not-for-me verdict rendered")
	}
}

func TestRouter_LoadEmptyHistory(t *testing.T) {
	r, _, _ := newTestRouter(&mockCrypto{}, &mockTransport{})

	_, lines, _, err := r.Route(context.Background(), "load 5")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !containsLine(lines, "No messages returned.") {
		t.Errorf("Expected the empty-history warning, got %v", lines)
	}
}

func TestRouter_Me(t *testing.T) {
	crypto := &mockCrypto{available: false}
	r, _, _ := newTestRouter(crypto, &mockTransport{})

	_, lines, _, err := r.Route(context.Background(), "me")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !containsLine(lines, "gpg not found.") {
		t.Error("Expected the unavailable warning")
	}

	crypto.available = true
	crypto.version = "gpg (GnuPG) 2.4.4"
	crypto.secretFprs = []string{"AAAA1111", "BBBB2222"}

	_, lines, _, err = r.Route(context.Background(), "me")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !containsLine(lines, "gpg (GnuPG) 2.4.4") {
		t.Error("Expected the version banner")
	}
	if !containsLine(lines, "AAAA1111") || !containsLine(lines, "BBBB2222") {
		t.Error("Expected the secret fingerprints listed")
	}
}

func TestRouter_Keys(t *testing.T) {
	crypto := &mockCrypto{publicKeys: []repo.PublicKey{
		{Fingerprint: "FPR1", UID: "Alice <alice@example.com>"},
		{Fingerprint: "FPR2"},
	}}
	r, _, _ := newTestRouter(crypto, &mockTransport{})

	_, lines, _, err := r.Route(context.Background(), "keys")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !containsLine(lines, "Alice <alice@example.com>") {
		t.Error("Expected the uid shown next to its fingerprint")
	}
	if !containsLine(lines, "FPR2") {
		t.Error("Expected uid-less keys listed by fingerprint alone")
	}
}

func TestRouter_PgpList(t *testing.T) {
	r, _, inbox := newTestRouter(&mockCrypto{}, &mockTransport{})

	_, lines, _, _ := r.Route(context.Background(), "pgp list")
	if !containsLine(lines, "No PGP messages captured yet.") {
		t.Error("Expected the empty-inbox warning")
	}

	inbox.Record("abc123", "SOME BLOCK")
	_, lines, _, _ = r.Route(context.Background(), "pgp list")
	if !containsLine(lines, "abc123") {
		t.Errorf("Expected the sighting id listed, got %v", lines)
	}
}

func TestRouter_ClearAndQuit(t *testing.T) {
	r, _, _ := newTestRouter(&mockCrypto{}, &mockTransport{})

	_, _, events, err := r.Route(context.Background(), "clear")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].Kind != domain.UIClear {
		t.Errorf("Expected a clear-screen action, got %v", events)
	}

	outcome, _, _, err := r.Route(context.Background(), "quit")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome != Quit {
		t.Error("Expected Quit outcome")
	}
}

func TestRouter_HandleChatEvent(t *testing.T) {
	block := "-----BEGIN PGP MESSAGE-----\nX\n-----END PGP MESSAGE-----"
	crypto := &mockCrypto{outcome: domain.Decrypted("hi bob")}
	r, _, inbox := newTestRouter(crypto, &mockTransport{})

	lines := r.HandleChatEvent(context.Background(), domain.ChatEvent{
		ChannelID: 7, Author: "alice", Content: "just words",
	})
	if !containsLine(lines, "just words") || !containsLine(lines, "alice") {
		t.Errorf("Expected a plain incoming line, got %v", lines)
	}
	if inbox.Len() != 0 {
		t.Error("Plain text must not be recorded")
	}

	lines = r.HandleChatEvent(context.Background(), domain.ChatEvent{
		ChannelID: 7, Author: "bob", Content: "fyi\n" + block,
	})
	if inbox.Len() != 1 {
		t.Fatal("Expected the armored block recorded")
	}
	if !containsLine(lines, "hi bob") {
		t.Errorf("Expected the decrypted plaintext rendered, got %v", lines)
	}
}
