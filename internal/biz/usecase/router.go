package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/anthropics/pgp-disc/internal/biz/domain"
	"github.com/anthropics/pgp-disc/internal/biz/repo"
)

// Outcome tells the dispatch loop whether to keep running after a command
type Outcome int

const (
	Continue Outcome = iota
	Quit
)

// Router parses and executes user command lines against the session state
// and the external collaborators. It runs exclusively on the dispatch loop's
// goroutine, so Overrides and Inbox need no locking.
type Router struct {
	staticChannel uint64
	overrides     *domain.Overrides
	inbox         *domain.Inbox
	crypto        repo.CryptoRepo
	transport     repo.TransportRepo
	logger        *zap.Logger
}

// NewRouter creates a router bound to the session state and collaborators
func NewRouter(
	staticChannel uint64,
	overrides *domain.Overrides,
	inbox *domain.Inbox,
	crypto repo.CryptoRepo,
	transport repo.TransportRepo,
	logger *zap.Logger,
) *Router {
	return &Router{
		staticChannel: staticChannel,
		overrides:     overrides,
		inbox:         inbox,
		crypto:        crypto,
		transport:     transport,
		logger:        logger,
	}
}

// EffectiveChannel returns the channel currently used for listening/sending
func (r *Router) EffectiveChannel() uint64 {
	return r.overrides.EffectiveChannel(r.staticChannel)
}

// Route executes one input line. A command either fully validates and then
// performs exactly its side effects, or fails before performing any.
func (r *Router) Route(ctx context.Context, line string) (Outcome, []string, []domain.UIEvent, error) {
	cmd, err := ParseCommand(line)
	if err != nil {
		return Continue, nil, nil, err
	}

	var lines []string
	var events []domain.UIEvent

	switch c := cmd.(type) {
	case domain.HelpCommand:
		lines = append(lines, renderHelp())

	case domain.MeCommand:
		lines, err = r.routeMe(ctx)
		if err != nil {
			return Continue, nil, nil, err
		}

	case domain.KeysCommand:
		lines, err = r.routeKeys(ctx)
		if err != nil {
			return Continue, nil, nil, err
		}

	case domain.SendCommand:
		if err := r.transport.Send(ctx, r.EffectiveChannel(), c.Message); err != nil {
			return Continue, nil, nil, err
		}
		lines = append(lines, renderOutgoingSent())

	case domain.LoadCommand:
		lines, err = r.routeLoad(ctx, c.Count)
		if err != nil {
			return Continue, nil, nil, err
		}

	case domain.PgpListCommand:
		lines = r.routePgpList()

	case domain.PgpDecryptCommand:
		block, ok := r.inbox.Find(c.ID)
		if !ok {
			return Continue, nil, nil, &domain.UnknownBlockError{ID: c.ID}
		}
		lines = r.renderDecryptAttempt(ctx, c.ID, block)

	case domain.PgpDecryptLastCommand:
		s, ok := r.inbox.Latest()
		if !ok {
			lines = append(lines, RenderWarn("No PGP messages captured yet."))
			break
		}
		lines = r.renderDecryptAttempt(ctx, s.ID, s.Block)

	case domain.PgpSendCommand:
		lines, err = r.routePgpSend(ctx, c)
		if err != nil {
			return Continue, nil, nil, err
		}

	case domain.ExportRecipientCommand:
		r.overrides.SetRecipient(c.Value)
		lines = append(lines, styleGreen.Render("exported recipient =")+" "+styleCyan.Render(c.Value))

	case domain.ExportChannelCommand:
		r.overrides.SetChannel(c.ID)
		lines = append(lines,
			styleGreen.Render("exported channel =")+" "+styleCyan.Render(fmt.Sprintf("%d", c.ID)),
			styleDim.Render("Note: now listening/sending only in this channel."))

	case domain.ExportShowCommand:
		recipient := "(not set)"
		if v, ok := r.overrides.EffectiveRecipient(); ok {
			recipient = v
		}
		lines = append(lines,
			styleBold.Render("Session exports:"),
			"  "+styleDim.Render("channel")+" "+styleCyan.Render(fmt.Sprintf("%d", r.EffectiveChannel())),
			"  "+styleDim.Render("recipient")+" "+styleCyan.Render(recipient))

	case domain.ExportUnsetCommand:
		switch c.What {
		case domain.UnsetRecipient:
			r.overrides.UnsetRecipient()
			lines = append(lines, styleYellow.Render("unset recipient"))
		case domain.UnsetChannel:
			r.overrides.UnsetChannel()
			lines = append(lines,
				styleYellow.Render("unset channel (back to env)")+" "+styleCyan.Render(fmt.Sprintf("%d", r.staticChannel)))
		}

	case domain.ClearCommand:
		events = append(events, domain.Clear())

	case domain.QuitCommand:
		return Quit, nil, nil, nil

	default:
		return Continue, nil, nil, fmt.Errorf("unhandled command %T", cmd)
	}

	return Continue, lines, events, nil
}

func (r *Router) routeMe(ctx context.Context) ([]string, error) {
	avail, err := r.crypto.Available(ctx)
	if err != nil {
		return nil, err
	}
	if !avail {
		return []string{RenderWarn("gpg not found.")}, nil
	}

	version, err := r.crypto.VersionLine(ctx)
	if err != nil {
		return nil, err
	}
	lines := []string{styleDim.Render(version)}

	fprs, err := r.crypto.ListSecretFingerprints(ctx)
	if err != nil {
		return nil, err
	}
	if len(fprs) == 0 {
		lines = append(lines, RenderWarn("No secret keys found in your GPG keyring."))
		return lines, nil
	}

	lines = append(lines, styleBold.Render("Secret key fingerprints:"))
	for _, f := range fprs {
		lines = append(lines, "  "+styleDim.Render(f))
	}
	return lines, nil
}

func (r *Router) routeKeys(ctx context.Context) ([]string, error) {
	keys, err := r.crypto.ListPublicKeys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []string{RenderWarn("No public keys found in your GPG keyring.")}, nil
	}

	lines := []string{styleBold.Render("Public keys (recipients):")}
	for _, k := range keys {
		if k.UID != "" {
			lines = append(lines, "  "+styleDim.Render(k.Fingerprint)+"  "+k.UID)
		} else {
			lines = append(lines, "  "+styleDim.Render(k.Fingerprint))
		}
	}
	return lines, nil
}

func (r *Router) routeLoad(ctx context.Context, count int) ([]string, error) {
	history, err := r.transport.FetchHistory(ctx, r.EffectiveChannel(), count)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return []string{RenderWarn("No messages returned.")}, nil
	}

	lines := []string{fmt.Sprintf("%s %s/%s %s",
		styleBold.Render("Loading"),
		styleCyan.Render(fmt.Sprintf("%d", len(history))),
		styleCyan.Render(fmt.Sprintf("%d", count)),
		styleBold.Render("messages..."))}

	// Replay oldest-first through the same path as live events.
	for i := range history {
		lines = append(lines, r.HandleChatEvent(ctx, history[i])...)
	}
	return lines, nil
}

func (r *Router) routePgpList() []string {
	sightings := r.inbox.List()
	if len(sightings) == 0 {
		return []string{RenderWarn("No PGP messages captured yet.")}
	}

	lines := []string{styleBold.Render("Captured PGP messages (latest last):")}
	for _, s := range sightings {
		lines = append(lines, fmt.Sprintf("  %s %s %s",
			styleDim.Render("id="),
			stylePurple.Render(s.ID),
			styleDim.Render(fmt.Sprintf("(%d chars)", len(s.Block)))))
	}
	return lines
}

func (r *Router) routePgpSend(ctx context.Context, c domain.PgpSendCommand) ([]string, error) {
	recipient := c.Recipient
	if recipient == "" {
		v, ok := r.overrides.EffectiveRecipient()
		if !ok {
			return nil, domain.ErrMissingRecipient
		}
		recipient = v
	}

	armored, err := r.crypto.Encrypt(ctx, recipient, c.Message)
	if err != nil {
		return nil, err
	}

	// A failed send is never retried after encryption succeeded.
	if err := r.transport.Send(ctx, r.EffectiveChannel(), armored); err != nil {
		return nil, err
	}

	return []string{fmt.Sprintf("%s %s %s",
		styleGreen.Render("→ sent encrypted PGP message"),
		styleDim.Render("to"),
		styleCyan.Render(recipient))}, nil
}

// renderDecryptAttempt decrypts a captured block and renders the outcome.
// The block is never re-recorded in the inbox.
func (r *Router) renderDecryptAttempt(ctx context.Context, id, block string) []string {
	tag := styleDim.Render("(id=" + id + ")")

	outcome := r.crypto.Decrypt(ctx, block)
	switch outcome.Kind {
	case domain.OutcomeSuccess:
		return []string{styleGreen.Bold(true).Render("Decrypted") + " " + tag, outcome.Plaintext}
	case domain.OutcomeNotForMe:
		return []string{styleYellow.Render("Not for me") + " " + tag}
	case domain.OutcomeInvalidMessage:
		return []string{styleRed.Render("Invalid PGP message") + " " + tag}
	default:
		r.logger.Debug("decrypt failed",
			zap.String("id", id),
			zap.String("diagnostic", outcome.Diagnostic))
		return []string{styleRed.Render("Decrypt error") + " " + tag}
	}
}

// HandleChatEvent runs the inbound classification path for one event: plain
// text is rendered as-is; an armored block is recorded in the inbox and
// decrypted immediately.
func (r *Router) HandleChatEvent(ctx context.Context, ev domain.ChatEvent) []string {
	id, block, ok := domain.DetectArmor(ev.Content)
	if !ok {
		return []string{renderIncoming(ev.Author, ev.Content)}
	}

	r.inbox.Record(id, block)

	outcome := r.crypto.Decrypt(ctx, block)
	switch outcome.Kind {
	case domain.OutcomeSuccess:
		return []string{renderPgpDecrypted(ev.Author, id, outcome.Plaintext)}
	case domain.OutcomeNotForMe:
		return []string{renderPgpNotForMe(ev.Author, id)}
	case domain.OutcomeInvalidMessage:
		return []string{renderPgpInvalid(ev.Author, id)}
	default:
		r.logger.Debug("decrypt failed",
			zap.String("id", id),
			zap.String("author", ev.Author),
			zap.String("diagnostic", outcome.Diagnostic))
		return []string{renderPgpError(ev.Author, id)}
	}
}
