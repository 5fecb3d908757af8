package discord

import (
	"context"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/anthropics/pgp-disc/internal/biz/domain"
)

const eventBuffer = 1000

// Client is the Discord transport. It wraps a discordgo gateway session and
// converts message-create events into domain ChatEvents. Reconnection and
// backoff are handled inside discordgo and stay invisible to the core.
type Client struct {
	token   string
	session *discordgo.Session
	events  chan domain.ChatEvent
	logger  *zap.Logger
}

// NewClient creates a Discord client for the given bot token
func NewClient(token string, logger *zap.Logger) *Client {
	return &Client{
		token:  token,
		events: make(chan domain.ChatEvent, eventBuffer),
		logger: logger,
	}
}

// Start opens the gateway connection and begins streaming events
func (c *Client) Start() error {
	session, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return &domain.TransportError{Op: "gateway", Err: err}
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	session.AddHandler(c.onMessageCreate)

	if err := session.Open(); err != nil {
		return &domain.TransportError{Op: "gateway", Err: err}
	}

	c.session = session
	c.logger.Info("gateway connected")
	return nil
}

// Stop closes the gateway connection and the event stream
func (c *Client) Stop() {
	if c.session != nil {
		if err := c.session.Close(); err != nil {
			c.logger.Warn("gateway close failed", zap.Error(err))
		}
	}
	close(c.events)
	c.logger.Info("gateway stopped")
}

// Events returns the inbound event stream
func (c *Client) Events() <-chan domain.ChatEvent {
	return c.events
}

func (c *Client) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	ev := convertMessage(m.Message)

	select {
	case c.events <- ev:
	default:
		// The dispatch loop is stalled on a slow external call and the
		// buffer is full; dropping is preferable to blocking the gateway.
		c.logger.Warn("event buffer full, dropping message",
			zap.Uint64("channel_id", ev.ChannelID))
	}
}

func convertMessage(m *discordgo.Message) domain.ChatEvent {
	channelID, _ := strconv.ParseUint(m.ChannelID, 10, 64)

	var authorID uint64
	var author string
	if m.Author != nil {
		authorID, _ = strconv.ParseUint(m.Author.ID, 10, 64)
		author = m.Author.Username
	}

	return domain.ChatEvent{
		ChannelID: channelID,
		AuthorID:  authorID,
		Author:    author,
		Content:   m.Content,
	}
}

// Send posts text to a channel via the REST API
func (c *Client) Send(ctx context.Context, channelID uint64, text string) error {
	_, err := c.session.ChannelMessageSend(
		strconv.FormatUint(channelID, 10), text, discordgo.WithContext(ctx))
	if err != nil {
		return &domain.TransportError{Op: "send", Err: err}
	}
	return nil
}

// FetchHistory returns up to count recent channel messages, oldest first.
// The REST API yields newest-first pages of at most 100; pages are walked
// backwards and the result reversed.
func (c *Client) FetchHistory(ctx context.Context, channelID uint64, count int) ([]domain.ChatEvent, error) {
	chanStr := strconv.FormatUint(channelID, 10)

	var newestFirst []*discordgo.Message
	before := ""
	for len(newestFirst) < count {
		batch := count - len(newestFirst)
		if batch > 100 {
			batch = 100
		}

		msgs, err := c.session.ChannelMessages(chanStr, batch, before, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, &domain.TransportError{Op: "fetch-history", Err: err}
		}
		if len(msgs) == 0 {
			break
		}

		newestFirst = append(newestFirst, msgs...)
		before = msgs[len(msgs)-1].ID
	}

	events := make([]domain.ChatEvent, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		events = append(events, convertMessage(newestFirst[i]))
	}

	c.logger.Debug("fetched history",
		zap.Uint64("channel_id", channelID),
		zap.Int("requested", count),
		zap.Int("returned", len(events)))
	return events, nil
}
