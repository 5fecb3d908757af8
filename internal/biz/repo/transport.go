package repo

import (
	"context"

	"github.com/anthropics/pgp-disc/internal/biz/domain"
)

// TransportRepo is the chat transport collaborator. Reconnection and backoff
// are the transport's own concern; the core only sees the event stream going
// idle or ending.
type TransportRepo interface {
	// Events returns the inbound event stream. The channel is closed when
	// the connection ends for good.
	Events() <-chan domain.ChatEvent

	// Send posts text to a channel.
	Send(ctx context.Context, channelID uint64, text string) error

	// FetchHistory returns up to count recent events, oldest first.
	FetchHistory(ctx context.Context, channelID uint64, count int) ([]domain.ChatEvent, error)
}
