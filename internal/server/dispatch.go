package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/anthropics/pgp-disc/internal/biz/domain"
	"github.com/anthropics/pgp-disc/internal/biz/usecase"
)

// Dispatcher merges the inbound chat-event stream and the user command
// stream into one sequential stream of actions. It is the single goroutine
// allowed to touch the inbox and the session overrides; each item runs to
// completion (including synchronous gpg calls) before the next is taken.
type Dispatcher struct {
	router   *usecase.Router
	events   <-chan domain.ChatEvent
	commands <-chan string
	ui       chan<- domain.UIEvent
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher over the two input sources and the
// presentation sink.
func NewDispatcher(
	router *usecase.Router,
	events <-chan domain.ChatEvent,
	commands <-chan string,
	ui chan<- domain.UIEvent,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		router:   router,
		events:   events,
		commands: commands,
		ui:       ui,
		logger:   logger,
	}
}

// Run processes items until the user quits, the command source closes, or
// the context is cancelled. Router errors are rendered and never fatal.
func (d *Dispatcher) Run(ctx context.Context) {
	d.emit(domain.Line("discord: connected"))
	d.emit(domain.Line(fmt.Sprintf("Channel ID: %d", d.router.EffectiveChannel())))
	d.emit(domain.Line("Commands: help\n"))

	events := d.events

	for {
		select {
		case <-ctx.Done():
			d.emit(domain.Exit())
			return

		case ev, ok := <-events:
			if !ok {
				// Stream ended for good: degrade to commands only.
				events = nil
				d.logger.Warn("chat stream ended, continuing on commands alone")
				d.emit(domain.Line(usecase.RenderWarn("chat stream ended; commands still available")))
				continue
			}
			if ev.ChannelID != d.router.EffectiveChannel() {
				continue
			}
			for _, line := range d.router.HandleChatEvent(ctx, ev) {
				d.emit(domain.Line(line))
			}

		case line, ok := <-d.commands:
			if !ok {
				d.emit(domain.Exit())
				return
			}

			outcome, lines, uiEvents, err := d.router.Route(ctx, line)
			if err != nil {
				d.emit(domain.Line(usecase.RenderError(err.Error())))
				continue
			}
			for _, s := range lines {
				d.emit(domain.Line(s))
			}
			for _, ev := range uiEvents {
				d.emit(ev)
			}
			if outcome == usecase.Quit {
				d.emit(domain.Exit())
				return
			}
		}
	}
}

// emit forwards a render action without ever blocking the loop on the UI.
func (d *Dispatcher) emit(ev domain.UIEvent) {
	select {
	case d.ui <- ev:
	default:
		d.logger.Warn("ui queue full, dropping render action")
	}
}
