package deliberation

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Publisher receives the ordered events of one deliberation session. Events
// are generated by a single goroutine per round, so implementations never see
// concurrent calls for the same session.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards all events. REST deliberations use it: the caller
// only sees the final result.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(_ context.Context, _ Event) error {
	return nil
}

const publishTimeout = 5 * time.Second

// sessionPublisher delivers events to one WebSocket client. After the first
// write failure it goes inert: the subscriber is gone, but the round keeps
// running and persisting, so publish failures are absorbed here rather than
// surfaced to the coordinator.
type sessionPublisher struct {
	conn   *websocket.Conn
	logger *slog.Logger
	inert  atomic.Bool
}

// NewSessionPublisher wraps a WebSocket connection as a Publisher.
func NewSessionPublisher(conn *websocket.Conn, logger *slog.Logger) Publisher {
	return &sessionPublisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish writes the event frame to the client with a bounded write timeout.
func (p *sessionPublisher) Publish(ctx context.Context, event Event) error {
	if p.inert.Load() {
		return nil
	}

	wctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := wsjson.Write(wctx, p.conn, event); err != nil {
		p.inert.Store(true)
		p.logger.Info("stream subscriber lost", "event", event.Event, "error", err)
	}

	return nil
}
