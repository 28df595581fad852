package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matheus3301/portal/internal/bus"
	"github.com/matheus3301/portal/internal/store"
	"go.uber.org/zap"
)

// Kicker is notified after a flush event has been persisted.
type Kicker interface {
	Kick()
}

// Sink persists analytics events from the bus into the store.
// It subscribes to "analytics.*" events.
type Sink struct {
	db     *store.DB
	bus    *bus.Bus
	kicker Kicker
	logger *zap.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSink creates a new sink. kicker may be nil.
func NewSink(db *store.DB, b *bus.Bus, kicker Kicker, logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{
		db:     db,
		bus:    b,
		kicker: kicker,
		logger: logger,
	}
}

// Start subscribes to analytics events on the bus.
func (s *Sink) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	ch, unsub := s.bus.Subscribe(bus.KindAnalyticsPrefix, 256)

	go func() {
		defer close(s.done)
		defer unsub()
		for {
			select {
			case evt := <-ch:
				s.handleEvent(ctx, evt)
			case <-ctx.Done():
				// Drain what is already buffered so events recorded just
				// before shutdown are not lost.
				for {
					select {
					case evt := <-ch:
						s.handleEvent(context.Background(), evt)
					default:
						return
					}
				}
			}
		}
	}()
}

// Stop stops the sink and waits for buffered events to be written.
func (s *Sink) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

func (s *Sink) handleEvent(ctx context.Context, evt bus.Event) {
	e, ok := evt.Payload.(Event)
	if !ok {
		return
	}
	if err := s.Ingest(ctx, e); err != nil {
		s.logger.Error("failed to persist analytics event", zap.Error(err), zap.String("type", string(e.Type)))
		return
	}
	if e.Flush && s.kicker != nil {
		s.kicker.Kick()
	}
}

// Ingest writes a single event to the store (idempotent on id).
func (s *Sink) Ingest(ctx context.Context, e Event) error {
	props, err := json.Marshal(e.Properties)
	if err != nil {
		return fmt.Errorf("encode properties: %w", err)
	}
	if e.Properties == nil {
		props = []byte("{}")
	}
	return s.db.InsertEvent(ctx, &store.Event{
		ID:         e.ID,
		Type:       string(e.Type),
		Properties: string(props),
		Flush:      e.Flush,
		CreatedAt:  e.Time.UnixMilli(),
	})
}
