package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/matheus3301/portal/internal/httpx"
	"github.com/matheus3301/portal/internal/store"
	"go.uber.org/zap"
)

// Transport delivers a batch of events to the collector.
type Transport interface {
	Upload(ctx context.Context, batch []WireEvent) error
}

// WireEvent is the JSON shape posted to the collector.
type WireEvent struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
	Flush      bool              `json:"flush,omitempty"`
	Time       time.Time         `json:"time"`
}

// HTTPTransport posts batches to a collector URL as {"events": [...]}.
type HTTPTransport struct {
	client *httpx.Client
}

// NewHTTPTransport creates a transport for the collector at url.
func NewHTTPTransport(url string, hc *http.Client) *HTTPTransport {
	return &HTTPTransport{client: httpx.NewClient(url, hc)}
}

func (t *HTTPTransport) Upload(ctx context.Context, batch []WireEvent) error {
	_, err := t.client.Do(ctx, http.MethodPost, "", map[string]any{"events": batch}, "")
	return err
}

// Uploader drains pending events from the store to a Transport. It polls on
// an interval and also runs immediately when kicked by a flush event.
type Uploader struct {
	db        *store.DB
	transport Transport
	logger    *zap.Logger
	interval  time.Duration
	batchSize int
	kick      chan struct{}
	cancel    context.CancelFunc
}

// NewUploader creates a new uploader.
func NewUploader(db *store.DB, transport Transport, interval time.Duration, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Uploader{
		db:        db,
		transport: transport,
		logger:    logger,
		interval:  interval,
		batchSize: 100,
		kick:      make(chan struct{}, 1),
	}
}

// Start begins polling the store for pending events.
func (u *Uploader) Start(ctx context.Context) {
	ctx, u.cancel = context.WithCancel(ctx)
	go u.loop(ctx)
}

// Stop stops the uploader loop.
func (u *Uploader) Stop() {
	if u.cancel != nil {
		u.cancel()
	}
}

// Kick requests an upload as soon as possible. Never blocks.
func (u *Uploader) Kick() {
	select {
	case u.kick <- struct{}{}:
	default:
	}
}

func (u *Uploader) loop(ctx context.Context) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			u.drain(ctx)
		case <-u.kick:
			u.drain(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (u *Uploader) drain(ctx context.Context) {
	for {
		n, err := u.Flush(ctx)
		if err != nil {
			u.logger.Warn("analytics upload failed", zap.Error(err))
			return
		}
		if n < u.batchSize {
			return
		}
	}
}

// Flush uploads one batch of pending events and marks them flushed. It
// returns the number of events sent.
func (u *Uploader) Flush(ctx context.Context) (int, error) {
	pending, err := u.db.PendingEvents(ctx, u.batchSize)
	if err != nil {
		return 0, fmt.Errorf("read pending events: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	batch := make([]WireEvent, 0, len(pending))
	ids := make([]string, 0, len(pending))
	for _, e := range pending {
		props := map[string]string{}
		if err := json.Unmarshal([]byte(e.Properties), &props); err != nil {
			u.logger.Debug("dropping unreadable event properties", zap.String("id", e.ID), zap.Error(err))
		}
		batch = append(batch, WireEvent{
			ID:         e.ID,
			Type:       e.Type,
			Properties: props,
			Flush:      e.Flush,
			Time:       time.UnixMilli(e.CreatedAt).UTC(),
		})
		ids = append(ids, e.ID)
	}

	if err := u.transport.Upload(ctx, batch); err != nil {
		return 0, fmt.Errorf("upload %d events: %w", len(batch), err)
	}
	if err := u.db.MarkEventsFlushed(ctx, ids); err != nil {
		return 0, err
	}
	u.logger.Debug("analytics uploaded", zap.Int("count", len(batch)))
	return len(batch), nil
}
