package analytics

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/portal/internal/bus"
)

// Recorder accepts events without blocking the caller.
type Recorder interface {
	Record(Event)
}

// BusRecorder publishes events as "analytics.<type>" on the bus, where the
// Sink picks them up.
type BusRecorder struct {
	bus *bus.Bus
}

// NewBusRecorder creates a recorder publishing to b.
func NewBusRecorder(b *bus.Bus) *BusRecorder {
	return &BusRecorder{bus: b}
}

// Record publishes e, filling in a missing id or time.
func (r *BusRecorder) Record(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	r.bus.Publish(bus.Event{
		Kind:      bus.KindAnalyticsPrefix + string(e.Type),
		Timestamp: e.Time,
		Payload:   e,
	})
}

// Memory keeps recorded events in a slice. Used by presenters' tests and by
// portalctl when no database is available.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Record(e Event) {
	m.mu.Lock()
	m.events = append(m.events, e)
	m.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// OfType returns recorded events of type t.
func (m *Memory) OfType(t Type) []Event {
	var out []Event
	for _, e := range m.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
