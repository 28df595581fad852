package login

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/matheus3301/portal/internal/bus"
)

// State is the submit state of the login screen.
type State string

const (
	Idle           State = "IDLE"
	Authenticating State = "AUTHENTICATING"
	SignedIn       State = "SIGNED_IN"
)

var validTransitions = map[State][]State{
	Idle:           {Authenticating},
	Authenticating: {Idle, SignedIn},
	SignedIn:       {Idle},
}

// Machine guards against overlapping login attempts: only one attempt may be
// Authenticating at a time.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a machine in the Idle state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{current: Idle, bus: b}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !slices.Contains(validTransitions[m.current], to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	m.bus.Publish(bus.Event{
		Kind:      bus.KindLoginState,
		Timestamp: time.Now(),
		Payload:   StateChange{From: from, To: to},
	})
	return nil
}

// StateChange is the payload for login.state_changed events.
type StateChange struct {
	From State
	To   State
}
