// Package prefs is the injected key/value preference service shared by the
// login and search screens.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/matheus3301/portal/internal/bus"
	"github.com/matheus3301/portal/internal/store"
	"go.uber.org/zap"
)

// Well-known preference keys.
const (
	Username             = "username"
	LoggedIn             = "loggedIn"
	HasSignedIntoMychart = "hasSignedIntoMychart"
	SharedDevice         = "sharedDevice"
	OpenSearch           = "openSearch"
	BiometricEnabled     = "biometricEnabled"
	PasscodeHash         = "passcodeHash"
	SessionToken         = "sessionToken"
	RefreshToken         = "refreshToken"
)

// Secret reports whether a key holds credential material that should not be
// printed by tooling.
func Secret(key string) bool {
	switch key {
	case PasscodeHash, SessionToken, RefreshToken:
		return true
	}
	return false
}

// Backend persists preferences. *store.DB satisfies it.
type Backend interface {
	GetPreference(ctx context.Context, key string) (string, error)
	SetPreference(ctx context.Context, key, value string) error
	DeletePreference(ctx context.Context, key string) error
	ListPreferences(ctx context.Context) ([]store.Preference, error)
}

// Change is the payload of a prefs.changed bus event.
type Change struct {
	Key     string
	Value   string
	Deleted bool
}

// Service reads and writes preferences and announces every change on the bus.
// Reads are local and never block on the network, so they are safe on the UI
// goroutine.
type Service struct {
	backend Backend
	bus     *bus.Bus
	log     *zap.Logger
}

// New creates a preference service. bus and log may be nil.
func New(backend Backend, b *bus.Bus, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{backend: backend, bus: b, log: log}
}

// String returns the value for key, or "" if unset.
func (s *Service) String(key string) string {
	v, err := s.backend.GetPreference(context.Background(), key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warn("read preference", zap.String("key", key), zap.Error(err))
		}
		return ""
	}
	return v
}

// Lookup returns the value for key and whether it was set.
func (s *Service) Lookup(key string) (string, bool, error) {
	v, err := s.backend.GetPreference(context.Background(), key)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Bool returns the boolean value for key. Unset or unparsable values are false.
func (s *Service) Bool(key string) bool {
	v := s.String(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		s.log.Warn("preference is not a bool", zap.String("key", key), zap.String("value", v))
		return false
	}
	return b
}

// SetString stores value under key.
func (s *Service) SetString(key, value string) error {
	if err := s.backend.SetPreference(context.Background(), key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	s.bus.Emit(bus.KindPrefsChanged, Change{Key: key, Value: value})
	return nil
}

// SetBool stores a boolean under key.
func (s *Service) SetBool(key string, value bool) error {
	return s.SetString(key, strconv.FormatBool(value))
}

// Delete removes key.
func (s *Service) Delete(key string) error {
	if err := s.backend.DeletePreference(context.Background(), key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	s.bus.Emit(bus.KindPrefsChanged, Change{Key: key, Deleted: true})
	return nil
}

// All returns every stored preference.
func (s *Service) All() ([]store.Preference, error) {
	return s.backend.ListPreferences(context.Background())
}

// MemoryBackend is an in-memory Backend for tests and ephemeral profiles.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

func (m *MemoryBackend) GetPreference(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

func (m *MemoryBackend) SetPreference(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) DeletePreference(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) ListPreferences(_ context.Context) ([]store.Preference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Preference, 0, len(m.values))
	for k, v := range m.values {
		out = append(out, store.Preference{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
