// Package amenity loads informational amenity pages and caches them in the
// profile database.
package amenity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/matheus3301/portal/internal/httpx"
	"github.com/matheus3301/portal/internal/store"
	"go.uber.org/zap"
)

// Destinations an amenity can open into.
const (
	DestDetail = "amenityDetail"
	DestMap    = "amenityMap"
	DestTable  = "amenityTableView"
)

// ErrNotFound is returned when an amenity is neither served nor cached.
var ErrNotFound = errors.New("amenity not found")

// Amenity is a non-map informational entity such as a service or policy page.
type Amenity struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Dest     string    `json:"dest"`
	Category string    `json:"category,omitempty"`
	Body     string    `json:"body,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	URL      string    `json:"url,omitempty"`
	Parent   string    `json:"parent,omitempty"`
	Nested   []Amenity `json:"nested_amenities,omitempty"`
}

// Service fetches amenities and keeps the last good copy in the store.
type Service struct {
	http   *httpx.Client
	db     *store.DB
	logger *zap.Logger
}

// NewService creates a service for the amenity API at baseURL.
func NewService(baseURL string, hc *http.Client, db *store.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{http: httpx.NewClient(baseURL, hc), db: db, logger: logger}
}

// Load fetches the amenity with id, refreshing the cache. When the API is
// unreachable it falls back to the cached copy.
func (s *Service) Load(ctx context.Context, id string) (*Amenity, error) {
	resp, err := s.http.Get(ctx, "/"+url.PathEscape(id))
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		s.logger.Warn("amenity fetch failed, using cache", zap.String("id", id), zap.Error(err))
		return s.Cached(ctx, id)
	}

	var a Amenity
	if err := json.Unmarshal(resp.Body, &a); err != nil {
		return nil, fmt.Errorf("decode amenity %s: %w", id, err)
	}
	if a.ID == "" {
		a.ID = id
	}
	if err := s.db.UpsertAmenity(ctx, &store.Amenity{ID: a.ID, Dest: a.Dest, Title: a.Title, Payload: resp.Body}); err != nil {
		s.logger.Warn("cache amenity", zap.String("id", id), zap.Error(err))
	}
	return &a, nil
}

// Cached returns the stored copy of the amenity with id.
func (s *Service) Cached(ctx context.Context, id string) (*Amenity, error) {
	row, err := s.db.GetAmenity(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	var a Amenity
	if err := json.Unmarshal(row.Payload, &a); err != nil {
		return nil, fmt.Errorf("decode cached amenity %s: %w", id, err)
	}
	return &a, nil
}
