// Package mapping talks to the indoor-map service: facility lookup and
// placemark search. Map rendering itself is out of scope; callers receive
// map keys and placemarks to display.
package mapping

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/matheus3301/portal/internal/bus"
	"github.com/matheus3301/portal/internal/httpx"
	"github.com/matheus3301/portal/internal/store"
	"go.uber.org/zap"
)

// ErrFacilityNotFound is returned when a facility id is not in the cache.
var ErrFacilityNotFound = errors.New("facility not found")

// Facility is a physical building containing placemarks.
type Facility struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	AppKey    string `json:"app_key"`
	MapKey    string `json:"map_key"`
}

// MapKey scopes a map to an app.
type MapKey struct {
	Map string
	App string
}

func (k MapKey) String() string { return k.App + "/" + k.Map }

// Placemark is a point of interest inside an indoor map.
type Placemark struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Subtitle string `json:"subtitle,omitempty"`
	MapKey   string `json:"map_key"`
}

// Service loads facilities into the store and searches placemarks.
type Service struct {
	http   *httpx.Client
	db     *store.DB
	bus    *bus.Bus
	logger *zap.Logger
}

// NewService creates a service for the map API at baseURL.
func NewService(baseURL string, hc *http.Client, db *store.DB, b *bus.Bus, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{http: httpx.NewClient(baseURL, hc), db: db, bus: b, logger: logger}
}

// Preload fetches every facility and stores it for offline lookup.
func (s *Service) Preload(ctx context.Context) error {
	list, err := httpx.GetJSON[[]Facility](ctx, s.http, "/facilities")
	if err != nil {
		return fmt.Errorf("fetch facilities: %w", err)
	}
	for _, f := range *list {
		if err := s.db.UpsertFacility(ctx, &store.Facility{
			ID: f.ID, Name: f.Name, ShortName: f.ShortName, AppKey: f.AppKey, MapKey: f.MapKey,
		}); err != nil {
			return err
		}
	}
	s.logger.Debug("facilities preloaded", zap.Int("count", len(*list)))
	s.bus.Emit(bus.KindFacilitiesLoaded, len(*list))
	return nil
}

// Facility returns the cached facility with id.
func (s *Service) Facility(ctx context.Context, id string) (*Facility, error) {
	row, err := s.db.GetFacility(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrFacilityNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return fromRow(row), nil
}

// Facilities returns every cached facility.
func (s *Service) Facilities(ctx context.Context) ([]Facility, error) {
	rows, err := s.db.ListFacilities(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Facility, 0, len(rows))
	for i := range rows {
		out = append(out, *fromRow(&rows[i]))
	}
	return out, nil
}

// SearchPlacemarks finds placemarks named like title inside facility.
func (s *Service) SearchPlacemarks(ctx context.Context, facility *Facility, title string) ([]Placemark, error) {
	path := "/facilities/" + url.PathEscape(facility.ID) + "/placemarks?q=" + url.QueryEscape(title)
	list, err := httpx.GetJSON[[]Placemark](ctx, s.http, path)
	if err != nil {
		return nil, fmt.Errorf("search placemarks in %s: %w", facility.ID, err)
	}
	return *list, nil
}

func fromRow(r *store.Facility) *Facility {
	return &Facility{ID: r.ID, Name: r.Name, ShortName: r.ShortName, AppKey: r.AppKey, MapKey: r.MapKey}
}
