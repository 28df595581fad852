package search

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/matheus3301/portal/internal/amenity"
	"github.com/matheus3301/portal/internal/analytics"
	"github.com/matheus3301/portal/internal/mapping"
	"github.com/matheus3301/portal/internal/prefs"
	"github.com/matheus3301/portal/internal/sched"
	"go.uber.org/zap"
)

const (
	screenName  = "Search"
	cancelLabel = "Cancel"
)

// Entity types, compared lowercased.
const (
	TypePlacemark           = "placemark"
	TypeFacility            = "facility"
	TypeURL                 = "url"
	TypeURLs                = "urls"
	TypeSchedulingNumber    = "scheduling_number"
	TypeSchedulingNumberAlt = "scheduling-number"
	TypeUrgentCare          = "urgent_care"
	TypeUrgentCareAlt       = "urgent-care"
)

// Deps are the collaborators of a Flow. Thumbnails, Recorder and Logger may
// be nil.
type Deps struct {
	View       View
	Navigator  Navigator
	Picker     Picker
	Searcher   Searcher
	Thumbnails Thumbnails
	Amenities  Amenities
	Maps       Maps
	Prefs      *prefs.Service
	Recorder   analytics.Recorder
	Scheduler  sched.Scheduler
	Logger     *zap.Logger
	// Language is the query language, "en" or "es".
	Language string
}

// Flow presents the search screen. Exported methods are UI events and must
// be called on the UI goroutine.
type Flow struct {
	d   Deps
	log *zap.Logger

	text    string
	results []Result

	inflight uuid.UUID
	cancel   context.CancelFunc
}

// New creates a search flow.
func New(d Deps) *Flow {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Flow{d: d, log: d.Logger.Named("search")}
}

// Results returns the rows currently shown.
func (f *Flow) Results() []Result { return f.results }

// Text returns the current query text.
func (f *Flow) Text() string { return f.text }

// Loaded runs once when the screen is built.
func (f *Flow) Loaded() {
	f.record(analytics.Screen, analytics.Props{analytics.PropName: screenName})
	if f.d.Maps == nil {
		return
	}
	f.d.Scheduler.Go(func() {
		if err := f.d.Maps.Preload(context.Background()); err != nil {
			f.log.Warn("preload map data", zap.Error(err))
		}
	})
}

// TextChanged issues a new query for text, superseding any query in flight.
func (f *Flow) TextChanged(text string) {
	f.text = text
	f.stopQuery()

	if text == "" {
		f.results = nil
		f.d.View.SetResults(nil)
		f.d.View.SetEmptyState(false)
		f.d.View.SetCancelVisible(false)
		f.d.View.SetLoading(false)
		return
	}

	if len(f.results) == 0 {
		f.d.View.SetLoading(true)
		f.d.View.SetEmptyState(false)
	}
	f.d.View.SetCancelVisible(true)

	id := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	f.inflight, f.cancel = id, cancel

	q := Query{Text: text, Language: f.d.Language, OpenSearch: f.d.Prefs.Bool(prefs.OpenSearch)}
	f.d.Scheduler.Go(func() {
		results, err := f.d.Searcher.Search(ctx, q)
		f.d.Scheduler.UI(func() { f.deliver(ctx, id, results, err) })
	})

	if utf8.RuneCountInString(text) > 2 {
		f.record(analytics.Search, analytics.Props{
			analytics.PropName:          text,
			analytics.PropCurrentScreen: screenName,
		})
	}
}

func (f *Flow) deliver(ctx context.Context, id uuid.UUID, results []Result, err error) {
	if id != f.inflight {
		return
	}
	f.d.View.SetLoading(false)

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			f.log.Warn("search failed", zap.String("text", f.text), zap.Error(err))
		}
		f.results = nil
		f.d.View.SetResults(nil)
		return
	}

	f.results = results
	var missing []int
	for i := range f.results {
		name := f.results[i].Image
		if name == "" || f.d.Thumbnails == nil {
			continue
		}
		if p, ok := f.d.Thumbnails.Lookup(name); ok {
			f.results[i].Thumbnail = p
		} else {
			missing = append(missing, i)
		}
	}
	f.d.View.SetResults(f.results)
	f.d.View.SetEmptyState(len(f.results) == 0)

	for _, i := range missing {
		f.fetchThumbnail(ctx, i, f.results[i].Image)
	}
}

// fetchThumbnail downloads name and refreshes row i. The index is captured
// now; if the list changes before the download finishes the row refreshed
// may hold a different result, and indexes past the end are ignored.
func (f *Flow) fetchThumbnail(ctx context.Context, i int, name string) {
	f.d.Scheduler.Go(func() {
		p, err := f.d.Thumbnails.Fetch(ctx, name)
		if err != nil {
			f.log.Debug("thumbnail dropped", zap.String("image", name), zap.Error(err))
			return
		}
		f.d.Scheduler.UI(func() {
			if i < 0 || i >= len(f.results) {
				return
			}
			if f.results[i].Image == name {
				f.results[i].Thumbnail = p
			}
			f.d.View.RefreshRow(i)
		})
	})
}

func (f *Flow) stopQuery() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.inflight = uuid.Nil
}

// Cancel abandons the search and closes the screen.
func (f *Flow) Cancel() {
	f.record(analytics.SearchAborted, analytics.Props{analytics.PropSearchText: f.text})
	f.stopQuery()
	f.d.View.SetLoading(false)
	f.d.View.Close()
}

// Clear empties the search field.
func (f *Flow) Clear() {
	f.record(analytics.SearchAborted, analytics.Props{analytics.PropSearchText: f.text})
	f.TextChanged("")
}

// Select opens the result at row i.
func (f *Flow) Select(i int) {
	if i < 0 || i >= len(f.results) {
		return
	}
	r := f.results[i]
	f.record(analytics.SearchResult, analytics.Props{
		analytics.PropName:       r.Title,
		analytics.PropID:         r.ID,
		analytics.PropEntityType: r.EntityType,
		analytics.PropSearchText: f.text,
	})
	f.dispatch(r)
}

func (f *Flow) dispatch(r Result) {
	switch typ := strings.ToLower(r.EntityType); {
	case isAmenityDest(r.Dest):
		if r.SubLocations != nil {
			f.pick(r, func(loc SubLocation) { f.openAmenity(loc.ID) })
			return
		}
		f.openAmenity(r.ID)
	case typ == TypePlacemark:
		f.openPlacemark(r)
	case typ == TypeSchedulingNumber || typ == TypeSchedulingNumberAlt:
		if r.Phone != "" {
			f.d.Navigator.Dial("tel://" + r.Phone)
		}
	case typ == TypeURL || typ == TypeURLs:
		if r.URL != "" {
			f.d.Navigator.OpenLink(r.Title, r.URL)
		}
	case typ == TypeUrgentCare || typ == TypeUrgentCareAlt:
		f.d.Navigator.ShowUrgentCare()
	case typ == TypeFacility:
		f.d.Navigator.ShowLocations()
	default:
		f.log.Debug("unhandled result", zap.String("id", r.ID), zap.String("type", r.EntityType))
	}
}

func isAmenityDest(dest string) bool {
	switch dest {
	case amenity.DestDetail, amenity.DestMap, amenity.DestTable:
		return true
	}
	return false
}

// pick offers every sub-location with a parent name, plus cancel.
func (f *Flow) pick(r Result, chosen func(SubLocation)) {
	var opts []SubLocation
	var labels []string
	for _, loc := range r.SubLocations {
		if loc.ParentName == "" {
			continue
		}
		opts = append(opts, loc)
		labels = append(labels, loc.ParentName)
	}
	f.d.Picker.Pick(r.Title, labels, cancelLabel, func(i int) {
		if i < 0 || i >= len(opts) {
			return
		}
		chosen(opts[i])
	})
}

func (f *Flow) openAmenity(id string) {
	if id == "" || f.d.Amenities == nil {
		return
	}
	f.d.Scheduler.Go(func() {
		a, err := f.d.Amenities.Load(context.Background(), id)
		f.d.Scheduler.UI(func() {
			if err != nil {
				f.log.Warn("load amenity", zap.String("id", id), zap.Error(err))
				return
			}
			switch a.Dest {
			case amenity.DestMap:
				f.d.Navigator.ShowNearby(a)
			case amenity.DestTable:
				f.d.Navigator.ShowAmenityTable(a)
			default:
				f.d.Navigator.ShowAmenity(a)
			}
		})
	})
}

func (f *Flow) openPlacemark(r Result) {
	if r.AppKey == "" || r.MapKey == "" {
		f.log.Debug("placemark without map context", zap.String("id", r.ID))
		return
	}

	switch {
	case len(r.SubLocations) > 1:
		f.pick(r, func(loc SubLocation) {
			if loc.AppKey == "" || loc.Parent == "" || loc.ID == "" || r.Title == "" {
				return
			}
			f.showPlacemarks(loc.Parent, r.Title, mapping.MapKey{Map: MapKeyOf(loc.ID), App: loc.AppKey})
		})
	case r.SubLocations != nil:
		if r.Parent == "" || r.Title == "" {
			return
		}
		f.showPlacemarks(r.Parent, r.Title, mapping.MapKey{Map: r.MapKey, App: r.AppKey})
	default:
		f.d.Navigator.ShowPlacemarks(mapping.MapKey{Map: r.MapKey, App: r.AppKey}, []mapping.Placemark{{
			ID: r.ID, Name: r.Title, Subtitle: r.Subtitle(), MapKey: r.MapKey,
		}})
	}
}

// showPlacemarks searches facility for title and opens the hits on key.
func (f *Flow) showPlacemarks(facilityID, title string, key mapping.MapKey) {
	if f.d.Maps == nil {
		return
	}
	f.d.Scheduler.Go(func() {
		ctx := context.Background()
		fac, err := f.d.Maps.Facility(ctx, facilityID)
		if errors.Is(err, mapping.ErrFacilityNotFound) {
			if perr := f.d.Maps.Preload(ctx); perr == nil {
				fac, err = f.d.Maps.Facility(ctx, facilityID)
			}
		}
		var found []mapping.Placemark
		if err == nil {
			found, err = f.d.Maps.SearchPlacemarks(ctx, fac, title)
		}
		f.d.Scheduler.UI(func() {
			if err != nil {
				f.log.Warn("placemark search", zap.String("facility", facilityID), zap.Error(err))
				return
			}
			if len(found) == 0 {
				f.log.Debug("no placemarks", zap.String("facility", facilityID), zap.String("title", title))
				return
			}
			f.d.Navigator.ShowPlacemarks(key, found)
		})
	})
}

func (f *Flow) record(t analytics.Type, props analytics.Props) {
	if f.d.Recorder == nil {
		return
	}
	f.d.Recorder.Record(analytics.New(t, props))
}
