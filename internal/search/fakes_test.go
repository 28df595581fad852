package search

import (
	"context"
	"errors"

	"github.com/matheus3301/portal/internal/amenity"
	"github.com/matheus3301/portal/internal/analytics"
	"github.com/matheus3301/portal/internal/mapping"
	"github.com/matheus3301/portal/internal/prefs"
	"github.com/matheus3301/portal/internal/sched"
)

type fakeView struct {
	results   [][]Result
	refreshed []int
	loading   bool
	cancel    bool
	empty     bool
	closed    int
}

func (v *fakeView) SetResults(r []Result)   { v.results = append(v.results, r) }
func (v *fakeView) RefreshRow(i int)        { v.refreshed = append(v.refreshed, i) }
func (v *fakeView) SetLoading(b bool)       { v.loading = b }
func (v *fakeView) SetCancelVisible(b bool) { v.cancel = b }
func (v *fakeView) SetEmptyState(b bool)    { v.empty = b }
func (v *fakeView) Close()                  { v.closed++ }

func (v *fakeView) last() []Result {
	if len(v.results) == 0 {
		return nil
	}
	return v.results[len(v.results)-1]
}

type pickCall struct {
	title   string
	choices []string
	cancel  string
	chosen  func(int)
}

type fakePicker struct{ calls []pickCall }

func (p *fakePicker) Pick(title string, choices []string, cancel string, chosen func(int)) {
	p.calls = append(p.calls, pickCall{title, choices, cancel, chosen})
}

type mapOpen struct {
	key        mapping.MapKey
	placemarks []mapping.Placemark
}

type fakeNav struct {
	amenities []*amenity.Amenity
	nearby    []*amenity.Amenity
	tables    []*amenity.Amenity
	maps      []mapOpen
	dials     []string
	links     []string
	urgent    int
	locations int
}

func (n *fakeNav) ShowAmenity(a *amenity.Amenity)      { n.amenities = append(n.amenities, a) }
func (n *fakeNav) ShowNearby(a *amenity.Amenity)       { n.nearby = append(n.nearby, a) }
func (n *fakeNav) ShowAmenityTable(a *amenity.Amenity) { n.tables = append(n.tables, a) }
func (n *fakeNav) Dial(url string)                     { n.dials = append(n.dials, url) }
func (n *fakeNav) OpenLink(_, url string)              { n.links = append(n.links, url) }
func (n *fakeNav) ShowUrgentCare()                     { n.urgent++ }
func (n *fakeNav) ShowLocations()                      { n.locations++ }

func (n *fakeNav) ShowPlacemarks(key mapping.MapKey, p []mapping.Placemark) {
	n.maps = append(n.maps, mapOpen{key, p})
}

type fakeSearcher struct {
	queries []Query
	results []Result
	err     error
}

func (s *fakeSearcher) Search(ctx context.Context, q Query) ([]Result, error) {
	s.queries = append(s.queries, q)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.results, s.err
}

type fakeThumbs struct {
	cached  map[string]string
	fetched []string
	err     error
}

func (f *fakeThumbs) Lookup(name string) (string, bool) {
	p, ok := f.cached[name]
	return p, ok
}

func (f *fakeThumbs) Fetch(_ context.Context, name string) (string, error) {
	f.fetched = append(f.fetched, name)
	if f.err != nil {
		return "", f.err
	}
	return "/thumbs/thumbnail" + name, nil
}

type fakeAmenities map[string]*amenity.Amenity

func (f fakeAmenities) Load(_ context.Context, id string) (*amenity.Amenity, error) {
	if a, ok := f[id]; ok {
		return a, nil
	}
	return nil, amenity.ErrNotFound
}

type fakeMaps struct {
	preloads   int
	facilities map[string]*mapping.Facility
	placemarks map[string][]mapping.Placemark
	searches   []string
}

func (m *fakeMaps) Preload(context.Context) error {
	m.preloads++
	return nil
}

func (m *fakeMaps) Facility(_ context.Context, id string) (*mapping.Facility, error) {
	if f, ok := m.facilities[id]; ok {
		return f, nil
	}
	return nil, mapping.ErrFacilityNotFound
}

func (m *fakeMaps) SearchPlacemarks(_ context.Context, f *mapping.Facility, title string) ([]mapping.Placemark, error) {
	m.searches = append(m.searches, f.ID+":"+title)
	if p, ok := m.placemarks[f.ID]; ok {
		return p, nil
	}
	return nil, errors.New("no map")
}

type harness struct {
	flow     *Flow
	view     *fakeView
	nav      *fakeNav
	picker   *fakePicker
	searcher *fakeSearcher
	thumbs   *fakeThumbs
	maps     *fakeMaps
	prefs    *prefs.Service
	rec      *analytics.Memory
}

func newHarness(opts ...func(*Deps)) *harness {
	h := &harness{
		view:     &fakeView{},
		nav:      &fakeNav{},
		picker:   &fakePicker{},
		searcher: &fakeSearcher{},
		thumbs:   &fakeThumbs{cached: map[string]string{}},
		maps: &fakeMaps{
			facilities: map[string]*mapping.Facility{
				"east": {ID: "east", Name: "East Pavilion", AppKey: "portal", MapKey: "east"},
				"west": {ID: "west", Name: "West Tower", AppKey: "portal", MapKey: "west"},
			},
			placemarks: map[string][]mapping.Placemark{
				"east": {{ID: "east_atm1", Name: "ATM", MapKey: "east"}, {ID: "east_atm2", Name: "ATM", MapKey: "east"}},
				"west": {{ID: "west_atm1", Name: "ATM", MapKey: "west"}},
			},
		},
		prefs: prefs.New(prefs.NewMemoryBackend(), nil, nil),
		rec:   &analytics.Memory{},
	}
	d := Deps{
		View:       h.view,
		Navigator:  h.nav,
		Picker:     h.picker,
		Searcher:   h.searcher,
		Thumbnails: h.thumbs,
		Amenities: fakeAmenities{
			"facility_123":          {ID: "facility_123", Title: "Clinic A", Dest: amenity.DestDetail},
			"amenity_parking":       {ID: "amenity_parking", Title: "Parking", Dest: amenity.DestMap},
			"amenity_services":      {ID: "amenity_services", Title: "Patient Services", Dest: amenity.DestTable},
			"amenity_pharmacy_west": {ID: "amenity_pharmacy_west", Title: "Pharmacy (West)", Dest: amenity.DestDetail},
		},
		Maps:      h.maps,
		Prefs:     h.prefs,
		Recorder:  h.rec,
		Scheduler: &sched.Sync{},
		Language:  "en",
	}
	for _, o := range opts {
		o(&d)
	}
	h.flow = New(d)
	return h
}

// load shows results as if a query for text returned them.
func (h *harness) load(text string, results ...Result) {
	h.searcher.results = results
	h.flow.TextChanged(text)
}
