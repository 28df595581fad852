package search

import (
	"context"

	"github.com/matheus3301/portal/internal/amenity"
	"github.com/matheus3301/portal/internal/mapping"
)

// View is the search screen as the presenter sees it. All methods are called
// on the UI goroutine.
type View interface {
	SetResults(results []Result)
	// RefreshRow redraws one row after its thumbnail arrived.
	RefreshRow(i int)
	SetLoading(bool)
	SetCancelVisible(bool)
	SetEmptyState(bool)
	// Close dismisses the search screen.
	Close()
}

// Picker asks the user to choose one of several locations. chosen receives
// the index of the choice, or -1 when the user picks cancel.
type Picker interface {
	Pick(title string, choices []string, cancel string, chosen func(i int))
}

// Navigator opens the destination of a selected result.
type Navigator interface {
	ShowAmenity(a *amenity.Amenity)
	ShowNearby(a *amenity.Amenity)
	ShowAmenityTable(a *amenity.Amenity)
	// ShowPlacemarks opens the map. One placemark is focused; several are
	// listed in a sheet.
	ShowPlacemarks(key mapping.MapKey, placemarks []mapping.Placemark)
	Dial(url string)
	OpenLink(title, url string)
	ShowUrgentCare()
	ShowLocations()
}

// Amenities resolves amenity ids.
type Amenities interface {
	Load(ctx context.Context, id string) (*amenity.Amenity, error)
}

// Maps looks up facilities and placemarks.
type Maps interface {
	Preload(ctx context.Context) error
	Facility(ctx context.Context, id string) (*mapping.Facility, error)
	SearchPlacemarks(ctx context.Context, facility *mapping.Facility, title string) ([]mapping.Placemark, error)
}
