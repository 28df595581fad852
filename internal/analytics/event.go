// Package analytics records fire-and-forget usage events, persists them to
// the profile database and uploads them in batches.
package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies an event.
type Type string

const (
	Screen        Type = "screen"
	Click         Type = "click"
	SignIn        Type = "signin"
	Search        Type = "search"
	SearchResult  Type = "searchResult"
	SearchAborted Type = "searchAborted"
)

// Property keys.
const (
	PropName          = "name"
	PropCurrentScreen = "currentScreen"
	PropErrorMessage  = "errorMessage"
	PropErrorCode     = "errorCode"
	PropID            = "id"
	PropEntityType    = "entityType"
	PropSearchText    = "searchText"
)

// Event is one analytics record. Flush asks the uploader to send it now
// instead of waiting for the next batch.
type Event struct {
	ID         string
	Type       Type
	Properties map[string]string
	Flush      bool
	Time       time.Time
}

// Props is shorthand for building property maps.
type Props map[string]string

// New stamps a new event with a fresh id and the current time.
func New(t Type, props Props) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Properties: props,
		Time:       time.Now(),
	}
}

// NewFlush is New with Flush set.
func NewFlush(t Type, props Props) Event {
	e := New(t, props)
	e.Flush = true
	return e
}
