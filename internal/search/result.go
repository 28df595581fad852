// Package search is the universal search screen: query building, permissive
// result parsing, thumbnail caching and the presenter that dispatches a
// selected result to the right destination.
package search

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotArray is returned by Parse when the payload is not a JSON array of
// objects.
var ErrNotArray = errors.New("search payload is not an array of objects")

// SubLocation is one physical location of a multi-location result.
type SubLocation struct {
	ID         string
	Parent     string
	AppKey     string
	ParentName string
}

// Result is one search hit. Every field is optional.
type Result struct {
	ID              string
	Title           string
	Dest            string
	EntityType      string
	PlacemarkType   string
	Category        string
	Phone           string
	Parent          string
	ParentName      string
	ParentShortName string
	URL             string
	AppKey          string
	Floor           string
	MapKey          string
	Image           string
	// Thumbnail is the local path of the cached image, once known.
	Thumbnail string
	// SubLocations is nil when the hit carries no multi_location key and
	// non-nil (possibly empty) when it does.
	SubLocations []SubLocation
}

// Subtitle is the secondary row text: parent name, category or floor.
func (r Result) Subtitle() string {
	switch {
	case r.ParentName != "" && r.Floor != "":
		return r.ParentName + ", floor " + r.Floor
	case r.ParentName != "":
		return r.ParentName
	default:
		return r.Category
	}
}

// MapKeyOf returns the map key encoded in an id: the part before the first
// underscore.
func MapKeyOf(id string) string {
	key, _, _ := strings.Cut(id, "_")
	return key
}

// Parse decodes a search payload. Each element is decoded field by field;
// missing or mistyped fields are left empty. A payload with any element
// that is not an object fails as a whole.
func Parse(data []byte) ([]Result, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode search payload: %w", err)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, ErrNotArray
	}

	out := make([]Result, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, ErrNotArray
		}
		out = append(out, parseResult(m))
	}
	return out, nil
}

func parseResult(m map[string]any) Result {
	r := Result{
		ID:              str(m, "id"),
		Title:           str(m, "title"),
		Dest:            str(m, "dest"),
		EntityType:      str(m, "entity_type"),
		PlacemarkType:   str(m, "type"),
		Category:        str(m, "category"),
		Phone:           str(m, "phone"),
		Parent:          str(m, "parent"),
		ParentName:      str(m, "parent_name"),
		ParentShortName: str(m, "parent_short_name"),
		URL:             str(m, "url"),
		AppKey:          str(m, "app_key"),
		Floor:           str(m, "floor"),
		Image:           str(m, "image"),
	}
	if r.Title == "" {
		r.Title = str(m, "name")
	}
	r.MapKey = MapKeyOf(r.ID)

	if locs, ok := m["multi_location"].([]any); ok {
		r.SubLocations = subLocations(locs)
	}
	return r
}

// subLocations returns nil unless every element is an object.
func subLocations(locs []any) []SubLocation {
	out := make([]SubLocation, 0, len(locs))
	for _, l := range locs {
		lm, ok := l.(map[string]any)
		if !ok {
			return nil
		}
		out = append(out, SubLocation{
			ID:         str(lm, "id"),
			Parent:     str(lm, "parent"),
			AppKey:     str(lm, "app_key"),
			ParentName: str(lm, "parent_name"),
		})
	}
	return out
}

func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}
