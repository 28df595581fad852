package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleAmenity(t *testing.T) {
	got, err := Parse([]byte(`[{"id":"facility_123","title":"Clinic A","dest":"amenityDetail"}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "facility", got[0].MapKey)
	assert.Equal(t, "Clinic A", got[0].Title)
	assert.Equal(t, "amenityDetail", got[0].Dest)
	assert.Nil(t, got[0].SubLocations)
}

func TestParseNonArray(t *testing.T) {
	for _, payload := range []string{`{"error":"x"}`, `"text"`, `42`, `null`} {
		got, err := Parse([]byte(payload))
		assert.ErrorIs(t, err, ErrNotArray, payload)
		assert.Empty(t, got)
	}

	_, err := Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestParsePermissive(t *testing.T) {
	got, err := Parse([]byte(`[
		{"id":"amenity_parking","name":"Parking","phone":5551234567,"floor":2,"dest":true},
		{"title":7,"name":"Clinic","entity_type":"Placemark","type":"dining","parent_name":"East","parent_short_name":"E",
		 "app_key":"portal","image":"east.png","multi_location":[]},
		{"id":"east_atm","multi_location":[{"id":"east_atm1","parent":"east","parent_name":"East","app_key":"portal"}]},
		{"id":"west_atm","multi_location":[{"id":"west_atm1"}, 3]}
	]`))
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "Parking", got[0].Title)
	assert.Empty(t, got[0].Phone)
	assert.Empty(t, got[0].Floor)
	assert.Empty(t, got[0].Dest)
	assert.Equal(t, "amenity", got[0].MapKey)

	assert.Equal(t, "Clinic", got[1].Title)
	assert.Empty(t, got[1].ID)
	assert.Equal(t, "Placemark", got[1].EntityType)
	assert.Equal(t, "dining", got[1].PlacemarkType)
	assert.Equal(t, "E", got[1].ParentShortName)
	assert.Equal(t, "east.png", got[1].Image)
	assert.NotNil(t, got[1].SubLocations)
	assert.Empty(t, got[1].SubLocations)

	require.Len(t, got[2].SubLocations, 1)
	assert.Equal(t, SubLocation{ID: "east_atm1", Parent: "east", AppKey: "portal", ParentName: "East"}, got[2].SubLocations[0])

	assert.Nil(t, got[3].SubLocations)
}

func TestParseRejectsNonObjectElement(t *testing.T) {
	for _, payload := range []string{
		`[1, {"id":"facility_1","title":"A"}]`,
		`[{"id":"facility_1","title":"A"}, "skip me"]`,
		`[null]`,
	} {
		got, err := Parse([]byte(payload))
		assert.ErrorIs(t, err, ErrNotArray, payload)
		assert.Empty(t, got, payload)
	}
}

func TestMapKeyOf(t *testing.T) {
	tests := map[string]string{
		"facility_123": "facility",
		"east_atm_1":   "east",
		"east":         "east",
		"":             "",
	}
	for id, want := range tests {
		assert.Equal(t, want, MapKeyOf(id), id)
	}
}

func TestSubtitle(t *testing.T) {
	assert.Equal(t, "East, floor 1", Result{ParentName: "East", Floor: "1"}.Subtitle())
	assert.Equal(t, "East", Result{ParentName: "East"}.Subtitle())
	assert.Equal(t, "Clinics", Result{Category: "Clinics"}.Subtitle())
}
