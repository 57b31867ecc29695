package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	st := Station{UUID: "u1", Name: "Radio Moscow City FM", Country: "Russia"}
	cand := Candidate{Text: "Moscow", Category: CategoryCity, Priority: 8}
	res := GeoResult{
		Latitude: 55.7558, Longitude: 37.6176,
		PlaceName: "Moscow, Russia", PlaceType: "place",
		Confidence: ConfidenceHigh, Method: "mapbox",
	}
	now := time.Unix(1_700_000_000, 0)

	rec, err := NewRecord(st, cand, res, now)
	require.NoError(t, err)

	assert.Equal(t, "u1", rec.UUID)
	assert.Equal(t, "Moscow", rec.ExtractedLocation)
	assert.Equal(t, CategoryCity, rec.LocationType)
	assert.Equal(t, 8, rec.Priority)
	require.NotNil(t, rec.Latitude)
	assert.Equal(t, 55.7558, *rec.Latitude)
	assert.Equal(t, float64(now.Unix()), rec.Timestamp)
	assert.True(t, rec.Settled())
	assert.True(t, rec.Consistent())
}

func TestNewRecord_RequiresUUID(t *testing.T) {
	_, err := NewRecord(Station{}, Candidate{}, GeoResult{}, time.Now())
	assert.Error(t, err)
}

func TestMarkPending(t *testing.T) {
	lat, lng := 52.5, 13.4
	pt := "place"
	conf := ConfidenceHigh
	rec := GeocodedRecord{
		UUID: "u1", Name: "Radio Berlin", Country: "Germany",
		ExtractedLocation: "Berlin", LocationType: CategoryCity, Priority: 8,
		Latitude: &lat, Longitude: &lng,
		PlaceName: "Berlin, Germany", PlaceType: &pt, Confidence: &conf,
		Method: "mapbox", Timestamp: 100,
	}

	now := time.Unix(200, 0)
	rec.MarkPending(Candidate{Text: "Berlin", Category: CategoryCity, Priority: 8}, now)

	assert.True(t, rec.NeedsRegeocoding)
	assert.Nil(t, rec.Latitude)
	assert.Nil(t, rec.Longitude)
	assert.Nil(t, rec.PlaceType)
	assert.Nil(t, rec.Confidence)
	assert.Equal(t, PendingSentinel+"Berlin", rec.PlaceName)
	assert.Equal(t, MethodPending, rec.Method)
	assert.Equal(t, float64(200), rec.Timestamp)
	assert.False(t, rec.Settled())
	assert.True(t, rec.Consistent())
}

func TestConsistent(t *testing.T) {
	lat, lng := 1.0, 2.0

	settled := GeocodedRecord{Latitude: &lat, Longitude: &lng, PlaceName: "Somewhere"}
	assert.True(t, settled.Consistent())

	// Flagged but still carrying a resolved place name and coordinates.
	stale := GeocodedRecord{
		Latitude: &lat, Longitude: &lng,
		PlaceName: "Berlin, Germany", NeedsRegeocoding: true,
	}
	assert.False(t, stale.Consistent())

	pending := GeocodedRecord{
		PlaceName: PendingSentinel + "Berlin", NeedsRegeocoding: true,
	}
	assert.True(t, pending.Consistent())
}

func TestGeocodedRecord_WireFormat(t *testing.T) {
	lat := 55.7558
	rec := GeocodedRecord{
		UUID: "u1", Name: "n", Country: "c",
		ExtractedLocation: "Moscow", LocationType: CategoryCity, Priority: 8,
		Latitude: &lat, Method: "mapbox", Timestamp: 100,
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Contains(t, raw, "extracted_location")
	assert.Contains(t, raw, "location_type")
	assert.Contains(t, raw, "mapbox_place_type")
	assert.Nil(t, raw["longitude"], "unset geo fields serialize as null, not omitted")
	assert.NotContains(t, raw, "needs_regeocoding", "flag is omitted when false")
	assert.NotContains(t, raw, "state", "empty state is omitted")
}

func TestStationRoundTrip(t *testing.T) {
	rec := GeocodedRecord{UUID: "u1", Name: "n", Country: "c", State: "s"}
	assert.Equal(t, Station{UUID: "u1", Name: "n", Country: "c", State: "s"}, rec.Station())
}
