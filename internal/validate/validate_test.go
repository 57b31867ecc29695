package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Misadov/radiomap/internal/model"
)

func record(country, extracted, placeName string) model.GeocodedRecord {
	lat, lng := 10.0, 20.0
	conf := model.ConfidenceHigh
	return model.GeocodedRecord{
		UUID:              "u1",
		Name:              "Radio " + extracted,
		Country:           country,
		ExtractedLocation: extracted,
		LocationType:      model.CategoryCity,
		Priority:          8,
		Latitude:          &lat,
		Longitude:         &lng,
		PlaceName:         placeName,
		Confidence:        &conf,
		Method:            "mapbox",
		Timestamp:         100,
	}
}

func TestCheck_RussianStationInSouthAmerica(t *testing.T) {
	v := New()

	rec := record("Russia", "Valencia", "Valencia, Carabobo, Venezuela")
	issues := v.Check(rec)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "South America")

	// Same place name is fine for a non-Russian station.
	assert.Empty(t, v.Check(record("Venezuela", "Valencia", "Valencia, Carabobo, Venezuela")))
}

func TestCheck_NonGeographicExtraction(t *testing.T) {
	v := New()

	rec := record("Russia", "шансон", "Chanson, France")
	issues := v.Check(rec)
	require.NotEmpty(t, issues)
	assert.Contains(t, issues[0], "bad extraction")

	assert.Empty(t, v.Check(record("Russia", "Moscow", "Moscow, Russia")))
}

func TestCheck_LowConfidencePotential(t *testing.T) {
	v := New()

	rec := record("Germany", "Sonne", "Sonneberg, Germany")
	rec.LocationType = model.CategoryPotential
	low := model.ConfidenceLow
	rec.Confidence = &low

	issues := v.Check(rec)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "low confidence")

	// Low confidence on a keyword-tier match is tolerated.
	rec.LocationType = model.CategoryCity
	assert.Empty(t, v.Check(rec))
}

func TestFindProblematic(t *testing.T) {
	v := New()
	recs := []model.GeocodedRecord{
		record("Russia", "Moscow", "Moscow, Russia"),
		record("Russia", "Tambov", "Tambov, Brazil"),
		record("Germany", "хит", "Hit, Somewhere"),
	}

	problematic := v.FindProblematic(recs)
	require.Len(t, problematic, 2)
	assert.Equal(t, "Tambov", problematic[0].ExtractedLocation)
	assert.Equal(t, "хит", problematic[1].ExtractedLocation)
}

func TestFix_ParksRecordPending(t *testing.T) {
	v := New()
	now := time.Unix(1_700_000_000, 0)

	rec := record("Russia", "шансон", "Chanson, France")
	rec.Name = "Шансон (Тамбов)"

	fixed, ok := v.Fix(rec, now)
	require.True(t, ok)

	assert.True(t, fixed.NeedsRegeocoding)
	assert.Nil(t, fixed.Latitude)
	assert.Nil(t, fixed.Longitude)
	assert.Equal(t, "Тамбов", fixed.ExtractedLocation)
	assert.Equal(t, model.PendingSentinel+"Тамбов", fixed.PlaceName)
	assert.Equal(t, model.MethodPending, fixed.Method)
	assert.Equal(t, float64(now.Unix()), fixed.Timestamp)
	assert.True(t, fixed.Consistent())
}

func TestFix_NoCandidates(t *testing.T) {
	v := New()

	rec := record("", "хит", "Hit, Somewhere")
	rec.Name = "FM"
	rec.Country = ""

	_, ok := v.Fix(rec, time.Now())
	assert.False(t, ok)
}
