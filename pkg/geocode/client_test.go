package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Misadov/radiomap/internal/model"
)

func featureServer(t *testing.T, hits *int, features []mapboxFeature) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		assert.Equal(t, "test-token", r.URL.Query().Get("access_token"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mapboxResponse{Features: features})
	}))
}

func TestResolve_Success(t *testing.T) {
	srv := featureServer(t, nil, []mapboxFeature{
		{Center: []float64{37.6176, 55.7558}, PlaceName: "Moscow, Russia", PlaceType: []string{"place"}},
	})
	defer srv.Close()

	r := NewResolver("test-token", WithBaseURL(srv.URL))
	res, err := r.Resolve(context.Background(), "Moscow", "Russia", model.CategoryCity)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 55.7558, res.Latitude)
	assert.Equal(t, 37.6176, res.Longitude)
	assert.Equal(t, "Moscow, Russia", res.PlaceName)
	assert.Equal(t, "place", res.PlaceType)
	assert.Equal(t, model.ConfidenceHigh, res.Confidence)
	assert.Equal(t, "mapbox", res.Method)
	assert.Equal(t, 1, r.Calls())
}

func TestResolve_SendsQueryAndTypes(t *testing.T) {
	var gotPath, gotTypes string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTypes = r.URL.Query().Get("types")
		json.NewEncoder(w).Encode(mapboxResponse{})
	}))
	defer srv.Close()

	r := NewResolver("test-token", WithBaseURL(srv.URL))
	_, err := r.Resolve(context.Background(), "Moscow", "Russia", model.CategoryCity)
	require.NoError(t, err)

	assert.Equal(t, "/Moscow, Russia.json", gotPath)
	assert.Equal(t, "place,locality", gotTypes)
}

func TestResolve_CachesResults(t *testing.T) {
	hits := 0
	srv := featureServer(t, &hits, []mapboxFeature{
		{Center: []float64{13.4, 52.5}, PlaceName: "Berlin, Germany", PlaceType: []string{"place"}},
	})
	defer srv.Close()

	r := NewResolver("test-token", WithBaseURL(srv.URL))
	ctx := context.Background()

	first, err := r.Resolve(ctx, "Berlin", "Germany", model.CategoryCity)
	require.NoError(t, err)
	second, err := r.Resolve(ctx, "berlin", "Germany", model.CategoryCity)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits, "second lookup should be served from cache")
	assert.Equal(t, 1, r.Calls())
}

func TestResolve_CountryMismatchDiscarded(t *testing.T) {
	srv := featureServer(t, nil, []mapboxFeature{
		{Center: []float64{-117.0, 46.7}, PlaceName: "Moscow, Idaho, United States", PlaceType: []string{"place"}},
	})
	defer srv.Close()

	r := NewResolver("test-token", WithBaseURL(srv.URL))
	res, err := r.Resolve(context.Background(), "Moscow", "Russia", model.CategoryCity)
	require.NoError(t, err)
	assert.Nil(t, res, "a feature in the wrong country must not be returned")
}

func TestResolve_PrefersHighConfidenceMatch(t *testing.T) {
	srv := featureServer(t, nil, []mapboxFeature{
		{Center: []float64{11.4, 47.2}, PlaceName: "Tirol, Austria", PlaceType: []string{"region"}},
		{Center: []float64{11.39, 47.26}, PlaceName: "Innsbruck, Tirol, Austria", PlaceType: []string{"place"}},
	})
	defer srv.Close()

	r := NewResolver("test-token", WithBaseURL(srv.URL))
	res, err := r.Resolve(context.Background(), "Innsbruck", "Austria", model.CategoryPotential)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "Innsbruck, Tirol, Austria", res.PlaceName)
	assert.Equal(t, model.ConfidenceHigh, res.Confidence)
}

func TestResolve_ServiceErrorIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewResolver("test-token", WithBaseURL(srv.URL))
	res, err := r.Resolve(context.Background(), "Moscow", "Russia", model.CategoryCity)
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestResolve_ContextCanceled(t *testing.T) {
	srv := featureServer(t, nil, nil)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver("test-token", WithBaseURL(srv.URL))
	_, err := r.Resolve(ctx, "Moscow", "Russia", model.CategoryCity)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		text, country, want string
	}{
		{"Moscow", "Russia", "Moscow, Russia"},
		{"Moscow, Russia", "Russia", "Moscow, Russia"},
		{"Berlin", "", "Berlin"},
		{"  Paris ", "France", "Paris, France"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, buildQuery(tt.text, tt.country))
	}
}

func TestTypesForCategory(t *testing.T) {
	tests := []struct {
		category model.Category
		want     string
	}{
		{model.CategoryCity, "place,locality"},
		{model.CategoryVillage, "locality,neighborhood,place"},
		{model.CategoryRegion, "region,place"},
		{model.CategoryCountry, "country"},
		{model.CategoryPotential, "place,locality,region"},
		{model.CategoryExtracted, "place,locality,region,country"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, typesForCategory(tt.category), "category %s", tt.category)
	}
}

func TestSelectBest(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, selectBest(nil, "Russia"))
	})

	t.Run("malformed center skipped", func(t *testing.T) {
		features := []mapboxFeature{
			{Center: []float64{1.0}, PlaceName: "Broken, Russia", PlaceType: []string{"place"}},
			{Center: []float64{30.3, 59.9}, PlaceName: "Saint Petersburg, Russia", PlaceType: []string{"place"}},
		}
		res := selectBest(features, "Russia")
		require.NotNil(t, res)
		assert.Equal(t, "Saint Petersburg, Russia", res.PlaceName)
	})

	t.Run("no hint keeps first", func(t *testing.T) {
		features := []mapboxFeature{
			{Center: []float64{2.35, 48.85}, PlaceName: "Paris, France", PlaceType: []string{"place"}},
			{Center: []float64{-95.5, 33.6}, PlaceName: "Paris, Texas, United States", PlaceType: []string{"place"}},
		}
		res := selectBest(features, "")
		require.NotNil(t, res)
		assert.Equal(t, "Paris, France", res.PlaceName)
	})
}

func TestClassifyConfidence(t *testing.T) {
	tests := []struct {
		types        []string
		countryMatch bool
		want         model.Confidence
	}{
		{[]string{"place"}, true, model.ConfidenceHigh},
		{[]string{"locality"}, true, model.ConfidenceHigh},
		{[]string{"place"}, false, model.ConfidenceMedium},
		{[]string{"region"}, true, model.ConfidenceMedium},
		{[]string{"region"}, false, model.ConfidenceLow},
		{[]string{"country"}, true, model.ConfidenceLow},
		{nil, true, model.ConfidenceLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyConfidence(tt.types, tt.countryMatch), "types %v match %v", tt.types, tt.countryMatch)
	}
}

func TestCountryVariations(t *testing.T) {
	assert.Equal(t, "russia", normalizeCountry("The Russian Federation"))
	assert.Equal(t, "united states", normalizeCountry("USA"))
	assert.Equal(t, "austria", normalizeCountry("Austria"))

	assert.Contains(t, countryVariations("russia"), "россия")
	assert.Contains(t, countryVariations("united kingdom"), "england")
	assert.Equal(t, []string{"austria"}, countryVariations("Austria"))
}
