// Package model defines the core data types shared across the geocoding
// pipeline: upstream stations, extraction candidates, resolver results, and
// the persisted geocoded record.
package model

// Station is a radio station as reported by the upstream station source.
// Stations are immutable once fetched; they represent external truth.
type Station struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Country string `json:"country"`
	State   string `json:"state,omitempty"`
}

// Category is the structural class of an extraction candidate. It drives
// which place-type filter is applied on the resolver side.
type Category string

const (
	CategoryExtracted Category = "extracted" // bracketed text
	CategoryCity      Category = "city"
	CategoryVillage   Category = "village"
	CategoryRegion    Category = "region"
	CategoryPotential Category = "potential" // scored token from the cleaned name
	CategoryCountry   Category = "country"   // last-resort fallback
)

// Candidate is a provisional place-name string extracted from a station's
// text fields. Candidates are ephemeral: they exist only within one
// resolution attempt and are never persisted on their own.
type Candidate struct {
	Text     string
	Category Category
	Priority int // higher = tried first
}

// Confidence rates how trustworthy a resolved geocode is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// GeoResult is the output of a successful external lookup.
type GeoResult struct {
	Latitude   float64
	Longitude  float64
	PlaceName  string // canonical resolved label, typically "locality, region, country"
	PlaceType  string // place granularity reported by the service
	Confidence Confidence
	Method     string // provenance tag, e.g. "mapbox"
}
