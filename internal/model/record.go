package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// PendingSentinel prefixes the place_name of a record that has been flagged
// for re-geocoding. It is a wire-format detail kept for compatibility with
// existing result files; in memory NeedsRegeocoding and ExtractedLocation
// are authoritative and MarkPending is the only writer of the sentinel.
const PendingSentinel = "NEEDS_REGEOCODING: "

// MethodPending is the provenance tag of a record awaiting re-resolution.
const MethodPending = "pending_regeocoding"

// GeocodedRecord is the persisted unit, keyed by station UUID. Geo fields
// are pointers so a pending record serializes them as explicit nulls, the
// form older tooling expects.
type GeocodedRecord struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Country string `json:"country"`
	State   string `json:"state,omitempty"`

	ExtractedLocation string   `json:"extracted_location"`
	LocationType      Category `json:"location_type"`
	Priority          int      `json:"priority"`

	Latitude   *float64    `json:"latitude"`
	Longitude  *float64    `json:"longitude"`
	PlaceName  string      `json:"place_name"`
	PlaceType  *string     `json:"mapbox_place_type"`
	Confidence *Confidence `json:"confidence"`
	Method     string      `json:"method"`

	Timestamp        float64 `json:"timestamp"` // unix seconds
	NeedsRegeocoding bool    `json:"needs_regeocoding,omitempty"`
}

// NewRecord builds a settled record from a station, the candidate that won,
// and the resolver result.
func NewRecord(st Station, cand Candidate, res GeoResult, now time.Time) (GeocodedRecord, error) {
	if st.UUID == "" {
		return GeocodedRecord{}, eris.New("model: record requires a station uuid")
	}
	lat, lng := res.Latitude, res.Longitude
	pt, conf := res.PlaceType, res.Confidence
	return GeocodedRecord{
		UUID:              st.UUID,
		Name:              st.Name,
		Country:           st.Country,
		State:             st.State,
		ExtractedLocation: cand.Text,
		LocationType:      cand.Category,
		Priority:          cand.Priority,
		Latitude:          &lat,
		Longitude:         &lng,
		PlaceName:         res.PlaceName,
		PlaceType:         &pt,
		Confidence:        &conf,
		Method:            res.Method,
		Timestamp:         float64(now.Unix()),
	}, nil
}

// Station recovers the upstream station fields, used when a flagged record
// is fed back through extraction and resolution.
func (r GeocodedRecord) Station() Station {
	return Station{UUID: r.UUID, Name: r.Name, Country: r.Country, State: r.State}
}

// Settled reports whether the record carries coordinates and no pending flag.
func (r GeocodedRecord) Settled() bool {
	return !r.NeedsRegeocoding && r.Latitude != nil && r.Longitude != nil
}

// MarkPending clears the geo fields and parks the record in the pending
// state for the given candidate, to be resolved by a later reprocessing run.
func (r *GeocodedRecord) MarkPending(cand Candidate, now time.Time) {
	r.ExtractedLocation = cand.Text
	r.LocationType = cand.Category
	r.Priority = cand.Priority
	r.Latitude = nil
	r.Longitude = nil
	r.PlaceName = PendingSentinel + cand.Text
	r.PlaceType = nil
	r.Confidence = nil
	r.Method = MethodPending
	r.Timestamp = float64(now.Unix())
	r.NeedsRegeocoding = true
}

// Consistent reports whether the record honors the pending-state invariant:
// a flagged record must have null coordinates and a sentinel place name, and
// a record with coordinates must not be flagged. Violations are repairable,
// not fatal (see store.Repair).
func (r GeocodedRecord) Consistent() bool {
	if r.NeedsRegeocoding {
		return r.Latitude == nil && r.Longitude == nil &&
			strings.HasPrefix(r.PlaceName, PendingSentinel)
	}
	return true
}
