// Package validate re-applies extraction heuristics to existing geocoded
// results to detect stale or incorrect entries. Problematic records are
// flagged for re-resolution rather than deleted, preserving auditability;
// this package never calls the geocoding service itself.
package validate

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Misadov/radiomap/internal/extract"
	"github.com/Misadov/radiomap/internal/model"
)

// southAmericanCountries flag an obvious mismatch for Russian-family
// stations. The list follows the historical cleanup tooling.
var southAmericanCountries = []string{
	"venezuela", "colombia", "brazil", "mexico", "argentina", "peru",
}

// Validator checks geocoded records against heuristic sanity rules.
type Validator struct {
	extractor *extract.Extractor
}

// New creates a Validator.
func New() *Validator {
	return &Validator{extractor: extract.New()}
}

// Check returns a description of every rule the record trips. An empty
// slice means the record looks sane.
func (v *Validator) Check(rec model.GeocodedRecord) []string {
	var issues []string

	country := strings.ToLower(rec.Country)
	placeName := strings.ToLower(rec.PlaceName)
	extracted := strings.ToLower(rec.ExtractedLocation)

	if strings.Contains(country, "russia") || strings.Contains(country, "russian federation") {
		for _, wrong := range southAmericanCountries {
			if strings.Contains(placeName, wrong) {
				issues = append(issues, fmt.Sprintf("Russian station geocoded to South America: %s", rec.PlaceName))
				break
			}
		}
	}

	if extract.IsNonGeographic(extracted) {
		issues = append(issues, fmt.Sprintf("bad extraction %q from %q", rec.ExtractedLocation, rec.Name))
	}

	if rec.Confidence != nil && *rec.Confidence == model.ConfidenceLow &&
		rec.LocationType == model.CategoryPotential {
		issues = append(issues, fmt.Sprintf("low confidence on potential match: %s", rec.ExtractedLocation))
	}

	return issues
}

// IsProblematic reports whether any rule triggers for the record.
func (v *Validator) IsProblematic(rec model.GeocodedRecord) bool {
	return len(v.Check(rec)) > 0
}

// FindProblematic filters a collection down to the records tripping at
// least one rule.
func (v *Validator) FindProblematic(recs []model.GeocodedRecord) []model.GeocodedRecord {
	var out []model.GeocodedRecord
	for _, rec := range recs {
		if v.IsProblematic(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Fix re-extracts candidates for a problematic record with the current
// heuristics and parks it in the pending state for the next reprocessing
// run. It reports false when no candidate can be extracted.
func (v *Validator) Fix(rec model.GeocodedRecord, now time.Time) (model.GeocodedRecord, bool) {
	candidates := v.extractor.Extract(rec.Station())
	if len(candidates) == 0 {
		zap.L().Warn("no valid locations found", zap.String("name", rec.Name))
		return rec, false
	}

	best := candidates[0]
	zap.L().Info("re-extracted location",
		zap.String("name", rec.Name),
		zap.String("location", best.Text),
		zap.String("type", string(best.Category)),
		zap.Int("priority", best.Priority),
	)
	rec.MarkPending(best, now)
	return rec, true
}
