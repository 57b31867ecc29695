// Package store persists the geocoded record collection and run progress.
// The collection is a single JSON document; every save backs up the prior
// file first so a bad write is recoverable.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Misadov/radiomap/internal/model"
)

// ResultStore holds the geocoded record collection in memory, keyed by
// station UUID. One run owns one store; there is no internal locking.
type ResultStore struct {
	path    string
	records []model.GeocodedRecord
	index   map[string]int // uuid -> position in records
}

// Open loads the record collection at path. A missing file yields an empty
// store; an unreadable or corrupt file is an error — the run must not
// proceed on bad state.
func Open(path string) (*ResultStore, error) {
	s := &ResultStore{path: path, index: make(map[string]int)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: read %s", path)
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, eris.Wrapf(err, "store: parse %s", path)
	}

	s.reindex()
	zap.L().Info("loaded existing results", zap.Int("count", len(s.records)))
	return s, nil
}

func (s *ResultStore) reindex() {
	s.index = make(map[string]int, len(s.records))
	for i, rec := range s.records {
		if _, seen := s.index[rec.UUID]; !seen {
			s.index[rec.UUID] = i
		}
	}
}

// Len returns the number of records.
func (s *ResultStore) Len() int { return len(s.records) }

// Records returns the underlying collection in persisted order.
func (s *ResultStore) Records() []model.GeocodedRecord { return s.records }

// Get returns the record for a UUID.
func (s *ResultStore) Get(uuid string) (model.GeocodedRecord, bool) {
	i, ok := s.index[uuid]
	if !ok {
		return model.GeocodedRecord{}, false
	}
	return s.records[i], true
}

// Upsert replaces the record with the same UUID in place, or appends it.
// Superseded versions are replaced, never accumulated.
func (s *ResultStore) Upsert(rec model.GeocodedRecord) {
	if i, ok := s.index[rec.UUID]; ok {
		s.records[i] = rec
		return
	}
	s.index[rec.UUID] = len(s.records)
	s.records = append(s.records, rec)
}

// Pending returns the records flagged for re-geocoding.
func (s *ResultStore) Pending() []model.GeocodedRecord {
	var out []model.GeocodedRecord
	for _, rec := range s.records {
		if rec.NeedsRegeocoding {
			out = append(out, rec)
		}
	}
	return out
}

// Search returns records whose station name contains the query,
// case-insensitively.
func (s *ResultStore) Search(query string) []model.GeocodedRecord {
	needle := strings.ToLower(query)
	var out []model.GeocodedRecord
	for _, rec := range s.records {
		if strings.Contains(strings.ToLower(rec.Name), needle) {
			out = append(out, rec)
		}
	}
	return out
}

// Deduplicate removes repeated UUIDs, keeping per UUID the record with the
// larger timestamp; ties keep the first encountered. First-occurrence order
// is preserved. Returns the number of records removed. Running it twice on
// its own output is a no-op.
func (s *ResultStore) Deduplicate() int {
	type slot struct {
		pos int
		rec model.GeocodedRecord
	}
	best := make(map[string]*slot, len(s.records))
	var order []string

	for _, rec := range s.records {
		if rec.UUID == "" {
			continue
		}
		existing, ok := best[rec.UUID]
		if !ok {
			best[rec.UUID] = &slot{pos: len(order), rec: rec}
			order = append(order, rec.UUID)
			continue
		}
		if rec.Timestamp > existing.rec.Timestamp {
			existing.rec = rec
		}
	}

	removed := len(s.records) - len(order)
	if removed > 0 {
		deduped := make([]model.GeocodedRecord, len(order))
		for _, sl := range best {
			deduped[sl.pos] = sl.rec
		}
		s.records = deduped
		s.reindex()
		zap.L().Info("removed duplicate results", zap.Int("count", removed))
	}
	return removed
}

// Repair fixes records violating the pending-state invariant: flagged
// records still carrying stale coordinates or a non-sentinel place name are
// cleared back to the canonical pending form. Returns the number repaired.
func (s *ResultStore) Repair() int {
	fixed := 0
	for i := range s.records {
		rec := &s.records[i]
		if rec.Consistent() {
			continue
		}
		zap.L().Info("fixing inconsistent record",
			zap.String("uuid", rec.UUID),
			zap.String("name", rec.Name),
		)
		rec.Latitude = nil
		rec.Longitude = nil
		rec.PlaceType = nil
		rec.Confidence = nil
		rec.Method = model.MethodPending
		rec.PlaceName = model.PendingSentinel + rec.ExtractedLocation
		fixed++
	}
	return fixed
}

// Stats summarizes the collection.
type Stats struct {
	Total   int
	Settled int
	Pending int
}

// Stats returns collection totals.
func (s *ResultStore) Stats() Stats {
	st := Stats{Total: len(s.records)}
	for _, rec := range s.records {
		switch {
		case rec.NeedsRegeocoding:
			st.Pending++
		case rec.Settled():
			st.Settled++
		}
	}
	return st
}

// Save writes the collection to disk, backing up the prior file first.
func (s *ResultStore) Save() error {
	if err := backupFile(s.path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return eris.Wrap(err, "store: marshal results")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return eris.Wrapf(err, "store: write %s", s.path)
	}
	return nil
}

// backupFile copies path to path.backup.<unix seconds> when it exists.
func backupFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return eris.Wrapf(err, "store: read for backup %s", path)
	}

	backup := fmt.Sprintf("%s.backup.%d", path, time.Now().Unix())
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return eris.Wrapf(err, "store: write backup %s", backup)
	}
	zap.L().Info("created backup", zap.String("path", backup))
	return nil
}
