package store

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Progress is the advisory run checkpoint: the set of already-processed
// station identifiers. It is safe to delete and rebuild from the record
// collection; losing it only costs reprocessing.
type Progress struct {
	path      string
	RunID     string
	processed map[string]bool
}

type progressFile struct {
	ProcessedUUIDs []string `json:"processed_uuids"`
	Timestamp      float64  `json:"timestamp"`
	RunID          string   `json:"run_id,omitempty"`
}

// LoadProgress reads the checkpoint at path. A missing file starts a fresh
// run with a new run id; a corrupt file is an error.
func LoadProgress(path string) (*Progress, error) {
	p := &Progress{
		path:      path,
		RunID:     uuid.NewString(),
		processed: make(map[string]bool),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: read progress %s", path)
	}

	var pf progressFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, eris.Wrapf(err, "store: parse progress %s", path)
	}
	for _, id := range pf.ProcessedUUIDs {
		p.processed[id] = true
	}
	if pf.RunID != "" {
		p.RunID = pf.RunID
	}

	zap.L().Info("loaded previously processed stations", zap.Int("count", len(p.processed)))
	return p, nil
}

// Contains reports whether a station was already processed.
func (p *Progress) Contains(stationUUID string) bool {
	return p.processed[stationUUID]
}

// Mark records a station as processed.
func (p *Progress) Mark(stationUUID string) {
	p.processed[stationUUID] = true
}

// Len returns the number of processed stations.
func (p *Progress) Len() int { return len(p.processed) }

// Save writes the checkpoint. The UUID list is sorted so the file is
// stable across saves.
func (p *Progress) Save() error {
	ids := make([]string, 0, len(p.processed))
	for id := range p.processed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.MarshalIndent(progressFile{
		ProcessedUUIDs: ids,
		Timestamp:      float64(time.Now().Unix()),
		RunID:          p.RunID,
	}, "", "  ")
	if err != nil {
		return eris.Wrap(err, "store: marshal progress")
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return eris.Wrapf(err, "store: write progress %s", p.path)
	}
	return nil
}
