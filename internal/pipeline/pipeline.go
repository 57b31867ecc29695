// Package pipeline orchestrates the enrichment batch: stations are
// extracted and resolved one at a time, results are checkpointed at
// intervals, and interruption between stations is a clean exit path.
package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Misadov/radiomap/internal/extract"
	"github.com/Misadov/radiomap/internal/model"
	"github.com/Misadov/radiomap/internal/store"
)

// StationSource yields stations lacking coordinates.
type StationSource interface {
	FetchUngeocoded(ctx context.Context, limit int) ([]model.Station, error)
}

// Resolver geocodes a single candidate text.
type Resolver interface {
	Resolve(ctx context.Context, text, countryHint string, category model.Category) (*model.GeoResult, error)
	Calls() int
}

// Config tunes a batch run.
type Config struct {
	BatchSize    int  // stations between checkpoints
	Limit        int  // cap on stations per run, 0 = no cap
	Reprocess    bool // restrict input to records flagged needs_regeocoding
	ShowProgress bool // render a progress bar on stderr
}

// Summary reports run outcome counts.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
	APICalls  int
}

// Orchestrator drives one enrichment run. Strictly sequential: one station
// at a time, so no internal locking is needed.
type Orchestrator struct {
	source    StationSource
	extractor *extract.Extractor
	resolver  Resolver
	results   *store.ResultStore
	progress  *store.Progress
	cfg       Config
	throttle  *rate.Limiter
}

// New builds an Orchestrator over the given collaborators.
func New(source StationSource, resolver Resolver, results *store.ResultStore, progress *store.Progress, cfg Config) *Orchestrator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Orchestrator{
		source:    source,
		extractor: extract.New(),
		resolver:  resolver,
		results:   results,
		progress:  progress,
		cfg:       cfg,
		// Courtesy throttle between stations, independent of the
		// resolver's call-budget limiter.
		throttle: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
	}
}

// Run executes the batch. Cancellation is honored between stations only, so
// a station's record is either fully written or not written at all; a
// cancelled run still performs its final save.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	log := zap.L()

	stations, err := o.collectStations(ctx)
	if err != nil {
		return Summary{}, err
	}
	if len(stations) == 0 {
		log.Info("no stations to process")
		return Summary{}, nil
	}
	log.Info("processing stations", zap.Int("count", len(stations)), zap.Bool("reprocess", o.cfg.Reprocess))

	var bar *progressbar.ProgressBar
	if o.cfg.ShowProgress {
		bar = progressbar.NewOptions(len(stations),
			progressbar.OptionSetDescription("Geocoding stations"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var sum Summary
loop:
	for i, st := range stations {
		select {
		case <-ctx.Done():
			log.Info("process interrupted")
			break loop
		default:
		}

		sum.Attempted++
		rec, ok, err := o.geocodeStation(ctx, st)
		switch {
		case err != nil:
			// Context cancelled mid-resolution: nothing was persisted
			// for this station, exit via the final-save path.
			sum.Attempted--
			log.Info("process interrupted")
			break loop
		case ok:
			o.results.Upsert(rec)
			sum.Succeeded++
		default:
			sum.Failed++
		}

		o.progress.Mark(st.UUID)
		if bar != nil {
			_ = bar.Add(1)
		}

		if (i+1)%o.cfg.BatchSize == 0 {
			if err := o.checkpoint(); err != nil {
				return sum, err
			}
			log.Info("checkpoint",
				zap.Int("processed", i+1),
				zap.Int("succeeded", sum.Succeeded),
				zap.Int("failed", sum.Failed),
				zap.Int("api_calls", o.resolver.Calls()),
			)
		}

		if err := o.throttle.Wait(ctx); err != nil {
			log.Info("process interrupted")
			break loop
		}
	}

	o.results.Deduplicate()
	if err := o.checkpoint(); err != nil {
		return sum, err
	}

	sum.APICalls = o.resolver.Calls()
	log.Info("geocoding completed",
		zap.Int("attempted", sum.Attempted),
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
		zap.Int("api_calls", sum.APICalls),
	)
	return sum, nil
}

// collectStations builds the input set: flagged records in reprocess mode,
// otherwise upstream stations minus the ones already processed.
func (o *Orchestrator) collectStations(ctx context.Context) ([]model.Station, error) {
	if o.cfg.Reprocess {
		pending := o.results.Pending()
		stations := make([]model.Station, 0, len(pending))
		for _, rec := range pending {
			stations = append(stations, rec.Station())
		}
		if o.cfg.Limit > 0 && len(stations) > o.cfg.Limit {
			stations = stations[:o.cfg.Limit]
		}
		zap.L().Info("found stations marked for re-geocoding", zap.Int("count", len(stations)))
		return stations, nil
	}

	fetched, err := o.source.FetchUngeocoded(ctx, 0)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: fetch stations")
	}
	stations := make([]model.Station, 0, len(fetched))
	for _, st := range fetched {
		if o.progress.Contains(st.UUID) {
			continue
		}
		stations = append(stations, st)
		if o.cfg.Limit > 0 && len(stations) >= o.cfg.Limit {
			break
		}
	}
	return stations, nil
}

// geocodeStation tries each extracted candidate in priority order until one
// resolves; the first success wins. The returned error is non-nil only for
// context cancellation.
func (o *Orchestrator) geocodeStation(ctx context.Context, st model.Station) (model.GeocodedRecord, bool, error) {
	log := zap.L()

	candidates := o.extractor.Extract(st)
	if len(candidates) == 0 {
		log.Warn("no locations extracted", zap.String("name", st.Name))
		return model.GeocodedRecord{}, false, nil
	}

	for _, cand := range candidates {
		res, err := o.resolver.Resolve(ctx, cand.Text, st.Country, cand.Category)
		if err != nil {
			return model.GeocodedRecord{}, false, err
		}
		if res == nil {
			continue
		}

		rec, err := model.NewRecord(st, cand, *res, time.Now())
		if err != nil {
			log.Warn("skipping station", zap.Error(err))
			return model.GeocodedRecord{}, false, nil
		}
		log.Info("geocoded station",
			zap.String("name", st.Name),
			zap.String("place", res.PlaceName),
			zap.String("confidence", string(res.Confidence)),
		)
		return rec, true, nil
	}

	log.Warn("failed to geocode", zap.String("name", st.Name))
	return model.GeocodedRecord{}, false, nil
}

func (o *Orchestrator) checkpoint() error {
	if err := o.progress.Save(); err != nil {
		return err
	}
	return o.results.Save()
}
