package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Misadov/radiomap/internal/fetcher"
	"github.com/Misadov/radiomap/internal/pipeline"
	"github.com/Misadov/radiomap/internal/store"
	"github.com/Misadov/radiomap/pkg/geocode"
)

var (
	runLimit     int
	runOutput    string
	runReprocess string
	runToken     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Geocode stations without coordinates",
	Long:  "Fetches stations lacking coordinates from Radio Browser and geocodes them via Mapbox. With --reprocess, only records flagged needs_regeocoding in the given file are resolved, updated in place.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		token := runToken
		if token == "" {
			token = cfg.Mapbox.Token
		}
		if token == "" {
			return eris.New("mapbox token is required (set MAPBOX_TOKEN or use --mapbox-token)")
		}

		log := zap.L().With(zap.String("command", "run"))

		outputPath := runOutput
		if outputPath == "" {
			outputPath = cfg.Run.OutputFile
		}
		reprocess := runReprocess != ""
		if reprocess {
			outputPath = runReprocess
			log.Info("reprocessing flagged stations", zap.String("file", outputPath))
		}

		results, err := store.Open(outputPath)
		if err != nil {
			return err
		}
		progress, err := store.LoadProgress(cfg.Run.ProgressFile)
		if err != nil {
			return err
		}

		opts := []geocode.Option{geocode.WithRateCeiling(cfg.Mapbox.RateCeiling)}
		if cfg.Mapbox.CacheEnabled {
			cache, cacheErr := geocode.OpenCache(cfg.Mapbox.CachePath)
			if cacheErr != nil {
				return cacheErr
			}
			defer cache.Close()
			opts = append(opts, geocode.WithPersistentCache(cache))
		}
		resolver := geocode.NewResolver(token, opts...)

		src := fetcher.NewClient(
			fetcher.WithBaseURL(cfg.Fetcher.BaseURL),
			fetcher.WithPageSize(cfg.Fetcher.PageSize),
		)

		orch := pipeline.New(src, resolver, results, progress, pipeline.Config{
			BatchSize:    cfg.Run.BatchSize,
			Limit:        runLimit,
			Reprocess:    reprocess,
			ShowProgress: true,
		})

		sum, err := orch.Run(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Geocoding completed: %d attempted, %d succeeded, %d failed, %d API calls\n",
			sum.Attempted, sum.Succeeded, sum.Failed, sum.APICalls)
		fmt.Printf("Results saved to: %s\n", outputPath)
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "limit number of stations to process (0 = all)")
	runCmd.Flags().StringVar(&runOutput, "output", "", "output file (default from config)")
	runCmd.Flags().StringVar(&runReprocess, "reprocess", "", "reprocess stations marked for re-geocoding from this file")
	runCmd.Flags().StringVar(&runToken, "mapbox-token", "", "Mapbox API token (overrides config)")
	rootCmd.AddCommand(runCmd)
}
