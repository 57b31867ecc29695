package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Misadov/radiomap/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "radiomap",
	Short: "Radio station geocoding pipeline",
	Long:  "Enriches radio-station records lacking coordinates: extracts place-name candidates from multilingual station names and resolves them via the Mapbox geocoding API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
