package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Misadov/radiomap/internal/store"
)

var (
	servePort int
	serveFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the geocoded dataset over HTTP",
	Long:  "Read-only HTTP API over a geocoded results file: health, statistics, and station search by name.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		path := serveFile
		if path == "" {
			path = cfg.Run.OutputFile
		}
		results, err := store.Open(path)
		if err != nil {
			return err
		}

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
			st := results.Stats()
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]int{
				"total":   st.Total,
				"settled": st.Settled,
				"pending": st.Pending,
			})
		})

		mux.HandleFunc("GET /stations", func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query().Get("name")
			if query == "" {
				http.Error(w, `{"error":"name query parameter is required"}`, http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(results.Search(query))
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.String("file", path))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveFile, "file", "", "geocoded results file (default from config)")
	rootCmd.AddCommand(serveCmd)
}
