package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/extract"
	"github.com/sells-group/leadgen-cli/internal/lead"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lead generation HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(cfg),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/v1/leads", handleLeads(cfg))

	return r
}

func handleLeads(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Industry string `json:"industry"`
			Country  string `json:"country"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if req.Industry == "" || req.Country == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "industry and country are required"})
			return
		}

		p, err := getPipeline(cfg)
		if err != nil {
			zap.L().Error("pipeline build failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "pipeline unavailable"})
			return
		}

		inputs := model.Inputs{Industry: req.Industry, Country: req.Country}
		result, err := p.Run(r.Context(), inputs)
		if err != nil {
			zap.L().Error("lead generation failed",
				zap.String("industry", req.Industry),
				zap.String("country", req.Country),
				zap.Error(err),
			)
			payload := map[string]string{"error": "lead generation failed"}
			if unit, ok := pipeline.IsExecutionError(err); ok {
				payload["unit"] = unit
			}
			writeJSON(w, http.StatusBadGateway, payload)
			return
		}

		leads := lead.FromRecords(extract.Extract(result.Raw))
		writeJSON(w, http.StatusOK, struct {
			RunID string       `json:"run_id"`
			Leads []model.Lead `json:"leads"`
			Usage any          `json:"usage"`
		}{result.RunID, leads, result.Usage})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
