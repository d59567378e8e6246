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

	"github.com/sells-group/wellprox/internal/model"
	"github.com/sells-group/wellprox/internal/proximity"
	"github.com/sells-group/wellprox/internal/render"
)

var servePort int

// analyzeRequest is the POST /api/analyze body.
type analyzeRequest struct {
	Address         string          `json:"address"`
	Latitude        *float64        `json:"latitude"`
	Longitude       *float64        `json:"longitude"`
	BoundaryGeoJSON json.RawMessage `json:"boundary_geojson"`
	RadiusDegrees   float64         `json:"radius_degrees"`
	TopN            int             `json:"top_n"`
}

// buildRouter assembles the HTTP API over the given analyzer.
func buildRouter(analyzer *proximity.Analyzer) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Post("/api/analyze", func(w http.ResponseWriter, req *http.Request) {
		var body analyzeRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		preq := proximity.Request{
			Address:         body.Address,
			BoundaryGeoJSON: body.BoundaryGeoJSON,
			RadiusDeg:       body.RadiusDegrees,
			TopN:            body.TopN,
		}
		if (body.Latitude == nil) != (body.Longitude == nil) {
			writeError(w, http.StatusBadRequest, "latitude and longitude must be given together")
			return
		}
		if body.Latitude != nil {
			pt := model.GeoPoint{Lat: *body.Latitude, Lng: *body.Longitude}
			if !pt.Valid() {
				writeError(w, http.StatusBadRequest, "coordinates out of range")
				return
			}
			preq.Target = &pt
		} else if body.Address == "" {
			writeError(w, http.StatusBadRequest, "address or latitude/longitude is required")
			return
		}

		report, err := analyzer.Analyze(req.Context(), preq)
		if err != nil {
			if eris.Is(err, proximity.ErrAddressNotFound) {
				writeError(w, http.StatusUnprocessableEntity, "address could not be geocoded")
				return
			}
			zap.L().Error("analysis failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "analysis failed")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if req.URL.Query().Get("format") == "geojson" {
			data, err := render.GeoJSON(report)
			if err != nil {
				zap.L().Error("geojson render failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "render failed")
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(data)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(report)
	})

	return r
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env, err := initAnalysis(serveWellsFile)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: buildRouter(env.Analyzer),
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

var serveWellsFile string

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveWellsFile, "wells", "", "serve analyses from a local well dataset instead of the Enverus API")
	rootCmd.AddCommand(serveCmd)
}
