package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"sales-insights-go/internal/config"
	"sales-insights-go/internal/dataset"
	"sales-insights-go/internal/logger"
	"sales-insights-go/internal/narrative"
	"sales-insights-go/internal/processor"
	"sales-insights-go/internal/temporal"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "sales-insights-go").Info("starting service")

	dataPath := os.Getenv("DATASET_PATH")
	if dataPath == "" {
		dataPath = "Sales_Activity_Master.xlsx"
	}
	log.WithField("dataset_path", dataPath).Info("loading workbook")
	bundle, sheets, err := dataset.LoadWorkbook(dataPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load workbook")
	}
	log.WithField("rows", bundle.Stats()).WithField("sheets", len(sheets)).Info("workbook loaded")

	params := config.Default()
	if path := os.Getenv("PARAMS_PATH"); path != "" {
		params, err = config.Load(path)
		if err != nil {
			log.WithError(err).Fatal("failed to load params")
		}
		log.WithField("params_path", path).Info("params loaded")
	}

	mux := http.NewServeMux()

	// health
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	// full analysis over the startup workbook
	mux.HandleFunc("/report", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "report")
		reqLog.Info("report request received")

		p := *params
		if tf := r.URL.Query().Get("timeframe"); tf != "" {
			if _, ok := temporal.ParseTimeframe(tf); !ok {
				reqLog.WithField("timeframe", tf).Warn("unknown timeframe")
				http.Error(w, "unknown timeframe", http.StatusBadRequest)
				return
			}
			p.Timeframe = tf
		}

		start := time.Now()
		rep, err := processor.Run(r.Context(), bundle, &p)
		reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).Info("analysis finished")
		if err != nil {
			reqLog.WithError(err).Warn("analysis returned error")
			http.Error(w, "analysis failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, reqLog, rep)
	})

	// optional executive summary over a fresh analysis
	mux.HandleFunc("/narrative", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "narrative")
		reqLog.Info("narrative request received")

		rep, err := processor.Run(r.Context(), bundle, params)
		if err != nil {
			reqLog.WithError(err).Warn("analysis returned error")
			http.Error(w, "analysis failed", http.StatusInternalServerError)
			return
		}

		summary, err := narrative.Summarize(r.Context(), rep)
		if err != nil {
			if errors.Is(err, narrative.ErrNotConfigured) {
				reqLog.Warn("narrative requested but no gateway configured")
				http.Error(w, "narrative not configured", http.StatusServiceUnavailable)
				return
			}
			reqLog.WithError(err).Warn("narrative generation failed")
			http.Error(w, "narrative generation failed", http.StatusBadGateway)
			return
		}
		writeJSON(w, reqLog, map[string]string{"run_id": rep.RunID, "summary": summary})
	})

	addr := fmt.Sprintf(":%s", envOr("PORT", "8080"))
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func writeJSON(w http.ResponseWriter, reqLog *logrus.Entry, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		reqLog.WithError(err).Error("failed to write response")
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
