package main

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config()
	cfg.logger.Debug("configuration loaded")

	scheduler := NewScheduler(cfg, cfg.prewarmInterval)
	cfg.logger.Info("starting scheduler", "prewarm", cfg.prewarmInterval.String())
	scheduler.Start()

	mux := http.NewServeMux()

	mux.HandleFunc("/api/tonightplan", cfg.handlerTonightPlan)
	mux.HandleFunc("/api/skyquality", cfg.handlerSkyQuality)
	mux.HandleFunc("/api/events", cfg.handlerEvents)
	mux.HandleFunc("/api/isspasses", cfg.handlerISSPasses)
	mux.HandleFunc("/api/darksky", cfg.handlerDarkSky)
	mux.HandleFunc("/api/config", cfg.handlerConfig)
	mux.Handle("/metrics", promhttp.Handler())

	if cfg.devMode {
		cfg.logger.Debug("development mode enabled. Registering /dev endpoints.")
		mux.HandleFunc("/dev/flushcache", cfg.handlerFlushCache)
		mux.HandleFunc("/dev/prewarm", scheduler.handlerRunPrewarm)
	}

	server := &http.Server{
		Addr:    ":" + cfg.port,
		Handler: corsMiddleware(metricsMiddleware(mux)),
	}

	cfg.logger.Info("starting server", "port", cfg.port)
	err := server.ListenAndServe()
	if err != nil {
		cfg.logger.Error("server startup failed", "error", err)
		os.Exit(1)
	}
}
