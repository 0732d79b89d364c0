package main

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Scheduler periodically pre-warms the tonight plan for a set of
// locations so the common request is a cache hit instead of a full
// provider fan-out. The default set is just the default location;
// dev-mode deployments can trigger a run manually.
type Scheduler struct {
	cfg        *apiConfig
	prewarmC   <-chan time.Time
	stop       chan struct{}
	ticker     *time.Ticker
	locations  []Coordinates
	prewarmJob func()
}

func NewScheduler(cfg *apiConfig, interval time.Duration) *Scheduler {
	ticker := time.NewTicker(interval)
	s := &Scheduler{
		cfg:       cfg,
		prewarmC:  ticker.C,
		stop:      make(chan struct{}),
		ticker:    ticker,
		locations: []Coordinates{defaultLocation},
	}
	s.prewarmJob = s.runPrewarmJobs
	return s
}

func (s *Scheduler) Start() {
	go func() {
		for {
			select {
			case <-s.prewarmC:
				s.cfg.logger.Info("scheduler: pre-warming tonight plans")
				s.prewarmJob()
			case <-s.stop:
				s.cfg.logger.Info("scheduler: stopping")
				s.ticker.Stop()
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	close(s.stop)
}

// runPrewarmJobs composes the plan for each tracked location. The cache
// lookup inside tonightPlan makes the run cheap when the entry is still
// fresh; a cold or expired entry triggers the full fan-out and re-caches.
func (s *Scheduler) runPrewarmJobs() {
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, coords := range s.locations {
		wg.Add(1)
		go func(coords Coordinates) {
			defer wg.Done()
			if _, err := s.cfg.tonightPlan(ctx, coords, time.Now()); err != nil {
				s.cfg.logger.Warn("scheduler: pre-warm failed", "lat", coords.Lat, "lng", coords.Lng, "error", err)
				return
			}
			s.cfg.logger.Debug("scheduler: plan pre-warmed", "lat", coords.Lat, "lng", coords.Lng)
		}(coords)
	}
	wg.Wait()
	s.cfg.logger.Debug("scheduler: pre-warm cycle completed")
}

// handlerRunPrewarm is a development-only endpoint that resets the ticker
// and kicks off an immediate pre-warm run in the background.
func (s *Scheduler) handlerRunPrewarm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	if !s.cfg.allowRequest(w, r, rateClassWrite) {
		return
	}
	s.cfg.logger.Info("manual pre-warm triggered")

	s.ticker.Reset(s.cfg.prewarmInterval)

	go func() {
		s.prewarmJob()
		s.cfg.logger.Info("manual pre-warm finished")
	}()

	s.cfg.respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "pre-warm triggered"})
}
