package scheduler

import (
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/tminusrain/parade-forecast/internal/forecast"
	"github.com/tminusrain/parade-forecast/internal/metrics"
)

// Scheduler periodically precomputes forecasts for the upcoming whole hours
// so the recent-forecasts endpoint always has fresh entries.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *forecast.Service
	interval  time.Duration
	hours     int
	city      string
}

// New creates a Scheduler precomputing the next `hours` hourly forecasts
// every `interval`.
func New(service *forecast.Service, interval time.Duration, hours int, city string) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
		hours:     hours,
		city:      city,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.hours <= 0 {
		log.Println("scheduler: precompute disabled; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// runOnce computes one forecast per upcoming whole hour through the regular
// service path, so results land in the history store with the usual metrics.
func (s *Scheduler) runOnce() {
	log.Println("scheduler: running forecast precompute job")

	base := time.Now().UTC().Truncate(time.Hour)
	for h := 1; h <= s.hours; h++ {
		at := base.Add(time.Duration(h) * time.Hour)
		req := forecast.Request{City: s.city, Datetime: at.Format(time.RFC3339)}

		if _, err := s.service.Forecast(req); err != nil {
			if errors.Is(err, forecast.ErrModelUnavailable) {
				// Degraded mode is permanent for the process lifetime; no
				// point walking the remaining hours.
				log.Println("scheduler: model unavailable; skipping precompute run")
				return
			}
			log.Printf("scheduler: precompute failed for %s: %v", at.Format(time.RFC3339), err)
			continue
		}
		metrics.PrecomputedForecastsTotal.Inc()
	}

	log.Println("scheduler: completed forecast precompute job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
