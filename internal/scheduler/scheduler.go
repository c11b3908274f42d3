package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/skywatch/stargazing-api/internal/conditions"
	"github.com/skywatch/stargazing-api/internal/geo"
	"github.com/skywatch/stargazing-api/internal/store"
)

// Scheduler periodically refreshes condition snapshots for the configured
// tracked locations and every currently pinned point, keeping the condition
// caches warm.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *conditions.Service
	pins      *store.PinStore
	tracked   []geo.Point
	interval  time.Duration
}

// New creates a Scheduler.
func New(tracked []geo.Point, interval time.Duration, service *conditions.Service, pins *store.PinStore) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		pins:      pins,
		tracked:   tracked,
		interval:  interval,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		points := append([]geo.Point{}, s.tracked...)
		if s.pins != nil {
			points = append(points, s.pins.Points()...)
		}
		if len(points) == 0 {
			return
		}

		log.Printf("scheduler: refreshing conditions for %d points", len(points))

		var wg sync.WaitGroup
		for _, pt := range points {
			pt := pt
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if _, err := s.service.Fetch(ctx, pt); err != nil {
					log.Printf("scheduler: refresh failed for %s: %v", pt.Key(2), err)
				}
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed condition refresh")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
