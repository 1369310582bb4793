package services

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// RetentionService periodically drops idle sessions. The core pipeline
// itself never expires anything; this is the surrounding layer's policy,
// enabled only when SESSION_TTL is set.
type RetentionService struct {
	scheduler gocron.Scheduler
	store     *SessionStore
	ttl       time.Duration
	interval  time.Duration
}

// NewRetentionService creates a retention sweeper for the session store.
func NewRetentionService(store *SessionStore, ttl, interval time.Duration) (*RetentionService, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &RetentionService{
		scheduler: scheduler,
		store:     store,
		ttl:       ttl,
		interval:  interval,
	}, nil
}

// Start registers the sweep job and starts the scheduler.
func (r *RetentionService) Start() error {
	_, err := r.scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() {
			r.store.Sweep(r.ttl)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to register sweep job: %w", err)
	}

	r.scheduler.Start()
	log.Printf("⏰ Session retention sweeper started (ttl: %s, every %s)", r.ttl, r.interval)
	return nil
}

// Stop stops the scheduler
func (r *RetentionService) Stop() error {
	log.Println("⏹️ Stopping retention sweeper...")
	return r.scheduler.Shutdown()
}
