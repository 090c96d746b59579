package service

import (
	"context"
	"log"
	"sync"
	"time"

	"mc-exchange-api/internal/repository"
)

// RetentionConfig holds configuration for the event retention sweeper.
type RetentionConfig struct {
	// MaxAge is how long events are kept. Zero disables the sweeper
	// entirely; the default deployment keeps everything.
	MaxAge time.Duration

	// SweepInterval is how often the sweeper runs.
	SweepInterval time.Duration
}

// RetentionSweeper periodically purges exchange events older than MaxAge.
type RetentionSweeper struct {
	repo     repository.ExchangeRepository
	config   RetentionConfig
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRetentionSweeper creates a retention sweeper.
func NewRetentionSweeper(repo repository.ExchangeRepository, config RetentionConfig) *RetentionSweeper {
	if config.SweepInterval == 0 {
		config.SweepInterval = 24 * time.Hour
	}

	return &RetentionSweeper{
		repo:   repo,
		config: config,
		stopCh: make(chan struct{}),
	}
}

// Start begins the sweep loop. A zero MaxAge makes Start a no-op.
func (s *RetentionSweeper) Start() {
	if s.config.MaxAge == 0 {
		log.Printf("[RetentionSweeper] Disabled (no max age configured)")
		return
	}

	log.Printf("[RetentionSweeper] Started - max age: %v, interval: %v",
		s.config.MaxAge, s.config.SweepInterval)

	go s.run()
}

func (s *RetentionSweeper) run() {
	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *RetentionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.config.MaxAge)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("[RetentionSweeper] Sweep error: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[RetentionSweeper] Purged %d events older than %v", deleted, s.config.MaxAge)
	}
}

// Stop halts the sweep loop.
func (s *RetentionSweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}
