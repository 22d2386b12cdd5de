package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/isdelr/board-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const jobTimeout = 30 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ProbeResult is the outcome of a store health probe.
type ProbeResult struct {
	Status    string    `json:"status"` // "up" or "down"
	CheckedAt time.Time `json:"checkedAt"`
	Error     string    `json:"-"`
}

// Up reports whether the probe reached the store.
func (p ProbeResult) Up() bool {
	return p.Status == "up"
}

// Options configures the maintenance jobs.
type Options struct {
	HealthCheckSchedule string
	EventPruneSchedule  string
	EventRetention      time.Duration
}

// Scheduler runs the periodic maintenance jobs: a store health probe and
// pruning of old activity events.
type Scheduler struct {
	db        Pinger
	eventSvc  services.EventServiceProvider
	retention time.Duration
	cron      *cron.Cron
	now       func() time.Time

	mu        sync.RWMutex
	lastProbe ProbeResult
	probed    bool
}

// NewScheduler creates a new scheduler instance. It fails if either cron
// expression cannot be parsed.
func NewScheduler(db Pinger, eventSvc services.EventServiceProvider, opts Options) (*Scheduler, error) {
	s := &Scheduler{
		db:        db,
		eventSvc:  eventSvc,
		retention: opts.EventRetention,
		cron:      cron.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}

	if _, err := s.cron.AddFunc(opts.HealthCheckSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.Probe(ctx)
	}); err != nil {
		return nil, fmt.Errorf("invalid health check schedule %q: %w", opts.HealthCheckSchedule, err)
	}

	if _, err := s.cron.AddFunc(opts.EventPruneSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.PruneEvents(ctx)
	}); err != nil {
		return nil, fmt.Errorf("invalid event prune schedule %q: %w", opts.EventPruneSchedule, err)
	}

	return s, nil
}

// Start probes the store once and then runs the jobs in the background.
func (s *Scheduler) Start(ctx context.Context) {
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("Starting background scheduler")
	s.Probe(ctx)
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs, up to ctx's deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	log.Info().Msg("Stopping background scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		log.Warn().Msg("Scheduler jobs still running at shutdown")
	}
}

// Probe pings the store and records the result.
func (s *Scheduler) Probe(ctx context.Context) ProbeResult {
	result := ProbeResult{Status: "up", CheckedAt: s.now()}
	if err := s.db.PingContext(ctx); err != nil {
		result.Status = "down"
		result.Error = err.Error()
		log.Error().Err(err).Msg("Store health probe failed")
	}

	s.mu.Lock()
	s.lastProbe = result
	s.probed = true
	s.mu.Unlock()
	return result
}

// LastProbe returns the most recent probe result, if any probe has run.
func (s *Scheduler) LastProbe() (ProbeResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastProbe, s.probed
}

// PruneEvents deletes activity events older than the retention window.
func (s *Scheduler) PruneEvents(ctx context.Context) {
	n, err := s.eventSvc.Prune(ctx, s.retention)
	if err != nil {
		log.Error().Err(err).Dur("retention", s.retention).Msg("Failed to prune events")
		return
	}
	log.Debug().Int64("pruned", n).Msg("Event pruning finished")
}
