// Package scheduler refreshes the cached reference data (genres and regions) on
// a cron schedule and on demand.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/handsomefox/movie-discovery/internal/logger"
	"github.com/handsomefox/movie-discovery/internal/timing"
)

type Refresher interface {
	Refresh(ctx context.Context, locale string) error
}

type Target struct {
	Name      string
	Refresher Refresher
}

type Config struct {
	// Spec is a standard five field cron expression.
	Spec    string
	Locales []string
	// Timeout bounds one full refresh run.
	Timeout time.Duration
	// Debounce coalesces manual triggers.
	Debounce time.Duration
}

type Status struct {
	Running   bool      `json:"running"`
	Next      time.Time `json:"next,omitzero"`
	LastRun   time.Time `json:"last_run,omitzero"`
	LastError string    `json:"last_error,omitempty"`
}

type Scheduler struct {
	cron    *cron.Cron
	cfg     Config
	targets []Target

	trigger      func()
	stopDebounce func()

	mu      sync.Mutex
	running bool
	entry   cron.EntryID
	lastRun time.Time
	lastErr error
}

func New(cfg Config, targets ...Target) (*Scheduler, error) {
	if _, err := cron.ParseStandard(cfg.Spec); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}
	if len(cfg.Locales) == 0 {
		return nil, errors.New("at least one locale is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}

	s := &Scheduler{
		cron:    cron.New(),
		cfg:     cfg,
		targets: targets,
	}
	s.trigger, s.stopDebounce = timing.Debounce(s.runScheduled, cfg.Debounce)
	return s, nil
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler already running")
	}
	id, err := s.cron.AddFunc(s.cfg.Spec, s.runScheduled)
	if err != nil {
		return err
	}
	s.entry = id
	s.cron.Start()
	s.running = true
	slog.Info("refresh scheduler started", slog.String("cron", s.cfg.Spec))
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.stopDebounce()

	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cron.Remove(s.entry)
	done := s.cron.Stop()
	s.mu.Unlock()

	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	slog.Info("refresh scheduler stopped")
}

// Trigger requests a refresh. Bursts of triggers collapse into one run.
func (s *Scheduler) Trigger() { s.trigger() }

func (s *Scheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()
	if err := s.RunOnce(ctx); err != nil {
		slog.Warn("scheduled refresh failed", logger.Error(err))
	}
}

// RunOnce refreshes every target for every locale. One failure does not stop the
// others; all errors are joined.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()
	var errs []error
	for _, locale := range s.cfg.Locales {
		for _, t := range s.targets {
			if err := ctx.Err(); err != nil {
				errs = append(errs, err)
				break
			}
			if err := t.Refresher.Refresh(ctx, locale); err != nil {
				errs = append(errs, fmt.Errorf("refresh %s (%s): %w", t.Name, locale, err))
			}
		}
	}
	err := errors.Join(errs...)

	s.mu.Lock()
	s.lastRun = start.UTC()
	s.lastErr = err
	s.mu.Unlock()

	slog.Info("reference data refreshed",
		slog.Int("locales", len(s.cfg.Locales)),
		slog.Int("failures", len(errs)),
		slog.Duration("took", time.Since(start)),
	)
	return err
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{Running: s.running, LastRun: s.lastRun}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	if s.running {
		st.Next = s.cron.Entry(s.entry).Next
	}
	return st
}
