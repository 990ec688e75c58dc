// Package scheduler runs periodic capability derivation for the town store.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"town-discovery/town-service/internal/models"
)

// Deriver recomputes hobby capabilities for every stored town.
type Deriver interface {
	DeriveCapabilities(ctx context.Context) (*models.CapabilityRun, error)
}

// Scheduler wraps robfig/cron and manages the capability refresh loop.
type Scheduler struct {
	cron    *cron.Cron
	deriver Deriver
	spec    string
	startup sync.WaitGroup
}

// New creates a Scheduler that fires every intervalHours hours.
func New(deriver Deriver, intervalHours int) *Scheduler {
	logger := slogAdapter{log: slog.Default().With("component", "scheduler")}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		deriver: deriver,
		spec:    fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. One derivation pass runs
// immediately so fresh towns get capabilities without waiting for a tick. It
// goes through the same job chain as the ticks, so a tick that fires while it
// is still running is skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) })
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	job := s.cron.Entry(id).WrappedJob

	s.cron.Start()
	slog.Info("capability scheduler started", "spec", s.spec)

	s.startup.Add(1)
	go func() {
		defer s.startup.Done()
		job.Run()
	}()
	return nil
}

// Stop stops the scheduler and waits for running jobs, including the
// start-up pass, to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.startup.Wait()
	slog.Info("capability scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	run, err := s.deriver.DeriveCapabilities(ctx)
	if err != nil {
		slog.Error("capability derivation failed", "error", err)
		return
	}
	slog.Info("capability derivation complete", "scanned", run.Scanned, "updated", run.Updated)
}

// slogAdapter satisfies cron.Logger on top of slog.
type slogAdapter struct {
	log *slog.Logger
}

func (a slogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.log.Debug(msg, keysAndValues...)
}

func (a slogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.log.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
