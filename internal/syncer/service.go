// filepath: internal/syncer/service.go
package syncer

import (
	"cidcheck/internal/logging"
	"context"
	"errors"
	"sync"
	"time"
)

// MinInterval is the shortest period accepted for scheduled syncs.
const MinInterval = 1 * time.Minute

// Service provides the background worker for scheduled syncs.
type Service struct {
	Deps      Dependencies
	Opts      Options
	Interval  time.Duration // 0 disables scheduled runs
	OnStartup bool
	Report    Reporter

	timer  *time.Timer
	ctx    context.Context
	cancel context.CancelFunc
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewService creates a new scheduled sync worker.
func NewService(deps Dependencies, opts Options, interval time.Duration, onStartup bool) *Service {
	if interval > 0 && interval < MinInterval {
		interval = MinInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		Deps:      deps,
		Opts:      opts,
		Interval:  interval,
		OnStartup: onStartup,
		ctx:       ctx,
		cancel:    cancel,
		stopCh:    make(chan struct{}),
	}
}

// Enabled reports whether Start would schedule any run.
func (s *Service) Enabled() bool {
	return s.Interval > 0 || s.OnStartup
}

// Start kicks off the background sync worker.
func (s *Service) Start() {
	if !s.Enabled() {
		logging.Log.Info("Scheduled Drive sync is disabled.")
		return
	}

	first := s.Interval
	if s.OnStartup {
		first = 0
	}
	logging.Log.Infof("Starting scheduled Drive sync (interval %v, first run in %v).", s.Interval, first)
	s.timer = time.NewTimer(first)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.timer.C:
				s.runOnce()
				if s.Interval == 0 {
					return
				}
				s.timer.Reset(s.Interval)
				logging.Log.Infof("Next Drive sync scheduled in %v.", s.Interval)
			case <-s.stopCh:
				s.timer.Stop()
				return
			}
		}
	}()
}

// Stop cancels a running sync and waits for the worker to exit.
func (s *Service) Stop() {
	logging.Log.Info("Stopping scheduled Drive sync.")
	s.cancel()
	close(s.stopCh)
	s.wg.Wait()
}

func (s *Service) runOnce() {
	opts := s.Opts
	opts.SyncID = ""
	report, err := Run(s.ctx, s.Deps, opts)
	switch {
	case errors.Is(err, ErrSyncInProgress):
		logging.Log.Info("Skipping scheduled sync: another sync is running.")
	case err != nil:
		logging.Log.Errorf("Scheduled sync failed: %v", err)
	}
	if s.Report != nil {
		s.Report(report, err)
	}
}
