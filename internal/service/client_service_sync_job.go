// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-otp-keeper/internal/logger"
)

const defaultSyncInterval = 5 * time.Minute

type syncJob struct {
	coordinator SyncCoordinator
	entries     EntryService
	interval    time.Duration
	logger      *logger.Logger

	// trigger holds at most one pending request.
	trigger chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a job that runs coordinator.Sync every interval and on
// Trigger, followed by entries.FlushOrder when entries is not nil. If
// interval is zero or negative it defaults to 5 minutes. The job is idle
// until Start is called.
func NewSyncJob(coordinator SyncCoordinator, entries EntryService, interval time.Duration, logger *logger.Logger) SyncJob {
	if interval <= 0 {
		interval = defaultSyncInterval
	}

	return &syncJob{
		coordinator: coordinator,
		entries:     entries,
		interval:    interval,
		logger:      logger,
		trigger:     make(chan struct{}, 1),
	}
}

// Start implements SyncJob. The goroutine exits when ctx is cancelled or
// Stop is called.
func (j *syncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
			case <-j.trigger:
			}
			j.runCycle(jobCtx)
		}
	}()
}

func (j *syncJob) runCycle(ctx context.Context) {
	_, err := j.coordinator.Sync(ctx)
	if errors.Is(err, ErrSyncInProgress) {
		// changes made during the running cycle may have missed it
		j.logger.Debug().Str("func", "syncJob.runCycle").Msg("sync already running, queueing follow-up cycle")
		_, err = j.coordinator.SyncAfterCurrent(ctx)
	}

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		return
	default:
		j.logger.Err(err).Str("func", "syncJob.runCycle").Msg("sync cycle failed, retrying on next trigger")
		return
	}

	if j.entries == nil {
		return
	}
	if err = j.entries.FlushOrder(ctx); err != nil {
		j.logger.Err(err).Str("func", "syncJob.runCycle").Msg("order push failed")
	}
}

// Trigger implements SyncJob. It never blocks.
func (j *syncJob) Trigger() {
	select {
	case j.trigger <- struct{}{}:
	default:
	}
}

// Stop implements SyncJob. Safe to call when the job is not running.
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
