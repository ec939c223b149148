// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs of the marketplace.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/studentmarket-go/internal/store"
)

// Scheduler handles scheduled maintenance tasks.
type Scheduler struct {
	ads    *store.AdStore
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a new scheduler instance.
func New(ads *store.AdStore, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		ads:    ads,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start begins the scheduler with an hourly sweep of orphaned ads.
// Ads are deleted in the same transaction as their owner, so the sweep is a
// safety net for rows left behind by crashes mid-delete.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("0 * * * *", func() {
		if err := s.sweepOrphans(); err != nil {
			s.logger.Error("failed to sweep orphaned ads", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// sweepOrphans removes ads whose owner no longer exists.
func (s *Scheduler) sweepOrphans() error {
	removed, err := s.ads.DeleteOrphans(context.Background())
	if err != nil {
		return err
	}

	if removed > 0 {
		s.logger.Info("removed orphaned ads", "count", removed)
	}
	return nil
}
