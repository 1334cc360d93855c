// Package scheduler runs the nightly sweep that evicts score and
// insight records past the retention window.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Arthurlmr/weleev-sub000/storage"
)

type Scheduler struct {
	store     storage.Store
	cron      *cron.Cron
	spec      string
	retention time.Duration
	logger    *zap.Logger
}

func New(store storage.Store, spec string, retention time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		store:     store,
		cron:      cron.New(),
		spec:      spec,
		retention: retention,
		logger:    logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec == "" {
		s.logger.Info("no sweep schedule configured")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.Sweep(ctx); err != nil {
			s.logger.Error("scheduled sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	s.logger.Info("sweep scheduler started",
		zap.String("cron", s.spec),
		zap.Duration("retention", s.retention),
	)
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep deletes score and insight records older than the retention
// window.
func (s *Scheduler) Sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.retention)

	scores, err := s.store.DeleteExpiredScores(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete expired scores: %w", err)
	}

	insights, err := s.store.DeleteExpiredInsights(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete expired insights: %w", err)
	}

	s.logger.Info("sweep completed",
		zap.Int64("scores_deleted", scores),
		zap.Int64("insights_deleted", insights),
		zap.Time("cutoff", cutoff),
	)
	return nil
}
