package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taskledger/taskledger-api/internal/domain"
	"github.com/taskledger/taskledger-api/internal/platform/logger"
	"github.com/taskledger/taskledger-api/internal/store"
)

// DefaultDashboardTimeout bounds report assembly when no timeout is
// configured.
const DefaultDashboardTimeout = 5 * time.Second

// DefaultDueSoonDays is the due-soon window when none is configured:
// today plus the next three days.
const DefaultDueSoonDays = 3

// DashboardService assembles per-user dashboard reports. The numbers are
// recomputed from the store on every call; nothing is cached.
type DashboardService interface {
	// Generate builds the actor's report. It fails as a whole with
	// ErrAggregationFailed when any sub-query errors or the deadline
	// passes; partial reports are never returned.
	Generate(ctx context.Context, actor *domain.Actor) (*domain.DashboardReport, error)
}

type dashboardServiceImpl struct {
	itemStore   store.ItemStore
	dueSoonDays int
	timeout     time.Duration
	logger      *slog.Logger
}

// NewDashboardService creates a DashboardService over itemStore.
// Non-positive dueSoonDays or timeout fall back to the defaults.
func NewDashboardService(
	itemStore store.ItemStore,
	dueSoonDays int,
	timeout time.Duration,
	logger *slog.Logger,
) (DashboardService, error) {
	if itemStore == nil {
		return nil, domain.NewValidationError("itemStore", "cannot be nil", domain.ErrValidation)
	}
	if dueSoonDays <= 0 {
		dueSoonDays = DefaultDueSoonDays
	}
	if timeout <= 0 {
		timeout = DefaultDashboardTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &dashboardServiceImpl{
		itemStore:   itemStore,
		dueSoonDays: dueSoonDays,
		timeout:     timeout,
		logger:      logger.With(slog.String("component", "dashboard_service")),
	}, nil
}

// Generate implements DashboardService.Generate
//
// The two independent sub-queries (completion counts and the due-soon
// count) run on their own goroutines and are joined before the report is
// assembled. The report is always scoped to the actor, admins included.
func (s *dashboardServiceImpl) Generate(ctx context.Context, actor *domain.Actor) (*domain.DashboardReport, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if actor == nil {
		return nil, fmt.Errorf("%w: missing actor", ErrForbidden)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		wg                    sync.WaitGroup
		total, completed      int64
		dueSoon               int64
		countsErr, dueSoonErr error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		total, countsErr = s.itemStore.CountByOwner(ctx, actor.ID)
		if countsErr != nil {
			return
		}
		completed, countsErr = s.itemStore.CountCompletedByOwner(ctx, actor.ID)
	}()

	go func() {
		defer wg.Done()
		// The window covers every due date on days [today, today+dueSoonDays],
		// so the half-open upper bound is midnight after the last day. Due
		// dates carry a time of day and the store compares timestamps.
		// Completion state does not narrow the window.
		start := time.Now().UTC().Truncate(24 * time.Hour)
		end := start.AddDate(0, 0, s.dueSoonDays+1)
		dueSoon, dueSoonErr = s.itemStore.CountDueBetween(ctx, actor.ID, start, end)
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Warn("dashboard aggregation timed out",
			slog.String("owner_id", actor.ID.String()),
			slog.Duration("timeout", s.timeout))
		return nil, fmt.Errorf("%w: %v", ErrAggregationFailed, ctx.Err())
	}

	if countsErr != nil {
		log.Error("dashboard counts query failed",
			slog.String("owner_id", actor.ID.String()),
			slog.String("error", countsErr.Error()))
		return nil, fmt.Errorf("%w: %v", ErrAggregationFailed, countsErr)
	}
	if dueSoonErr != nil {
		log.Error("dashboard due-soon query failed",
			slog.String("owner_id", actor.ID.String()),
			slog.String("error", dueSoonErr.Error()))
		return nil, fmt.Errorf("%w: %v", ErrAggregationFailed, dueSoonErr)
	}

	return domain.NewDashboardReport(total, completed, dueSoon), nil
}
