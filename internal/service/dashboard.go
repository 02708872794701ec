package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/libris-ui/internal/domain/model"
	apperrors "github.com/target/libris-ui/internal/errors"
	"github.com/target/libris-ui/internal/ports"
)

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Gateway ports.LibraryGateway // Required
	Logger  *slog.Logger         // Optional
	Now     func() time.Time     // Optional
}

// DashboardService assembles the admin overview.
type DashboardService struct {
	gateway ports.LibraryGateway
	logger  *slog.Logger
	now     func() time.Time
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	if opts.Gateway == nil {
		panic("LibraryGateway is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &DashboardService{gateway: opts.Gateway, logger: logger.With("component", "dashboard_service"), now: now}
}

// Stats returns the aggregate counters stamped with the fetch time.
func (s *DashboardService) Stats(ctx context.Context, token string) (model.DashboardStats, error) {
	stats, err := s.gateway.DashboardStats(ctx, token)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	stats.LastUpdated = s.now()
	return stats, nil
}

// AdminOverview fetches stats and the catalog concurrently. A stats failure is
// carried in StatsError so the catalog still renders, unless it is an auth or
// privilege failure, which aborts the whole page.
func (s *DashboardService) AdminOverview(ctx context.Context, token string) (model.AdminOverview, error) {
	var (
		overview model.AdminOverview
		statsErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.Stats(gctx, token)
		if err != nil {
			if sessionFatal(err) {
				return err
			}
			statsErr = err
			return nil
		}
		overview.Stats = stats
		return nil
	})
	g.Go(func() error {
		books, err := s.gateway.ListBooks(gctx, token)
		if err != nil {
			return fmt.Errorf("list books: %w", err)
		}
		overview.Books = books
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.AdminOverview{}, fmt.Errorf("admin overview: %w", err)
	}

	if statsErr != nil {
		s.logger.WarnContext(ctx, "dashboard stats unavailable", "error", statsErr)
		overview.StatsError = statsErr
	}
	return overview, nil
}

func sessionFatal(err error) bool {
	switch apperrors.KindOf(err) {
	case apperrors.KindAuth, apperrors.KindAuthorization:
		return true
	default:
		return false
	}
}
