package statistics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"pharmaduty-go/internal/cache"
	"pharmaduty-go/internal/domain/schedule"
	"pharmaduty-go/pkg/logger"
)

type Service struct {
	repo  Repository
	cache cache.Store
	ttl   time.Duration
	loc   *time.Location
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, store cache.Store, ttl time.Duration, loc *time.Location, log logger.Logger) *Service {
	if store == nil {
		store = cache.Noop()
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, cache: store, ttl: ttl, loc: loc, log: log, now: time.Now}
}

// Summary is cached for the configured TTL; writes that change the counts invalidate it.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var cached Summary
	ok, err := cache.GetJSON(ctx, s.cache, cache.KeyStatistics, &cached)
	if err != nil {
		s.log.InternalError("statistics.summary: cache read failed", err)
	}
	if ok {
		return cached, nil
	}

	summary, err := s.compute(ctx)
	if err != nil {
		return Summary{}, err
	}
	if err := cache.SetJSON(ctx, s.cache, cache.KeyStatistics, summary, s.ttl); err != nil {
		s.log.InternalError("statistics.summary: cache write failed", err)
	}
	return summary, nil
}

func (s *Service) compute(ctx context.Context) (Summary, error) {
	now := s.now().In(s.loc)
	today := schedule.Date(now, s.loc)
	clock := now.Format(schedule.ClockLayout)
	first, last := schedule.MonthRange(today.Year(), today.Month())

	var summary Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.TotalPharmacies, err = s.repo.CountPharmacies(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.ActivePharmacies, err = s.repo.CountActivePharmacies(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.Neighborhoods, err = s.repo.CountNeighborhoods(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.OnDutyToday, err = s.repo.CountOnDuty(gctx, today)
		return err
	})
	g.Go(func() (err error) {
		summary.OnDutyNow, err = s.repo.CountOnDutyAt(gctx, today, clock)
		return err
	})
	g.Go(func() (err error) {
		summary.SchedulesThisMonth, err = s.repo.CountSchedulesBetween(gctx, first, last)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return summary, nil
}
