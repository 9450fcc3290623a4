package neighborhood

import (
	"context"
	"time"

	"pharmaduty-go/internal/cache"
	"pharmaduty-go/pkg/logger"
)

type Service struct {
	repo  Repository
	cache cache.Store
	ttl   time.Duration
	log   logger.Logger
}

func NewService(repo Repository, store cache.Store, ttl time.Duration, log logger.Logger) *Service {
	if store == nil {
		store = cache.Noop()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, cache: store, ttl: ttl, log: log}
}

// List is read-through cached; a cache failure degrades to a database read.
func (s *Service) List(ctx context.Context) ([]Neighborhood, error) {
	var cached []Neighborhood
	ok, err := cache.GetJSON(ctx, s.cache, cache.KeyNeighborhoods, &cached)
	if err != nil {
		s.log.InternalError("neighborhoods.list: cache read failed", err)
	}
	if ok {
		return cached, nil
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, s.cache, cache.KeyNeighborhoods, items, s.ttl); err != nil {
		s.log.InternalError("neighborhoods.list: cache write failed", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Neighborhood, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id uint) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// Seed inserts the default neighborhoods that are missing. Running it again is a no-op.
// The neighborhoods list and statistics caches are invalidated whenever rows were added.
func (s *Service) Seed(ctx context.Context) (int64, error) {
	inserted, err := s.repo.InsertMissing(ctx, Defaults())
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		if err := s.cache.Delete(ctx, cache.KeyNeighborhoods, cache.KeyStatistics); err != nil {
			s.log.InternalError("neighborhoods.seed: cache invalidation failed", err)
		}
	}
	return inserted, nil
}
