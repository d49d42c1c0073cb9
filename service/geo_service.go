package service

import (
	"context"
	"errors"
	"go-account-api/cache"
	"go-account-api/common"
	"go-account-api/model"
	"go-account-api/repository"
	"time"
)

// GeoService handles the gender/state/city lookups with cache-aside reads.
type GeoService struct {
	repo    repository.IGeoRepository
	store   cache.Store
	readTTL time.Duration
}

func NewGeoService(repo repository.IGeoRepository, store cache.Store, readTTL time.Duration) *GeoService {
	return &GeoService{repo: repo, store: store, readTTL: readTTL}
}

// CreateGender adds a gender and invalidates the full list plus every
// paginated slot. The page/limit combinations are unbounded, so the
// paginated family can only be cleared by prefix sweep.
func (s *GeoService) CreateGender(ctx context.Context, name string) (*model.Gender, error) {
	gender := &model.Gender{Name: name}
	if err := s.repo.CreateGender(gender); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, common.NewConflict("Gender already exists")
		}
		return nil, err
	}

	invalidate(ctx, s.store, cache.AllGendersKey)
	invalidatePrefix(ctx, s.store, cache.PaginatedGendersPrefix)
	return gender, nil
}

// ListAllGenders reads the gender list through its cache.
func (s *GeoService) ListAllGenders(ctx context.Context) ([]*model.Gender, error) {
	return getThroughCache(ctx, s.store, cache.AllGendersKey, s.readTTL, func() ([]*model.Gender, error) {
		return s.repo.GetAllGenders()
	})
}

// ListGendersPaginated keys the cache on (page, limit).
func (s *GeoService) ListGendersPaginated(ctx context.Context, page, limit int) ([]*model.Gender, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	key := cache.PaginatedGendersKey(page, limit)
	return getThroughCache(ctx, s.store, key, s.readTTL, func() ([]*model.Gender, error) {
		return s.repo.GetGendersPaginated(page, limit)
	})
}

// ListAllStates reads the seeded state list through its cache.
func (s *GeoService) ListAllStates(ctx context.Context) ([]*model.State, error) {
	return getThroughCache(ctx, s.store, cache.AllStatesKey, s.readTTL, func() ([]*model.State, error) {
		return s.repo.GetAllStates()
	})
}

// CreateCity adds a city and invalidates only the parent state's list;
// city lists are keyed by parent, not globally.
func (s *GeoService) CreateCity(ctx context.Context, stateID int, name string) (*model.City, error) {
	city := &model.City{StateID: stateID, Name: name}
	if err := s.repo.CreateCity(city); err != nil {
		return nil, err
	}

	invalidate(ctx, s.store, cache.CitiesByStateKey(stateID))
	return city, nil
}

// ListCitiesByState reads a state's city list through its cache.
func (s *GeoService) ListCitiesByState(ctx context.Context, stateID int) ([]*model.City, error) {
	return getThroughCache(ctx, s.store, cache.CitiesByStateKey(stateID), s.readTTL, func() ([]*model.City, error) {
		return s.repo.GetCitiesByState(stateID)
	})
}
