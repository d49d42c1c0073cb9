package service

import (
	"context"
	"database/sql"
	"errors"
	"go-account-api/cache"
	"go-account-api/common"
	"go-account-api/logger"
	"go-account-api/model"
	"go-account-api/repository"
	"time"
)

// UserService handles user CRUD with cache-aside reads and precise
// invalidation on every mutation.
type UserService struct {
	repo      repository.IUserRepository
	tokenRepo repository.ITokenRepository
	store     cache.Store
	readTTL   time.Duration
}

func NewUserService(repo repository.IUserRepository, tokenRepo repository.ITokenRepository, store cache.Store, readTTL time.Duration) *UserService {
	return &UserService{
		repo:      repo,
		tokenRepo: tokenRepo,
		store:     store,
		readTTL:   readTTL,
	}
}

// CreateUser persists a new user (password already hashed by the caller)
// and invalidates the user list caches.
func (s *UserService) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.repo.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return common.NewConflict("Email already in use")
		}
		return err
	}

	invalidate(ctx, s.store, cache.AllUsersKey)
	invalidatePrefix(ctx, s.store, cache.PaginatedUsersPrefix)
	return nil
}

// GetUser reads a user through the getUser:<id> cache.
func (s *UserService) GetUser(ctx context.Context, id int) (*model.User, error) {
	return getThroughCache(ctx, s.store, cache.UserKey(id), s.readTTL, func() (*model.User, error) {
		user, err := s.repo.GetUserByID(id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewNotFound("User not found")
		}
		return user, err
	})
}

// GetCompleteUser reads the aggregate view through its own cache key. The
// aggregate embeds address and phone, so both sub-resource mutations
// invalidate it.
func (s *UserService) GetCompleteUser(ctx context.Context, id int) (*model.CompleteUser, error) {
	return getThroughCache(ctx, s.store, cache.CompleteUserKey(id), s.readTTL, func() (*model.CompleteUser, error) {
		user, err := s.repo.GetCompleteUser(id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewNotFound("User not found")
		}
		return user, err
	})
}

// GetUserAddress reads the address sub-resource through its cache.
func (s *UserService) GetUserAddress(ctx context.Context, userID int) (*model.Address, error) {
	return getThroughCache(ctx, s.store, cache.UserAddressKey(userID), s.readTTL, func() (*model.Address, error) {
		address, err := s.repo.GetAddress(userID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewNotFound("Address not found")
		}
		return address, err
	})
}

// GetUserPhone reads the phone sub-resource through its cache.
func (s *UserService) GetUserPhone(ctx context.Context, userID int) (*model.Phone, error) {
	return getThroughCache(ctx, s.store, cache.UserPhoneKey(userID), s.readTTL, func() (*model.Phone, error) {
		phone, err := s.repo.GetPhone(userID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewNotFound("Phone not found")
		}
		return phone, err
	})
}

// ListAllUsers reads the unpaginated list through its cache.
func (s *UserService) ListAllUsers(ctx context.Context) ([]*model.User, error) {
	return getThroughCache(ctx, s.store, cache.AllUsersKey, s.readTTL, func() ([]*model.User, error) {
		return s.repo.GetAllUsers()
	})
}

// ListUsersPaginated keys the cache on (page, limit) so each distinct
// pagination request gets its own slot.
func (s *UserService) ListUsersPaginated(ctx context.Context, page, limit int) ([]*model.User, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	key := cache.PaginatedUsersKey(page, limit)
	return getThroughCache(ctx, s.store, key, s.readTTL, func() ([]*model.User, error) {
		return s.repo.GetUsersPaginated(page, limit)
	})
}

// UpdateUser updates the user's own fields, then invalidates the
// single-entity caches and the list family.
func (s *UserService) UpdateUser(ctx context.Context, id int, req *model.UpdateUserRequest) (*model.User, error) {
	user := &model.User{ID: id, Name: req.Name, GenderID: req.GenderID}
	if err := s.repo.UpdateUser(user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewNotFound("User not found")
		}
		return nil, err
	}

	invalidate(ctx, s.store, cache.UserKey(id), cache.CompleteUserKey(id), cache.AllUsersKey)
	invalidatePrefix(ctx, s.store, cache.PaginatedUsersPrefix)
	return user, nil
}

// UpdateAddress upserts the address and invalidates it together with the
// aggregate view that embeds it.
func (s *UserService) UpdateAddress(ctx context.Context, userID int, req *model.UpdateAddressRequest) (*model.Address, error) {
	address := &model.Address{
		UserID:       userID,
		CityID:       req.CityID,
		Street:       req.Street,
		Number:       req.Number,
		ZipCode:      req.ZipCode,
		Neighborhood: req.Neighborhood,
	}
	if err := s.repo.UpsertAddress(address); err != nil {
		return nil, err
	}

	invalidate(ctx, s.store, cache.UserAddressKey(userID), cache.CompleteUserKey(userID))
	return address, nil
}

// UpdatePhone upserts the phone and invalidates it together with the
// aggregate view that embeds it.
func (s *UserService) UpdatePhone(ctx context.Context, userID int, req *model.UpdatePhoneRequest) (*model.Phone, error) {
	phone := &model.Phone{UserID: userID, DDD: req.DDD, Number: req.Number}
	if err := s.repo.UpsertPhone(phone); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, common.NewConflict("Phone number already in use")
		}
		return nil, err
	}

	invalidate(ctx, s.store, cache.UserPhoneKey(userID), cache.CompleteUserKey(userID))
	return phone, nil
}

// DeleteUser removes the user and every cache key that could reference it:
// the per-user single-entity keys (one suffix sweep), the list caches, and
// each session record that denormalizes the user's name and role.
//
// The session token ids must be read before the row delete cascades over
// them; the cache deletes still run only after the commit.
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	tokens, err := s.tokenRepo.GetRefreshTokensByUserID(id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteUser(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewNotFound("User not found")
		}
		return err
	}

	sessionKeys := make([]string, 0, len(tokens))
	for _, token := range tokens {
		sessionKeys = append(sessionKeys, cache.RefreshTokenKey(token.ID))
	}
	invalidate(ctx, s.store, append(sessionKeys, cache.AllUsersKey)...)
	invalidateSuffix(ctx, s.store, cache.UserSuffix(id))
	invalidatePrefix(ctx, s.store, cache.PaginatedUsersPrefix)

	logger.Log.WithField("user_id", id).Info("User deleted and caches invalidated")
	return nil
}
