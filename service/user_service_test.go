// service/user_service_test.go
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"go-account-api/cache"
	"go-account-api/clock"
	"go-account-api/common"
	"go-account-api/model"
	"net/http"
	"go-account-api/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func repositoryDuplicateErr() error { return repository.ErrDuplicate }

func testClock() *clock.Fixed {
	return &clock.Fixed{Current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func newUserServiceForTest(repo *mockUserRepo, tokenRepo *fakeTokenRepo) (*UserService, *cache.MemoryStore) {
	store := cache.NewMemoryStore(testClock())
	if tokenRepo == nil {
		tokenRepo = newFakeTokenRepo()
	}
	return NewUserService(repo, tokenRepo, store, 24*time.Hour), store
}

func TestUserService_GetUser_CacheAside(t *testing.T) {
	mockRepo := new(mockUserRepo)
	userService, _ := newUserServiceForTest(mockRepo, nil)
	ctx := context.Background()

	expected := &model.User{ID: 1, Name: "Alice", Email: "alice@example.com"}
	mockRepo.On("GetUserByID", 1).Return(expected, nil).Once()

	first, err := userService.GetUser(ctx, 1)
	assert.NoError(t, err)

	second, err := userService.GetUser(ctx, 1)
	assert.NoError(t, err)

	// Two reads without an intervening mutation return identical payloads
	// and the second one never reaches storage.
	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	assert.Equal(t, firstJSON, secondJSON)
	mockRepo.AssertNumberOfCalls(t, "GetUserByID", 1)
}

func TestUserService_GetUser_NotFoundNeverCached(t *testing.T) {
	mockRepo := new(mockUserRepo)
	userService, _ := newUserServiceForTest(mockRepo, nil)
	ctx := context.Background()

	mockRepo.On("GetUserByID", 99).Return(nil, sql.ErrNoRows).Twice()

	for i := 0; i < 2; i++ {
		_, err := userService.GetUser(ctx, 99)
		assert.Error(t, err)
		appErr, ok := err.(*common.AppError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	}

	// Absence is never cached: both lookups reach storage.
	mockRepo.AssertNumberOfCalls(t, "GetUserByID", 2)
}

func TestUserService_UpdateUser_InvalidatesExactly(t *testing.T) {
	mockRepo := new(mockUserRepo)
	userService, store := newUserServiceForTest(mockRepo, nil)
	ctx := context.Background()

	// Keys the update must clear, plus unrelated keys it must not touch.
	stale := []string{
		cache.UserKey(1),
		cache.CompleteUserKey(1),
		cache.AllUsersKey,
		cache.PaginatedUsersKey(1, 10),
		cache.PaginatedUsersKey(2, 7),
	}
	untouched := []string{
		cache.UserKey(2),
		cache.AllGendersKey,
		cache.UserAddressKey(1),
	}
	for _, key := range append(append([]string{}, stale...), untouched...) {
		assert.NoError(t, store.Set(ctx, key, "cached", time.Hour))
	}

	mockRepo.On("UpdateUser", mock.MatchedBy(func(u *model.User) bool {
		return u.ID == 1 && u.Name == "Alice Updated"
	})).Return(nil).Once()

	_, err := userService.UpdateUser(ctx, 1, &model.UpdateUserRequest{Name: "Alice Updated", GenderID: 2})
	assert.NoError(t, err)

	for _, key := range stale {
		_, ok, getErr := store.Get(ctx, key)
		assert.NoError(t, getErr)
		assert.False(t, ok, "expected %s to be invalidated", key)
	}
	for _, key := range untouched {
		_, ok, getErr := store.Get(ctx, key)
		assert.NoError(t, getErr)
		assert.True(t, ok, "expected %s to survive", key)
	}
	mockRepo.AssertExpectations(t)
}

func TestUserService_PaginationCacheIndependence(t *testing.T) {
	mockRepo := new(mockUserRepo)
	userService, _ := newUserServiceForTest(mockRepo, nil)
	ctx := context.Background()

	pageOne := []*model.User{{ID: 1, Name: "Alice"}}
	pageTwo := []*model.User{{ID: 8, Name: "Hank"}}
	mockRepo.On("GetUsersPaginated", 1, 10).Return(pageOne, nil).Once()
	mockRepo.On("GetUsersPaginated", 2, 7).Return(pageTwo, nil).Once()

	// Distinct (page, limit) pairs get distinct slots.
	got1, err := userService.ListUsersPaginated(ctx, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, pageOne, got1)

	got2, err := userService.ListUsersPaginated(ctx, 2, 7)
	assert.NoError(t, err)
	assert.Equal(t, pageTwo, got2)

	// Both slots now serve from cache.
	_, err = userService.ListUsersPaginated(ctx, 1, 10)
	assert.NoError(t, err)
	_, err = userService.ListUsersPaginated(ctx, 2, 7)
	assert.NoError(t, err)
	mockRepo.AssertNumberOfCalls(t, "GetUsersPaginated", 2)

	// A user mutation clears the whole pagination family.
	mockRepo.On("UpdateUser", mock.Anything).Return(nil).Once()
	_, err = userService.UpdateUser(ctx, 1, &model.UpdateUserRequest{Name: "Renamed", GenderID: 1})
	assert.NoError(t, err)

	mockRepo.On("GetUsersPaginated", 1, 10).Return(pageOne, nil).Once()
	mockRepo.On("GetUsersPaginated", 2, 7).Return(pageTwo, nil).Once()
	_, err = userService.ListUsersPaginated(ctx, 1, 10)
	assert.NoError(t, err)
	_, err = userService.ListUsersPaginated(ctx, 2, 7)
	assert.NoError(t, err)
	mockRepo.AssertNumberOfCalls(t, "GetUsersPaginated", 4)
}

func TestUserService_UpdatePhone_InvalidatesAggregate(t *testing.T) {
	mockRepo := new(mockUserRepo)
	userService, store := newUserServiceForTest(mockRepo, nil)
	ctx := context.Background()

	assert.NoError(t, store.Set(ctx, cache.UserPhoneKey(3), "old-phone", time.Hour))
	assert.NoError(t, store.Set(ctx, cache.CompleteUserKey(3), "old-aggregate", time.Hour))
	assert.NoError(t, store.Set(ctx, cache.UserKey(3), "still-valid", time.Hour))

	mockRepo.On("UpsertPhone", mock.Anything).Return(nil).Once()

	_, err := userService.UpdatePhone(ctx, 3, &model.UpdatePhoneRequest{DDD: "11", Number: "987654321"})
	assert.NoError(t, err)

	_, ok, _ := store.Get(ctx, cache.UserPhoneKey(3))
	assert.False(t, ok)
	// The aggregate embeds the phone, so it goes too.
	_, ok, _ = store.Get(ctx, cache.CompleteUserKey(3))
	assert.False(t, ok)
	// The plain user view does not embed the phone.
	_, ok, _ = store.Get(ctx, cache.UserKey(3))
	assert.True(t, ok)
}

func TestUserService_UpdatePhone_DuplicateIsConflict(t *testing.T) {
	mockRepo := new(mockUserRepo)
	userService, _ := newUserServiceForTest(mockRepo, nil)

	mockRepo.On("UpsertPhone", mock.Anything).Return(repositoryDuplicateErr()).Once()

	_, err := userService.UpdatePhone(context.Background(), 3, &model.UpdatePhoneRequest{DDD: "11", Number: "987654321"})
	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestUserService_DeleteUser_ClearsEverything(t *testing.T) {
	mockRepo := new(mockUserRepo)
	tokenRepo := newFakeTokenRepo()
	userService, store := newUserServiceForTest(mockRepo, tokenRepo)
	ctx := context.Background()

	expires := testClock().Add(48 * time.Hour)
	tokenRepo.CreateRefreshToken(&model.RefreshToken{ID: "tok-a", UserID: 5, ExpiresAt: expires})
	tokenRepo.CreateRefreshToken(&model.RefreshToken{ID: "tok-b", UserID: 5, ExpiresAt: expires})
	tokenRepo.CreateRefreshToken(&model.RefreshToken{ID: "tok-other", UserID: 6, ExpiresAt: expires})

	seeded := []string{
		cache.UserKey(5),
		cache.CompleteUserKey(5),
		cache.UserAddressKey(5),
		cache.UserPhoneKey(5),
		cache.AllUsersKey,
		cache.PaginatedUsersKey(1, 10),
		cache.RefreshTokenKey("tok-a"),
		cache.RefreshTokenKey("tok-b"),
		cache.RefreshTokenKey("tok-other"),
		cache.UserKey(6),
	}
	for _, key := range seeded {
		assert.NoError(t, store.Set(ctx, key, "cached", time.Hour))
	}

	mockRepo.On("DeleteUser", 5).Return(nil).Once()

	assert.NoError(t, userService.DeleteUser(ctx, 5))

	gone := []string{
		cache.UserKey(5),
		cache.CompleteUserKey(5),
		cache.UserAddressKey(5),
		cache.UserPhoneKey(5),
		cache.AllUsersKey,
		cache.PaginatedUsersKey(1, 10),
		cache.RefreshTokenKey("tok-a"),
		cache.RefreshTokenKey("tok-b"),
	}
	for _, key := range gone {
		_, ok, _ := store.Get(ctx, key)
		assert.False(t, ok, "expected %s to be cleared", key)
	}

	// Another user's session and entity caches survive.
	_, ok, _ := store.Get(ctx, cache.RefreshTokenKey("tok-other"))
	assert.True(t, ok)
	_, ok, _ = store.Get(ctx, cache.UserKey(6))
	assert.True(t, ok)
}
