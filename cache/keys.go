// file: cache/keys.go

package cache

import "fmt"

// Cache keys are <logical-prefix>:<discriminator-pairs> with ":" as the
// separator. Every discriminator that changes the cached payload must
// appear in the key, or two different queries would share one slot.

const (
	AllUsersKey            = "listAllUsers"
	PaginatedUsersPrefix   = "listAllUsersPaginated:"
	AllGendersKey          = "listAllGenders"
	PaginatedGendersPrefix = "listAllGendersPaginated:"
	AllStatesKey           = "listAllStates"
	RefreshTokenPrefix     = "refreshToken:"
)

func UserKey(userID int) string {
	return fmt.Sprintf("getUser:%d", userID)
}

func CompleteUserKey(userID int) string {
	return fmt.Sprintf("getCompleteUser:%d", userID)
}

func UserAddressKey(userID int) string {
	return fmt.Sprintf("getUserAddress:%d", userID)
}

func UserPhoneKey(userID int) string {
	return fmt.Sprintf("getUserPhone:%d", userID)
}

func PaginatedUsersKey(page, limit int) string {
	return fmt.Sprintf("%spage:%d:limit:%d", PaginatedUsersPrefix, page, limit)
}

func PaginatedGendersKey(page, limit int) string {
	return fmt.Sprintf("%spage:%d:limit:%d", PaginatedGendersPrefix, page, limit)
}

func CitiesByStateKey(stateID int) string {
	return fmt.Sprintf("listCitiesByState:%d", stateID)
}

func RefreshTokenKey(tokenID string) string {
	return RefreshTokenPrefix + tokenID
}

// UserSuffix matches every per-user single-entity key (getUser:<id>,
// getCompleteUser:<id>, getUserAddress:<id>, getUserPhone:<id>) in one
// suffix sweep on user deletion. Matching an unrelated entity with the
// same numeric id costs one extra cache miss, never a stale read.
func UserSuffix(userID int) string {
	return fmt.Sprintf(":%d", userID)
}
