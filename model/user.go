package model

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the core account entity. The password hash never leaves the API.
type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	RoleID    int       `json:"role_id"`
	GenderID  int       `json:"gender_id"`
	CreatedAt time.Time `json:"created_at"`
}

// UserWithRole carries the denormalized role name needed for token claims
// and session cache records.
type UserWithRole struct {
	User
	RoleName string `json:"role_name"`
}

// Address is a 1:1 sub-resource addressed by the owning user's id.
type Address struct {
	UserID       int    `json:"user_id"`
	CityID       int    `json:"city_id"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	ZipCode      string `json:"zip_code"`
	Neighborhood string `json:"neighborhood"`
}

// Phone is a 1:1 sub-resource addressed by the owning user's id.
type Phone struct {
	UserID int    `json:"user_id"`
	DDD    string `json:"ddd"`
	Number string `json:"number"`
}

// CompleteUser is the aggregate view: the user joined with role, gender,
// address and phone. Cached under its own key because it embeds the
// sub-resources.
type CompleteUser struct {
	User
	RoleName   string   `json:"role_name"`
	GenderName string   `json:"gender_name"`
	Address    *Address `json:"address,omitempty"`
	Phone      *Phone   `json:"phone,omitempty"`
}
