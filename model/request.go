// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	GenderID int    `json:"gender_id" validate:"required,gt=0"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshRequest carries the opaque refresh token being rotated.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the password reset flow.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest defines the payload for updating a user's own fields.
type UpdateUserRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	GenderID int    `json:"gender_id" validate:"required,gt=0"`
}

// UpdateAddressRequest defines the payload for upserting a user's address.
type UpdateAddressRequest struct {
	CityID       int    `json:"city_id" validate:"required,gt=0"`
	Street       string `json:"street" validate:"required,max=150"`
	Number       string `json:"number" validate:"required,max=20"`
	ZipCode      string `json:"zip_code" validate:"required,max=20"`
	Neighborhood string `json:"neighborhood" validate:"required,max=100"`
}

// UpdatePhoneRequest defines the payload for upserting a user's phone.
type UpdatePhoneRequest struct {
	DDD    string `json:"ddd" validate:"required,len=2"`
	Number string `json:"number" validate:"required,min=8,max=10"`
}

// CreateGenderRequest defines the payload for creating a gender.
type CreateGenderRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

// CreateCityRequest defines the payload for creating a city under a state.
type CreateCityRequest struct {
	StateID int    `json:"state_id" validate:"required,gt=0"`
	Name    string `json:"name" validate:"required,min=2,max=100"`
}

// LoginResponse is returned by the login and refresh endpoints.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}
