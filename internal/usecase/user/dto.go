package user

import "time"

// CreateUserRequest represents the request payload for creating a new user.
// Empty strings count as missing.
type CreateUserRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required"`
	Department string `json:"department" validate:"required"`
}

// CreateUserResponse represents the response payload after creating a user.
type CreateUserResponse struct {
	User User
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// GetUserResponse represents the response payload for user details.
type GetUserResponse struct {
	User User
}

// ListUsersRequest represents the request payload for listing users.
// Department is nil when no filter was supplied.
type ListUsersRequest struct {
	Department *string
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []User
	Count int
	// Department echoes the filter as received, nil when absent.
	Department *string
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID         int64
	Name       string
	Email      string
	Department string
	CreatedAt  time.Time
}
