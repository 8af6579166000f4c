package user

import "time"

// User represents an employee record in the directory.
type User struct {
	ID         int64     // ID is assigned by the store on insert and never reused
	Name       string    // Name is the full name of the user
	Email      string    // Email is unique across all users
	Department string    // Department is the team the user belongs to; used as a list filter
	CreatedAt  time.Time // CreatedAt is set once, on insert
}
