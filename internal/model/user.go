package model

import "time"

// Role enumerates the portal's access roles.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Class represents the student's academic class.
type Class string

const (
	ClassEleventh Class = "eleventh"
	ClassTwelfth  Class = "twelfth"
	ClassDropper  Class = "dropper"
)

// User represents an authenticated account. HasVisitedAdmin is monotonic:
// once true it never reverts.
type User struct {
	ID              int       `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Role            Role      `json:"role"`
	HasVisitedAdmin bool      `json:"has_visited_admin"`
	CreatedAt       time.Time `json:"created_at"`
}

// Profile holds the student-facing profile completed after first login.
type Profile struct {
	UserID        int       `json:"user_id"`
	FullName      string    `json:"full_name"`
	ContactNumber string    `json:"contact_number"`
	UserClass     Class     `json:"user_class"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// LoginResponse is returned after successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SaveProfileRequest is the payload for completing or updating a profile.
type SaveProfileRequest struct {
	FullName      string `json:"full_name" binding:"required,min=3,max=100"`
	ContactNumber string `json:"contact_number" binding:"required,len=10,numeric"`
	UserClass     Class  `json:"user_class" binding:"required,oneof=eleventh twelfth dropper"`
}
