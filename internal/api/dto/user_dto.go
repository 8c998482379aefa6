package dto

import "time"

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued session.
type AuthResponse struct {
	Success   bool      `json:"success"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UsageResponse reports the caller's plan and quota.
type UsageResponse struct {
	Success   bool   `json:"success"`
	Plan      string `json:"plan"`
	FreeUsage int    `json:"free_usage"`
	Limit     int    `json:"limit,omitempty"`
	Remaining int    `json:"remaining"`
}
