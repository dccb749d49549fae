package dto

import "time"

// SessionResponse describes the caller as the gate resolved it.
type SessionResponse struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email,omitempty"`
	Role      string     `json:"role"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
