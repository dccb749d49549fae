package domain

import "time"

// Session represents a signed-in caller as reported by the auth provider.
type Session struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
	// Claims holds the provider's raw claims; the gate reads the role from them when no
	// access token carries one.
	Claims map[string]any
}
