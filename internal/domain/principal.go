package domain

// Principal is the caller as the gate resolved it.
type Principal struct {
	Session Session
	Role    Role
}
