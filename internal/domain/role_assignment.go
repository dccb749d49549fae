package domain

// RoleStatus represents lifecycle states for a role assignment.
type RoleStatus string

const (
	RoleStatusActive   RoleStatus = "active"
	RoleStatusInactive RoleStatus = "inactive"
)

// RoleSource identifies which role table produced an assignment.
type RoleSource string

const (
	RoleSourceStaff    RoleSource = "staff"
	RoleSourceCustomer RoleSource = "customer"
)

// RoleAssignment maps one identity to exactly one role.
type RoleAssignment struct {
	Identifier string     `json:"identifier"`
	Role       Role       `json:"role"`
	Status     RoleStatus `json:"status"`
	Source     RoleSource `json:"source"`
}

// Active reports whether the assignment is usable. Missing status counts as active.
func (a RoleAssignment) Active() bool {
	return a.Status == "" || a.Status == RoleStatusActive
}
