package domain

// Role classifies a caller's permission tier.
type Role string

const (
	RoleSuperAdmin Role = "super admin"
	RoleCEO        Role = "ceo"
	RoleAdmin      Role = "admin"
	RoleDev        Role = "dev"
	RoleUser       Role = "user"
	RoleGunsmith   Role = "gunsmith"
	RoleAuditor    Role = "auditor"
	RoleCustomer   Role = "customer"

	// RoleAuthenticated is the placeholder for a signed-in caller whose role is not yet known.
	RoleAuthenticated Role = "authenticated"
)

// IsPlaceholder reports whether the role carries no routing information.
func (r Role) IsPlaceholder() bool {
	return r == "" || r == RoleAuthenticated
}

// IsCustomer reports whether the role belongs to a retail customer.
func (r Role) IsCustomer() bool {
	return r == RoleCustomer
}
