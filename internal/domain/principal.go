package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// Principal is the authenticated caller as resolved from a bearer token.
type Principal struct {
	UserID string
	Role   Role
}

// IsStaff reports whether the principal may perform library-staff operations.
func (p Principal) IsStaff() bool {
	return p.Role == RoleStaff || p.Role == RoleAdmin
}

// CanActOn reports whether the principal owns the record or is staff.
func (p Principal) CanActOn(ownerUserID string) bool {
	return p.UserID == ownerUserID || p.IsStaff()
}
