// internal/domain/models/user.go
package models

import "time"

// Role is the closed set of account types.
type Role string

const (
	RoleDonor Role = "donor"
	RoleNgo   Role = "ngo"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleNgo, RoleAdmin:
		return true
	}
	return false
}

// Label returns the display name for the role. The switch is exhaustive
// over the closed role set; unknown values fall through to the raw string
// so corrupt data is visible rather than silently relabeled.
func (r Role) Label() string {
	switch r {
	case RoleDonor:
		return "Donor"
	case RoleNgo:
		return "NGO"
	case RoleAdmin:
		return "Admin"
	}
	return string(r)
}

// User represents donors, NGOs, and admins.
//
// NGO accounts carry the three organization fields and must be verified
// by an admin before they can sign in. Donor and admin accounts are
// verified from creation.
//
// Password is an opaque string compared verbatim at login. Real
// credential storage is explicitly out of scope for this system.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	Verified bool   `json:"verified"`

	// Present iff Role == RoleNgo.
	OrganizationName    string `json:"organizationName,omitempty"`
	OrganizationAddress string `json:"organizationAddress,omitempty"`
	OrganizationPhone   string `json:"organizationPhone,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// IsNgo reports whether the account is an NGO.
func (u *User) IsNgo() bool { return u.Role == RoleNgo }

// DisplayName prefers the organization name for NGOs.
func (u *User) DisplayName() string {
	if u.IsNgo() && u.OrganizationName != "" {
		return u.OrganizationName
	}
	return u.Name
}
