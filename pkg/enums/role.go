package enums

import "fmt"

// Role represents the permission level a user carries within their store.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleStoreManager Role = "storeManager"
	RoleCashier      Role = "cashier"
)

var validRoles = []Role{
	RoleAdmin,
	RoleStoreManager,
	RoleCashier,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

// DashboardPath returns the role's home route, used when an authenticated
// caller lands on a dashboard their role may not enter.
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleStoreManager:
		return "/store/dashboard"
	case RoleCashier:
		return "/store/cart"
	}
	return "/"
}
