package domain

import "fmt"

// Role is the closed set of account types. Every boundary that receives a
// role as text must go through ParseRole.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// ParseRole converts free-form input into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBuyer:
		return RoleBuyer, nil
	case RoleSeller:
		return RoleSeller, nil
	default:
		return "", fmt.Errorf("invalid user type %q", s)
	}
}

// Roles returns all valid role strings, in registration-form order.
func Roles() []string {
	return []string{string(RoleBuyer), string(RoleSeller)}
}

func (r Role) String() string {
	return string(r)
}
