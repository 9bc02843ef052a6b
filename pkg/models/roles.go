package models

import (
	"fmt"
	"slices"
)

// Role is the access level a route requires.
type Role string

const (
	RoleGuest    Role = "guest"    // public storefront pages and API
	RoleCustomer Role = "customer" // bearer token issued by the customer login
	RoleAdmin    Role = "admin"    // admin session cookie
)

// RoleHierarchy defines the privilege level of each role.
// Higher numbers represent higher privileges.
var RoleHierarchy = map[Role]int{
	RoleGuest:    0,
	RoleCustomer: 20,
	RoleAdmin:    70,
}

// ListRoles returns every role with the lowest privilege first.
func ListRoles() []string {
	type pair struct {
		role Role
		val  int
	}
	pairs := make([]pair, 0, len(RoleHierarchy))
	for r, v := range RoleHierarchy {
		pairs = append(pairs, pair{role: r, val: v})
	}

	slices.SortFunc(pairs, func(a, b pair) int {
		return a.val - b.val
	})

	result := make([]string, 0, len(pairs))
	for _, p := range pairs {
		result = append(result, p.role.String())
	}

	return result
}

// IsValid checks if the Role is one of the predefined valid roles.
func (r Role) IsValid() bool {
	_, exists := RoleHierarchy[r]
	return exists
}

func (r Role) String() string {
	return string(r)
}

func (r *Role) UnmarshalText(text []byte) error {
	s := Role(text)
	if !s.IsValid() {
		return fmt.Errorf("invalid role: %s", text)
	}
	*r = s
	return nil
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r Role) AtLeast(min Role) bool {
	if r.IsValid() && min.IsValid() {
		return RoleHierarchy[r] >= RoleHierarchy[min]
	}
	return false
}
