package domain

import "fmt"

// Role is the single role type used at every access-control boundary.
type Role string

const (
	RolePublic    Role = "public"
	RoleStartup   Role = "startup"
	RoleEvaluator Role = "evaluator"
	RoleAdmin     Role = "admin"
)

// ParseRole rejects any value outside the known set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePublic, RoleStartup, RoleEvaluator, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// DashboardPath is where a user of this role lands, and where they are sent back to
// when they hit a page reserved for another role.
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin, RoleEvaluator:
		return "/admin"
	case RoleStartup:
		return "/startup"
	case RolePublic:
		return "/"
	}
	return "/"
}

func (r Role) CanEvaluate() bool {
	switch r {
	case RoleAdmin, RoleEvaluator:
		return true
	case RoleStartup, RolePublic:
		return false
	}
	return false
}

func (r Role) CanAdminister() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleEvaluator, RoleStartup, RolePublic:
		return false
	}
	return false
}

func (r Role) CanApply() bool {
	switch r {
	case RoleStartup:
		return true
	case RoleAdmin, RoleEvaluator, RolePublic:
		return false
	}
	return false
}

// Rank orders roles so a user holding several keeps the most privileged one.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleEvaluator:
		return 2
	case RoleStartup:
		return 1
	case RolePublic:
		return 0
	}
	return 0
}

// HighestRole returns the most privileged role of the list, or RolePublic.
func HighestRole(roles []Role) Role {
	best := RolePublic
	for _, r := range roles {
		if r.Rank() > best.Rank() {
			best = r
		}
	}
	return best
}
