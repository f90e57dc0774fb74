package staff

import (
	"errors"
	"strings"
)

// Role constants
const (
	RoleCoach   = "coach"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleCoach, RoleAdmin, RoleManager}

// Member is a staff member of the club.
type Member struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Areas  []string `json:"areas,omitempty"`
	Groups []string `json:"groups,omitempty"`
}

// Covers reports whether the member works the given area and group.
// INVARIANT: Member fields are not mutated
func (m *Member) Covers(area, group string) bool {
	return contains(m.Areas, area) && contains(m.Groups, group)
}

// IsCoach reports whether the member has the coach role.
func (m *Member) IsCoach() bool {
	return m.Role == RoleCoach
}

// Validate checks if the Member has valid data.
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("staff name cannot be empty")
	}
	if !contains(ValidRoles, m.Role) {
		return errors.New("role must be 'coach', 'admin', or 'manager'")
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
