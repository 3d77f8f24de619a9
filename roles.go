package auth

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleApplicant, RoleUnitLeader, RoleRegionalLeader:
		return true
	default:
		return false
	}
}

// IsLeaderRole reports whether the role is a leader variant, i.e. eligible
// to submit recommendations and subject to approval gating.
func IsLeaderRole(r UserRole) bool {
	switch r {
	case RoleUnitLeader, RoleRegionalLeader:
		return true
	default:
		return false
	}
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleAdmin,
		RoleApplicant,
		RoleUnitLeader,
		RoleRegionalLeader,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// ParseLeaderStatus safely parses a string into a LeaderStatus
func ParseLeaderStatus(statusStr string) (LeaderStatus, bool) {
	switch statusStr {
	case LeaderStatusPending, LeaderStatusApproved:
		return LeaderStatus(statusStr), true
	default:
		return "", false
	}
}
