package access

// Role is a member's standing in a project or team.
type Role string

// Action is what an actor wants to do to a project.
type Action string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
	ActionAdmin Action = "admin"
)

// Can reports whether role permits action.
func Can(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleEditor:
		return action == ActionRead || action == ActionWrite
	case RoleViewer:
		return action == ActionRead
	default:
		return false
	}
}

// Normalize maps unknown role strings to viewer.
func Normalize(role string) Role {
	switch Role(role) {
	case RoleViewer, RoleEditor, RoleAdmin:
		return Role(role)
	default:
		return RoleViewer
	}
}

// Valid reports whether role is one of the known roles.
func Valid(role Role) bool {
	switch role {
	case RoleViewer, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

func rank(role Role) int {
	switch role {
	case RoleAdmin:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// Highest returns the strongest of roles, or "" when roles is empty.
func Highest(roles ...Role) Role {
	var best Role
	for _, role := range roles {
		if rank(role) > rank(best) {
			best = role
		}
	}
	return best
}
