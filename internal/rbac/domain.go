// Package rbac holds the portal's closed role set and the role→capability
// table every route consults. Capabilities are derived per request, never
// stored.
package rbac

// Role is one of the portal's fixed role values. Every identity holds
// exactly one role at a time.
type Role string

const (
	RoleMember  Role = "member"
	RoleTeacher Role = "teacher"
	RoleLeader  Role = "leader"
	RoleAdmin   Role = "admin"
	RoleTrainee Role = "trainee"
)

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleMember, RoleTeacher, RoleLeader, RoleAdmin, RoleTrainee}
}

// ParseRole validates a raw role string from the store.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleMember, RoleTeacher, RoleLeader, RoleAdmin, RoleTrainee:
		return Role(raw), true
	}
	return "", false
}

// Capability is a named permission derived from role.
type Capability string

const (
	CapProfile        Capability = "profile"
	CapKidsCheckin    Capability = "kids-checkin"
	CapManageMembers  Capability = "manage-members"
	CapManageVisitors Capability = "manage-visitors"
	CapAdminPanel     Capability = "admin-panel"
)

// grants is the single source of truth for authorization. Routes must consult
// it through Role.Can instead of re-deriving role checks inline.
var grants = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapProfile:        true,
		CapKidsCheckin:    true,
		CapManageMembers:  true,
		CapManageVisitors: true,
		CapAdminPanel:     true,
	},
	RoleTrainee: {
		CapProfile:    true,
		CapAdminPanel: true,
	},
	RoleLeader: {
		CapProfile:        true,
		CapKidsCheckin:    true,
		CapManageMembers:  true,
		CapManageVisitors: true,
	},
	RoleTeacher: {
		CapProfile:     true,
		CapKidsCheckin: true,
	},
	RoleMember: {
		CapProfile: true,
	},
}

// Can reports whether the role grants the capability.
func (r Role) Can(c Capability) bool {
	return grants[r][c]
}

// Satisfies reports whether the role meets a required-role check. Admin is a
// superset authorization and satisfies every requirement.
func (r Role) Satisfies(required Role) bool {
	if required == "" {
		return true
	}
	return r == required || r == RoleAdmin
}
