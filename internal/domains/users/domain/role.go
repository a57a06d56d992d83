package domain

import (
	"sort"
	"strings"
)

// Role is an authorization label held by a user.
type Role string

const (
	RoleClient    Role = "CLIENT"
	RoleAdmin     Role = "ADMIN"
	RoleEditor    Role = "EDITOR"
	RoleExpeditor Role = "EXPEDITOR"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleAdmin, RoleEditor, RoleExpeditor:
		return true
	default:
		return false
	}
}

// ParseRole normalises a role name.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", ErrUnknownRole
	}
	return role, nil
}

// RoleSet is an unordered set of roles checked by membership only.
type RoleSet map[Role]struct{}

// NewRoleSet validates and collects roles; duplicates collapse.
func NewRoleSet(roles ...Role) (RoleSet, error) {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		if !role.Valid() {
			return nil, ErrUnknownRole
		}
		set[role] = struct{}{}
	}
	return set, nil
}

// Has reports membership.
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// Slice returns the roles sorted by name.
func (s RoleSet) Slice() []Role {
	roles := make([]Role, 0, len(s))
	for role := range s {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// Clone returns an independent copy.
func (s RoleSet) Clone() RoleSet {
	clone := make(RoleSet, len(s))
	for role := range s {
		clone[role] = struct{}{}
	}
	return clone
}
