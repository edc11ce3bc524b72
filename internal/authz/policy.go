package authz

import "sort"

// Policy bundles the permission matrix with the role metadata that
// travels alongside it: display names and the role → area side table.
// A Policy is loaded once at startup and read-only afterwards.
type Policy struct {
	Matrix Matrix
	Names  map[Role]string
	Areas  map[Role]Area
}

// DefaultPolicy returns the built-in production policy.
func DefaultPolicy() Policy {
	names := make(map[Role]string, len(roleNames))
	for role, name := range roleNames {
		names[role] = name
	}
	areas := make(map[Role]Area, len(roleAreas))
	for role, area := range roleAreas {
		areas[role] = area
	}
	return Policy{
		Matrix: DefaultMatrix(),
		Names:  names,
		Areas:  areas,
	}
}

// RoleName returns the display label for a role under this policy.
func (p Policy) RoleName(role Role) string {
	if name, ok := p.Names[role]; ok {
		return name
	}
	return RoleNameFallback
}

// RoleArea returns the area a role belongs to, AreaNone when the policy
// does not place it anywhere.
func (p Policy) RoleArea(role Role) Area {
	if area, ok := p.Areas[role]; ok {
		return area
	}
	return AreaNone
}

// Roles lists every role the policy grants anything to, in id order.
func (p Policy) Roles() []Role {
	roles := make([]Role, 0, len(p.Matrix))
	for role := range p.Matrix {
		if p.Matrix.HasRole(role) {
			roles = append(roles, role)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}
