package authz

// Matrix is the role × module × action policy table. It is populated
// once at startup and read-only afterwards; every lookup against a
// missing role, module or action resolves to a denial, never an error.
type Matrix map[Role]ModuleGrants

// ModuleGrants maps a module to its granted actions.
type ModuleGrants map[Module]ActionGrants

// ActionGrants maps an action to whether it is permitted.
type ActionGrants map[Action]bool

// Allows reports whether the role may perform action on module.
// Deny-by-default: any hole in the table is a "false".
func (m Matrix) Allows(role Role, module Module, action Action) bool {
	grants, ok := m[role]
	if !ok {
		return false
	}
	actions, ok := grants[module]
	if !ok {
		return false
	}
	return actions[action]
}

// GrantsModule reports whether the role holds at least one permitted
// action on the module.
func (m Matrix) GrantsModule(role Role, module Module) bool {
	actions, ok := m[role][module]
	if !ok {
		return false
	}
	for _, allowed := range actions {
		if allowed {
			return true
		}
	}
	return false
}

// HasRole reports whether the matrix carries a non-empty entry for the
// role. Predicate helpers must only reference roles for which this
// holds; the invariant is asserted by tests.
func (m Matrix) HasRole(role Role) bool {
	return len(m[role]) > 0
}

// DefaultMatrix returns the production policy: the area-aware table
// with four roles and six modules. Adding a role, module or action is a
// data edit here, nothing else changes.
func DefaultMatrix() Matrix {
	return Matrix{
		RoleAdministrador: {
			// TI, full system access.
			ModuleArticulos: {
				ActionRead:   true,
				ActionCreate: true,
				ActionUpdate: true,
				ActionDelete: true,
				ActionPrint:  true,
			},
			ModuleUsuarios: {
				ActionRead:   true,
				ActionCreate: true,
				ActionUpdate: true,
				ActionDelete: true,
			},
			ModuleRoles: {
				ActionRead:   true,
				ActionCreate: true,
				ActionUpdate: true,
				ActionDelete: true,
			},
			ModuleLogs: {
				ActionRead:   true,
				ActionDelete: true,
			},
			ModuleImpresiones: {
				ActionRead: true,
			},
			ModuleDefectivos: {
				ActionRead:   true,
				ActionCreate: true,
				ActionUpdate: true,
				ActionDelete: true,
			},
		},
		RoleGenerador: {
			// Planeación, captures and edits article data.
			ModuleArticulos: {
				ActionRead:   true,
				ActionCreate: true,
				ActionUpdate: true,
			},
		},
		RoleOperador: {
			// Planeación, prints labels only.
			ModuleArticulos: {
				ActionRead:  true,
				ActionPrint: true,
			},
			ModuleImpresiones: {
				ActionRead: true,
			},
		},
		RoleCalidad: {
			// Calidad, defect records only.
			ModuleDefectivos: {
				ActionRead:   true,
				ActionCreate: true,
				ActionUpdate: true,
				ActionDelete: true,
			},
		},
	}
}
