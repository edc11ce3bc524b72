package authz

// Evaluator answers permission questions for one identity snapshot. It
// is a pure view over the immutable matrix: construct a fresh one
// whenever the identity changes, calls are cheap enough that nothing is
// memoized.
type Evaluator struct {
	policy   Policy
	identity Identity
}

// NewEvaluator binds an identity to a policy. A zero Identity (not
// logged in) denies every check.
func NewEvaluator(policy Policy, identity Identity) *Evaluator {
	return &Evaluator{policy: policy, identity: identity}
}

// Identity returns the snapshot the evaluator was built from.
func (e *Evaluator) Identity() Identity {
	return e.identity
}

// HasPermission reports whether the current role may perform action on
// module. Absent identity, unknown role, unknown module and unknown
// action all resolve to false.
func (e *Evaluator) HasPermission(module Module, action Action) bool {
	if !e.identity.Present() {
		return false
	}
	return e.policy.Matrix.Allows(e.identity.Role, module, action)
}

// CanAccessModule reports whether the current role holds at least one
// action on the module.
func (e *Evaluator) CanAccessModule(module Module) bool {
	if !e.identity.Present() {
		return false
	}
	return e.policy.Matrix.GrantsModule(e.identity.Role, module)
}

// UserArea returns the current role's area, AreaNone when the role is
// unknown or nobody is logged in.
func (e *Evaluator) UserArea() Area {
	if !e.identity.Present() {
		return AreaNone
	}
	return e.policy.RoleArea(e.identity.Role)
}

// RoleName returns the display label for the current role.
func (e *Evaluator) RoleName() string {
	if !e.identity.Present() {
		return RoleNameFallback
	}
	return e.policy.RoleName(e.identity.Role)
}

// Role predicates. Each referenced role must carry a matrix entry; the
// lockstep is covered by tests in this package.

func (e *Evaluator) IsAdmin() bool      { return e.identity.Present() && e.identity.Role == RoleAdministrador }
func (e *Evaluator) IsOperador() bool   { return e.identity.Present() && e.identity.Role == RoleOperador }
func (e *Evaluator) IsGenerador() bool  { return e.identity.Present() && e.identity.Role == RoleGenerador }
func (e *Evaluator) IsCalidad() bool    { return e.identity.Present() && e.identity.Role == RoleCalidad }
func (e *Evaluator) IsTI() bool         { return e.UserArea() == AreaTI }
func (e *Evaluator) IsPlaneacion() bool { return e.UserArea() == AreaPlaneacion }

// PermissionSummary bundles the per-action flags for one module so
// screens needing several checks make a single call.
type PermissionSummary struct {
	CanRead   bool `json:"can_read"`
	CanCreate bool `json:"can_create"`
	CanUpdate bool `json:"can_update"`
	CanDelete bool `json:"can_delete"`
	CanPrint  bool `json:"can_print"`
}

// Summary evaluates every action class against the module in one call.
func (e *Evaluator) Summary(module Module) PermissionSummary {
	return PermissionSummary{
		CanRead:   e.HasPermission(module, ActionRead),
		CanCreate: e.HasPermission(module, ActionCreate),
		CanUpdate: e.HasPermission(module, ActionUpdate),
		CanDelete: e.HasPermission(module, ActionDelete),
		CanPrint:  e.HasPermission(module, ActionPrint),
	}
}
