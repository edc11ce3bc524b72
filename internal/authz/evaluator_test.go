package authz

import "testing"

func evalFor(role Role) *Evaluator {
	return NewEvaluator(DefaultPolicy(), Identity{UserID: 1, Role: role})
}

func anonymous() *Evaluator {
	return NewEvaluator(DefaultPolicy(), Identity{})
}

var allActions = []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionPrint}

func TestDenyByDefaultWithoutIdentity(t *testing.T) {
	eval := anonymous()
	for _, module := range KnownModules() {
		for _, action := range allActions {
			if eval.HasPermission(module, action) {
				t.Fatalf("anonymous identity granted %s on %s", action, module)
			}
		}
		if eval.CanAccessModule(module) {
			t.Fatalf("anonymous identity can access %s", module)
		}
	}
}

func TestDenyByDefaultUnknownRole(t *testing.T) {
	eval := evalFor(Role(99))
	for _, module := range KnownModules() {
		for _, action := range allActions {
			if eval.HasPermission(module, action) {
				t.Fatalf("unknown role granted %s on %s", action, module)
			}
		}
	}
	if got := eval.RoleName(); got != "Usuario" {
		t.Fatalf("expected generic role name, got %q", got)
	}
	if got := eval.UserArea(); got != AreaNone {
		t.Fatalf("expected %q area, got %q", AreaNone, got)
	}
}

func TestDenyByDefaultUnknownModuleAndAction(t *testing.T) {
	eval := evalFor(RoleAdministrador)
	if eval.HasPermission(Module("nomina"), ActionRead) {
		t.Fatalf("unknown module granted")
	}
	if eval.HasPermission(ModuleArticulos, Action("export")) {
		t.Fatalf("unknown action granted")
	}
	if eval.CanAccessModule(Module("nomina")) {
		t.Fatalf("unknown module accessible")
	}
}

func TestAdministratorScenario(t *testing.T) {
	eval := evalFor(RoleAdministrador)
	if !eval.HasPermission(ModuleUsuarios, ActionDelete) {
		t.Fatalf("administrador should delete usuarios")
	}
	if !eval.CanAccessModule(ModuleRoles) {
		t.Fatalf("administrador should access roles")
	}
	if got := eval.UserArea(); got != AreaTI {
		t.Fatalf("expected TI, got %q", got)
	}
	if got := eval.RoleName(); got != "Administrador" {
		t.Fatalf("unexpected role name %q", got)
	}
}

func TestOperadorScenario(t *testing.T) {
	eval := evalFor(RoleOperador)
	if !eval.HasPermission(ModuleArticulos, ActionPrint) {
		t.Fatalf("operador should print articulos")
	}
	if eval.HasPermission(ModuleArticulos, ActionCreate) {
		t.Fatalf("operador must not create articulos")
	}
	if eval.CanAccessModule(ModuleUsuarios) {
		t.Fatalf("operador must not access usuarios")
	}
	if got := eval.UserArea(); got != AreaPlaneacion {
		t.Fatalf("expected Planeación, got %q", got)
	}
}

func TestCalidadScenario(t *testing.T) {
	eval := evalFor(RoleCalidad)
	if !eval.CanAccessModule(ModuleDefectivos) {
		t.Fatalf("calidad should access defectivos")
	}
	if eval.CanAccessModule(ModuleArticulos) {
		t.Fatalf("calidad must not access articulos")
	}
}

// CanAccessModule must agree with the per-action checks: accessible
// exactly when some action is granted.
func TestModuleAccessMonotonicity(t *testing.T) {
	policy := DefaultPolicy()
	roles := append(policy.Roles(), Role(99))
	for _, role := range roles {
		eval := evalFor(role)
		for _, module := range KnownModules() {
			var any bool
			for _, action := range allActions {
				if eval.HasPermission(module, action) {
					any = true
				}
			}
			if got := eval.CanAccessModule(module); got != any {
				t.Fatalf("role %d module %s: CanAccessModule=%v, actions say %v", role, module, got, any)
			}
		}
	}
}

// Every role referenced by a predicate helper must carry a non-empty
// matrix entry. A predicate pointing at a hole in the policy means the
// catalog drifted.
func TestPredicateRolesExistInMatrix(t *testing.T) {
	policy := DefaultPolicy()
	predicateRoles := map[string]Role{
		"IsAdmin":     RoleAdministrador,
		"IsOperador":  RoleOperador,
		"IsGenerador": RoleGenerador,
		"IsCalidad":   RoleCalidad,
	}
	for name, role := range predicateRoles {
		if !policy.Matrix.HasRole(role) {
			t.Fatalf("predicate %s references role %d with no matrix entry", name, role)
		}
	}
}

func TestPredicates(t *testing.T) {
	if !evalFor(RoleAdministrador).IsAdmin() {
		t.Fatalf("IsAdmin false for administrador")
	}
	if !evalFor(RoleAdministrador).IsTI() {
		t.Fatalf("IsTI false for administrador")
	}
	if !evalFor(RoleOperador).IsOperador() || !evalFor(RoleOperador).IsPlaneacion() {
		t.Fatalf("operador predicates wrong")
	}
	if !evalFor(RoleGenerador).IsGenerador() || !evalFor(RoleGenerador).IsPlaneacion() {
		t.Fatalf("generador predicates wrong")
	}
	if !evalFor(RoleCalidad).IsCalidad() {
		t.Fatalf("IsCalidad false for calidad")
	}
	if anonymous().IsAdmin() {
		t.Fatalf("IsAdmin true without identity")
	}
}

func TestSummary(t *testing.T) {
	got := evalFor(RoleOperador).Summary(ModuleArticulos)
	want := PermissionSummary{CanRead: true, CanPrint: true}
	if got != want {
		t.Fatalf("operador articulos summary = %+v, want %+v", got, want)
	}

	if got := evalFor(RoleCalidad).Summary(ModuleArticulos); got != (PermissionSummary{}) {
		t.Fatalf("calidad articulos summary should be all false, got %+v", got)
	}

	// No action implies another: generador updates articulos but does
	// not delete or print.
	gen := evalFor(RoleGenerador).Summary(ModuleArticulos)
	if !gen.CanUpdate || gen.CanDelete || gen.CanPrint {
		t.Fatalf("generador articulos summary wrong: %+v", gen)
	}
}

func TestRoleNameFallsBackForUnknown(t *testing.T) {
	policy := DefaultPolicy()
	if got := policy.RoleName(Role(42)); got != RoleNameFallback {
		t.Fatalf("expected %q, got %q", RoleNameFallback, got)
	}
	if got := policy.RoleArea(Role(42)); got != AreaNone {
		t.Fatalf("expected %q, got %q", AreaNone, got)
	}
}
