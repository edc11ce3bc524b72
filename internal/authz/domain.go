// Package authz holds the role/permission core of the label dashboard:
// the static access-control matrix, the permission evaluator bound to a
// session identity, the navigation projector and the HTTP guard
// middleware consumed by the rest of the fleet.
package authz

// Role identifies an externally assigned user role. Role ids arrive in
// the bearer token and are never created by this service.
type Role int64

// Known roles. Ids match the production identity service.
const (
	RoleAdministrador Role = 2
	RoleOperador      Role = 5
	RoleGenerador     Role = 6
	RoleCalidad       Role = 7
)

// RoleUnknown is the zero value used when no identity is present or the
// token carries a role this service does not know.
const RoleUnknown Role = 0

// Area is the department a role belongs to. Used for navigation
// grouping and as a coarse secondary access boundary.
type Area string

const (
	AreaTI         Area = "TI"
	AreaPlaneacion Area = "Planeación"
	AreaCalidad    Area = "Calidad"

	// AreaNone is the sentinel returned for unknown or absent roles so
	// callers never have to branch on a null area.
	AreaNone Area = "Sin Área"
)

// Module is a functional domain of the dashboard. Modules are build-time
// constants, not dynamic data.
type Module string

const (
	ModuleArticulos   Module = "articulos"
	ModuleUsuarios    Module = "usuarios"
	ModuleRoles       Module = "roles"
	ModuleLogs        Module = "logs"
	ModuleImpresiones Module = "impresiones"
	ModuleDefectivos  Module = "defectivos"
)

// SectionNone is returned by ResolveActiveSection when a role has no
// accessible sections at all. Callers render an explicit empty state.
const SectionNone Module = ""

// Action is an operation class on a module. Only articulos defines
// ActionPrint.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionPrint  Action = "print"
)

// RoleNameFallback labels roles the service does not recognise. Raw
// numeric ids are never shown to end users.
const RoleNameFallback = "Usuario"

var roleNames = map[Role]string{
	RoleAdministrador: "Administrador",
	RoleOperador:      "Operador",
	RoleGenerador:     "Generador",
	RoleCalidad:       "Calidad",
}

var roleAreas = map[Role]Area{
	RoleAdministrador: AreaTI,
	RoleOperador:      AreaPlaneacion,
	RoleGenerador:     AreaPlaneacion,
	RoleCalidad:       AreaCalidad,
}

// RoleName returns the display label for a role, falling back to the
// generic user label for unknown ids.
func RoleName(role Role) string {
	if name, ok := roleNames[role]; ok {
		return name
	}
	return RoleNameFallback
}

// RoleArea maps a role to its owning area, AreaNone when unknown.
func RoleArea(role Role) Area {
	if area, ok := roleAreas[role]; ok {
		return area
	}
	return AreaNone
}

// KnownRoles lists every role the service recognises, in id order.
func KnownRoles() []Role {
	return []Role{RoleAdministrador, RoleOperador, RoleGenerador, RoleCalidad}
}

// Identity is the decoded bearer-token claim set the evaluator reads.
// The zero value means "not logged in" and denies everything.
type Identity struct {
	UserID int64
	Role   Role
}

// Present reports whether an identity was established for the session.
func (id Identity) Present() bool {
	return id.Role != RoleUnknown || id.UserID != 0
}
