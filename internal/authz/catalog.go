package authz

// CatalogEntry describes one dashboard module: its identifier, the
// label and icon the sidebar renders, and the area that owns it.
type CatalogEntry struct {
	ID   Module
	Name string
	Icon string
	Area Area
}

// catalog is the full module catalog in declared order. The projector
// preserves this order so the sidebar never reorders itself between
// renders. The area assignment decides which navigation bucket a module
// lands in; it is independent of which roles can reach it.
var catalog = []CatalogEntry{
	{ID: ModuleUsuarios, Name: "Usuarios", Icon: "users", Area: AreaTI},
	{ID: ModuleRoles, Name: "Roles", Icon: "shield", Area: AreaTI},
	{ID: ModuleLogs, Name: "Logs", Icon: "activity", Area: AreaTI},
	{ID: ModuleArticulos, Name: "Artículos", Icon: "package", Area: AreaPlaneacion},
	{ID: ModuleImpresiones, Name: "Impresiones", Icon: "printer", Area: AreaPlaneacion},
	{ID: ModuleDefectivos, Name: "Defectivos", Icon: "alert-triangle", Area: AreaCalidad},
}

// areaOrder is the fixed priority order areas are walked in when
// flattening the catalog into a section list.
var areaOrder = []Area{AreaTI, AreaPlaneacion, AreaCalidad}

// Catalog returns a copy of the module catalog in declared order.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}

// CatalogEntryFor looks up a catalog entry by module id.
func CatalogEntryFor(module Module) (CatalogEntry, bool) {
	for _, entry := range catalog {
		if entry.ID == module {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}

// KnownModules lists every cataloged module id in area-priority order.
func KnownModules() []Module {
	out := make([]Module, 0, len(catalog))
	for _, area := range areaOrder {
		for _, entry := range catalog {
			if entry.Area == area {
				out = append(out, entry.ID)
			}
		}
	}
	return out
}
