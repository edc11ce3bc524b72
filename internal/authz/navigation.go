package authz

// ModuleEntry is one module as presented in the area-grouped
// navigation. Available reflects the current permission; modules stay
// listed once they are cataloged for the area so the grouping is stable
// regardless of role.
type ModuleEntry struct {
	ID        Module `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Available bool   `json:"available"`
}

// AvailableSections returns the module ids the current role may open,
// walking areas in fixed priority order and each area's catalog in
// declared order. Same role, same sequence, every call.
func (e *Evaluator) AvailableSections() []Module {
	sections := make([]Module, 0, len(catalog))
	for _, area := range areaOrder {
		for _, entry := range catalog {
			if entry.Area != area {
				continue
			}
			if e.CanAccessModule(entry.ID) {
				sections = append(sections, entry.ID)
			}
		}
	}
	return sections
}

// ModulesByArea groups the catalog under its areas. Every cataloged
// module appears in exactly one bucket, in declared order, with
// Available carrying the permission state. Buckets exist even when
// empty of available modules so the shell renders a stable tree.
func (e *Evaluator) ModulesByArea() map[Area][]ModuleEntry {
	grouped := make(map[Area][]ModuleEntry, len(areaOrder))
	for _, area := range areaOrder {
		grouped[area] = []ModuleEntry{}
	}
	for _, entry := range catalog {
		grouped[entry.Area] = append(grouped[entry.Area], ModuleEntry{
			ID:        entry.ID,
			Name:      entry.Name,
			Icon:      entry.Icon,
			Available: e.CanAccessModule(entry.ID),
		})
	}
	return grouped
}

// ResolveActiveSection keeps the shell's current section when it is
// still accessible and otherwise falls forward to the first available
// one. With nothing available it returns SectionNone and the shell must
// render an explicit empty state.
func ResolveActiveSection(current Module, available []Module) Module {
	for _, section := range available {
		if section == current {
			return current
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return SectionNone
}
