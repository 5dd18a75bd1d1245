package pipeline

import "github.com/sells-group/leadgen-cli/internal/model"

// Order computes a topological ordering of units from their declared context
// references. A unit may only appear after every unit it depends on. The
// ordering is stable: among ready units, declaration order is preserved.
// A reference to an unknown unit or a dependency cycle is a ConfigError.
func Order(units []model.WorkUnit) ([]model.WorkUnit, error) {
	byName := make(map[string]int, len(units))
	for i, u := range units {
		byName[u.Name] = i
	}

	// Validate references up front so the error names the offending unit.
	for _, u := range units {
		for _, dep := range u.Context {
			if _, ok := byName[dep]; !ok {
				return nil, newConfigError("unit %q references unknown unit %q", u.Name, dep)
			}
			if dep == u.Name {
				return nil, newConfigError("unit %q depends on itself", u.Name)
			}
		}
	}

	// Kahn's algorithm with declaration-order tie breaking: repeatedly take
	// the first unplaced unit whose dependencies are all placed.
	placed := make(map[string]bool, len(units))
	ordered := make([]model.WorkUnit, 0, len(units))

	for len(ordered) < len(units) {
		progressed := false
		for _, u := range units {
			if placed[u.Name] {
				continue
			}
			ready := true
			for _, dep := range u.Context {
				if !placed[dep] {
					ready = false
					break
				}
			}
			if ready {
				placed[u.Name] = true
				ordered = append(ordered, u)
				progressed = true
			}
		}
		if !progressed {
			// Every unplaced unit is blocked: a cycle. Name one of them.
			for _, u := range units {
				if !placed[u.Name] {
					return nil, newConfigError("dependency cycle involving unit %q", u.Name)
				}
			}
		}
	}

	return ordered, nil
}
