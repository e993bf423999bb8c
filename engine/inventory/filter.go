package inventory

import "strings"

// Filter matches processes during database queries.
type Filter func(*Process) bool

// FlowFilter matches flows within a process.
type FlowFilter func(*Flow) bool

// NameEquals matches processes with exactly this name.
func NameEquals(name string) Filter {
	return func(p *Process) bool { return p.Name == name }
}

// NameContains matches processes whose name contains the substring.
func NameContains(sub string) Filter {
	return func(p *Process) bool { return strings.Contains(p.Name, sub) }
}

// NameContainsAny matches processes whose name contains any of the substrings.
func NameContainsAny(subs ...string) Filter {
	return func(p *Process) bool {
		for _, s := range subs {
			if strings.Contains(p.Name, s) {
				return true
			}
		}
		return false
	}
}

// NameNotContains matches processes whose name contains none of the substrings.
func NameNotContains(subs ...string) Filter {
	return func(p *Process) bool {
		for _, s := range subs {
			if strings.Contains(p.Name, s) {
				return false
			}
		}
		return true
	}
}

// ProductContains matches on the reference product.
func ProductContains(sub string) Filter {
	return func(p *Process) bool { return strings.Contains(p.Product, sub) }
}

// LocationEquals matches on the process location.
func LocationEquals(loc string) Filter {
	return func(p *Process) bool { return p.Location == loc }
}

// LocationIn matches processes located in any of the given locations.
func LocationIn(locs ...string) Filter {
	return func(p *Process) bool {
		for _, l := range locs {
			if p.Location == l {
				return true
			}
		}
		return false
	}
}

// UnitEquals matches on the process unit.
func UnitEquals(unit string) Filter {
	return func(p *Process) bool { return p.Unit == unit }
}

// Either matches if any of the given filters matches.
func Either(filters ...Filter) Filter {
	return func(p *Process) bool {
		for _, f := range filters {
			if f(p) {
				return true
			}
		}
		return false
	}
}

// FlowNameContains matches flows whose name contains the substring.
func FlowNameContains(sub string) FlowFilter {
	return func(f *Flow) bool { return strings.Contains(f.Name, sub) }
}

// FlowUnitEquals matches flows with this unit.
func FlowUnitEquals(unit string) FlowFilter {
	return func(f *Flow) bool { return f.Unit == unit }
}
