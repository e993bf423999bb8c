package inventory

import "fmt"

// Database is the shared mutable inventory graph. It preserves insertion
// order and assumes a single writer; transformation passes run sequentially.
type Database struct {
	processes []*Process
}

// NewDatabase creates a database from an initial set of processes.
func NewDatabase(processes ...*Process) *Database {
	return &Database{processes: processes}
}

// Len returns the number of processes in the database.
func (db *Database) Len() int { return len(db.processes) }

// All returns the backing process slice. Callers must not reorder it.
func (db *Database) All() []*Process { return db.processes }

// Add appends a process to the database.
func (db *Database) Add(p *Process) { db.processes = append(db.processes, p) }

// AddAll appends several processes to the database.
func (db *Database) AddAll(ps []*Process) { db.processes = append(db.processes, ps...) }

// Select returns all processes matching every filter.
func (db *Database) Select(filters ...Filter) []*Process {
	var out []*Process
	for _, p := range db.processes {
		if matchAll(p, filters) {
			out = append(out, p)
		}
	}
	return out
}

// One returns the single process matching every filter, and errors if there
// is none or more than one.
func (db *Database) One(filters ...Filter) (*Process, error) {
	var found *Process
	for _, p := range db.processes {
		if !matchAll(p, filters) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("inventory: multiple processes match (first %q/%s)", found.Name, found.Location)
		}
		found = p
	}
	if found == nil {
		return nil, fmt.Errorf("inventory: no process matches")
	}
	return found, nil
}

func matchAll(p *Process, filters []Filter) bool {
	for _, f := range filters {
		if !f(p) {
			return false
		}
	}
	return true
}

// Empty strips every non-production flow from the process, leaving the
// reference output in place so downstream links stay resolvable.
func Empty(p *Process) {
	kept := p.Flows[:0]
	for _, f := range p.Flows {
		if f.Kind == Production {
			kept = append(kept, f)
		}
	}
	p.Flows = kept
}

// Duplicate clones a process under a new location with a fresh identifier.
// The production flow and any self-referencing technosphere flows follow the
// new location, other flows are copied as-is.
func Duplicate(p *Process, location, id string) *Process {
	clone := &Process{
		ID:       id,
		Name:     p.Name,
		Product:  p.Product,
		Location: location,
		Unit:     p.Unit,
		Comment:  p.Comment,
		Flows:    make([]*Flow, 0, len(p.Flows)),
	}
	for _, f := range p.Flows {
		nf := *f
		if f.Kind == Production {
			nf.Location = location
		}
		if f.Kind == Technosphere && f.Name == p.Name && f.Location == p.Location {
			nf.Location = location
		}
		clone.Flows = append(clone.Flows, &nf)
	}
	for k, v := range p.Params {
		clone.SetParam(k, v)
	}
	return clone
}
