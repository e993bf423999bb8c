// Package inventory holds the in-memory process-flow graph (a life-cycle
// inventory database) and the primitives used to query and mutate it.
package inventory

// FlowKind discriminates the three kinds of exchanges a process carries.
type FlowKind string

const (
	// Production is the single reference output of a process.
	Production FlowKind = "production"
	// Technosphere is an input from another process.
	Technosphere FlowKind = "technosphere"
	// Biosphere is an elementary exchange with the environment.
	Biosphere FlowKind = "biosphere"
)

// Flow is a quantified input/output edge attached to a Process.
//
// Production and technosphere flows reference a product by name, product,
// location and unit. Biosphere flows reference a substance by name and
// compartments instead.
type Flow struct {
	Kind             FlowKind `json:"type"`
	Name             string   `json:"name"`
	Product          string   `json:"product,omitempty"`
	Location         string   `json:"location,omitempty"`
	Unit             string   `json:"unit"`
	Amount           float64  `json:"amount"`
	ProductionVolume float64  `json:"production_volume,omitempty"`
	Compartments     []string `json:"compartments,omitempty"`
}

// Process is a unit of production in the inventory graph.
type Process struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Product  string  `json:"reference_product"`
	Location string  `json:"location"`
	Unit     string  `json:"unit"`
	Comment  string  `json:"comment,omitempty"`
	Flows    []*Flow `json:"exchanges"`

	// Params carries audit values (losses, efficiencies, shares) attached
	// by transformation passes and emitted to the structured log.
	Params map[string]float64 `json:"log_parameters,omitempty"`
}

// ReferenceFlow returns the production flow of the process, or nil if the
// process has none.
func (p *Process) ReferenceFlow() *Flow {
	for _, f := range p.Flows {
		if f.Kind == Production {
			return f
		}
	}
	return nil
}

// Technosphere returns the technosphere flows matching all given filters.
func (p *Process) Technosphere(filters ...FlowFilter) []*Flow {
	return p.flows(Technosphere, filters)
}

// BiosphereFlows returns the biosphere flows matching all given filters.
func (p *Process) BiosphereFlows(filters ...FlowFilter) []*Flow {
	return p.flows(Biosphere, filters)
}

func (p *Process) flows(kind FlowKind, filters []FlowFilter) []*Flow {
	var out []*Flow
	for _, f := range p.Flows {
		if f.Kind != kind {
			continue
		}
		ok := true
		for _, match := range filters {
			if !match(f) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, f)
		}
	}
	return out
}

// SetParam records an audit parameter on the process.
func (p *Process) SetParam(key string, v float64) {
	if p.Params == nil {
		p.Params = make(map[string]float64)
	}
	p.Params[key] = v
}

// Param returns an audit parameter and whether it was set.
func (p *Process) Param(key string) (float64, bool) {
	v, ok := p.Params[key]
	return v, ok
}
