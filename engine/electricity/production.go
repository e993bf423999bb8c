package electricity

import (
	"github.com/gridforge/gridforge/engine/inventory"
	"github.com/gridforge/gridforge/engine/techmap"
)

// productionKey identifies a producing process by name and location.
type productionKey struct {
	name     string
	location string
}

// ProductionIndex maps (process name, location) to a production volume. It
// underlies every production-weighted allocation; volumes are floored at
// minProductionVolume so share denominators never reach zero.
type ProductionIndex map[productionKey]float64

// buildProductionIndex scans every process matched by a technology rule and
// records the production volume of its reference flow.
func buildProductionIndex(db *inventory.Database, tm *techmap.TechMap) ProductionIndex {
	idx := make(ProductionIndex)
	for _, tech := range tm.Technologies() {
		names := tm.ProcessNames(tech)
		if len(names) == 0 {
			continue
		}
		for _, p := range db.Select(inventory.NameContainsAny(names...)) {
			ref := p.ReferenceFlow()
			if ref == nil {
				continue
			}
			idx[productionKey{p.Name, p.Location}] = max(ref.ProductionVolume, minProductionVolume)
		}
	}
	return idx
}

// Volume returns the indexed production volume of a process, zero when the
// process was never indexed.
func (idx ProductionIndex) Volume(p *inventory.Process) float64 {
	return idx[productionKey{p.Name, p.Location}]
}
