package electricity

import (
	"fmt"

	"github.com/gridforge/gridforge/engine/inventory"
)

// Supplier pairs a candidate process with its normalized allocation share.
type Supplier struct {
	Process *inventory.Process
	Share   float64
}

// resolveSuppliers walks the region's fallback location chain and returns
// the candidates from the first scope with at least one match. It returns
// ErrNoSupplier once the chain is exhausted.
func (t *Transform) resolveSuppliers(region, refProduct, unit string, names []string) ([]*inventory.Process, error) {
	for _, scope := range t.geo.FallbackChain(region) {
		found := t.db.Select(
			inventory.NameContainsAny(names...),
			inventory.ProductContains(refProduct),
			inventory.UnitEquals(unit),
			inventory.LocationIn(scope...),
		)
		if len(found) > 0 {
			return found, nil
		}
	}
	return nil, fmt.Errorf("electricity: %w: region %s, product %q", ErrNoSupplier, region, refProduct)
}

// allocate converts candidate suppliers into production-weighted shares.
// A zero total volume degrades to an equal split. Suppliers below the share
// cutoff are dropped and the remaining shares renormalized to sum to one;
// skipping the renormalization would bias the mix low.
func (t *Transform) allocate(candidates []*inventory.Process) []Supplier {
	if len(candidates) == 0 {
		return nil
	}

	var total float64
	for _, p := range candidates {
		total += t.production.Volume(p)
	}

	suppliers := make([]Supplier, 0, len(candidates))
	for _, p := range candidates {
		share := 1 / float64(len(candidates))
		if total != 0 {
			share = t.production.Volume(p) / total
		}
		if share > supplierShareCutoff {
			suppliers = append(suppliers, Supplier{Process: p, Share: share})
		}
	}

	var kept float64
	for _, s := range suppliers {
		kept += s.Share
	}
	for i := range suppliers {
		suppliers[i].Share /= kept
	}
	return suppliers
}

// supplyShares resolves and allocates suppliers of one technology for a
// region. In consequential mode an exhausted fallback chain omits the
// technology instead of failing.
func (t *Transform) supplyShares(region, refProduct, unit string, names []string) ([]Supplier, error) {
	candidates, err := t.resolveSuppliers(region, refProduct, unit, names)
	if err != nil {
		if t.cfg.SystemModel == Consequential {
			return nil, nil
		}
		return nil, err
	}
	return t.allocate(candidates), nil
}

// incidentalSuppliers allocates suppliers for incidental market inputs
// (insulation gas, network construction) matched by name only. Missing
// suppliers leave the corresponding flows out rather than failing the tier.
func (t *Transform) incidentalSuppliers(region string, names ...string) []Supplier {
	for _, scope := range t.geo.FallbackChain(region) {
		found := t.db.Select(
			inventory.NameContainsAny(names...),
			inventory.LocationIn(scope...),
		)
		if len(found) > 0 {
			return t.allocate(found)
		}
	}
	return nil
}
