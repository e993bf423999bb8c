package electricity

import (
	"strings"

	"github.com/gridforge/gridforge/engine/inventory"
)

// co2CaptureRate is the fraction of combustion CO2 captured by CHP CCS
// plants; the residual emission carries the same captured amount.
const co2CaptureRate = 0.9

// CreateRegionSpecificPlants clones template power plants that exist only at
// a narrow native location into every consuming region, so that each
// regional market can be supplied locally. Duplicates of combined-heat-and-
// power carbon-capture plants get their capture quantities re-derived from
// the CO2 emitted by their electricity providers.
func (t *Transform) CreateRegionSpecificPlants() error {
	var created []*inventory.Process

	for _, tech := range t.techs.DuplicateTechnologies() {
		names := t.techs.ProcessNames(tech)
		if len(names) == 0 {
			continue
		}
		templates := t.db.Select(inventory.NameContainsAny(names...))

		for _, template := range templates {
			for _, region := range t.geo.Regions() {
				if region == template.Location || t.exists(template.Name, region) {
					continue
				}
				clone := inventory.Duplicate(template, region, t.newID())
				if t.techs.IsCHPCCS(tech) {
					t.rederiveCapture(clone)
				}
				created = append(created, clone)
				t.mPlantsDuplicated.Inc()
			}
		}
	}

	t.db.AddAll(created)
	for _, p := range created {
		t.recordCreated(p)
	}
	return nil
}

func (t *Transform) exists(name, location string) bool {
	return len(t.db.Select(
		inventory.NameEquals(name),
		inventory.LocationEquals(location),
	)) > 0
}

// rederiveCapture recomputes the CO2 capture quantities of a duplicated CHP
// CCS plant: the combustion CO2 of each electricity-supplying input, scaled
// by its amount, of which the capture rate is retained. Both the captured
// CO2 input and the residual biosphere emission are set to that value.
func (t *Transform) rederiveCapture(p *inventory.Process) {
	var co2 float64

	for _, provider := range p.Technosphere(inventory.FlowUnitEquals(electricityUnit)) {
		source, err := t.db.One(
			inventory.NameEquals(provider.Name),
			inventory.LocationEquals(provider.Location),
			inventory.ProductContains(provider.Product),
			inventory.UnitEquals(provider.Unit),
		)
		if err != nil {
			continue
		}
		for _, emission := range source.BiosphereFlows(inventory.FlowNameContains("Carbon dioxide")) {
			co2 += emission.Amount * provider.Amount
		}
	}

	captured := co2 * co2CaptureRate
	for _, f := range p.Flows {
		switch {
		case f.Kind == inventory.Technosphere && f.Unit == "kilogram" &&
			strings.HasPrefix(f.Name, "CO2 capture"):
			f.Amount = captured
		case f.Kind == inventory.Biosphere && f.Unit == "kilogram" &&
			strings.HasPrefix(f.Name, "Carbon dioxide"):
			f.Amount = captured
		}
	}
}
