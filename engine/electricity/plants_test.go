package electricity

import (
	"testing"

	"github.com/gridforge/gridforge/engine/inventory"
	"github.com/gridforge/gridforge/engine/techmap"
)

const duplicationRules = `
chp_ccs: ["gas chp ccs"]
duplicate: ["gas chp ccs"]
technologies:
  - name: gas chp ccs
    process_names: ["heat and power co-generation, natural gas, with CCS"]
    fuels: [natural gas]
  - name: gas
    process_names: ["electricity production, natural gas"]
    fuels: [natural gas]
  - name: coal
    process_names: ["electricity production, hard coal"]
    fuels: [hard coal]
  - name: hydro
    process_names: ["electricity production, hydro"]
  - name: solar pv residential
    process_names: ["electricity production, photovoltaic, residential"]
fuels:
  - name: hard coal
    lhv: 26.7
    names: [hard coal]
  - name: natural gas
    lhv: 45.0
    names: [natural gas]
`

// chpTemplate is a CCS co-generation plant anchored at CH, drawing grid
// electricity for its capture unit.
func chpTemplate() *inventory.Process {
	name := "heat and power co-generation, natural gas, with CCS, 200kW"
	return &inventory.Process{
		ID: "chp-ch", Name: name, Product: "electricity, high voltage", Location: "CH",
		Unit: electricityUnit,
		Flows: []*inventory.Flow{
			{Kind: inventory.Production, Name: name, Product: "electricity, high voltage",
				Location: "CH", Unit: electricityUnit, Amount: 1, ProductionVolume: 15},
			{Kind: inventory.Technosphere, Name: "electricity production, natural gas",
				Product: "electricity, high voltage", Location: "CH", Unit: electricityUnit, Amount: 0.1},
			{Kind: inventory.Technosphere, Name: "CO2 capture, at co-generation plant",
				Product: "carbon dioxide, captured", Location: "CH", Unit: "kilogram", Amount: 99},
			{Kind: inventory.Biosphere, Name: "Carbon dioxide, fossil",
				Unit: "kilogram", Amount: 99, Compartments: []string{"air"}},
		},
	}
}

func duplicationFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)

	tm, err := techmap.Parse([]byte(duplicationRules))
	if err != nil {
		t.Fatalf("techmap: %v", err)
	}
	f.tm = tm

	// the CH gas plant the capture unit draws from: 0.5 kg CO2 per kWh
	f.db.Add(plant("electricity production, natural gas", "electricity, high voltage", "CH", 40,
		&inventory.Flow{Kind: inventory.Biosphere, Name: "Carbon dioxide, fossil",
			Unit: "kilogram", Amount: 0.5, Compartments: []string{"air"}},
	))
	f.db.Add(chpTemplate())
	return f
}

func TestCreateRegionSpecificPlants(t *testing.T) {
	f := duplicationFixture(t)
	tr := f.transform(t)

	if err := tr.CreateRegionSpecificPlants(); err != nil {
		t.Fatalf("duplicate: %v", err)
	}

	clone, err := f.db.One(
		inventory.NameContains("heat and power co-generation, natural gas, with CCS"),
		inventory.LocationEquals("EUR"),
	)
	if err != nil {
		t.Fatalf("clone not found: %v", err)
	}
	if clone.ReferenceFlow().Location != "EUR" {
		t.Fatal("clone production flow kept the template location")
	}

	// grid electricity of 0.1 kWh from the 0.5 kg/kWh provider emits 0.05 kg
	// CO2; 90% of that is captured and the residual emission carries the same
	// quantity
	captured := 0.05 * co2CaptureRate
	if got := techFlow(t, clone, "CO2 capture, at co-generation plant", "CH").Amount; !approx(got, captured) {
		t.Fatalf("capture input = %g, want %g", got, captured)
	}
	emissions := clone.BiosphereFlows(inventory.FlowNameContains("Carbon dioxide"))
	if len(emissions) != 1 || !approx(emissions[0].Amount, captured) {
		t.Fatalf("emissions = %+v", emissions)
	}

	// the template itself stays untouched
	template, err := f.db.One(
		inventory.NameContains("heat and power co-generation"),
		inventory.LocationEquals("CH"),
	)
	if err != nil {
		t.Fatalf("template lookup: %v", err)
	}
	if got := techFlow(t, template, "CO2 capture, at co-generation plant", "CH").Amount; !approx(got, 99) {
		t.Fatalf("template capture input = %g, want 99", got)
	}
}

func TestCreateRegionSpecificPlants_NoSecondCopy(t *testing.T) {
	f := duplicationFixture(t)
	tr := f.transform(t)

	if err := tr.CreateRegionSpecificPlants(); err != nil {
		t.Fatalf("first run: %v", err)
	}
	before := f.db.Len()
	if err := tr.CreateRegionSpecificPlants(); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if f.db.Len() != before {
		t.Fatalf("second run grew the database from %d to %d", before, f.db.Len())
	}
}

func TestCreateRegionSpecificPlants_SkipsTemplateRegion(t *testing.T) {
	f := duplicationFixture(t)
	// template already anchored inside the only region
	for _, p := range f.db.Select(inventory.NameContains("heat and power co-generation")) {
		p.Location = "EUR"
		p.ReferenceFlow().Location = "EUR"
	}
	tr := f.transform(t)

	before := f.db.Len()
	if err := tr.CreateRegionSpecificPlants(); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if f.db.Len() != before {
		t.Fatal("clone created for the template's own region")
	}
}
