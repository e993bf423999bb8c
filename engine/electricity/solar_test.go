package electricity

import (
	"testing"

	"github.com/gridforge/gridforge/engine/inventory"
	"github.com/gridforge/gridforge/engine/scenario"
)

func pvInstallation(name string, surface float64) *inventory.Process {
	return &inventory.Process{
		ID: name, Name: name, Product: "photovoltaic installation", Location: "CH", Unit: "unit",
		Flows: []*inventory.Flow{
			{Kind: inventory.Production, Name: name, Product: "photovoltaic installation",
				Location: "CH", Unit: "unit", Amount: 1},
			{Kind: inventory.Technosphere, Name: "photovoltaic panel, single-Si wafer",
				Product: "photovoltaic panel", Location: "RER", Unit: "square meter", Amount: surface},
			{Kind: inventory.Technosphere, Name: "inverter, 2.5kW",
				Product: "inverter", Location: "RER", Unit: "unit", Amount: 1},
		},
	}
}

func solarCube(t *testing.T, value float64) *scenario.Cube {
	t.Helper()
	c := scenario.NewCube([]int{2030}, []string{"single-Si"})
	if err := c.Set(globalRegion, 2030, "single-Si", value); err != nil {
		t.Fatalf("set module efficiency: %v", err)
	}
	return c
}

func TestRescaleSolarPV(t *testing.T) {
	f := newFixture(t)
	// 3 kW over 25 m2 at 1 kW/m2 is a 12% module
	p := pvInstallation("photovoltaic slanted-roof installation, 3kWp, single-Si, on roof", 25)
	f.db.Add(p)
	f.data.SolarModuleEfficiencies = solarCube(t, 0.20)

	tr := f.transform(t)
	if err := tr.RescaleSolarPV(); err != nil {
		t.Fatalf("rescale: %v", err)
	}

	panel := techFlow(t, p, "photovoltaic panel, single-Si wafer", "RER")
	if !approx(panel.Amount, 25*0.12/0.20) {
		t.Fatalf("panel surface = %g, want %g", panel.Amount, 25*0.12/0.20)
	}
	// unrelated inputs stay untouched
	if got := techFlow(t, p, "inverter, 2.5kW", "RER").Amount; !approx(got, 1) {
		t.Fatalf("inverter amount = %g", got)
	}
	if old, ok := p.Param("old efficiency"); !ok || !approx(old, 0.12) {
		t.Fatalf("old efficiency = %g, %v", old, ok)
	}
}

func TestRescaleSolarPV_ImproveOnly(t *testing.T) {
	f := newFixture(t)
	p := pvInstallation("photovoltaic slanted-roof installation, 3kWp, single-Si, on roof", 25)
	f.db.Add(p)
	// projection below the current 12% module; the floor clamp raises it to
	// 0.10, which still does not improve on the installation
	f.data.SolarModuleEfficiencies = solarCube(t, 0.05)

	tr := f.transform(t)
	if err := tr.RescaleSolarPV(); err != nil {
		t.Fatalf("rescale: %v", err)
	}

	if got := techFlow(t, p, "photovoltaic panel, single-Si wafer", "RER").Amount; !approx(got, 25) {
		t.Fatalf("panel surface = %g, want unchanged 25", got)
	}
}

func TestRescaleSolarPV_CeilingClamp(t *testing.T) {
	f := newFixture(t)
	p := pvInstallation("photovoltaic slanted-roof installation, 3kWp, single-Si, on roof", 25)
	f.db.Add(p)
	f.data.SolarModuleEfficiencies = solarCube(t, 0.50)

	tr := f.transform(t)
	if err := tr.RescaleSolarPV(); err != nil {
		t.Fatalf("rescale: %v", err)
	}

	if got := techFlow(t, p, "photovoltaic panel, single-Si wafer", "RER").Amount; !approx(got, 25*0.12/pvEfficiencyCeiling) {
		t.Fatalf("panel surface = %g, want clamp at %g", got, pvEfficiencyCeiling)
	}
}

func TestRescaleSolarPV_SkipsMarketsAndModules(t *testing.T) {
	f := newFixture(t)
	p := pvInstallation("market for photovoltaic slanted-roof installation, 3kWp, single-Si", 25)
	f.db.Add(p)
	f.data.SolarModuleEfficiencies = solarCube(t, 0.20)

	tr := f.transform(t)
	if err := tr.RescaleSolarPV(); err != nil {
		t.Fatalf("rescale: %v", err)
	}
	if got := techFlow(t, p, "photovoltaic panel, single-Si wafer", "RER").Amount; !approx(got, 25) {
		t.Fatalf("market installation rescaled to %g", got)
	}
}

func TestRatedPowerKW(t *testing.T) {
	cases := []struct {
		name  string
		want  float64
		found bool
	}{
		{"photovoltaic slanted-roof installation, 3kWp, single-Si, on roof", 3, true},
		{"photovoltaic flat-roof installation, 156 kWp, multi-Si", 156, true},
		{"photovoltaic open ground installation, 570MWp, multi-Si", 570000, true},
		{"photovoltaic facade installation, 1.3kWp, CIS, laminated", 1.3, true},
		{"photovoltaic installation without rating", 0, false},
	}
	for _, tc := range cases {
		got, ok := ratedPowerKW(tc.name)
		if ok != tc.found || (ok && !approx(got, tc.want)) {
			t.Fatalf("%q: got %g, %v; want %g, %v", tc.name, got, ok, tc.want, tc.found)
		}
	}
}
