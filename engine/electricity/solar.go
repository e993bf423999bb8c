package electricity

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gridforge/gridforge/engine/inventory"
)

// PV module efficiency bounds; projected values outside this range are not
// physically plausible for the module technologies considered.
const (
	pvEfficiencyFloor   = 0.10
	pvEfficiencyCeiling = 0.27
)

// globalRegion keys the solar module efficiency cube, which carries no
// regional resolution.
const globalRegion = "GLO"

// pvModuleTechs are the module technologies recognized in flow names.
var pvModuleTechs = []string{"micro-Si", "single-Si", "multi-Si", "CIGS", "CIS", "CdTe"}

var ratedPowerRe = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)

// RescaleSolarPV updates the module efficiency of photovoltaic installation
// processes: the current efficiency is the rated power over the active
// surface (at a constant 1 kW/m2 irradiation), and the panel surface is
// shrunk to match the projected module efficiency. The surface only changes
// when the projection improves on the current module.
func (t *Transform) RescaleSolarPV() error {
	if t.data.SolarModuleEfficiencies == nil {
		return nil
	}

	installations := t.db.Select(
		inventory.NameContains("photovoltaic"),
		inventory.Either(
			inventory.NameContains("installation"),
			inventory.NameContains("construction"),
		),
		inventory.NameNotContains("market", "factory", "module"),
		inventory.UnitEquals("unit"),
	)

	for _, p := range installations {
		power, ok := ratedPowerKW(p.Name)
		if !ok {
			continue
		}

		for _, f := range p.Technosphere(
			inventory.FlowNameContains("photovoltaic"),
			inventory.FlowUnitEquals("square meter"),
		) {
			surface := f.Amount
			if surface <= 0 {
				continue
			}
			current := power / surface

			tech, ok := moduleTech(f.Name)
			if !ok {
				continue
			}
			target, err := t.data.SolarModuleEfficiencies.Interp(globalRegion, float64(t.cfg.Year), tech)
			if err != nil {
				continue
			}
			if target < pvEfficiencyFloor {
				target = pvEfficiencyFloor
			}
			if target > pvEfficiencyCeiling {
				target = pvEfficiencyCeiling
			}
			if target <= current {
				continue
			}

			f.Amount *= current / target
			p.SetParam("old efficiency", current)
			p.SetParam("new efficiency", target)
			t.writeLog(p, "updated")
		}
	}
	return nil
}

// ratedPowerKW extracts the rated power from an installation name, in kW.
// Names quoting MWp ratings are scaled up.
func ratedPowerKW(name string) (float64, bool) {
	m := ratedPowerRe.FindString(name)
	if m == "" {
		return 0, false
	}
	power, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	if strings.Contains(strings.ToLower(name), "mwp") {
		power *= 1000
	}
	return power, true
}

func moduleTech(flowName string) (string, bool) {
	lower := strings.ToLower(flowName)
	for _, tech := range pvModuleTechs {
		if strings.Contains(lower, strings.ToLower(tech)) {
			return tech, true
		}
	}
	return "", false
}
