package electricity

import (
	"strings"

	"github.com/gridforge/gridforge/engine/inventory"
	"github.com/gridforge/gridforge/engine/techmap"
)

// fuelEnergyPerKWh is the energy content of the reference output, in MJ.
const fuelEnergyPerKWh = 3.6

// RescaleEfficiencies adjusts the technosphere and biosphere quantities of
// power-generation processes so that their implied efficiency matches the
// scenario trajectory for their technology and region. Processes whose
// target is unavailable keep their amounts; targets are clamped to the
// physically plausible range before use.
func (t *Transform) RescaleEfficiencies() error {
	if t.data.Efficiencies == nil {
		return nil
	}

	for _, tech := range t.data.Mixes.Variables() {
		if !t.techs.Known(tech) || !t.hasEfficiencyVariable(tech) {
			continue
		}
		fuels := t.techs.Fuels(tech)
		if len(fuels) == 0 {
			continue
		}
		names := t.techs.ProcessNames(tech)

		for _, p := range t.db.Select(
			inventory.UnitEquals(electricityUnit),
			inventory.NameContainsAny(names...),
		) {
			current := impliedEfficiency(p, fuels)
			if current <= 0 {
				continue
			}

			region := t.geo.RegionOf(p.Location)
			target, err := t.data.Efficiencies.Interp(region, float64(t.cfg.Year), tech)
			if err != nil || target <= 0 {
				// unavailable target: the process keeps its amounts
				continue
			}
			if target > 1 {
				target = 1
			}

			scale := current / target
			for _, f := range p.Flows {
				if f.Kind != inventory.Production {
					f.Amount *= scale
				}
			}

			p.SetParam("old efficiency", current)
			p.SetParam("new efficiency", target)
			t.writeLog(p, "updated")
			t.mPlantsRescaled.Inc()
		}
	}
	return nil
}

func (t *Transform) hasEfficiencyVariable(tech string) bool {
	for _, v := range t.data.Efficiencies.Variables() {
		if v == tech {
			return true
		}
	}
	return false
}

// impliedEfficiency derives the current thermal/electrical efficiency of a
// process from its fuel inputs: the reference kWh output over the summed
// fuel energy (amount times lower heating value). Each flow counts once,
// against the first fuel category it matches.
func impliedEfficiency(p *inventory.Process, fuels []techmap.Fuel) float64 {
	var fuelEnergy float64
	for _, f := range p.Technosphere() {
	nextFlow:
		for _, fuel := range fuels {
			for _, alias := range fuel.Names {
				if strings.Contains(f.Name, alias) {
					fuelEnergy += f.Amount * fuel.LHV
					break nextFlow
				}
			}
		}
	}
	if fuelEnergy <= 0 {
		return 0
	}
	return fuelEnergyPerKWh / fuelEnergy
}
