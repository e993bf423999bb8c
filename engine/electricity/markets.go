package electricity

import (
	"fmt"
	"strings"

	"github.com/gridforge/gridforge/engine/inventory"
	"github.com/gridforge/gridforge/engine/scenario"
)

// Market names and products per voltage tier.
const (
	highVoltageMarket   = "market group for electricity, high voltage"
	mediumVoltageMarket = "market group for electricity, medium voltage"
	lowVoltageMarket    = "market group for electricity, low voltage"

	highVoltageProduct   = "electricity, high voltage"
	mediumVoltageProduct = "electricity, medium voltage"
	lowVoltageProduct    = "electricity, low voltage"
)

// Incidental market inputs: transformer insulation-gas leakage and network
// infrastructure. Coefficients are calibrated per tier and are not
// scenario-dependent.
const (
	sf6MarketName     = "market for sulfur hexafluoride, liquid"
	sf6Substance      = "Sulfur hexafluoride"
	mediumNetworkName = "transmission network construction, electricity, medium voltage"
	lowNetworkName    = "distribution network construction, electricity, low voltage"

	sf6LeakMedium = 5.4e-8
	sf6LeakLow    = 2.99e-9
	networkMedium = 1.8628e-8
	networkLow    = 8.74e-8
)

// Residential solar delivers locally and is wired into the low-voltage tier,
// bypassing transmission.
const residentialSolarTag = "solar pv residential"

var sf6Compartments = []string{"air", "non-urban air or from high stacks"}

// Pre-existing market-like processes are emptied and redirected to the new
// regional markets; the preserve list keeps special-purpose supplies intact.
var (
	marketsToEmpty = []string{
		"market group for electricity",
		"market for electricity",
		"electricity, high voltage, import",
		"electricity, high voltage, production mix",
	}
	marketsToPreserve = []string{
		"cobalt industry",
		"aluminium industry",
		"coal mining",
		"label-certified",
		"renewable energy products",
		"for reuse in municipal waste incineration",
		"Swiss Federal Railways",
	}
)

// RebuildMarkets empties the pre-existing electricity markets and rebuilds
// the three voltage tiers per region and averaging period. Tier order is an
// explicit pipeline contract: each tier reads markets created by the
// previous one, so the stages never reorder.
func (t *Transform) RebuildMarkets() error {
	stages := []func() error{
		t.emptyExistingMarkets,
		t.buildHighVoltageMarkets,
		t.buildMediumVoltageMarkets,
		t.buildLowVoltageMarkets,
	}
	for _, stage := range stages {
		if err := stage(); err != nil {
			return err
		}
	}
	return nil
}

// periods returns the averaging windows built for the current operating
// mode: the snapshot only in consequential mode, the full window set in
// cutoff mode.
func (t *Transform) periods() []int {
	if t.cfg.SystemModel == Consequential {
		return []int{0}
	}
	return averagingPeriods
}

// periodMix resolves the representative mix of a region for one averaging
// period. Consequential runs always use the exact-year snapshot.
func (t *Transform) periodMix(region string, period int) (scenario.MixVector, error) {
	if t.cfg.SystemModel == Consequential {
		return t.data.Mixes.Mix(region, t.cfg.Year)
	}
	return t.data.Mixes.MeanMix(region, t.cfg.Year, period)
}

// periodName suffixes a market name with its averaging window.
func periodName(base string, period int) string {
	if period == 0 {
		return base
	}
	return fmt.Sprintf("%s, %d-year period", base, period)
}

func isResidentialSolar(tech string) bool {
	return strings.Contains(strings.ToLower(tech), residentialSolarTag)
}

// residentialSolarShare sums the residential solar contributions in a mix.
func residentialSolarShare(mix scenario.MixVector) float64 {
	var share float64
	for tech, v := range mix {
		if isResidentialSolar(tech) {
			share += v
		}
	}
	return share
}

// renewableShare sums the renewable contributions in a mix, residential
// solar included.
func (t *Transform) renewableShare(mix scenario.MixVector) float64 {
	var share float64
	for tech, v := range mix {
		if t.techs.IsRenewable(tech) {
			share += v
		}
	}
	return share
}

// newMarket creates a market process shell for a region and period, with the
// normalized production flow of exactly one unit.
func (t *Transform) newMarket(region, baseName, product string, period int) *inventory.Process {
	name := periodName(baseName, period)
	comment := fmt.Sprintf("Market created by gridforge from the IAM model %s using the pathway %s for the year %d.",
		strings.ToUpper(t.cfg.Model), t.cfg.Pathway, t.cfg.Year)
	if period != 0 {
		comment += fmt.Sprintf(" Average electricity mix over a %d-year period %d-%d.",
			period, t.cfg.Year, t.cfg.Year+period)
	}
	return &inventory.Process{
		ID:       t.newID(),
		Name:     name,
		Product:  product,
		Location: region,
		Unit:     electricityUnit,
		Comment:  comment,
		Flows: []*inventory.Flow{{
			Kind:     inventory.Production,
			Name:     name,
			Product:  product,
			Location: region,
			Unit:     electricityUnit,
			Amount:   1,
		}},
	}
}

// marketInput builds a technosphere input from another market of the same
// region and period.
func marketInput(region, baseName, product string, period int, amount float64) *inventory.Flow {
	return &inventory.Flow{
		Kind:     inventory.Technosphere,
		Name:     periodName(baseName, period),
		Product:  product,
		Location: region,
		Unit:     electricityUnit,
		Amount:   amount,
	}
}

// addIncidentalFlows wires insulation-gas leakage and network infrastructure
// into a market: a technosphere SF6 input split across suppliers, the
// matching biosphere SF6 emission, and the network construction input.
func (t *Transform) addIncidentalFlows(m *inventory.Process, region string, sf6Amount float64, networkName string, networkAmount float64) {
	for _, s := range t.incidentalSuppliers(region, sf6MarketName) {
		m.Flows = append(m.Flows, &inventory.Flow{
			Kind:     inventory.Technosphere,
			Name:     s.Process.Name,
			Product:  s.Process.Product,
			Location: s.Process.Location,
			Unit:     s.Process.Unit,
			Amount:   sf6Amount * s.Share,
		})
	}
	m.Flows = append(m.Flows, &inventory.Flow{
		Kind:         inventory.Biosphere,
		Name:         sf6Substance,
		Unit:         "kilogram",
		Amount:       sf6Amount,
		Compartments: sf6Compartments,
	})
	for _, s := range t.incidentalSuppliers(region, networkName) {
		m.Flows = append(m.Flows, &inventory.Flow{
			Kind:     inventory.Technosphere,
			Name:     s.Process.Name,
			Product:  s.Process.Product,
			Location: s.Process.Location,
			Unit:     s.Process.Unit,
			Amount:   networkAmount * s.Share,
		})
	}
}

// technologySuppliers resolves and allocates suppliers for each technology
// matched by the filter, once per region. Technologies omitted by the
// consequential mode are absent from the returned map.
func (t *Transform) technologySuppliers(region string, include func(tech string) bool) (map[string][]Supplier, error) {
	out := make(map[string][]Supplier)
	for _, tech := range t.data.Mixes.Variables() {
		if !include(tech) || !t.techs.Known(tech) {
			continue
		}
		suppliers, err := t.supplyShares(region, "electricity", electricityUnit, t.techs.ProcessNames(tech))
		if err != nil {
			return nil, err
		}
		if suppliers != nil {
			out[tech] = suppliers
		}
	}
	return out, nil
}

// buildHighVoltageMarkets creates the high-voltage market of every region
// and period. The mix excludes residential solar; each technology input is
// renormalized by 1/(1-solar) to compensate for the exclusion, and a
// self-loop carries the transformation loss.
func (t *Transform) buildHighVoltageMarkets() error {
	for _, region := range t.geo.Regions() {
		if !t.data.Mixes.HasRegion(region) {
			continue
		}
		transfLoss := t.losses[region].High.Transformation

		suppliers, err := t.technologySuppliers(region, func(tech string) bool {
			return !isResidentialSolar(tech)
		})
		if err != nil {
			return fmt.Errorf("high voltage market %s: %w", region, err)
		}

		for _, period := range t.periods() {
			mix, err := t.periodMix(region, period)
			if err != nil {
				return err
			}
			solar := residentialSolarShare(mix)

			m := t.newMarket(region, highVoltageMarket, highVoltageProduct, period)
			m.Flows = append(m.Flows, marketInput(region, highVoltageMarket, highVoltageProduct, period, transfLoss))

			for _, tech := range t.data.Mixes.Variables() {
				amount := mix[tech]
				if amount <= 0 || isResidentialSolar(tech) {
					continue
				}
				for _, s := range suppliers[tech] {
					m.Flows = append(m.Flows, &inventory.Flow{
						Kind:     inventory.Technosphere,
						Name:     s.Process.Name,
						Product:  s.Process.Product,
						Location: s.Process.Location,
						Unit:     s.Process.Unit,
						Amount:   amount * s.Share / (1 - solar),
					})
				}
			}

			m.SetParam("transformation loss", transfLoss)
			m.SetParam("distribution loss", 0)
			// Formula preserved as observed: the mix sum may deviate from
			// one once residual categories are excluded upstream.
			m.SetParam("renewable share", (t.renewableShare(mix)-solar)/mix.Sum())

			t.db.Add(m)
			t.recordCreated(m)
			t.mMarketsCreated.Inc()
		}
	}
	return nil
}

// buildMediumVoltageMarkets creates the medium-voltage market of every
// region and period: a single input from the period-matched high-voltage
// market carrying the distribution loss, a transformation-loss self-loop,
// and the incidental SF6/network flows.
func (t *Transform) buildMediumVoltageMarkets() error {
	for _, region := range t.geo.Regions() {
		if !t.data.Mixes.HasRegion(region) {
			continue
		}
		loss := t.losses[region].Medium

		for _, period := range t.periods() {
			m := t.newMarket(region, mediumVoltageMarket, mediumVoltageProduct, period)
			m.Flows = append(m.Flows,
				marketInput(region, highVoltageMarket, highVoltageProduct, period, 1+loss.Distribution),
				marketInput(region, mediumVoltageMarket, mediumVoltageProduct, period, loss.Transformation),
			)
			t.addIncidentalFlows(m, region, sf6LeakMedium, mediumNetworkName, networkMedium)

			m.SetParam("transformation loss", loss.Transformation)
			m.SetParam("distribution loss", loss.Distribution)
			m.SetParam("renewable share", 0)

			t.db.Add(m)
			t.recordCreated(m)
			t.mMarketsCreated.Inc()
		}
	}
	return nil
}

// buildLowVoltageMarkets creates the low-voltage market of every region and
// period. Residential solar feeds this tier directly; the medium-voltage
// input is reduced by the solar share before the distribution loss applies.
func (t *Transform) buildLowVoltageMarkets() error {
	for _, region := range t.geo.Regions() {
		if !t.data.Mixes.HasRegion(region) {
			continue
		}
		loss := t.losses[region].Low

		suppliers, err := t.technologySuppliers(region, isResidentialSolar)
		if err != nil {
			return fmt.Errorf("low voltage market %s: %w", region, err)
		}

		for _, period := range t.periods() {
			mix, err := t.periodMix(region, period)
			if err != nil {
				return err
			}

			m := t.newMarket(region, lowVoltageMarket, lowVoltageProduct, period)
			t.addIncidentalFlows(m, region, sf6LeakLow, lowNetworkName, networkLow)

			var solar float64
			for _, tech := range t.data.Mixes.Variables() {
				amount := mix[tech]
				if amount <= 0 || !isResidentialSolar(tech) {
					continue
				}
				solar += amount
				for _, s := range suppliers[tech] {
					m.Flows = append(m.Flows, &inventory.Flow{
						Kind:     inventory.Technosphere,
						Name:     s.Process.Name,
						Product:  s.Process.Product,
						Location: s.Process.Location,
						Unit:     s.Process.Unit,
						Amount:   amount * s.Share,
					})
				}
			}

			m.Flows = append(m.Flows,
				marketInput(region, mediumVoltageMarket, mediumVoltageProduct, period, (1-solar)*(1+loss.Distribution)),
				marketInput(region, lowVoltageMarket, lowVoltageProduct, period, loss.Transformation),
			)

			m.SetParam("transformation loss", loss.Transformation)
			m.SetParam("distribution loss", loss.Distribution)
			m.SetParam("renewable share", solar/(1+loss.Distribution))

			t.db.Add(m)
			t.recordCreated(m)
			t.mMarketsCreated.Inc()
		}
	}
	return nil
}

// emptyExistingMarkets strips pre-existing market-like processes down to
// their production flow and redirects them to the new regional market of the
// matching voltage tier. Emptied, not deleted, so existing links stay valid.
func (t *Transform) emptyExistingMarkets() error {
	matches := t.db.Select(
		inventory.Either(
			inventory.NameContains(marketsToEmpty[0]),
			inventory.NameContains(marketsToEmpty[1]),
			inventory.NameContains(marketsToEmpty[2]),
			inventory.NameContains(marketsToEmpty[3]),
		),
		inventory.UnitEquals(electricityUnit),
		inventory.NameNotContains(marketsToPreserve...),
	)

	for _, p := range matches {
		inventory.Empty(p)

		voltage := "low voltage"
		switch {
		case strings.Contains(p.Name, "high voltage"):
			voltage = "high voltage"
		case strings.Contains(p.Name, "medium voltage"):
			voltage = "medium voltage"
		}

		p.Flows = append(p.Flows, &inventory.Flow{
			Kind:     inventory.Technosphere,
			Name:     "market group for electricity, " + voltage,
			Product:  "electricity, " + voltage,
			Location: t.geo.RegionOf(p.Location),
			Unit:     electricityUnit,
			Amount:   1,
		})

		t.recordEmptied(p)
		t.mMarketsEmptied.Inc()
	}
	return nil
}
