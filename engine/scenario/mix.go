package scenario

// MixVector maps a technology variable to its dimensionless share of a
// region's electricity supply.
type MixVector map[string]float64

// Sum returns the total of all shares in the vector.
func (m MixVector) Sum() float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

// Mix returns the technology mix of a region at an exact scenario year,
// interpolating when the year falls between samples.
func (c *Cube) Mix(region string, year int) (MixVector, error) {
	mix := make(MixVector, len(c.variables))
	for _, variable := range c.variables {
		v, err := c.Interp(region, float64(year), variable)
		if err != nil {
			return nil, err
		}
		mix[variable] = v
	}
	return mix, nil
}

// MeanMix returns the arithmetic mean of the yearly mix over the closed
// range [start, start+period]. Consumers with multi-decade lifetimes are
// charged this average rather than a single-year snapshot. A zero period
// degenerates to Mix(region, start).
func (c *Cube) MeanMix(region string, start, period int) (MixVector, error) {
	if period <= 0 {
		return c.Mix(region, start)
	}
	mix := make(MixVector, len(c.variables))
	for _, variable := range c.variables {
		var total float64
		for year := start; year <= start+period; year++ {
			v, err := c.Interp(region, float64(year), variable)
			if err != nil {
				return nil, err
			}
			total += v
		}
		mix[variable] = total / float64(period+1)
	}
	return mix, nil
}
