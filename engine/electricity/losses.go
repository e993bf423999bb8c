package electricity

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Column headers of the static per-country loss table.
const (
	colProductionVolume = "Production volume"
	colTransfHigh       = "Transformation loss high voltage"
	colTransfMedium     = "Transformation loss medium voltage"
	colDistrMedium      = "Transmission loss to medium voltage"
	colTransfLow        = "Transformation loss low voltage"
	colDistrLow         = "Transmission loss to low voltage"
)

// TierLoss holds the loss fractions of one voltage tier.
type TierLoss struct {
	Transformation float64
	Distribution   float64
}

// LossProfile holds per-tier losses for one region.
type LossProfile struct {
	High   TierLoss
	Medium TierLoss
	Low    TierLoss
}

// countryLosses is one row of the static table.
type countryLosses struct {
	productionVolume float64
	transfHigh       float64
	transfMedium     float64
	distrMedium      float64
	transfLow        float64
	distrLow         float64
}

// LossTable holds per-country loss records. Countries absent from the table
// resolve to an explicit zero-loss, zero-volume record.
type LossTable struct {
	records map[string]countryLosses
}

// LoadLossTable reads the per-country loss CSV. A missing file is fatal.
func LoadLossTable(path string) (*LossTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("electricity: %s: %w", path, ErrMissingLossTable)
		}
		return nil, fmt.Errorf("electricity: open loss table %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("electricity: read loss table: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("electricity: loss table %s has no data rows", path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[h] = i
	}
	for _, h := range []string{
		colProductionVolume, colTransfHigh, colTransfMedium,
		colDistrMedium, colTransfLow, colDistrLow,
	} {
		if _, ok := col[h]; !ok {
			return nil, fmt.Errorf("electricity: loss table missing column %q", h)
		}
	}

	table := &LossTable{records: make(map[string]countryLosses, len(rows)-1)}
	for i, row := range rows[1:] {
		field := func(name string) (float64, error) {
			return strconv.ParseFloat(row[col[name]], 64)
		}
		var rec countryLosses
		var err error
		if rec.productionVolume, err = field(colProductionVolume); err == nil {
			if rec.transfHigh, err = field(colTransfHigh); err == nil {
				if rec.transfMedium, err = field(colTransfMedium); err == nil {
					if rec.distrMedium, err = field(colDistrMedium); err == nil {
						if rec.transfLow, err = field(colTransfLow); err == nil {
							rec.distrLow, err = field(colDistrLow)
						}
					}
				}
			}
		}
		if err != nil {
			return nil, fmt.Errorf("electricity: loss table row %d: %w", i+2, err)
		}
		table.records[row[0]] = rec
	}
	return table, nil
}

// lookup returns a country record, defaulting to the zero record.
func (lt *LossTable) lookup(country string) countryLosses {
	return lt.records[country]
}

// WeightedProfile derives a region's loss profile as the production-weighted
// average over its constituent countries. Regions whose countries are all
// absent from the table get the zero-default profile.
func (lt *LossTable) WeightedProfile(countries []string) LossProfile {
	weighted := func(pick func(countryLosses) (transf, distr float64)) TierLoss {
		var volume, transf, distr float64
		for _, c := range countries {
			rec := lt.lookup(c)
			tl, dl := pick(rec)
			transf += tl * rec.productionVolume
			distr += dl * rec.productionVolume
			volume += rec.productionVolume
		}
		if volume == 0 {
			return TierLoss{}
		}
		return TierLoss{Transformation: transf / volume, Distribution: distr / volume}
	}

	return LossProfile{
		High: weighted(func(r countryLosses) (float64, float64) {
			return r.transfHigh, 0
		}),
		Medium: weighted(func(r countryLosses) (float64, float64) {
			return r.transfMedium, r.distrMedium
		}),
		Low: weighted(func(r countryLosses) (float64, float64) {
			return r.transfLow, r.distrLow
		}),
	}
}
