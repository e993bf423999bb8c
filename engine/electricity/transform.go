// Package electricity synthesizes the three-tier electricity supply network
// (high, medium, low voltage) inside the inventory graph, driven by an IAM
// scenario. It rebuilds regional market processes from projected technology
// shares, rescales power-plant efficiencies to the scenario trajectory, and
// reconciles transmission and distribution losses across voltage tiers.
package electricity

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gridforge/gridforge/engine/geo"
	"github.com/gridforge/gridforge/engine/inventory"
	"github.com/gridforge/gridforge/engine/report"
	"github.com/gridforge/gridforge/engine/scenario"
	"github.com/gridforge/gridforge/engine/techmap"
	"github.com/gridforge/gridforge/pkg/metrics"
)

// SystemModel selects the operating mode of the transformation.
type SystemModel string

const (
	// Cutoff builds averaging-period market variants and treats supplier
	// resolution exhaustion as fatal.
	Cutoff SystemModel = "cutoff"
	// Consequential builds only the snapshot market and omits technologies
	// whose suppliers cannot be resolved.
	Consequential SystemModel = "consequential"
)

const (
	electricityUnit = "kilowatt hour"

	// Floor for indexed production volumes, so share denominators never
	// reach zero.
	minProductionVolume = 1e-9

	// Suppliers below this share are dropped, remaining shares are
	// renormalized to sum to one.
	supplierShareCutoff = 1e-3
)

// averagingPeriods are the forward windows, in years, for which market
// variants are built in cutoff mode. Period 0 is the snapshot mix.
var averagingPeriods = []int{0, 20, 40, 60}

// Datasets bundles the scenario cubes consumed by the transformation.
type Datasets struct {
	// Mixes holds the market technology shares per region and year.
	Mixes *scenario.Cube
	// Efficiencies holds plant efficiency trajectories per technology.
	// Optional; without it the efficiency pass is a no-op.
	Efficiencies *scenario.Cube
	// SolarModuleEfficiencies holds PV module efficiencies per module
	// technology under the global region key. Optional.
	SolarModuleEfficiencies *scenario.Cube
}

// Config carries run identity and construction inputs.
type Config struct {
	Model       string
	Pathway     string
	Year        int
	SystemModel SystemModel

	// LossTablePath points at the per-country loss CSV. Required.
	LossTablePath string

	Logger  *slog.Logger
	Metrics *metrics.Registry

	// NewID overrides process identifier generation, mainly for tests.
	NewID func() string
}

// Transform drives the electricity passes over a single inventory database.
// All state derived from static data (loss profiles, the production index)
// is computed at construction and immutable afterwards.
type Transform struct {
	db     *inventory.Database
	geo    *geo.Geomap
	techs  *techmap.TechMap
	data   Datasets
	ledger *report.Ledger
	cfg    Config

	log   *slog.Logger
	newID func() string

	production ProductionIndex
	losses     map[string]LossProfile

	mMarketsCreated   *metrics.Counter
	mMarketsEmptied   *metrics.Counter
	mPlantsRescaled   *metrics.Counter
	mPlantsDuplicated *metrics.Counter
}

// New builds a Transform: it indexes production volumes, loads the static
// loss table and derives production-weighted loss profiles per region. A
// missing loss table is fatal here, since every market depends on it.
func New(db *inventory.Database, gm *geo.Geomap, tm *techmap.TechMap, data Datasets, ledger *report.Ledger, cfg Config) (*Transform, error) {
	if data.Mixes == nil {
		return nil, fmt.Errorf("electricity: no market mix cube provided")
	}
	if cfg.SystemModel == "" {
		cfg.SystemModel = Cutoff
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.NewID == nil {
		cfg.NewID = func() string { return uuid.NewString() }
	}
	if ledger == nil {
		ledger = report.NewLedger()
	}

	t := &Transform{
		db:     db,
		geo:    gm,
		techs:  tm,
		data:   data,
		ledger: ledger,
		cfg:    cfg,
		log:    cfg.Logger.With("model", cfg.Model, "pathway", cfg.Pathway, "year", cfg.Year),
		newID:  cfg.NewID,

		mMarketsCreated:   cfg.Metrics.Counter("gridforge_markets_created_total", "Electricity markets created"),
		mMarketsEmptied:   cfg.Metrics.Counter("gridforge_markets_emptied_total", "Pre-existing markets emptied and redirected"),
		mPlantsRescaled:   cfg.Metrics.Counter("gridforge_plants_rescaled_total", "Power plants with rescaled efficiency"),
		mPlantsDuplicated: cfg.Metrics.Counter("gridforge_plants_duplicated_total", "Region-specific plant copies created"),
	}

	t.production = buildProductionIndex(db, tm)

	table, err := LoadLossTable(cfg.LossTablePath)
	if err != nil {
		return nil, err
	}
	t.losses = make(map[string]LossProfile, len(gm.Regions()))
	for _, region := range gm.Regions() {
		locs, err := gm.NativeLocations(region)
		if err != nil {
			return nil, err
		}
		t.losses[region] = table.WeightedProfile(locs)
	}
	return t, nil
}

// Ledger returns the change ledger shared with downstream reporting.
func (t *Transform) Ledger() *report.Ledger { return t.ledger }

// LossProfileFor returns the production-weighted loss profile of a region.
func (t *Transform) LossProfileFor(region string) LossProfile { return t.losses[region] }

func (t *Transform) ledgerKey() report.Key {
	return report.Key{Model: t.cfg.Model, Pathway: t.cfg.Pathway, Year: t.cfg.Year}
}

func (t *Transform) recordCreated(p *inventory.Process) {
	t.ledger.Created(t.ledgerKey(), report.Entry{
		Name: p.Name, Product: p.Product, Location: p.Location, Unit: p.Unit,
	})
	t.writeLog(p, "created")
}

func (t *Transform) recordEmptied(p *inventory.Process) {
	t.ledger.Emptied(t.ledgerKey(), report.Entry{
		Name: p.Name, Product: p.Product, Location: p.Location, Unit: p.Unit,
	})
	t.writeLog(p, "emptied")
}

// writeLog emits the structured audit line for a created or updated process.
func (t *Transform) writeLog(p *inventory.Process, status string) {
	attrs := []any{"status", status, "name", p.Name, "location", p.Location}
	for _, key := range []string{
		"old efficiency", "new efficiency",
		"transformation loss", "distribution loss", "renewable share",
	} {
		if v, ok := p.Param(key); ok {
			attrs = append(attrs, key, v)
		}
	}
	t.log.Info("process "+status, attrs...)
}
