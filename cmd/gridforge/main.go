// Command gridforge rebuilds the electricity supply network of a life-cycle
// inventory database from an IAM scenario: regional three-tier markets,
// rescaled power-plant efficiencies, region-specific plant copies.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/gridforge/gridforge/engine/electricity"
	"github.com/gridforge/gridforge/engine/export"
	"github.com/gridforge/gridforge/engine/geo"
	"github.com/gridforge/gridforge/engine/inventory"
	"github.com/gridforge/gridforge/engine/report"
	"github.com/gridforge/gridforge/engine/scenario"
	"github.com/gridforge/gridforge/engine/techmap"
	"github.com/gridforge/gridforge/pkg/metrics"
)

var met = metrics.New()

func main() {
	var (
		inventoryPath = flag.String("inventory", "inventory.json", "inventory database JSON")
		outputPath    = flag.String("out", "inventory.out.json", "output path for the mutated database")
		mixPath       = flag.String("mixes", "electricity_mixes.csv", "market mix scenario CSV")
		effPath       = flag.String("efficiencies", "", "plant efficiency trajectory CSV (optional)")
		solarEffPath  = flag.String("solar-efficiencies", "", "PV module efficiency CSV (optional)")
		lossPath      = flag.String("losses", "losses_per_country.csv", "per-country loss table CSV")
		geoPath       = flag.String("geomap", "regions.yaml", "region to native locations YAML")
		rulesPath     = flag.String("rules", "technologies.yaml", "technology classification YAML")
		model         = flag.String("model", "remind", "IAM model name")
		pathway       = flag.String("pathway", "SSP2-Base", "scenario pathway")
		year          = flag.Int("year", 2030, "scenario year")
		systemModel   = flag.String("system-model", "cutoff", "system model: cutoff or consequential")
		ledgerDB      = flag.String("ledger-db", "", "SQLite audit database path (optional)")
		natsURL       = flag.String("nats", "", "NATS URL for change events (optional)")
		neo4jURL      = flag.String("neo4j", "", "Neo4j bolt URL for graph export (optional)")
		neo4jUser     = flag.String("neo4j-user", "neo4j", "Neo4j username")
		neo4jPass     = flag.String("neo4j-pass", "", "Neo4j password")
		metricsPort   = flag.Int("metrics-port", 9093, "port for the /metrics endpoint")
	)
	flag.Parse()

	met.ServeAsync(*metricsPort)

	log := slog.Default()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := inventory.LoadFile(*inventoryPath)
	if err != nil {
		fatal(log, "load inventory", err)
	}
	gm, err := geo.LoadFile(*geoPath)
	if err != nil {
		fatal(log, "load geomap", err)
	}
	tm, err := techmap.LoadFile(*rulesPath)
	if err != nil {
		fatal(log, "load technology rules", err)
	}

	data := electricity.Datasets{}
	if data.Mixes, err = scenario.LoadCSVFile(*mixPath); err != nil {
		fatal(log, "load market mixes", err)
	}
	if *effPath != "" {
		if data.Efficiencies, err = scenario.LoadCSVFile(*effPath); err != nil {
			fatal(log, "load efficiencies", err)
		}
	}
	if *solarEffPath != "" {
		if data.SolarModuleEfficiencies, err = scenario.LoadCSVFile(*solarEffPath); err != nil {
			fatal(log, "load solar module efficiencies", err)
		}
	}

	ledger := report.NewLedger()
	transform, err := electricity.New(db, gm, tm, data, ledger, electricity.Config{
		Model:         *model,
		Pathway:       *pathway,
		Year:          *year,
		SystemModel:   electricity.SystemModel(*systemModel),
		LossTablePath: *lossPath,
		Logger:        log,
		Metrics:       met,
	})
	if err != nil {
		fatal(log, "construct transform", err)
	}

	log.Info("starting electricity transformation",
		"model", *model, "pathway", *pathway, "year", *year,
		"system_model", *systemModel, "processes", db.Len())

	if err := transform.Run(ctx); err != nil {
		fatal(log, "transformation", err)
	}

	if err := db.SaveFile(*outputPath); err != nil {
		fatal(log, "save inventory", err)
	}
	log.Info("wrote mutated inventory", "path", *outputPath, "processes", db.Len())

	if *ledgerDB != "" {
		store, err := report.OpenStore(*ledgerDB)
		if err != nil {
			fatal(log, "open ledger store", err)
		}
		defer store.Close()
		if err := store.Write(ledger); err != nil {
			fatal(log, "persist ledger", err)
		}
		log.Info("persisted ledger", "path", *ledgerDB)
	}

	if *natsURL != "" {
		nc, err := nats.Connect(*natsURL)
		if err != nil {
			fatal(log, "nats connect", err)
		}
		defer nc.Close()
		if err := report.PublishChanges(ctx, nc, ledger); err != nil {
			fatal(log, "publish changes", err)
		}
		log.Info("published change events", "subject", report.ChangeSubject)
	}

	if *neo4jURL != "" {
		driver, err := neo4j.NewDriverWithContext(*neo4jURL, neo4j.BasicAuth(*neo4jUser, *neo4jPass, ""))
		if err != nil {
			fatal(log, "neo4j connect", err)
		}
		defer driver.Close(ctx)
		if err := driver.VerifyConnectivity(ctx); err != nil {
			fatal(log, "neo4j verify", err)
		}
		if err := export.New(driver).SaveDatabase(ctx, db); err != nil {
			fatal(log, "neo4j export", err)
		}
		log.Info("exported inventory graph to Neo4j")
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg+" failed", "error", err)
	os.Exit(1)
}
