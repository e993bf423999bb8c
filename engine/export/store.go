// Package export persists the mutated inventory graph to Neo4j: one node per
// process, one SUPPLIES relationship per technosphere flow.
package export

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/gridforge/gridforge/engine/inventory"
)

// CypherSession is the minimal session surface the store needs.
type CypherSession interface {
	Run(ctx context.Context, cypher string, params map[string]any, configurers ...func(*neo4j.TransactionConfig)) (neo4j.ResultWithContext, error)
	Close(ctx context.Context) error
}

// SessionOpener opens Cypher sessions; the indirection keeps the store
// testable without a live database.
type SessionOpener interface {
	OpenSession(ctx context.Context) CypherSession
}

type driverOpener struct {
	driver neo4j.DriverWithContext
}

func (o driverOpener) OpenSession(ctx context.Context) CypherSession {
	return o.driver.NewSession(ctx, neo4j.SessionConfig{})
}

// Store writes inventory processes and their supply links to Neo4j.
type Store struct {
	opener SessionOpener
}

// New creates a Store on top of a Neo4j driver.
func New(driver neo4j.DriverWithContext) *Store {
	return &Store{opener: driverOpener{driver: driver}}
}

// NewWithOpener creates a Store with a custom session opener.
func NewWithOpener(opener SessionOpener) *Store {
	return &Store{opener: opener}
}

// SaveProcess creates or updates one process node.
func (s *Store) SaveProcess(ctx context.Context, p *inventory.Process) error {
	sess := s.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	_, err := sess.Run(ctx,
		`MERGE (n:Process {id: $id}) SET n += $props`,
		map[string]any{"id": p.ID, "props": processProps(p)},
	)
	return err
}

// SaveDatabase writes every process and its supply relationships in a single
// session: nodes first, then the edges linking consumers to suppliers by
// (name, product, location).
func (s *Store) SaveDatabase(ctx context.Context, db *inventory.Database) error {
	sess := s.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	for _, p := range db.All() {
		if _, err := sess.Run(ctx,
			`MERGE (n:Process {id: $id}) SET n += $props`,
			map[string]any{"id": p.ID, "props": processProps(p)},
		); err != nil {
			return fmt.Errorf("export: save %q/%s: %w", p.Name, p.Location, err)
		}
	}

	for _, p := range db.All() {
		for _, f := range p.Flows {
			if f.Kind != inventory.Technosphere {
				continue
			}
			if _, err := sess.Run(ctx,
				`MATCH (consumer:Process {id: $id}),
				       (supplier:Process {name: $name, product: $product, location: $location})
				 MERGE (supplier)-[r:SUPPLIES]->(consumer)
				 SET r.amount = $amount, r.unit = $unit`,
				map[string]any{
					"id":       p.ID,
					"name":     f.Name,
					"product":  f.Product,
					"location": f.Location,
					"amount":   f.Amount,
					"unit":     f.Unit,
				},
			); err != nil {
				return fmt.Errorf("export: link %q/%s: %w", p.Name, p.Location, err)
			}
		}
	}
	return nil
}

func processProps(p *inventory.Process) map[string]any {
	return map[string]any{
		"name":     p.Name,
		"product":  p.Product,
		"location": p.Location,
		"unit":     p.Unit,
		"comment":  p.Comment,
	}
}
