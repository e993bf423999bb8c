package report

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/gridforge/gridforge/pkg/natsutil"
)

// ChangeSubject is the NATS subject carrying per-process change events.
const ChangeSubject = "gridforge.inventory.changes"

// ChangeEvent is one created/emptied process, published for downstream
// reporting pipelines.
type ChangeEvent struct {
	Key    Key    `json:"key"`
	Status string `json:"status"`
	Entry  Entry  `json:"entry"`
}

// PublishChanges emits one ChangeEvent per ledger row. Publication order is
// stable: created before emptied, within each the recording order.
func PublishChanges(ctx context.Context, nc *nats.Conn, l *Ledger) error {
	for _, k := range l.Keys() {
		for _, e := range l.CreatedFor(k) {
			if err := natsutil.Publish(ctx, nc, ChangeSubject, ChangeEvent{Key: k, Status: "created", Entry: e}); err != nil {
				return err
			}
		}
		for _, e := range l.EmptiedFor(k) {
			if err := natsutil.Publish(ctx, nc, ChangeSubject, ChangeEvent{Key: k, Status: "emptied", Entry: e}); err != nil {
				return err
			}
		}
	}
	return nc.Flush()
}
