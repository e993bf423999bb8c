// Package report keeps the ledger of created and emptied processes per
// scenario run and hands it to downstream reporting: a SQLite audit sink and
// a NATS event feed.
package report

import "sort"

// Key identifies one scenario run.
type Key struct {
	Model   string `json:"model"`
	Pathway string `json:"pathway"`
	Year    int    `json:"year"`
}

// Entry identifies one process touched by a run.
type Entry struct {
	Name     string `json:"name"`
	Product  string `json:"reference_product"`
	Location string `json:"location"`
	Unit     string `json:"unit"`
}

// Ledger records created and emptied processes keyed by scenario run. It is
// written by the transformation passes and read by reporting; like the rest
// of a run it assumes a single writer.
type Ledger struct {
	created map[Key][]Entry
	emptied map[Key][]Entry
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		created: make(map[Key][]Entry),
		emptied: make(map[Key][]Entry),
	}
}

// Created records a process created under a run.
func (l *Ledger) Created(k Key, e Entry) { l.created[k] = append(l.created[k], e) }

// Emptied records a pre-existing process emptied under a run.
func (l *Ledger) Emptied(k Key, e Entry) { l.emptied[k] = append(l.emptied[k], e) }

// CreatedFor returns the processes created under a run, in creation order.
func (l *Ledger) CreatedFor(k Key) []Entry { return l.created[k] }

// EmptiedFor returns the processes emptied under a run.
func (l *Ledger) EmptiedFor(k Key) []Entry { return l.emptied[k] }

// Keys returns every recorded run key in stable order.
func (l *Ledger) Keys() []Key {
	seen := make(map[Key]bool)
	var keys []Key
	for k := range l.created {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range l.emptied {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		if a.Pathway != b.Pathway {
			return a.Pathway < b.Pathway
		}
		return a.Year < b.Year
	})
	return keys
}
