package electricity

import "errors"

// Sentinel errors for the transformation passes.
var (
	// ErrNoSupplier signals that no supplier matched after exhausting the
	// whole fallback location chain.
	ErrNoSupplier = errors.New("no supplier found after location fallbacks")
	// ErrMissingLossTable signals that the static loss table is absent;
	// everything downstream depends on it, so construction fails.
	ErrMissingLossTable = errors.New("loss table not found")
)
