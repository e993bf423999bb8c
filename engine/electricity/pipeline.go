package electricity

import (
	"context"

	"github.com/gridforge/gridforge/pkg/fn"
)

// stage lifts a Transform pass into a traced pipeline stage.
func stage(name string, pass func(*Transform) error) fn.Stage[*Transform, *Transform] {
	return fn.TracedStage(name, func(_ context.Context, t *Transform) fn.Result[*Transform] {
		if err := pass(t); err != nil {
			return fn.Err[*Transform](err)
		}
		return fn.Ok(t)
	})
}

// Run executes the full electricity transformation in its contractual order:
// region-specific plants first, then efficiency rescaling, then the market
// cascade. A failing pass aborts the run; no partial market is committed.
func (t *Transform) Run(ctx context.Context) error {
	pipeline := fn.Pipeline(
		stage("electricity.duplicate_plants", (*Transform).CreateRegionSpecificPlants),
		stage("electricity.rescale_efficiency", (*Transform).RescaleEfficiencies),
		stage("electricity.rescale_solar_pv", (*Transform).RescaleSolarPV),
		stage("electricity.rebuild_markets", (*Transform).RebuildMarkets),
	)
	_, err := pipeline(ctx, t).Unwrap()
	return err
}
