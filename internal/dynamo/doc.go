// Package dynamo provides the simulation primitives shared by the reaction
// model, the integrator and the search routines.
//
// The package defines:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Metric]: per-step observer that reduces a run to a scalar
//   - [Simulator]: orchestrates a fixed-step run
//
// # Example
//
//	dyn := models.NewReaction(models.DefaultParams(), tf)
//	sim := dynamo.New(dyn, integrators.NewEuler())
//	result, _ := sim.Run(ctx, dynamo.State{0, 0}, cfg)
//
// # Thread Safety
//
// A Simulator holds no per-run state besides its metrics. Runs without
// metrics may share a Simulator; to run in parallel with metrics, build one
// Simulator per goroutine. [ForEach] bounds fan-out over independent runs.
package dynamo
