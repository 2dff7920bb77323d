// Package analysis derives plot-ready data from the reaction network:
//
//   - [PhasePath]: the u-v path of a trajectory
//   - [PhasePortraitToASCII]: terminal rendering of one or more paths
//   - [VectorField]: normalized right-hand side on a grid
//
// # Example
//
//	tr, _ := sim.Simulate(models.DefaultParams(), 0, 0, 3.3, 30, 0.01)
//	fmt.Print(analysis.PhasePortraitToASCII(80, 24, analysis.PhasePath(tr)))
package analysis
