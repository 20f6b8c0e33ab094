// Package dynamo provides the core types shared by the free-fall lab.
//
// The package defines the physical constants and the data model:
//
//   - [Scenario]: initial height and mass, validated once at start
//   - [Sample]: position, velocity and energies at one instant
//   - [Series]: the uniformly sampled fall from t=0 to impact
//   - [Diagnostics]: conservation check over a series
//   - [System], [Integrator]: ODE interfaces used for numeric cross-checks
//
// # Example
//
//	sc := dynamo.Scenario{Height: 10, Mass: 1}
//	if err := sc.Validate(); err != nil {
//	    return err
//	}
//	series, _ := sim.NewEvaluator().Sample(ctx, sc, dynamo.DefaultSamples)
//	diag := metrics.Analyze(series, dynamo.ConservationTolerance)
//
// # Errors
//
// Invalid input is reported as an [*InputError] wrapping either [ErrParse]
// or [ErrRange]; use errors.Is to tell them apart.
package dynamo
