// Package dynamo is the runtime driver: it holds a classified circuit's
// Strata, a compiled-kernel cache, and the global-cell store that
// carries state between calls, and exposes the three operations a host
// application actually calls once a netlist is loaded:
//
//   - [New]: classify a netlist's MNA equations once.
//   - [Simulation.Process]: select or build a kernel for the requested
//     (inputs, outputs, parameters) signature and drive it over N
//     samples, oversampling and linearly interpolating every input,
//     boxcar-averaging every output.
//   - [Simulation.Reset]: zero every global cell and _t.
//
// # Thread Safety
//
// A Simulation is single-threaded with respect to itself: two Process
// calls on the same instance must never overlap. Distinct Simulation
// instances share nothing and may run concurrently — see
// [ParallelFor], used by internal/optim to sweep a parameter across
// independent Simulation instances.
package dynamo
