// Package physics provides the free-fall model.
//
// The closed-form functions evaluate a body released from rest at height h
// under constant gravity [dynamo.Gravity], with no air resistance:
//
//	y(t)  = max(0, h - g·t²/2)
//	v(t)  = -g·t
//	Ec(t) = m·v²/2
//	Ep(t) = m·g·y
//	Em(t) = Ec + Ep
//
// [FreeFall] carries the same equations as methods and also implements
// [dynamo.System] and [dynamo.Hamiltonian] so the fall can be integrated
// numerically and compared with the analytic solution:
//
//	ff := physics.NewFreeFall(10, 1)
//	if h, ok := any(ff).(dynamo.Hamiltonian); ok {
//	    energy := h.Energy(dynamo.State{10, 0})
//	}
package physics
