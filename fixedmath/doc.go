// Package fixedmath implements the deterministic fixed-point arithmetic
// shared by WeightedPool, StableSwapPool and LendingEngine: a signed Q64.64
// type (FP) used for invariant/power math, and two unsigned 18-decimal
// types (Ratio, bounded to [0,1], and Rate, unbounded above) used for
// factors, exchange rates and borrow indices.
//
// All three types are saturating: no operation panics on overflow, and
// division by zero is reported as an error rather than a panic, matching
// the contract the lending and pool engines depend on.
package fixedmath
