// Package pexplore drives an iterative computational task through
// repeated steps, scoring each step's candidate outputs against a
// user-supplied constraining specification and selecting the best one to
// carry forward, while recording score history for diagnostics.
//
// Build a Constraint with NewConstraintBuilder, install constraints on a
// Runnable (built with NewRunnable) via SetConstraints, and drive it with
// Push/Pull. Set the shared
// PointManager's concurrency to 1 to force single-point sequential
// execution, or above 1 to fan out over a search point's shift-one
// neighbourhood and select the minimum-scoring candidate.
package pexplore
