// Package body holds the simulated spheres and the registry that owns them.
//
// A [Body] always carries the full attribute set. Attributes a scenario does
// not care about take neutral values: a massless body exerts no gravity, and
// a pair whose radii sum to zero never collides. This keeps every physics
// pass a plain loop over one slice.
//
// The [Registry] keeps bodies in insertion order. Pair iteration in the
// physics passes follows that order, so it is part of the observable
// behavior and is preserved across removals.
package body
