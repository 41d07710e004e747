// Package physics is the per-tick simulation core for spherical bodies.
//
// A tick runs three passes over the registry, always in this order:
//
//   - [ApplyGravity]: every body pulls every other body; contributions are
//     added into the attractee's velocity.
//   - [Integrate]: positions advance by velocity * dt.
//   - [ResolveCollisions]: overlapping pairs are pushed apart and exchange a
//     mass-weighted, bounciness-scaled impulse.
//
// The [Engine] gates the passes behind a two-state [Controller]
// (Paused/Running) toggled by an edge-triggered input.
//
// # Determinism
//
// Given the same bodies in the same insertion order and the same sequence of
// [Input] values, results are bit-for-bit reproducible. Collision resolution
// is sequential and pairwise: pair N+1 sees the corrections of pair N. When
// three or more bodies overlap at once, the outcome depends on insertion
// order. That is accepted, not corrected.
//
// # Gravity units
//
// By default gravity adds G*m/r² straight into velocity once per tick, with
// no dt factor, so its effect depends on the tick rate. Set
// [Params.ScaleGravityByDt] to multiply the contribution by dt instead.
package physics
