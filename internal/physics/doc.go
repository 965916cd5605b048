// Package physics implements the exact-rational collision kernel for two
// blocks on a line with a wall at x=0.
//
// All quantities are [rational.Rational]; nothing in this package touches
// floating point. The pieces compose as:
//
//   - [Block]: mass, velocity, position, size
//   - [Detect]: pure collision classification (wall 0 > wall 1 > blocks)
//   - [ResolveWall] / [ResolveBlocks]: elastic collision resolution
//   - [TotalEnergy] / [TotalMomentum]: conserved-quantity sums
//
// Velocity updates from block-block collisions are capped with
// [rational.Rational.BestApprox] at the point of computation so a single
// large division cannot blow up the denominators.
package physics
