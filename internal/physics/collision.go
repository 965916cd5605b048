package physics

import "github.com/CDE90/pi-blocks-simulation/internal/rational"

// Collision classifies what, if anything, is colliding right now.
type Collision int

const (
	NoCollision Collision = iota
	Wall0                 // light block against the wall
	Wall1                 // heavy block against the wall
	BlockBlock            // the two blocks against each other
)

func (c Collision) String() string {
	switch c {
	case Wall0:
		return "wall_0"
	case Wall1:
		return "wall_1"
	case BlockBlock:
		return "blocks"
	default:
		return "none"
	}
}

// Detect reports the collision occurring in the current state, if any.
// Checks are ordered wall 0, wall 1, blocks; the first match wins, so at
// most one classification is returned even when several conditions hold.
func Detect(b0, b1 *Block) Collision {
	if b0.Pos.Cmp(b0.HalfSize()) <= 0 && b0.Vel.Sign() < 0 {
		return Wall0
	}
	if b1.Pos.Cmp(b1.HalfSize()) <= 0 && b1.Vel.Sign() < 0 {
		return Wall1
	}

	minDistance := b0.Size.Add(b1.Size).Div(two)
	actualDistance := b1.Pos.Sub(b0.Pos)
	if actualDistance.Cmp(minDistance) <= 0 && b0.Vel.Cmp(b1.Vel) > 0 {
		return BlockBlock
	}

	return NoCollision
}

// ResolveWall reflects a block off the wall: the velocity is negated exactly
// and the position clamped to half the size, removing any penetration
// accumulated by discrete time stepping.
func ResolveWall(b *Block) {
	b.Vel = b.Vel.Neg()
	b.Pos = b.HalfSize()
}

// ElasticVelocities returns the post-collision velocities of a 1-D elastic
// collision, exactly. Both momentum and kinetic energy are conserved by the
// returned pair before any denominator capping.
func ElasticVelocities(m0, v0, m1, v1 rational.Rational) (rational.Rational, rational.Rational) {
	totalMass := m0.Add(m1)
	newV0 := m0.Sub(m1).Mul(v0).Add(two.Mul(m1).Mul(v1)).Div(totalMass)
	newV1 := m1.Sub(m0).Mul(v1).Add(two.Mul(m0).Mul(v0)).Div(totalMass)
	return newV0, newV1
}

// ResolveBlocks applies an elastic collision between the two blocks. The new
// velocities are capped to maxDen immediately. If the blocks overlap after
// the velocity update, the overlap is redistributed inversely to mass share,
// so the heavier block is displaced less; the corrections are capped before
// being applied.
func ResolveBlocks(b0, b1 *Block, maxDen int64) {
	newV0, newV1 := ElasticVelocities(b0.Mass, b0.Vel, b1.Mass, b1.Vel)
	b0.Vel = newV0.BestApprox(maxDen)
	b1.Vel = newV1.BestApprox(maxDen)

	minDistance := b0.Size.Add(b1.Size).Div(two)
	actualDistance := b1.Pos.Sub(b0.Pos)
	if actualDistance.Cmp(minDistance) < 0 {
		overlap := minDistance.Sub(actualDistance)
		totalMass := b0.Mass.Add(b1.Mass)
		adj0 := overlap.Mul(b1.Mass).Div(totalMass).BestApprox(maxDen)
		adj1 := overlap.Mul(b0.Mass).Div(totalMass).BestApprox(maxDen)
		b0.Pos = b0.Pos.Sub(adj0)
		b1.Pos = b1.Pos.Add(adj1)
	}
}
