package physics

import (
	"fmt"

	"github.com/CDE90/pi-blocks-simulation/internal/rational"
)

var two = rational.FromInt(2)

// Block is a point mass with extent, confined to the positive x axis.
// Mass and Size are fixed for the block's lifetime; Vel and Pos are mutated
// by resolution and straight-line motion.
type Block struct {
	Mass rational.Rational
	Vel  rational.Rational
	Pos  rational.Rational
	Size rational.Rational
}

func NewBlock(mass, vel, pos, size rational.Rational) (*Block, error) {
	if mass.Sign() <= 0 {
		return nil, fmt.Errorf("block mass must be positive, got %s", mass)
	}
	if size.Sign() <= 0 {
		return nil, fmt.Errorf("block size must be positive, got %s", size)
	}
	return &Block{Mass: mass, Vel: vel, Pos: pos, Size: size}, nil
}

func (b *Block) String() string {
	return fmt.Sprintf("Block(mass=%s, v=%s, x=%s)", b.Mass, b.Vel, b.Pos)
}

// HalfSize is the distance from the block's center to either face.
func (b *Block) HalfSize() rational.Rational {
	return b.Size.Div(two)
}

// Advance moves the block along its velocity for one time step, exactly.
func (b *Block) Advance(dt rational.Rational) {
	b.Pos = b.Pos.Add(b.Vel.Mul(dt))
}

// Simplify re-bounds the denominators of velocity and position. Mass and
// size are exact by construction and never touched.
func (b *Block) Simplify(maxDen int64) {
	b.Vel = b.Vel.BestApprox(maxDen)
	b.Pos = b.Pos.BestApprox(maxDen)
}
