package physics

import "github.com/CDE90/pi-blocks-simulation/internal/rational"

// TotalEnergy is the total kinetic energy (m0*v0^2 + m1*v1^2)/2, capped to
// maxDen.
func TotalEnergy(b0, b1 *Block, maxDen int64) rational.Rational {
	e0 := b0.Mass.Mul(b0.Vel).Mul(b0.Vel)
	e1 := b1.Mass.Mul(b1.Vel).Mul(b1.Vel)
	return e0.Add(e1).Div(two).BestApprox(maxDen)
}

// TotalMomentum is m0*v0 + m1*v1, capped to maxDen.
func TotalMomentum(b0, b1 *Block, maxDen int64) rational.Rational {
	return b0.Mass.Mul(b0.Vel).Add(b1.Mass.Mul(b1.Vel)).BestApprox(maxDen)
}
