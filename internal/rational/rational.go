// Package rational provides the exact fraction arithmetic the collision
// kernel is built on. Values are immutable; every operation returns a new
// Rational kept in lowest terms.
package rational

import (
	"fmt"
	"math/big"
)

type Rational struct {
	v big.Rat
}

// New returns num/den. Panics if den is zero.
func New(num, den int64) Rational {
	var r Rational
	r.v.SetFrac64(num, den)
	return r
}

func FromInt(n int64) Rational {
	var r Rational
	r.v.SetInt64(n)
	return r
}

// Parse accepts "a/b", integer and decimal notation ("1/100", "10000",
// "0.01").
func Parse(s string) (Rational, error) {
	var r Rational
	if _, ok := r.v.SetString(s); !ok {
		return Rational{}, fmt.Errorf("invalid rational: %q", s)
	}
	return r, nil
}

func MustParse(s string) Rational {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rational) Add(o Rational) Rational {
	var out Rational
	out.v.Add(&r.v, &o.v)
	return out
}

func (r Rational) Sub(o Rational) Rational {
	var out Rational
	out.v.Sub(&r.v, &o.v)
	return out
}

func (r Rational) Mul(o Rational) Rational {
	var out Rational
	out.v.Mul(&r.v, &o.v)
	return out
}

// Div panics on division by zero; a zero divisor is a programming error,
// not a recoverable condition.
func (r Rational) Div(o Rational) Rational {
	var out Rational
	out.v.Quo(&r.v, &o.v)
	return out
}

func (r Rational) Neg() Rational {
	var out Rational
	out.v.Neg(&r.v)
	return out
}

func (r Rational) Abs() Rational {
	var out Rational
	out.v.Abs(&r.v)
	return out
}

func (r Rational) Cmp(o Rational) int    { return r.v.Cmp(&o.v) }
func (r Rational) Equal(o Rational) bool { return r.v.Cmp(&o.v) == 0 }
func (r Rational) Sign() int             { return r.v.Sign() }

// Float64 converts to the nearest float64. This is the one-way exit from
// exact arithmetic; the result must never be fed back into simulation state.
func (r Rational) Float64() float64 {
	f, _ := r.v.Float64()
	return f
}

// String renders "num/den", or just "num" for integers.
func (r Rational) String() string { return r.v.RatString() }

// Denominator reports the reduced denominator.
func (r Rational) Denominator() *big.Int {
	return new(big.Int).Set(r.v.Denom())
}

// BestApprox returns the closest rational with denominator at most maxDen,
// found by walking the continued-fraction convergents and taking the best
// semiconvergent under the bound. If the value already fits the bound it is
// returned unchanged. Panics if maxDen is not positive.
func (r Rational) BestApprox(maxDen int64) Rational {
	if maxDen < 1 {
		panic(fmt.Sprintf("rational: denominator bound must be positive, got %d", maxDen))
	}
	den := r.v.Denom()
	if den.IsInt64() && den.Int64() <= maxDen {
		return r
	}

	limit := big.NewInt(maxDen)
	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)
	n := new(big.Int).Set(r.v.Num())
	d := new(big.Int).Set(r.v.Denom())

	for {
		// d stays positive, so Div is a floor division even for negative n.
		a := new(big.Int).Div(n, d)
		q2 := new(big.Int).Add(q0, new(big.Int).Mul(a, q1))
		if q2.Cmp(limit) > 0 {
			break
		}
		p2 := new(big.Int).Add(p0, new(big.Int).Mul(a, p1))
		p0, q0 = p1, q1
		p1, q1 = p2, q2
		n, d = d, new(big.Int).Sub(n, new(big.Int).Mul(a, d))
	}

	// Best semiconvergent between the last two convergents that still fits
	// the bound, then whichever of the two candidates lies closer.
	k := new(big.Int).Div(new(big.Int).Sub(limit, q0), q1)
	var first, second Rational
	first.v.SetFrac(
		new(big.Int).Add(p0, new(big.Int).Mul(k, p1)),
		new(big.Int).Add(q0, new(big.Int).Mul(k, q1)),
	)
	second.v.SetFrac(p1, q1)

	if second.Sub(r).Abs().Cmp(first.Sub(r).Abs()) <= 0 {
		return second
	}
	return first
}
