// Package sim owns the simulation state machine: the two blocks, the fixed
// time step, collision counters, the precision budget, and the cached
// conservation values. The external run loop drives it through Update,
// TogglePause, Reset, AdjustSpeed and AdjustPrecision.
package sim

import (
	"fmt"
	"math"

	"github.com/CDE90/pi-blocks-simulation/internal/physics"
	"github.com/CDE90/pi-blocks-simulation/internal/rational"
)

const (
	MinDenominatorCap = 1_000
	MaxDenominatorCap = 1_000_000_000_000

	MinStepsPerFrame = 1
	MaxStepsPerFrame = 100_000

	DefaultDenominatorCap   = 1_000_000_000
	DefaultSimplifyInterval = 100
	DefaultStepsPerFrame    = 256
)

// Params fixes the initial conditions and tuning of a simulation. All
// physical quantities are exact rationals.
type Params struct {
	Mass0     rational.Rational
	Mass1     rational.Rational
	Velocity1 rational.Rational
	Position0 rational.Rational
	Position1 rational.Rational
	Size0     rational.Rational
	Size1     rational.Rational

	TimeStep         rational.Rational
	SimplifyInterval int
	DenominatorCap   int64
	StepsPerFrame    int
}

// DefaultParams is the classic scenario: a unit mass at rest with a
// 10000x heavier block sliding into it at speed 5.
func DefaultParams() Params {
	return Params{
		Mass0:            rational.FromInt(1),
		Mass1:            rational.FromInt(10000),
		Velocity1:        rational.FromInt(-5),
		Position0:        rational.FromInt(150),
		Position1:        rational.FromInt(600),
		Size0:            rational.FromInt(30),
		Size1:            rational.FromInt(60),
		TimeStep:         rational.New(1, 100),
		SimplifyInterval: DefaultSimplifyInterval,
		DenominatorCap:   DefaultDenominatorCap,
		StepsPerFrame:    DefaultStepsPerFrame,
	}
}

// Simulation is single-threaded and fully synchronous; all mutation happens
// inside Update, Reset and the tuning methods.
type Simulation struct {
	params Params

	block0 *physics.Block
	block1 *physics.Block

	timeStep rational.Rational

	wallCollisions  int
	blockCollisions int
	totalCollisions int

	denomCap         int64
	simplifyInterval int
	simplifyCounter  int

	totalEnergy     rational.Rational
	totalMomentum   rational.Rational
	initialEnergy   rational.Rational
	initialMomentum rational.Rational

	paused        bool
	stepsPerFrame int
	elapsedSteps  int
}

func New(params Params) (*Simulation, error) {
	if params.TimeStep.Sign() <= 0 {
		return nil, fmt.Errorf("time step must be positive, got %s", params.TimeStep)
	}
	if params.SimplifyInterval <= 0 {
		return nil, fmt.Errorf("simplify interval must be positive, got %d", params.SimplifyInterval)
	}

	s := &Simulation{
		params:           params,
		timeStep:         params.TimeStep,
		denomCap:         clampInt64(params.DenominatorCap, MinDenominatorCap, MaxDenominatorCap),
		simplifyInterval: params.SimplifyInterval,
		stepsPerFrame:    clampInt(params.StepsPerFrame, MinStepsPerFrame, MaxStepsPerFrame),
	}

	if err := s.buildBlocks(params.Mass0, params.Mass1, params.Velocity1); err != nil {
		return nil, err
	}
	s.refreshConservation()
	s.initialEnergy = s.totalEnergy
	s.initialMomentum = s.totalMomentum

	return s, nil
}

func (s *Simulation) buildBlocks(mass0, mass1, v1 rational.Rational) error {
	b0, err := physics.NewBlock(mass0, rational.FromInt(0), s.params.Position0, s.params.Size0)
	if err != nil {
		return fmt.Errorf("block 0: %w", err)
	}
	b1, err := physics.NewBlock(mass1, v1, s.params.Position1, s.params.Size1)
	if err != nil {
		return fmt.Errorf("block 1: %w", err)
	}
	s.block0, s.block1 = b0, b1
	return nil
}

// Update advances the simulation one tick. A tick either resolves exactly
// one collision or moves both blocks; checking for collisions both before
// and after the move keeps a block from tunneling through the wall or the
// other block within a single step.
func (s *Simulation) Update() {
	if s.paused {
		return
	}

	if c := physics.Detect(s.block0, s.block1); c != physics.NoCollision {
		s.resolve(c)
		return
	}

	s.block0.Advance(s.timeStep)
	s.block1.Advance(s.timeStep)
	s.elapsedSteps++

	if c := physics.Detect(s.block0, s.block1); c != physics.NoCollision {
		s.resolve(c)
	}

	s.simplifyCounter++
	if s.simplifyCounter >= s.simplifyInterval {
		s.simplifyAll()
		s.simplifyCounter = 0
	}
}

func (s *Simulation) resolve(c physics.Collision) {
	switch c {
	case physics.Wall0:
		physics.ResolveWall(s.block0)
		s.wallCollisions++
	case physics.Wall1:
		physics.ResolveWall(s.block1)
		s.wallCollisions++
	case physics.BlockBlock:
		physics.ResolveBlocks(s.block0, s.block1, s.denomCap)
		s.blockCollisions++
	}
	s.totalCollisions++
	s.refreshConservation()
}

func (s *Simulation) refreshConservation() {
	s.totalEnergy = physics.TotalEnergy(s.block0, s.block1, s.denomCap)
	s.totalMomentum = physics.TotalMomentum(s.block0, s.block1, s.denomCap)
}

func (s *Simulation) simplifyAll() {
	s.block0.Simplify(s.denomCap)
	s.block1.Simplify(s.denomCap)
	s.timeStep = s.timeStep.BestApprox(s.denomCap)
}

// Reset discards both blocks and rebuilds them at the fixed start positions
// with the given masses and incoming velocity. Counters drop to zero and
// the conservation baselines are recomputed from the fresh state.
func (s *Simulation) Reset(mass0, mass1, v1 rational.Rational) error {
	if err := s.buildBlocks(mass0, mass1, v1); err != nil {
		return err
	}

	s.wallCollisions = 0
	s.blockCollisions = 0
	s.totalCollisions = 0
	s.simplifyCounter = 0
	s.elapsedSteps = 0

	s.refreshConservation()
	s.initialEnergy = s.totalEnergy
	s.initialMomentum = s.totalMomentum

	return nil
}

func (s *Simulation) TogglePause() { s.paused = !s.paused }
func (s *Simulation) Paused() bool { return s.paused }

// AdjustSpeed doubles or halves the steps-per-frame batch size, clamped to
// [1, 100000]. This tunes throughput only; it never changes physics.
func (s *Simulation) AdjustSpeed(increase bool) {
	if increase {
		s.stepsPerFrame = clampInt(s.stepsPerFrame*2, MinStepsPerFrame, MaxStepsPerFrame)
	} else {
		s.stepsPerFrame = clampInt(s.stepsPerFrame/2, MinStepsPerFrame, MaxStepsPerFrame)
	}
}

// AdjustPrecision moves the denominator cap a decade up or down, clamped to
// [10^3, 10^12], and applies the new cap to the state immediately.
func (s *Simulation) AdjustPrecision(increase bool) {
	if increase {
		s.denomCap = clampInt64(s.denomCap*10, MinDenominatorCap, MaxDenominatorCap)
	} else {
		s.denomCap = clampInt64(s.denomCap/10, MinDenominatorCap, MaxDenominatorCap)
	}
	s.simplifyAll()
}

// Separated reports whether no further collision is reachable: block 0 is
// not moving toward the wall and block 1 is at least as fast to the right.
func (s *Simulation) Separated() bool {
	return s.block0.Vel.Sign() >= 0 && s.block1.Vel.Cmp(s.block0.Vel) >= 0
}

func (s *Simulation) TotalCollisions() int { return s.totalCollisions }
func (s *Simulation) WallCollisions() int  { return s.wallCollisions }
func (s *Simulation) BlockCollisions() int { return s.blockCollisions }

func (s *Simulation) DenominatorCap() int64 { return s.denomCap }
func (s *Simulation) StepsPerFrame() int    { return s.stepsPerFrame }
func (s *Simulation) SimplifyCounter() int  { return s.simplifyCounter }

func (s *Simulation) TotalEnergy() rational.Rational     { return s.totalEnergy }
func (s *Simulation) TotalMomentum() rational.Rational   { return s.totalMomentum }
func (s *Simulation) InitialEnergy() rational.Rational   { return s.initialEnergy }
func (s *Simulation) InitialMomentum() rational.Rational { return s.initialMomentum }

// Blocks returns copies of the current block state.
func (s *Simulation) Blocks() (physics.Block, physics.Block) {
	return *s.block0, *s.block1
}

// Params returns the construction parameters.
func (s *Simulation) Params() Params { return s.params }

func (s *Simulation) MassRatio() rational.Rational {
	return s.block1.Mass.Div(s.block0.Mass)
}

// PiApproximation is collisions / sqrt(mass ratio), the one derived value
// computed in floating point.
func (s *Simulation) PiApproximation() float64 {
	return float64(s.totalCollisions) / math.Sqrt(s.MassRatio().Float64())
}

// Snapshot converts the exact state to floats for display and storage.
func (s *Simulation) Snapshot() Snapshot {
	b0, b1 := s.block0, s.block1
	return Snapshot{
		Time:            float64(s.elapsedSteps) * s.timeStep.Float64(),
		Position0:       b0.Pos.Float64(),
		Velocity0:       b0.Vel.Float64(),
		Position1:       b1.Pos.Float64(),
		Velocity1:       b1.Vel.Float64(),
		WallCollisions:  s.wallCollisions,
		BlockCollisions: s.blockCollisions,
		TotalCollisions: s.totalCollisions,
		Energy:          s.totalEnergy.Float64(),
		Momentum:        s.totalMomentum.Float64(),
		EnergyError:     s.totalEnergy.Sub(s.initialEnergy).Abs().Float64(),
		MomentumError:   s.totalMomentum.Sub(s.initialMomentum).Abs().Float64(),
		Pi:              s.PiApproximation(),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
