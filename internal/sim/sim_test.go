package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/CDE90/pi-blocks-simulation/internal/rational"
	"github.com/CDE90/pi-blocks-simulation/internal/sim"
)

// scenario builds params for a mass ratio experiment: block 0 at rest,
// block 1 incoming at the given speed.
func scenario(mass1, v1 int64) sim.Params {
	p := sim.DefaultParams()
	p.Mass1 = rational.FromInt(mass1)
	p.Velocity1 = rational.FromInt(v1)
	return p
}

var _ = Describe("Simulation", func() {
	Describe("construction", func() {
		It("rejects a non-positive mass", func() {
			p := sim.DefaultParams()
			p.Mass0 = rational.FromInt(0)
			_, err := sim.New(p)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a non-positive size", func() {
			p := sim.DefaultParams()
			p.Size1 = rational.FromInt(-60)
			_, err := sim.New(p)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a non-positive time step", func() {
			p := sim.DefaultParams()
			p.TimeStep = rational.FromInt(0)
			_, err := sim.New(p)
			Expect(err).To(HaveOccurred())
		})

		It("baselines conservation from the initial state", func() {
			s, err := sim.New(sim.DefaultParams())
			Expect(err).NotTo(HaveOccurred())

			// m1*v1^2/2 = 10000*25/2, m1*v1 = -50000
			Expect(s.InitialEnergy().String()).To(Equal("125000"))
			Expect(s.InitialMomentum().String()).To(Equal("-50000"))
			Expect(s.TotalEnergy().Equal(s.InitialEnergy())).To(BeTrue())
			Expect(s.TotalMomentum().Equal(s.InitialMomentum())).To(BeTrue())
		})
	})

	Describe("pausing", func() {
		It("makes Update a no-op, bit for bit", func() {
			s, err := sim.New(sim.DefaultParams())
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 50; i++ {
				s.Update()
			}
			s.TogglePause()
			Expect(s.Paused()).To(BeTrue())

			before := s.Snapshot()
			b0Before, b1Before := s.Blocks()
			for i := 0; i < 100; i++ {
				s.Update()
			}

			Expect(s.Snapshot()).To(Equal(before))
			b0After, b1After := s.Blocks()
			Expect(b0After.Pos.Equal(b0Before.Pos)).To(BeTrue())
			Expect(b0After.Vel.Equal(b0Before.Vel)).To(BeTrue())
			Expect(b1After.Pos.Equal(b1Before.Pos)).To(BeTrue())
			Expect(b1After.Vel.Equal(b1Before.Vel)).To(BeTrue())

			s.TogglePause()
			Expect(s.Paused()).To(BeFalse())
		})
	})

	Describe("counters", func() {
		It("keeps total equal to wall plus block and non-decreasing", func() {
			s, err := sim.New(scenario(100, -2))
			Expect(err).NotTo(HaveOccurred())

			prevTotal := 0
			for i := 0; i < 200_000; i++ {
				s.Update()
				total := s.TotalCollisions()
				Expect(total).To(Equal(s.WallCollisions() + s.BlockCollisions()))
				Expect(total).To(BeNumerically(">=", prevTotal))
				Expect(total - prevTotal).To(BeNumerically("<=", 1))
				prevTotal = total
				if s.Separated() && total > 0 {
					break
				}
			}
		})
	})

	Describe("tunneling correction", func() {
		It("clamps a fast block to the wall face instead of overshooting", func() {
			// Equal masses with a velocity of 20 units per tick; after the
			// block collision, block 0 heads for the wall faster than the
			// per-tick resolution of the boundary.
			s, err := sim.New(scenario(1, -2000))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 100_000 && s.WallCollisions() == 0; i++ {
				s.Update()
			}
			Expect(s.WallCollisions()).To(Equal(1))

			b0, _ := s.Blocks()
			Expect(b0.Pos.Equal(b0.HalfSize())).To(BeTrue(),
				"block 0 should sit exactly at size/2 after a wall bounce, got %s", b0.Pos)
			Expect(b0.Vel.Sign()).To(BeNumerically(">", 0))
		})
	})

	Describe("reset", func() {
		It("zeroes counters and re-baselines conservation", func() {
			s, err := sim.New(scenario(100, -2))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 100_000 && s.TotalCollisions() < 3; i++ {
				s.Update()
			}
			Expect(s.TotalCollisions()).To(BeNumerically(">", 0))

			err = s.Reset(rational.FromInt(1), rational.FromInt(10000), rational.FromInt(-5))
			Expect(err).NotTo(HaveOccurred())

			Expect(s.TotalCollisions()).To(BeZero())
			Expect(s.WallCollisions()).To(BeZero())
			Expect(s.BlockCollisions()).To(BeZero())
			Expect(s.InitialEnergy().Equal(s.TotalEnergy())).To(BeTrue())
			Expect(s.InitialMomentum().Equal(s.TotalMomentum())).To(BeTrue())
			Expect(s.InitialEnergy().String()).To(Equal("125000"))
		})

		It("rejects invalid masses", func() {
			s, err := sim.New(sim.DefaultParams())
			Expect(err).NotTo(HaveOccurred())

			err = s.Reset(rational.FromInt(-1), rational.FromInt(100), rational.FromInt(-1))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("tuning", func() {
		It("saturates the denominator cap at both ends", func() {
			s, err := sim.New(sim.DefaultParams())
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 20; i++ {
				s.AdjustPrecision(true)
			}
			Expect(s.DenominatorCap()).To(Equal(int64(sim.MaxDenominatorCap)))

			for i := 0; i < 40; i++ {
				s.AdjustPrecision(false)
			}
			Expect(s.DenominatorCap()).To(Equal(int64(sim.MinDenominatorCap)))
		})

		It("clamps steps per frame to [1, 100000]", func() {
			s, err := sim.New(sim.DefaultParams())
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 30; i++ {
				s.AdjustSpeed(true)
			}
			Expect(s.StepsPerFrame()).To(Equal(sim.MaxStepsPerFrame))

			for i := 0; i < 40; i++ {
				s.AdjustSpeed(false)
			}
			Expect(s.StepsPerFrame()).To(Equal(sim.MinStepsPerFrame))
		})
	})

	Describe("conservation", func() {
		It("stays within a bounded error across many steps", func() {
			s, err := sim.New(sim.DefaultParams())
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(context.Background(), sim.RunConfig{MaxSteps: 50_000, SampleEvery: 1000}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Steps).To(BeNumerically(">", 0))

			snap := s.Snapshot()
			Expect(snap.EnergyError).To(BeNumerically("<", 1.0))
			Expect(snap.MomentumError).To(BeNumerically("<", 1.0))
		})
	})

	Describe("pi estimation", func() {
		It("counts 3 collisions for equal masses", func() {
			s, err := sim.New(scenario(1, -1))
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(context.Background(), sim.RunConfig{MaxSteps: 2_000_000}, nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Separated).To(BeTrue())
			Expect(s.TotalCollisions()).To(Equal(3))
			Expect(s.PiApproximation()).To(Equal(3.0))
		})

		It("counts 31 collisions for a 100:1 mass ratio", func() {
			s, err := sim.New(scenario(100, -1))
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(context.Background(), sim.RunConfig{MaxSteps: 2_000_000}, nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Separated).To(BeTrue())
			Expect(s.TotalCollisions()).To(Equal(31))
			Expect(math.Abs(s.PiApproximation() - 3.1)).To(BeNumerically("<", 1e-9))
		})
	})

	Describe("headless run", func() {
		It("rejects a non-positive step limit", func() {
			s, err := sim.New(sim.DefaultParams())
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Run(context.Background(), sim.RunConfig{}, nil)
			Expect(err).To(HaveOccurred())
		})

		It("stops on context cancellation", func() {
			s, err := sim.New(sim.DefaultParams())
			Expect(err).NotTo(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err = s.Run(ctx, sim.RunConfig{MaxSteps: 1000}, nil)
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})
