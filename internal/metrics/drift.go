// Package metrics provides pluggable observers for headless runs. Each
// metric implements [sim.Metric] and works on float snapshots only.
package metrics

import (
	"math"

	"github.com/CDE90/pi-blocks-simulation/internal/sim"
)

// EnergyDrift tracks the worst absolute deviation of total energy from the
// initial baseline seen during a run.
type EnergyDrift struct {
	maxDrift float64
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(snap sim.Snapshot) {
	e.maxDrift = math.Max(e.maxDrift, snap.EnergyError)
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }
func (e *EnergyDrift) Reset()         { e.maxDrift = 0 }

// MomentumDrift is the momentum counterpart of EnergyDrift.
type MomentumDrift struct {
	maxDrift float64
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(snap sim.Snapshot) {
	m.maxDrift = math.Max(m.maxDrift, snap.MomentumError)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }
func (m *MomentumDrift) Reset()         { m.maxDrift = 0 }

// PiError reports the relative error of the latest pi approximation
// against math.Pi.
type PiError struct {
	err     float64
	samples int
}

func NewPiError() *PiError { return &PiError{} }

func (p *PiError) Name() string { return "pi_error" }

func (p *PiError) Observe(snap sim.Snapshot) {
	p.err = math.Abs(snap.Pi-math.Pi) / math.Pi
	p.samples++
}

func (p *PiError) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.err
}

func (p *PiError) Reset() {
	p.err = 0
	p.samples = 0
}
