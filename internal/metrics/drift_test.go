package metrics

import (
	"math"
	"testing"

	"github.com/CDE90/pi-blocks-simulation/internal/sim"
)

func TestEnergyDriftTracksMax(t *testing.T) {
	m := NewEnergyDrift()

	m.Observe(sim.Snapshot{EnergyError: 0.5})
	m.Observe(sim.Snapshot{EnergyError: 2.0})
	m.Observe(sim.Snapshot{EnergyError: 1.0})

	if m.Value() != 2.0 {
		t.Errorf("expected max drift 2.0, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestMomentumDriftTracksMax(t *testing.T) {
	m := NewMomentumDrift()

	m.Observe(sim.Snapshot{MomentumError: 1.5})
	m.Observe(sim.Snapshot{MomentumError: 0.25})

	if m.Value() != 1.5 {
		t.Errorf("expected max drift 1.5, got %f", m.Value())
	}
}

func TestPiErrorRelative(t *testing.T) {
	m := NewPiError()

	if m.Value() != 0 {
		t.Error("expected 0 before any observation")
	}

	m.Observe(sim.Snapshot{Pi: 3.1})
	expected := math.Abs(3.1-math.Pi) / math.Pi
	if math.Abs(m.Value()-expected) > 1e-15 {
		t.Errorf("expected %g, got %g", expected, m.Value())
	}

	// Latest observation wins.
	m.Observe(sim.Snapshot{Pi: math.Pi})
	if m.Value() != 0 {
		t.Errorf("expected 0 for exact pi, got %g", m.Value())
	}
}
