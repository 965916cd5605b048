package sim

// Snapshot is a read-only float64 view of the simulation for display,
// storage, and metrics. Conversion is strictly one way: nothing derived
// from a Snapshot is ever fed back into the exact state.
type Snapshot struct {
	Time            float64 `json:"time"`
	Position0       float64 `json:"x0"`
	Velocity0       float64 `json:"v0"`
	Position1       float64 `json:"x1"`
	Velocity1       float64 `json:"v1"`
	WallCollisions  int     `json:"wall_collisions"`
	BlockCollisions int     `json:"block_collisions"`
	TotalCollisions int     `json:"total_collisions"`
	Energy          float64 `json:"energy"`
	Momentum        float64 `json:"momentum"`
	EnergyError     float64 `json:"energy_error"`
	MomentumError   float64 `json:"momentum_error"`
	Pi              float64 `json:"pi"`
}

type Metric interface {
	Name() string
	Observe(snap Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(snap Snapshot)
}

// RunConfig controls a headless run.
type RunConfig struct {
	MaxSteps    int // hard step limit; must be positive
	SampleEvery int // snapshot every N steps; defaults to 100
}

type Result struct {
	Snapshots []Snapshot
	Metrics   map[string]float64
	Steps     int
	Separated bool
}
