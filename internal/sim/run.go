package sim

import (
	"context"
	"fmt"
)

// Run steps the simulation until permanent separation or the step limit,
// sampling a snapshot every SampleEvery steps. Metrics and observers see
// every sampled snapshot plus the final one.
func (s *Simulation) Run(ctx context.Context, cfg RunConfig, metrics []Metric, observers ...Observer) (*Result, error) {
	if cfg.MaxSteps <= 0 {
		return nil, fmt.Errorf("max steps must be positive, got %d", cfg.MaxSteps)
	}
	sampleEvery := cfg.SampleEvery
	if sampleEvery <= 0 {
		sampleEvery = 100
	}

	result := &Result{
		Snapshots: make([]Snapshot, 0, cfg.MaxSteps/sampleEvery+2),
		Metrics:   make(map[string]float64),
	}

	for _, m := range metrics {
		m.Reset()
	}

	emit := func() {
		snap := s.Snapshot()
		result.Snapshots = append(result.Snapshots, snap)
		for _, m := range metrics {
			m.Observe(snap)
		}
		for _, obs := range observers {
			obs.OnStep(snap)
		}
	}

	emit()

	for i := 0; i < cfg.MaxSteps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if s.Separated() {
			result.Separated = true
			break
		}

		s.Update()
		result.Steps++

		if result.Steps%sampleEvery == 0 {
			emit()
		}
	}

	emit()

	for _, m := range metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
