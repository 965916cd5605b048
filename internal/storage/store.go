// Package storage persists completed runs: one directory per run with
// metadata.json and a states.csv of sampled snapshots.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/CDE90/pi-blocks-simulation/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID               string             `json:"id"`
	Timestamp        time.Time          `json:"timestamp"`
	Mass0            string             `json:"mass0"`
	Mass1            string             `json:"mass1"`
	Velocity1        string             `json:"velocity1"`
	TimeStep         string             `json:"time_step"`
	DenominatorCap   int64              `json:"denominator_cap"`
	SimplifyInterval int                `json:"simplify_interval"`
	Steps            int                `json:"steps"`
	Separated        bool               `json:"separated"`
	TotalCollisions  int                `json:"total_collisions"`
	WallCollisions   int                `json:"wall_collisions"`
	BlockCollisions  int                `json:"block_collisions"`
	PiApproximation  float64            `json:"pi_approximation"`
	Metrics          map[string]float64 `json:"metrics"`
}

var csvHeader = []string{
	"time", "x0", "v0", "x1", "v1",
	"collisions", "wall", "block",
	"energy_error", "momentum_error", "pi",
}

// Save writes a run directory and returns its ID.
func (s *Store) Save(params sim.Params, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	final := sim.Snapshot{}
	if len(result.Snapshots) > 0 {
		final = result.Snapshots[len(result.Snapshots)-1]
	}

	meta := RunMetadata{
		ID:               runID,
		Timestamp:        time.Now(),
		Mass0:            params.Mass0.String(),
		Mass1:            params.Mass1.String(),
		Velocity1:        params.Velocity1.String(),
		TimeStep:         params.TimeStep.String(),
		DenominatorCap:   params.DenominatorCap,
		SimplifyInterval: params.SimplifyInterval,
		Steps:            result.Steps,
		Separated:        result.Separated,
		TotalCollisions:  final.TotalCollisions,
		WallCollisions:   final.WallCollisions,
		BlockCollisions:  final.BlockCollisions,
		PiApproximation:  final.Pi,
		Metrics:          result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, snap := range result.Snapshots {
		if err := w.Write(snapshotRow(snap)); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func snapshotRow(snap sim.Snapshot) []string {
	return []string{
		strconv.FormatFloat(snap.Time, 'f', 6, 64),
		strconv.FormatFloat(snap.Position0, 'f', 6, 64),
		strconv.FormatFloat(snap.Velocity0, 'f', 6, 64),
		strconv.FormatFloat(snap.Position1, 'f', 6, 64),
		strconv.FormatFloat(snap.Velocity1, 'f', 6, 64),
		strconv.Itoa(snap.TotalCollisions),
		strconv.Itoa(snap.WallCollisions),
		strconv.Itoa(snap.BlockCollisions),
		strconv.FormatFloat(snap.EnergyError, 'e', 6, 64),
		strconv.FormatFloat(snap.MomentumError, 'e', 6, 64),
		strconv.FormatFloat(snap.Pi, 'f', 8, 64),
	}
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSnapshots reads back the sampled states of a run.
func (s *Store) LoadSnapshots(runID string) ([]sim.Snapshot, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Snapshot{}, nil
	}

	snaps := make([]sim.Snapshot, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(csvHeader) {
			continue
		}
		snap, err := parseRow(record)
		if err != nil {
			continue
		}
		snaps = append(snaps, snap)
	}

	return snaps, nil
}

func parseRow(record []string) (sim.Snapshot, error) {
	floats := make([]float64, 5)
	for i := range floats {
		f, err := strconv.ParseFloat(record[i], 64)
		if err != nil {
			return sim.Snapshot{}, err
		}
		floats[i] = f
	}

	total, err := strconv.Atoi(record[5])
	if err != nil {
		return sim.Snapshot{}, err
	}
	wall, err := strconv.Atoi(record[6])
	if err != nil {
		return sim.Snapshot{}, err
	}
	block, err := strconv.Atoi(record[7])
	if err != nil {
		return sim.Snapshot{}, err
	}

	eErr, err := strconv.ParseFloat(record[8], 64)
	if err != nil {
		return sim.Snapshot{}, err
	}
	mErr, err := strconv.ParseFloat(record[9], 64)
	if err != nil {
		return sim.Snapshot{}, err
	}
	pi, err := strconv.ParseFloat(record[10], 64)
	if err != nil {
		return sim.Snapshot{}, err
	}

	return sim.Snapshot{
		Time:            floats[0],
		Position0:       floats[1],
		Velocity0:       floats[2],
		Position1:       floats[3],
		Velocity1:       floats[4],
		TotalCollisions: total,
		WallCollisions:  wall,
		BlockCollisions: block,
		EnergyError:     eErr,
		MomentumError:   mErr,
		Pi:              pi,
	}, nil
}
