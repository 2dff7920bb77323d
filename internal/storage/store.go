package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/reactsim/internal/models"
	"github.com/san-kum/reactsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
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
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	A         float64            `json:"a"`
	B         float64            `json:"b"`
	U0        float64            `json:"u0"`
	V0        float64            `json:"v0"`
	Tf        float64            `json:"tf"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (m *RunMetadata) Params() models.Params {
	return models.Params{A: m.A, B: m.B}
}

// Save writes the trajectory to a new run directory and returns its id.
func (s *Store) Save(tr *sim.Trajectory) (string, error) {
	if tr.Len() == 0 {
		return "", fmt.Errorf("storage: empty trajectory")
	}

	if err := s.Init(); err != nil {
		return "", err
	}

	now := time.Now()
	runID, runDir, err := s.newRunDir(now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: now,
		A:         tr.Params.A,
		B:         tr.Params.B,
		U0:        tr.U[0],
		V0:        tr.V[0],
		Tf:        tr.Tf,
		Dt:        tr.Dt,
		Duration:  tr.Duration,
		Steps:     tr.Len(),
		Metrics:   finiteMetrics(tr.Metrics),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), tr); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) newRunDir(now time.Time) (string, string, error) {
	base := fmt.Sprintf("reaction_%d", now.UnixNano())
	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

// finiteMetrics drops NaN and Inf values, which JSON cannot encode. A
// diverged run is recognizable from its stability metric.
func finiteMetrics(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeStates(path string, tr *sim.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "u", "v"}); err != nil {
		return err
	}

	for i := range tr.T {
		row := []string{
			strconv.FormatFloat(tr.T[i], 'g', -1, 64),
			strconv.FormatFloat(tr.U[i], 'g', -1, 64),
			strconv.FormatFloat(tr.V[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns the metadata of every readable run, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory rebuilds a saved run. Values are stored with full
// precision, so the result equals the trajectory that was saved.
func (s *Store) LoadTrajectory(runID string) (*sim.Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("storage: run %s has no states", runID)
	}

	n := len(records) - 1
	tr := &sim.Trajectory{
		U:        make([]float64, n),
		V:        make([]float64, n),
		T:        make([]float64, n),
		Params:   meta.Params(),
		Tf:       meta.Tf,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Metrics:  meta.Metrics,
	}

	for i, record := range records[1:] {
		cols := [3]*float64{&tr.T[i], &tr.U[i], &tr.V[i]}
		for j, dst := range cols {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("storage: run %s row %d: %w", runID, i+1, err)
			}
			*dst = val
		}
	}

	return tr, nil
}
