package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/spheresim/internal/body"
	"github.com/san-kum/spheresim/internal/config"
	"github.com/san-kum/spheresim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var frameHeader = []string{"time", "body", "x", "y", "z", "vx", "vy", "vz", "mass", "radius"}

var ErrMalformedFrames = errors.New("storage: malformed frames file")

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
	ID              string             `json:"id"`
	Scenario        string             `json:"scenario"`
	Timestamp       time.Time          `json:"timestamp"`
	Seed            int64              `json:"seed"`
	Dt              float64            `json:"dt"`
	Duration        float64            `json:"duration"`
	GravityConstant float32            `json:"gravity_constant"`
	Bodies          int                `json:"bodies"`
	Steps           int                `json:"steps"`
	PausedTicks     int                `json:"paused_ticks"`
	Contacts        int                `json:"contacts"`
	EnergyDrift     float64            `json:"energy_drift"`
	Metrics         map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding metadata.json and frames.csv and
// returns its run ID.
func (s *Store) Save(sc *config.Scenario, result *sim.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(sc.Name, now)
	if err != nil {
		return "", err
	}

	bodies := 0
	if len(result.Frames) > 0 {
		bodies = len(result.Frames[0])
	}

	meta := RunMetadata{
		ID:              runID,
		Scenario:        sc.Name,
		Timestamp:       now,
		Seed:            sc.Seed,
		Dt:              sc.Dt,
		Duration:        sc.Duration,
		GravityConstant: sc.GravityConstant,
		Bodies:          bodies,
		Steps:           result.StepsTaken,
		PausedTicks:     result.PausedTicks,
		Contacts:        result.Contacts,
		EnergyDrift:     result.EnergyDrift,
		Metrics:         result.Metrics,
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), &meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames, result.Times); err != nil {
		return "", err
	}

	return runID, nil
}

// newRunDir creates <name>_<unix>, adding a numeric suffix when a run with
// the same name was saved within the same second.
func (s *Store) newRunDir(name string, now time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", name, now.Unix())
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", fmt.Errorf("create run dir: %w", err)
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeMetadata(path string, meta *RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metadata: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return nil
}

func writeFrames(path string, frames []sim.Frame, times []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frames: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return fmt.Errorf("write frames: %w", err)
	}

	for i, frame := range frames {
		t := strconv.FormatFloat(times[i], 'f', 6, 64)
		for j, b := range frame {
			row := []string{
				t,
				strconv.Itoa(j),
				formatFloat(b.Position.X()),
				formatFloat(b.Position.Y()),
				formatFloat(b.Position.Z()),
				formatFloat(b.Velocity.X()),
				formatFloat(b.Velocity.Y()),
				formatFloat(b.Velocity.Z()),
				formatFloat(b.Mass),
				formatFloat(b.Radius),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write frames: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write frames: %w", err)
	}
	return nil
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, fmt.Errorf("list runs: %w", err)
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
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadFrames reads frames.csv back into frames. Bounciness is not recorded
// and comes back as zero.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, nil, fmt.Errorf("load frames %s: %w", runID, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(frameHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedFrames, err)
	}

	frames := make([]sim.Frame, 0)
	times := make([]float64, 0)
	if len(records) < 2 {
		return frames, times, nil
	}

	for i, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: row %d: %w", ErrMalformedFrames, i+1, err)
		}
		idx, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: row %d: %w", ErrMalformedFrames, i+1, err)
		}

		var vals [8]float32
		for k := range vals {
			v, err := strconv.ParseFloat(record[k+2], 32)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: row %d: %w", ErrMalformedFrames, i+1, err)
			}
			vals[k] = float32(v)
		}

		// Body 0 opens a new frame.
		if idx == 0 {
			frames = append(frames, make(sim.Frame, 0))
			times = append(times, t)
		}
		if len(frames) == 0 || idx != len(frames[len(frames)-1]) {
			return nil, nil, fmt.Errorf("%w: row %d: unexpected body index %d", ErrMalformedFrames, i+1, idx)
		}

		last := len(frames) - 1
		frames[last] = append(frames[last], body.Body{
			Position: mgl32.Vec3{vals[0], vals[1], vals[2]},
			Velocity: mgl32.Vec3{vals[3], vals[4], vals[5]},
			Mass:     vals[6],
			Radius:   vals[7],
		})
	}

	return frames, times, nil
}
