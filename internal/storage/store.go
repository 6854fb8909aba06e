package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fleshsim/internal/config"
	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/physics"
	"github.com/san-kum/fleshsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	tearsFile    = "tears.csv"
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

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Tears     int                `json:"tears"`
	Config    *config.Config     `json:"config,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// TearRecord is the stored form of a tear event.
type TearRecord struct {
	Step        int
	A, B        int
	Kind        string
	RestLength  float64
	StressRatio float64
}

func (s *Store) Save(name string, cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	tears := 0
	if n := len(result.Frames); n > 0 {
		tears = result.Frames[n-1].Tears
	}
	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Seed:      cfg.Body.Seed,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Steps:     result.StepsTaken,
		Tears:     tears,
		Config:    cfg,
		Metrics:   result.Metrics,
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, framesFile), func(w io.Writer) error {
		return WriteFramesCSV(w, result.Frames)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, tearsFile), func(w io.Writer) error {
		return writeTearsCSV(w, result.TearEvents)
	}); err != nil {
		return "", err
	}

	return runID, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns stored runs, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	records, err := s.readCSV(runID, framesFile)
	if err != nil {
		return nil, err
	}

	frames := make([]sim.Frame, 0, len(records))
	for _, rec := range records {
		if len(rec) < 11 {
			continue
		}
		f := sim.Frame{
			Step:           atoi(rec[0]),
			Time:           atof(rec[1]),
			KineticEnergy:  atof(rec[2]),
			Area:           atof(rec[3]),
			TargetArea:     atof(rec[4]),
			Tears:          atoi(rec[5]),
			Alive:          atoi(rec[6]),
			Springs:        atoi(rec[7]),
			Triangles:      atoi(rec[8]),
			MaxStress:      atof(rec[9]),
			MaxStressRatio: atof(rec[10]),
		}
		frames = append(frames, f)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrNoData, runID)
	}
	return frames, nil
}

func (s *Store) LoadTears(runID string) ([]TearRecord, error) {
	records, err := s.readCSV(runID, tearsFile)
	if err != nil {
		return nil, err
	}

	tears := make([]TearRecord, 0, len(records))
	for _, rec := range records {
		if len(rec) < 6 {
			continue
		}
		tears = append(tears, TearRecord{
			Step:        atoi(rec[0]),
			A:           atoi(rec[1]),
			B:           atoi(rec[2]),
			Kind:        rec[3],
			RestLength:  atof(rec[4]),
			StressRatio: atof(rec[5]),
		})
	}
	return tears, nil
}

// readCSV returns the data rows of a run file, header dropped.
func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}
	return records[1:], nil
}

var framesHeader = []string{
	"step", "time", "kinetic_energy", "area", "target_area", "tears",
	"alive", "springs", "triangles", "max_stress", "max_stress_ratio",
}

func WriteFramesCSV(out io.Writer, frames []sim.Frame) error {
	w := csv.NewWriter(out)
	if err := w.Write(framesHeader); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Step),
			ftoa(f.Time),
			ftoa(f.KineticEnergy),
			ftoa(f.Area),
			ftoa(f.TargetArea),
			strconv.Itoa(f.Tears),
			strconv.Itoa(f.Alive),
			strconv.Itoa(f.Springs),
			strconv.Itoa(f.Triangles),
			ftoa(f.MaxStress),
			ftoa(f.MaxStressRatio),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeTearsCSV(out io.Writer, events []physics.TearEvent) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"step", "a", "b", "kind", "rest_length", "stress_ratio"}); err != nil {
		return err
	}
	for _, e := range events {
		row := []string{
			strconv.Itoa(e.Step),
			strconv.Itoa(e.Spring.A),
			strconv.Itoa(e.Spring.B),
			e.Spring.Kind.String(),
			ftoa(e.Spring.RestLength),
			ftoa(e.StressRatio),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
