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
	"strings"
	"time"

	"github.com/san-kum/hydrosim/internal/hydro"
	"github.com/san-kum/hydrosim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
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
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Frames     int                `json:"frames"`
	Density    float64            `json:"density"`
	Gravity    float64            `json:"gravity"`
	Controller string             `json:"controller"`
	Metrics    map[string]float64 `json:"metrics"`
}

// RunInfo describes a run being saved.
type RunInfo struct {
	Preset     string
	Controller string
	Constants  hydro.Constants
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	if result == nil {
		return "", errors.New("nil result")
	}

	now := time.Now()
	runID := fmt.Sprintf("%s_%d", runName(info.Preset), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Preset:     info.Preset,
		Timestamp:  now,
		Frames:     len(result.Frames),
		Density:    info.Constants.Density,
		Gravity:    info.Constants.Gravity,
		Controller: info.Controller,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFramesCSV(csvFile, result.Frames); err != nil {
		return "", err
	}

	return runID, nil
}

// runName turns a preset or scenario name into a single directory name:
// anything outside letters, digits, '-', '_' and '.' becomes '_', and
// leading dots are dropped.
func runName(name string) string {
	clean := strings.TrimLeft(strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, name), ".")
	if clean == "" {
		return "run"
	}
	return clean
}

// runDir resolves a run ID inside the store.
func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || filepath.Base(runID) != runID || strings.ContainsAny(runID, `/\`) {
		return "", fmt.Errorf("invalid run id %q", runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

// List returns saved runs, oldest first. Directories without readable
// metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadFrames reads the frames of a saved run back. Rows that do not parse
// are skipped.
func (s *Store) LoadFrames(runID string) ([]hydro.Frame, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, framesFile))
	if err != nil {
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
		return []hydro.Frame{}, nil
	}

	frames := make([]hydro.Frame, 0, len(records)-1)
	for _, record := range records[1:] {
		f, ok := parseRow(record)
		if !ok {
			continue
		}
		frames = append(frames, f)
	}

	return frames, nil
}

func parseRow(record []string) (hydro.Frame, bool) {
	if len(record) < 2+len(hydro.FrameColumns) {
		return hydro.Frame{}, false
	}

	idx, err := strconv.Atoi(record[0])
	if err != nil {
		return hydro.Frame{}, false
	}

	vals := make([]float64, len(hydro.FrameColumns))
	for i := range vals {
		v, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return hydro.Frame{}, false
		}
		vals[i] = v
	}

	return hydro.Frame{
		Index:         idx,
		BigHeight:     vals[0],
		SmallHeight:   vals[1],
		BigPressure:   vals[2],
		SmallPressure: vals[3],
		Applied:       vals[4],
		Outcome:       parseOutcome(record[len(record)-1]),
	}, true
}

func parseOutcome(s string) hydro.Outcome {
	switch s {
	case hydro.Balanced.String():
		return hydro.Balanced
	case hydro.Drained.String():
		return hydro.Drained
	default:
		return hydro.Moved
	}
}
