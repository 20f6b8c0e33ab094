package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/freefall/internal/dynamo"
	"github.com/san-kum/freefall/internal/export"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
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
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Scenario    dynamo.Scenario    `json:"scenario"`
	Gravity     float64            `json:"gravity"`
	Samples     int                `json:"samples"`
	ImpactTime  float64            `json:"impact_time"`
	Diagnostics dynamo.Diagnostics `json:"diagnostics"`
	Figure      string             `json:"figure,omitempty"`
}

func newRunID(sc dynamo.Scenario) string {
	return fmt.Sprintf("h%.1f_m%.1f_%s", sc.Height, sc.Mass, uuid.NewString()[:8])
}

// Save archives a run and returns its id. figure may be empty when no image
// was written.
func (s *Store) Save(series *dynamo.Series, diag dynamo.Diagnostics, figure string) (string, error) {
	runID := newRunID(series.Scenario)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		Scenario:    series.Scenario,
		Gravity:     dynamo.Gravity,
		Samples:     series.Len(),
		ImpactTime:  series.ImpactTime,
		Diagnostics: diag,
		Figure:      figure,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := export.WriteCSV(csvFile, series); err != nil {
		return "", err
	}

	return runID, csvFile.Close()
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

// List returns archived runs, oldest first. Directories without readable
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries rebuilds the archived series. Values carry the 6-decimal
// precision of the CSV file.
func (s *Store) LoadSeries(runID string) (*dynamo.Series, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	series := &dynamo.Series{
		Scenario:   meta.Scenario,
		ImpactTime: meta.ImpactTime,
		Samples:    make([]dynamo.Sample, 0, len(records)),
	}

	for i := 1; i < len(records); i++ {
		vals, err := parseRow(records[i])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", seriesFile, i+1, err)
		}
		series.Samples = append(series.Samples, dynamo.Sample{
			T: vals[0], Y: vals[1], V: vals[2],
			Kinetic: vals[3], Potential: vals[4], Mechanical: vals[5],
		})
	}

	return series, nil
}

func parseRow(record []string) ([6]float64, error) {
	var vals [6]float64
	if len(record) != len(vals) {
		return vals, fmt.Errorf("expected %d fields, got %d", len(vals), len(record))
	}
	for j, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return vals, err
		}
		vals[j] = v
	}
	return vals, nil
}
