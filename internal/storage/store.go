// Package storage persists a Process run's output buffers plus its
// run metadata to disk, adapted from the teacher's Store: one
// metadata.json and one outputs.csv per run directory.
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
	Netlist    string             `json:"netlist"`
	Timestamp  time.Time          `json:"timestamp"`
	SampleRate float64            `json:"sample_rate"`
	Oversample int                `json:"oversample"`
	Samples    int                `json:"samples"`
	Parameters map[string]float64 `json:"parameters"`
}

// Save writes metadata.json and outputs.csv for one run, returning the
// generated run ID.
func (s *Store) Save(netlist string, sampleRate float64, oversample int, params map[string]float64, outputs map[string][]float64) (string, error) {
	runID := fmt.Sprintf("%s_%d", netlist, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	samples := 0
	for _, buf := range outputs {
		if len(buf) > samples {
			samples = len(buf)
		}
	}

	meta := RunMetadata{
		ID:         runID,
		Netlist:    netlist,
		Timestamp:  time.Now(),
		SampleRate: sampleRate,
		Oversample: oversample,
		Samples:    samples,
		Parameters: params,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "outputs.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := 0; i < samples; i++ {
		row := []string{strconv.FormatFloat(float64(i)/sampleRate, 'f', 8, 64)}
		for _, name := range names {
			buf := outputs[name]
			var v float64
			if i < len(buf) {
				v = buf[i]
			}
			row = append(row, strconv.FormatFloat(v, 'f', 8, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
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
		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadOutputs reads a run's outputs.csv back into named buffers.
func (s *Store) LoadOutputs(runID string) (map[string][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "outputs.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 1 {
		return map[string][]float64{}, nil, nil
	}

	names := records[0][1:]
	outputs := make(map[string][]float64, len(names))
	for _, name := range names {
		outputs[name] = make([]float64, 0, len(records)-1)
	}
	times := make([]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		for i, name := range names {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				continue
			}
			outputs[name] = append(outputs[name], v)
		}
	}

	return outputs, times, nil
}
