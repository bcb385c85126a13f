package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ManifestSuffix ends the file name of every manifest ListManifests finds.
const ManifestSuffix = ".manifest.json"

// Manifest describes the run that produced a set of logs.
type Manifest struct {
	ID         string    `json:"id"`
	Aircraft   string    `json:"aircraft"`
	IC         string    `json:"ic"`
	Script     string    `json:"script,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Dt         float64   `json:"dt"`
	EndTime    float64   `json:"end_time"`
	Integrator string    `json:"integrator"`
	Trim       string    `json:"trim"`
	Logs       []string  `json:"logs"`

	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// WriteManifest writes m as indented JSON.
func WriteManifest(path string, m Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListManifests reads every manifest in dir, oldest first. Files that do not parse are
// skipped; a missing dir lists nothing.
func ListManifests(dir string) ([]Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []Manifest
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ManifestSuffix) {
			continue
		}
		m, err := ReadManifest(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		runs = append(runs, *m)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}
