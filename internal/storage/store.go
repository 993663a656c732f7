// Package storage persists recorded monitor sessions as flat files: one
// directory per session holding metadata.json and samples.csv.
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

	"github.com/san-kum/kinetic/internal/perf"
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

type SessionMetadata struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Tier       string    `json:"tier"`
	Samples    int       `json:"samples"`
	AvgFPS     float64   `json:"avg_fps"`
	FinalLevel int       `json:"final_level"`
}

// Save writes one recorded session and returns its id.
func (s *Store) Save(tier string, finalLevel int, samples []perf.Sample) (string, error) {
	id := fmt.Sprintf("session_%d", time.Now().Unix())
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	var fpsSum float64
	measured := 0
	for _, sm := range samples {
		if sm.FPS > 0 {
			fpsSum += sm.FPS
			measured++
		}
	}
	meta := SessionMetadata{
		ID:         id,
		Timestamp:  time.Now(),
		Tier:       tier,
		Samples:    len(samples),
		FinalLevel: finalLevel,
	}
	if measured > 0 {
		meta.AvgFPS = fpsSum / float64(measured)
	}

	metaFile, err := os.Create(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(dir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"timestamp", "fps", "frame_time_ms", "jank_score"}); err != nil {
		return "", err
	}
	for _, sm := range samples {
		row := []string{
			sm.Timestamp.Format(time.RFC3339Nano),
			strconv.FormatFloat(sm.FPS, 'f', 2, 64),
			strconv.FormatFloat(sm.FrameTimeMs, 'f', 3, 64),
			strconv.FormatFloat(sm.JankScore, 'f', 1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	return id, nil
}

// List returns the stored sessions, newest first.
func (s *Store) List() ([]SessionMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var sessions []SessionMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		sessions = append(sessions, meta)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Timestamp.After(sessions[j].Timestamp)
	})
	return sessions, nil
}

func (s *Store) Load(id string) (SessionMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return SessionMetadata{}, err
	}
	var meta SessionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return SessionMetadata{}, err
	}
	return meta, nil
}

// Samples reads back the recorded sample rows for a session.
func (s *Store) Samples(id string) ([]perf.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	samples := make([]perf.Sample, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 4 {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, row[0])
		if err != nil {
			continue
		}
		fps, _ := strconv.ParseFloat(row[1], 64)
		ft, _ := strconv.ParseFloat(row[2], 64)
		jank, _ := strconv.ParseFloat(row[3], 64)
		samples = append(samples, perf.Sample{
			Timestamp:   ts,
			FPS:         fps,
			FrameTimeMs: ft,
			JankScore:   jank,
		})
	}
	return samples, nil
}
