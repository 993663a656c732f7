package storage

import (
	"testing"
	"time"

	"github.com/san-kum/kinetic/internal/perf"
)

func sampleSession() []perf.Sample {
	base := time.Now().Add(-3 * time.Second)
	return []perf.Sample{
		{FPS: 60, FrameTimeMs: 16.7, JankScore: 0, Timestamp: base},
		{FPS: 28, FrameTimeMs: 35.7, JankScore: 4, Timestamp: base.Add(time.Second)},
		{FPS: 0, FrameTimeMs: 0, JankScore: 0, Timestamp: base.Add(2 * time.Second)},
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	id, err := store.Save("high", 1, sampleSession())
	if err != nil {
		t.Fatal(err)
	}

	meta, err := store.Load(id)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Tier != "high" || meta.FinalLevel != 1 || meta.Samples != 3 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	// Zero samples excluded from the average: (60+28)/2.
	if meta.AvgFPS != 44 {
		t.Errorf("expected avg fps 44, got %f", meta.AvgFPS)
	}
}

func TestSamplesRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	in := sampleSession()
	id, err := store.Save("medium", 0, in)
	if err != nil {
		t.Fatal(err)
	}

	out, err := store.Samples(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(out))
	}
	if out[1].FPS != 28 || out[1].JankScore != 4 {
		t.Errorf("sample 1 round trip mismatch: %+v", out[1])
	}
}

func TestListEmptyAndMissing(t *testing.T) {
	store := New(t.TempDir() + "/nonexistent")
	sessions, err := store.List()
	if err != nil {
		t.Fatalf("missing base dir must not error: %v", err)
	}
	if sessions != nil {
		t.Error("expected no sessions")
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Save("low", 2, sampleSession()); err != nil {
		t.Fatal(err)
	}

	sessions, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].Tier != "low" {
		t.Errorf("unexpected session %+v", sessions[0])
	}
}
