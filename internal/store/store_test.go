package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/synthify/synthify/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndListResults(t *testing.T) {
	s := newTestStore(t)

	first := model.AnalysisResult{
		CorrectMCQs:      3,
		TotalMCQs:        5,
		TimeTakenSeconds: 42.5,
		CompletedAt:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	second := model.AnalysisResult{
		CorrectMCQs:      5,
		TotalMCQs:        5,
		TimeTakenSeconds: 30.0,
		CompletedAt:      time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	}

	id1, err := s.InsertResult(first)
	if err != nil {
		t.Fatalf("InsertResult: %v", err)
	}
	id2, err := s.InsertResult(second)
	if err != nil {
		t.Fatalf("InsertResult: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("ids not increasing: %d then %d", id1, id2)
	}

	results, err := s.ListResults()
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// Newest first.
	if results[0].CorrectMCQs != 5 || results[1].CorrectMCQs != 3 {
		t.Errorf("unexpected order: %+v", results)
	}

	count, err := s.ResultCount()
	if err != nil {
		t.Fatalf("ResultCount: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestListLeaderboardEntries(t *testing.T) {
	s := newTestStore(t)

	seeds := []model.AnalysisResult{
		{CorrectMCQs: 3, TotalMCQs: 5, TimeTakenSeconds: 12.5, CompletedAt: time.Now().UTC()},
		{CorrectMCQs: 5, TotalMCQs: 5, TimeTakenSeconds: 8.0, CompletedAt: time.Now().UTC()},
		{CorrectMCQs: 2, TotalMCQs: 5, TimeTakenSeconds: 8.0, CompletedAt: time.Now().UTC()},
	}
	for _, r := range seeds {
		if _, err := s.InsertResult(r); err != nil {
			t.Fatalf("InsertResult: %v", err)
		}
	}

	entries, err := s.ListLeaderboardEntries()
	if err != nil {
		t.Fatalf("ListLeaderboardEntries: %v", err)
	}
	want := []model.LeaderboardEntry{
		{TimeTakenSeconds: 8.0, Score: 2},
		{TimeTakenSeconds: 8.0, Score: 5},
		{TimeTakenSeconds: 12.5, Score: 3},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestListLeaderboardEntries_Empty(t *testing.T) {
	s := newTestStore(t)
	entries, err := s.ListLeaderboardEntries()
	if err != nil {
		t.Fatalf("ListLeaderboardEntries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(entries))
	}
}

func TestMetadata(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetMetadata("missing")
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if got != "" {
		t.Errorf("missing key = %q, want empty", got)
	}

	if err := s.SetMetadata("k", "v1"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	if err := s.SetMetadata("k", "v2"); err != nil {
		t.Fatalf("SetMetadata upsert: %v", err)
	}
	got, err = s.GetMetadata("k")
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if got != "v2" {
		t.Errorf("got %q, want %q", got, "v2")
	}
}

func TestMaterial(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetMaterial()
	if err != nil {
		t.Fatalf("GetMaterial: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty material, got %q", got)
	}

	if err := s.SetMaterial("chapter 4 notes"); err != nil {
		t.Fatalf("SetMaterial: %v", err)
	}
	got, err = s.GetMaterial()
	if err != nil {
		t.Fatalf("GetMaterial: %v", err)
	}
	if got != "chapter 4 notes" {
		t.Errorf("got %q", got)
	}
}
