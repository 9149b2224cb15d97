package mocktest

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/synthify/synthify/internal/model"
	"github.com/synthify/synthify/internal/store"
)

type stubGenerator struct {
	output string
	err    error
	calls  int
}

func (g *stubGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	g.calls++
	return g.output, g.err
}

func testConfig() model.StudyConfig {
	return model.StudyConfig{NumMCQ: 5, NumShortAnswer: 3, LeaderboardSize: 5}
}

func newTestService(t *testing.T, gen TextGenerator) (*Service, *store.FileStore, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	docs, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	db, err := store.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc, err := NewService(gen, docs, db, testConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, docs, db
}

func TestService_GenerateUsesModelOutput(t *testing.T) {
	payload, err := json.Marshal(validSet())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	gen := &stubGenerator{output: "```json\n" + string(payload) + "\n```"}
	svc, docs, _ := newTestService(t, gen)

	qs := svc.GenerateMockTest(context.Background(), "arithmetic")
	if !reflect.DeepEqual(qs, validSet()) {
		t.Errorf("question set mismatch:\ngot  %+v\nwant %+v", qs, validSet())
	}

	// The set must be persisted for restart recovery.
	saved, err := docs.LoadQuestionSet()
	if err != nil {
		t.Fatalf("LoadQuestionSet: %v", err)
	}
	if !reflect.DeepEqual(saved, qs) {
		t.Errorf("persisted set differs from returned set")
	}
}

func TestService_GenerateDegradesOnError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}
	svc, _, _ := newTestService(t, gen)

	qs := svc.GenerateMockTest(context.Background(), "biology")
	if want := GenerateFallback("biology"); !reflect.DeepEqual(qs, want) {
		t.Errorf("expected fallback set, got %+v", qs)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}
}

func TestService_GenerateDegradesOnBadOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"not json", "I cannot produce questions right now."},
		{"invalid set", `[{"type": "MCQ", "question": "Q", "options": ["a"], "answer": "b"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t, &stubGenerator{output: tt.output})
			qs := svc.GenerateMockTest(context.Background(), "chemistry")
			if want := GenerateFallback("chemistry"); !reflect.DeepEqual(qs, want) {
				t.Errorf("expected fallback set, got %+v", qs)
			}
		})
	}
}

func TestService_FullFlow(t *testing.T) {
	gen := &stubGenerator{output: validSetJSON(t)}
	svc, docs, db := newTestService(t, gen)

	if _, ok := svc.CurrentTest(); ok {
		t.Fatal("expected no active test before generation")
	}
	if err := svc.RecordAnswer("2+2?", "4"); !errors.Is(err, ErrNoActiveTest) {
		t.Fatalf("expected ErrNoActiveTest, got %v", err)
	}

	svc.GenerateMockTest(context.Background(), "arithmetic")

	if err := svc.RecordAnswer("2+2?", "4"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	// Incomplete submission leaves the test in progress.
	_, err := svc.Submit()
	var incomplete *IncompleteSubmissionError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteSubmissionError, got %v", err)
	}
	if !reflect.DeepEqual(incomplete.Positions, []int{2}) {
		t.Errorf("positions = %v, want [2]", incomplete.Positions)
	}

	if err := svc.RecordAnswer("Define X", "X is a concept"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	result, err := svc.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.CorrectMCQs != 1 || result.TotalMCQs != 1 {
		t.Errorf("score %d/%d, want 1/1", result.CorrectMCQs, result.TotalMCQs)
	}
	if len(result.DescriptiveFeedback) != 1 || result.DescriptiveFeedback[0].MatchedKeywords != 2 {
		t.Errorf("feedback = %+v", result.DescriptiveFeedback)
	}

	report, ok := svc.Report()
	if !ok {
		t.Fatal("expected a report after submission")
	}
	if report.CorrectMCQs != result.CorrectMCQs {
		t.Errorf("report differs from submit result")
	}

	top := svc.Leaderboard(5)
	if len(top) != 1 || top[0].Score != 1 {
		t.Errorf("leaderboard = %+v", top)
	}

	// The outcome lands in both persistence layers.
	saved, err := docs.LoadAnalysis()
	if err != nil || saved == nil {
		t.Fatalf("LoadAnalysis: %v %v", saved, err)
	}
	count, err := db.ResultCount()
	if err != nil {
		t.Fatalf("ResultCount: %v", err)
	}
	if count != 1 {
		t.Errorf("result count = %d, want 1", count)
	}
}

func TestService_RestoresStateAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	docs, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	db, err := store.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gen := &stubGenerator{output: validSetJSON(t)}
	first, err := NewService(gen, docs, db, testConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	first.GenerateMockTest(context.Background(), "arithmetic")
	if err := first.RecordAnswer("2+2?", "4"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if err := first.RecordAnswer("Define X", "a concept"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if _, err := first.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// Same stores, fresh process.
	second, err := NewService(gen, docs, db, testConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	qs, ok := second.CurrentTest()
	if !ok {
		t.Fatal("expected persisted mock test to resume")
	}
	if !reflect.DeepEqual(qs, validSet()) {
		t.Errorf("restored set mismatch: %+v", qs)
	}

	if _, ok := second.Report(); !ok {
		t.Error("expected persisted analysis to be restored")
	}

	top := second.Leaderboard(5)
	if len(top) != 1 {
		t.Errorf("leaderboard seeded with %d entries, want 1", len(top))
	}

	// A resumed session accepts answers and submits with zero elapsed time.
	if err := second.RecordAnswer("2+2?", "3"); err != nil {
		t.Fatalf("RecordAnswer after restore: %v", err)
	}
	if err := second.RecordAnswer("Define X", "something"); err != nil {
		t.Fatalf("RecordAnswer after restore: %v", err)
	}
	result, err := second.Submit()
	if err != nil {
		t.Fatalf("Submit after restore: %v", err)
	}
	if result.TimeTakenSeconds != 0 {
		t.Errorf("resumed session time = %f, want 0", result.TimeTakenSeconds)
	}
}

func TestService_NewTestDiscardsOldState(t *testing.T) {
	gen := &stubGenerator{output: validSetJSON(t)}
	svc, _, _ := newTestService(t, gen)

	svc.GenerateMockTest(context.Background(), "first")
	if err := svc.RecordAnswer("2+2?", "4"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if err := svc.RecordAnswer("Define X", "a concept"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if _, err := svc.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	svc.GenerateMockTest(context.Background(), "second")

	if _, ok := svc.Report(); ok {
		t.Error("report should be cleared by a new mock test")
	}

	// The fresh session starts with no answers carried over.
	_, err := svc.Submit()
	var incomplete *IncompleteSubmissionError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteSubmissionError, got %v", err)
	}
	if !reflect.DeepEqual(incomplete.Positions, []int{1, 2}) {
		t.Errorf("positions = %v, want [1 2]", incomplete.Positions)
	}
}
