package mocktest

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/synthify/synthify/internal/llm/prompts"
	"github.com/synthify/synthify/internal/model"
)

// ErrNoActiveTest is returned when an operation needs a current mock test
// and none has been generated.
var ErrNoActiveTest = errors.New("no active mock test")

// TextGenerator produces raw model text for a prompt. The output may be
// unusable; the service degrades to the offline fallback in that case.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// DocumentStore persists the current mock test and the latest analysis as
// the app's external JSON documents.
type DocumentStore interface {
	SaveQuestionSet(model.QuestionSet) error
	LoadQuestionSet() (model.QuestionSet, error)
	SaveAnalysis(model.AnalysisResult) error
	LoadAnalysis() (*model.AnalysisResult, error)
}

// ResultStore keeps the history of completed outcomes that seeds the
// leaderboard across restarts.
type ResultStore interface {
	InsertResult(model.AnalysisResult) (int64, error)
	ListLeaderboardEntries() ([]model.LeaderboardEntry, error)
}

// Service owns the single active mock test: its question set, the session
// answering it, and the leaderboard of past outcomes. One instance exists
// per process; the mutex covers concurrent HTTP handlers, not multiple
// users.
type Service struct {
	gen     TextGenerator
	docs    DocumentStore
	results ResultStore
	cfg     model.StudyConfig

	mu          sync.Mutex
	questions   model.QuestionSet
	session     *Session
	analysis    *model.AnalysisResult
	leaderboard *Leaderboard
}

// NewService restores prior state: the persisted mock test resumes as an
// in-progress session (with no recorded start time), the result history
// seeds the leaderboard, and the latest analysis becomes the report.
func NewService(gen TextGenerator, docs DocumentStore, results ResultStore, cfg model.StudyConfig) (*Service, error) {
	s := &Service{gen: gen, docs: docs, results: results, cfg: cfg}

	entries, err := results.ListLeaderboardEntries()
	if err != nil {
		return nil, err
	}
	s.leaderboard = NewLeaderboard(entries)

	qs, err := docs.LoadQuestionSet()
	if err != nil {
		slog.Warn("ignoring persisted mock test", "error", err)
	} else if qs != nil {
		s.questions = qs
		s.session = NewSession()
		if err := s.session.Resume(qs); err != nil {
			return nil, err
		}
		slog.Info("resumed persisted mock test", "questions", len(qs))
	}

	if analysis, err := docs.LoadAnalysis(); err != nil {
		slog.Warn("ignoring persisted analysis", "error", err)
	} else {
		s.analysis = analysis
	}

	return s, nil
}

// GenerateMockTest builds a fresh mock test for the topic, degrading to the
// offline fallback on any generation or parse failure. The prior test and
// any in-progress session are discarded. The returned set is already
// persisted and bound to a new started session.
func (s *Service) GenerateMockTest(ctx context.Context, topic string) model.QuestionSet {
	qs := s.generate(ctx, topic)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions = qs
	s.analysis = nil
	s.session = NewSession()
	if err := s.session.Start(qs); err != nil {
		// Unreachable: the session is freshly created.
		slog.Error("start session", "error", err)
	}
	if err := s.docs.SaveQuestionSet(qs); err != nil {
		slog.Warn("persist mock test", "error", err)
	}
	return qs
}

func (s *Service) generate(ctx context.Context, topic string) model.QuestionSet {
	prompt, err := prompts.BuildMockTestPrompt(topic, s.cfg.NumMCQ, s.cfg.NumShortAnswer)
	if err != nil {
		slog.Error("build mock-test prompt, using fallback", "error", err)
		return GenerateFallback(topic)
	}

	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		slog.Warn("text generation failed, using fallback", "topic", topic, "error", err)
		return GenerateFallback(topic)
	}

	qs, err := ParseQuestionSet(raw)
	if err != nil {
		var decodeErr *DecodeError
		var validationErr *ValidationError
		switch {
		case errors.As(err, &decodeErr):
			slog.Warn("model output is not valid JSON, using fallback", "topic", topic, "error", decodeErr.Err)
		case errors.As(err, &validationErr):
			slog.Warn("model output failed validation, using fallback", "topic", topic, "issues", validationErr.Errors)
		default:
			slog.Warn("parse failed, using fallback", "topic", topic, "error", err)
		}
		return GenerateFallback(topic)
	}

	slog.Info("generated mock test", "topic", topic, "questions", len(qs), "mcqs", qs.MCQCount())
	return qs
}

// CurrentTest returns the active question set, if any.
func (s *Service) CurrentTest() (model.QuestionSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.questions == nil {
		return nil, false
	}
	return s.questions, true
}

// RecordAnswer stores one answer against the active session.
func (s *Service) RecordAnswer(question, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ErrNoActiveTest
	}
	return s.session.RecordAnswer(question, answer)
}

// Submit completes the active session and scores it. The analysis is
// persisted, recorded in the result history, and added to the leaderboard.
// An incomplete submission leaves the session in progress.
func (s *Service) Submit() (model.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return model.AnalysisResult{}, ErrNoActiveTest
	}

	if err := s.session.Submit(); err != nil {
		return model.AnalysisResult{}, err
	}

	result, err := Score(s.questions, s.session)
	if err != nil {
		return model.AnalysisResult{}, err
	}

	s.analysis = &result
	s.leaderboard.Record(model.LeaderboardEntry{
		TimeTakenSeconds: result.TimeTakenSeconds,
		Score:            result.CorrectMCQs,
	})

	if err := s.docs.SaveAnalysis(result); err != nil {
		slog.Warn("persist analysis", "error", err)
	}
	if _, err := s.results.InsertResult(result); err != nil {
		slog.Warn("record result", "error", err)
	}

	return result, nil
}

// Report returns the latest analysis, if one exists.
func (s *Service) Report() (*model.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analysis == nil {
		return nil, false
	}
	r := *s.analysis
	return &r, true
}

// Leaderboard returns the top k past outcomes.
func (s *Service) Leaderboard(k int) []model.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaderboard.TopN(k)
}
