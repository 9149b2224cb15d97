package model

import (
	"fmt"
	"strings"
	"time"
)

// QuestionType discriminates the two kinds of mock-test questions.
type QuestionType string

const (
	// TypeMCQ is a multiple-choice question with one correct option.
	TypeMCQ QuestionType = "MCQ"
	// TypeShortAnswer is a free-text question graded by keyword containment.
	TypeShortAnswer QuestionType = "Short Answer"
)

// Question is one mock-test question. Options and Answer are set only for
// MCQ questions; Keywords only for Short Answer questions.
type Question struct {
	Type     QuestionType `json:"type"`
	Question string       `json:"question"`
	Options  []string     `json:"options,omitempty"`
	Answer   string       `json:"answer,omitempty"`
	Keywords []string     `json:"keywords,omitempty"`
}

// Validate checks the well-formedness rules for a single question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("empty question text")
	}
	switch q.Type {
	case TypeMCQ:
		if len(q.Options) < 2 {
			return fmt.Errorf("question %q: MCQ needs at least 2 options, got %d", q.Question, len(q.Options))
		}
		seen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if seen[opt] {
				return fmt.Errorf("question %q: duplicate option %q", q.Question, opt)
			}
			seen[opt] = true
		}
		if !seen[q.Answer] {
			return fmt.Errorf("question %q: answer %q is not among the options", q.Question, q.Answer)
		}
	case TypeShortAnswer:
		for _, kw := range q.Keywords {
			if kw != strings.ToLower(kw) {
				return fmt.Errorf("question %q: keyword %q is not lower-cased", q.Question, kw)
			}
		}
	default:
		return fmt.Errorf("question %q: unknown type %q", q.Question, q.Type)
	}
	return nil
}

// QuestionSet is the validated, immutable collection of questions for one
// mock test. Question text doubles as the answer-lookup key, so it must be
// unique across the set.
type QuestionSet []Question

// Validate checks the set-level invariants: non-empty, every question
// well-formed, question text unique across the set.
func (qs QuestionSet) Validate() error {
	if len(qs) == 0 {
		return fmt.Errorf("empty question set")
	}
	seen := make(map[string]bool, len(qs))
	for _, q := range qs {
		if err := q.Validate(); err != nil {
			return err
		}
		if seen[q.Question] {
			return fmt.Errorf("duplicate question text %q", q.Question)
		}
		seen[q.Question] = true
	}
	return nil
}

// MCQCount returns the number of MCQ questions in the set.
func (qs QuestionSet) MCQCount() int {
	n := 0
	for _, q := range qs {
		if q.Type == TypeMCQ {
			n++
		}
	}
	return n
}

// KeywordFeedback reports keyword coverage for one short-answer question.
type KeywordFeedback struct {
	Question        string `json:"question"`
	MatchedKeywords int    `json:"matched_keywords"`
	TotalKeywords   int    `json:"total_keywords"`
}

// AnalysisResult is the outcome of a completed mock test.
type AnalysisResult struct {
	CorrectMCQs         int               `json:"correct_mcqs"`
	TotalMCQs           int               `json:"total_mcqs"`
	DescriptiveFeedback []KeywordFeedback `json:"descriptive_feedback"`
	TimeTakenSeconds    float64           `json:"time_taken"`
	CompletedAt         time.Time         `json:"completed_at"`
}

// LeaderboardEntry is one past outcome. Entries order ascending by time
// taken first, MCQ score second.
type LeaderboardEntry struct {
	TimeTakenSeconds float64 `json:"time_taken"`
	Score            int     `json:"score"`
}

// Less reports whether e sorts before other in leaderboard order.
func (e LeaderboardEntry) Less(other LeaderboardEntry) bool {
	if e.TimeTakenSeconds != other.TimeTakenSeconds {
		return e.TimeTakenSeconds < other.TimeTakenSeconds
	}
	return e.Score < other.Score
}

// PaperSpec describes a question paper to generate.
type PaperSpec struct {
	Subject       string   `json:"subject"`
	Topics        []string `json:"topics,omitempty"`
	NumMCQ        int      `json:"num_mcq"`
	NumThreeMarks int      `json:"num_3_marks"`
	NumFiveMarks  int      `json:"num_5_marks"`
	Difficulty    string   `json:"difficulty"`
	Reference     string   `json:"reference,omitempty"`
}

// StudyConfig holds runtime parameters set via CLI flags.
type StudyConfig struct {
	NumMCQ          int    // MCQs per generated mock test
	NumShortAnswer  int    // short-answer questions per generated mock test
	LeaderboardSize int    // default display size for the leaderboard view
	DataDir         string // directory for the persisted JSON documents
}
