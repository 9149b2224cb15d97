package mocktest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/synthify/synthify/internal/model"
)

// SessionState represents the lifecycle state of a test session.
type SessionState string

const (
	StateNotStarted SessionState = "not_started"
	StateInProgress SessionState = "in_progress"
	StateCompleted  SessionState = "completed"
)

// ErrAlreadyStarted is returned when Start is called on a session that has
// left the NotStarted state.
var ErrAlreadyStarted = errors.New("session already started")

// ErrUnknownQuestion is returned when an answer targets a question that is
// not part of the active question set.
var ErrUnknownQuestion = errors.New("question is not part of the active test")

// IncompleteSubmissionError rejects a submit attempt while answers are
// still missing. Positions are 1-based within the question-set order.
type IncompleteSubmissionError struct {
	Positions []int
}

func (e *IncompleteSubmissionError) Error() string {
	parts := make([]string, len(e.Positions))
	for i, p := range e.Positions {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return fmt.Sprintf("unanswered questions at positions: %s", strings.Join(parts, ", "))
}

// Session tracks in-progress answering state for one mock test. A session
// is owned by exactly one caller; it does no locking of its own.
type Session struct {
	state     SessionState
	questions model.QuestionSet
	answers   map[string]string
	startTime time.Time
	timeTaken float64
}

// NewSession creates a session in the NotStarted state.
func NewSession() *Session {
	return &Session{state: StateNotStarted}
}

// Start binds the session to a question set, records the start time, and
// initializes one empty answer slot per question.
func (s *Session) Start(qs model.QuestionSet) error {
	if err := s.bind(qs); err != nil {
		return err
	}
	s.startTime = time.Now()
	return nil
}

// Resume binds the session to a question set without recording a start
// time, for a test restored from disk. Submitting such a session reports a
// time taken of zero.
func (s *Session) Resume(qs model.QuestionSet) error {
	return s.bind(qs)
}

func (s *Session) bind(qs model.QuestionSet) error {
	if s.state != StateNotStarted {
		return ErrAlreadyStarted
	}
	s.questions = qs
	s.answers = make(map[string]string, len(qs))
	for _, q := range qs {
		s.answers[q.Question] = ""
	}
	s.state = StateInProgress
	return nil
}

// RecordAnswer stores the submitted value for a question, overwriting any
// previous value. Outside the InProgress state it is a no-op.
func (s *Session) RecordAnswer(question, answer string) error {
	if s.state != StateInProgress {
		return nil
	}
	if _, ok := s.answers[question]; !ok {
		return ErrUnknownQuestion
	}
	s.answers[question] = answer
	return nil
}

// Submit completes the session. If any answer is still empty it returns an
// IncompleteSubmissionError listing the 1-based positions of the
// unanswered questions and leaves the session in progress, answers
// untouched. On success the session becomes Completed and the elapsed time
// is recorded; a session that never had a start time reports zero.
func (s *Session) Submit() error {
	if s.state != StateInProgress {
		return fmt.Errorf("submit: session is %s", s.state)
	}

	var missing []int
	for i, q := range s.questions {
		if strings.TrimSpace(s.answers[q.Question]) == "" {
			missing = append(missing, i+1)
		}
	}
	if len(missing) > 0 {
		return &IncompleteSubmissionError{Positions: missing}
	}

	if s.startTime.IsZero() {
		s.timeTaken = 0
	} else {
		s.timeTaken = time.Since(s.startTime).Seconds()
	}
	s.state = StateCompleted
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState { return s.state }

// Completed reports whether the session has been submitted.
func (s *Session) Completed() bool { return s.state == StateCompleted }

// Questions returns the question set the session is bound to.
func (s *Session) Questions() model.QuestionSet { return s.questions }

// Answer returns the recorded answer for a question.
func (s *Session) Answer(question string) string { return s.answers[question] }

// TimeTaken returns the elapsed seconds recorded at submission.
func (s *Session) TimeTaken() float64 { return s.timeTaken }
