package mocktest

import (
	"errors"
	"strings"
	"time"

	"github.com/synthify/synthify/internal/model"
)

// ErrTestNotCompleted is returned when scoring is attempted before the
// session has been submitted. This is a caller bug, not a user state.
var ErrTestNotCompleted = errors.New("test not completed")

// Score computes the analysis for a completed session against its question
// set. MCQ answers score on exact string equality with the correct option;
// short answers score on case-insensitive substring containment of each
// keyword. Grading is advisory: the keyword ratio carries no pass/fail.
func Score(qs model.QuestionSet, sess *Session) (model.AnalysisResult, error) {
	if !sess.Completed() {
		return model.AnalysisResult{}, ErrTestNotCompleted
	}

	result := model.AnalysisResult{
		TotalMCQs:        qs.MCQCount(),
		TimeTakenSeconds: sess.TimeTaken(),
		CompletedAt:      time.Now(),
	}

	for _, q := range qs {
		switch q.Type {
		case model.TypeMCQ:
			if sess.Answer(q.Question) == q.Answer {
				result.CorrectMCQs++
			}
		case model.TypeShortAnswer:
			answer := strings.ToLower(sess.Answer(q.Question))
			matched := 0
			for _, kw := range q.Keywords {
				if strings.Contains(answer, kw) {
					matched++
				}
			}
			result.DescriptiveFeedback = append(result.DescriptiveFeedback, model.KeywordFeedback{
				Question:        q.Question,
				MatchedKeywords: matched,
				TotalKeywords:   len(q.Keywords),
			})
		}
	}
	return result, nil
}
