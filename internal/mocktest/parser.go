package mocktest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/synthify/synthify/internal/model"
)

// DecodeError reports model output that could not be decoded as JSON at all.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode model output: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError reports decoded output that violates the question-set
// invariants. The whole parse fails; no partial set is returned.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseQuestionSet extracts a well-formed question set from raw model text.
// The text may be wrapped in markdown fences or padded with prose; the
// first successful extraction strategy wins. Any malformed record fails the
// entire parse.
func ParseQuestionSet(raw string) (model.QuestionSet, error) {
	candidate := extractJSONArray(raw)

	var qs model.QuestionSet
	if err := json.Unmarshal([]byte(candidate), &qs); err != nil {
		return nil, &DecodeError{Err: err}
	}

	// Keywords are matched lower-cased; normalize whatever casing the
	// model produced.
	for i := range qs {
		for j, kw := range qs[i].Keywords {
			qs[i].Keywords[j] = strings.ToLower(kw)
		}
	}

	if err := validateSet(qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// extractJSONArray narrows raw text down to the JSON array payload:
// fenced-json block first, then any fenced block, then the whole text;
// finally the span from the first '[' to the last ']' if both exist.
func extractJSONArray(raw string) string {
	s := strings.TrimSpace(raw)

	if inner, ok := extractFenced(s, "```json"); ok {
		s = inner
	} else if inner, ok := extractFenced(s, "```"); ok {
		s = inner
	}

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// extractFenced returns the content between the first fence pair opened by
// marker. The remainder of the opening line (a language tag, usually) is
// discarded.
func extractFenced(s, marker string) (string, bool) {
	open := strings.Index(s, marker)
	if open < 0 {
		return "", false
	}
	rest := s[open+len(marker):]
	if nl := strings.Index(rest, "\n"); nl >= 0 && strings.TrimSpace(rest[:nl]) != "" && marker == "```" {
		// Opening line carries a language tag; content starts after it.
		rest = rest[nl+1:]
	}
	closing := strings.Index(rest, "```")
	if closing < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:closing]), true
}

func validateSet(qs model.QuestionSet) error {
	if len(qs) == 0 {
		return &ValidationError{Errors: []string{"no questions in model output"}}
	}

	var errs []string
	seen := make(map[string]bool, len(qs))
	for i, q := range qs {
		qNum := i + 1
		if err := q.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("question %d: %v", qNum, err))
			continue
		}
		if seen[q.Question] {
			errs = append(errs, fmt.Sprintf("question %d: duplicate question text %q", qNum, q.Question))
		}
		seen[q.Question] = true
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
