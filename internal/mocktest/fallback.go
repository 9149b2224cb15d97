package mocktest

import (
	"fmt"
	"strings"

	"github.com/synthify/synthify/internal/model"
)

// Fallback synthesizes a valid mock test offline when the model's output is
// unusable. Every generated set satisfies the question-set invariants by
// construction, so the mock-test feature never dead-ends on a bad model
// response.

type mcqTemplate struct {
	question string
	options  []string
	answer   int // index into options
}

var fallbackMCQs = []mcqTemplate{
	{
		question: "Which of the following best describes %s?",
		options: []string{
			"A core concept worth studying in depth",
			"A unit of physical measurement",
			"A historical date",
			"An unrelated term",
		},
		answer: 0,
	},
	{
		question: "What is the most effective first step when studying %s?",
		options: []string{
			"Memorize unrelated trivia",
			"Identify the key concepts and definitions",
			"Skip directly to advanced exercises",
			"Avoid taking any notes",
		},
		answer: 1,
	},
	{
		question: "Which habit helps most when revising %s?",
		options: []string{
			"Reviewing material only once",
			"Studying without breaks",
			"Regular practice with self-testing",
			"Reading summaries written by others only",
		},
		answer: 2,
	},
	{
		question: "How should difficult parts of %s be approached?",
		options: []string{
			"Ignore them entirely",
			"Break them into smaller pieces and practice each",
			"Assume they will not be tested",
			"Rely on guessing",
		},
		answer: 1,
	},
	{
		question: "What best indicates understanding of %s?",
		options: []string{
			"Being able to explain it in your own words",
			"Having read it exactly once",
			"Owning a textbook about it",
			"Recognizing the name of the subject",
		},
		answer: 0,
	},
}

var fallbackShortAnswers = []struct {
	question string
	keywords []string
}{
	{
		question: "Define %s in your own words.",
		keywords: []string{"definition", "concept", "meaning"},
	},
	{
		question: "Describe one practical application of %s.",
		keywords: []string{"application", "example", "practice"},
	},
	{
		question: "Summarize the key ideas behind %s.",
		keywords: []string{"idea", "principle", "summary"},
	},
}

// GenerateFallback deterministically builds the fixed-shape mock test
// (5 MCQ + 3 short answer) for a topic. No model call is involved.
func GenerateFallback(topic string) model.QuestionSet {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = "the study material"
	}

	qs := make(model.QuestionSet, 0, len(fallbackMCQs)+len(fallbackShortAnswers))
	for _, tpl := range fallbackMCQs {
		opts := make([]string, len(tpl.options))
		copy(opts, tpl.options)
		qs = append(qs, model.Question{
			Type:     model.TypeMCQ,
			Question: fmt.Sprintf(tpl.question, topic),
			Options:  opts,
			Answer:   opts[tpl.answer],
		})
	}
	for _, tpl := range fallbackShortAnswers {
		qs = append(qs, model.Question{
			Type:     model.TypeShortAnswer,
			Question: fmt.Sprintf(tpl.question, topic),
			Keywords: append([]string(nil), tpl.keywords...),
		})
	}
	return qs
}
