package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/synthify/synthify/internal/model"
)

//go:embed templates/*.txt
var templateFS embed.FS

var (
	loadOnce  sync.Once
	loadErr   error
	templates map[string]*template.Template
)

var templateNames = []string{"mock_test", "topics", "key_questions", "question_paper"}

func load() error {
	loadOnce.Do(func() {
		templates = make(map[string]*template.Template)
		for _, name := range templateNames {
			file := "templates/" + name + ".txt"
			content, err := templateFS.ReadFile(file)
			if err != nil {
				loadErr = errors.New("failed to read prompt file " + file + ": " + err.Error())
				return
			}
			tmpl, err := template.New(name).Parse(string(content))
			if err != nil {
				loadErr = errors.New("failed to parse prompt template " + file + ": " + err.Error())
				return
			}
			templates[name] = tmpl
		}
	})
	return loadErr
}

func execute(name string, data any) (string, error) {
	if err := load(); err != nil {
		return "", err
	}
	tmpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MockTestData holds template data for the mock-test prompt.
type MockTestData struct {
	Topic          string
	NumMCQ         int
	NumShortAnswer int
}

// BuildMockTestPrompt builds the prompt requesting a JSON-encoded mock test.
func BuildMockTestPrompt(topic string, numMCQ, numShortAnswer int) (string, error) {
	return execute("mock_test", MockTestData{
		Topic:          topic,
		NumMCQ:         numMCQ,
		NumShortAnswer: numShortAnswer,
	})
}

// BuildTopicsPrompt builds the topic-extraction prompt for study material.
func BuildTopicsPrompt(material string) (string, error) {
	return execute("topics", map[string]string{"Material": material})
}

// BuildKeyQuestionsPrompt builds the key-question-generation prompt.
func BuildKeyQuestionsPrompt(material string) (string, error) {
	return execute("key_questions", map[string]string{"Material": material})
}

// PaperData holds template data for the question-paper prompt.
type PaperData struct {
	Subject       string
	Topics        string
	NumMCQ        int
	NumThreeMarks int
	NumFiveMarks  int
	Difficulty    string
	Reference     string
}

// BuildQuestionPaperPrompt builds the question-paper prompt from a spec.
func BuildQuestionPaperPrompt(spec model.PaperSpec) (string, error) {
	return execute("question_paper", PaperData{
		Subject:       spec.Subject,
		Topics:        strings.Join(spec.Topics, ", "),
		NumMCQ:        spec.NumMCQ,
		NumThreeMarks: spec.NumThreeMarks,
		NumFiveMarks:  spec.NumFiveMarks,
		Difficulty:    spec.Difficulty,
		Reference:     spec.Reference,
	})
}
