package prompts

import (
	"strings"
	"testing"

	"github.com/synthify/synthify/internal/model"
)

func TestBuildMockTestPrompt(t *testing.T) {
	got, err := BuildMockTestPrompt("thermodynamics", 5, 3)
	if err != nil {
		t.Fatalf("BuildMockTestPrompt: %v", err)
	}
	for _, want := range []string{"thermodynamics", "5 MCQs", "3 short-answer", "JSON array"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestBuildTopicsPrompt(t *testing.T) {
	got, err := BuildTopicsPrompt("chapter 4: heat engines")
	if err != nil {
		t.Fatalf("BuildTopicsPrompt: %v", err)
	}
	if !strings.Contains(got, "chapter 4: heat engines") {
		t.Errorf("prompt missing material:\n%s", got)
	}
}

func TestBuildKeyQuestionsPrompt(t *testing.T) {
	got, err := BuildKeyQuestionsPrompt("photosynthesis notes")
	if err != nil {
		t.Fatalf("BuildKeyQuestionsPrompt: %v", err)
	}
	if !strings.Contains(got, "photosynthesis notes") {
		t.Errorf("prompt missing material:\n%s", got)
	}
}

func TestBuildQuestionPaperPrompt(t *testing.T) {
	spec := model.PaperSpec{
		Subject:       "Physics",
		Topics:        []string{"optics", "waves"},
		NumMCQ:        10,
		NumThreeMarks: 4,
		NumFiveMarks:  2,
		Difficulty:    "medium",
		Reference:     "NCERT class 12",
	}
	got, err := BuildQuestionPaperPrompt(spec)
	if err != nil {
		t.Fatalf("BuildQuestionPaperPrompt: %v", err)
	}
	for _, want := range []string{"Physics", "optics, waves", "10 MCQs", "3 marks", "5 marks", "medium", "NCERT class 12"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestBuildQuestionPaperPrompt_OmitsZeroSections(t *testing.T) {
	spec := model.PaperSpec{
		Subject:    "Physics",
		NumMCQ:     10,
		Difficulty: "easy",
	}
	got, err := BuildQuestionPaperPrompt(spec)
	if err != nil {
		t.Fatalf("BuildQuestionPaperPrompt: %v", err)
	}
	if strings.Contains(got, "3 marks") || strings.Contains(got, "5 marks") {
		t.Errorf("zero-count sections should be omitted:\n%s", got)
	}
	if strings.Contains(got, "Cover topics") || strings.Contains(got, "reference") {
		t.Errorf("empty topics and reference should be omitted:\n%s", got)
	}
}
