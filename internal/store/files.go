package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/synthify/synthify/internal/model"
)

const (
	questionsFile = "mock_test_questions.json"
	analysisFile  = "analysis_results.json"
)

// FileStore persists the two flat JSON documents the app exchanges with
// the outside world: the current mock test and the latest analysis.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// SaveQuestionSet writes the current mock test, replacing any prior one.
func (f *FileStore) SaveQuestionSet(qs model.QuestionSet) error {
	return f.writeJSON(questionsFile, qs)
}

// LoadQuestionSet reads the persisted mock test. A missing file is not an
// error; it returns a nil set.
func (f *FileStore) LoadQuestionSet() (model.QuestionSet, error) {
	var qs model.QuestionSet
	ok, err := f.readJSON(questionsFile, &qs)
	if err != nil || !ok {
		return nil, err
	}
	if err := qs.Validate(); err != nil {
		return nil, fmt.Errorf("persisted mock test is invalid: %w", err)
	}
	return qs, nil
}

// SaveAnalysis writes the latest analysis result.
func (f *FileStore) SaveAnalysis(r model.AnalysisResult) error {
	return f.writeJSON(analysisFile, r)
}

// LoadAnalysis reads the persisted analysis. Returns nil without error if
// none has been written yet.
func (f *FileStore) LoadAnalysis() (*model.AnalysisResult, error) {
	var r model.AnalysisResult
	ok, err := f.readJSON(analysisFile, &r)
	if err != nil || !ok {
		return nil, err
	}
	return &r, nil
}

func (f *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (f *FileStore) readJSON(name string, v any) (bool, error) {
	path := filepath.Join(f.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}
