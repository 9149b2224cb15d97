package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appI18n "github.com/synthify/synthify/internal/i18n"
	"github.com/synthify/synthify/internal/llm/prompts"
	"github.com/synthify/synthify/internal/mocktest"
	"github.com/synthify/synthify/internal/model"
	"github.com/synthify/synthify/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	svc    *mocktest.Service
	gen    mocktest.TextGenerator
	store  *store.Store
	config model.StudyConfig
}

// New creates a new Handler.
func New(svc *mocktest.Service, gen mocktest.TextGenerator, s *store.Store, cfg model.StudyConfig) *Handler {
	return &Handler{svc: svc, gen: gen, store: s, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Post("/study/material", h.handleSetMaterial)
	r.Post("/study/topics", h.handleTopics)
	r.Post("/study/questions", h.handleKeyQuestions)
	r.Post("/study/paper", h.handleQuestionPaper)
	r.Post("/mocktest", h.handleGenerateMockTest)
	r.Get("/mocktest", h.handleCurrentMockTest)
	r.Post("/mocktest/answers", h.handleRecordAnswer)
	r.Post("/mocktest/submit", h.handleSubmit)
	r.Get("/mocktest/report", h.handleReport)
	r.Get("/leaderboard", h.handleLeaderboard)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"status": "ok",
		"app":    appI18n.T(r.Context(), "AppTitle"),
	}
	if p, ok := h.gen.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			resp["llm"] = "unreachable"
		} else {
			resp["llm"] = "ok"
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSetMaterial(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		respondError(w, http.StatusBadRequest, "topic must not be empty")
		return
	}
	if err := h.store.SetMaterial(req.Topic); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"topic": req.Topic})
}

// material resolves the study material for a request: an explicit value
// wins, otherwise the persisted one.
func (h *Handler) material(explicit string) (string, error) {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		return explicit, nil
	}
	stored, err := h.store.GetMaterial()
	if err != nil {
		return "", err
	}
	if stored == "" {
		return "", fmt.Errorf("no study material set")
	}
	return stored, nil
}

// relayPrompt sends a study-aid prompt to the text generator and returns
// the raw text. These aids have no offline fallback; failure surfaces as a
// typed response instead of a degraded result.
func (h *Handler) relayPrompt(ctx context.Context, w http.ResponseWriter, prompt string) {
	text, err := h.gen.GenerateText(ctx, prompt)
	if err != nil {
		slog.Warn("study aid generation failed", "error", err)
		respondError(w, http.StatusBadGateway, appI18n.T(ctx, "GenerationUnavailable"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (h *Handler) handleTopics(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Material string `json:"material"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	material, err := h.material(req.Material)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	prompt, err := prompts.BuildTopicsPrompt(material)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.relayPrompt(r.Context(), w, prompt)
}

func (h *Handler) handleKeyQuestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Material string `json:"material"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	material, err := h.material(req.Material)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	prompt, err := prompts.BuildKeyQuestionsPrompt(material)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.relayPrompt(r.Context(), w, prompt)
}

func (h *Handler) handleQuestionPaper(w http.ResponseWriter, r *http.Request) {
	var spec model.PaperSpec
	if !decodeBody(w, r, &spec) {
		return
	}
	if strings.TrimSpace(spec.Subject) == "" {
		respondError(w, http.StatusBadRequest, "subject must not be empty")
		return
	}
	if spec.Reference == "" {
		if stored, err := h.store.GetMaterial(); err == nil {
			spec.Reference = stored
		}
	}
	prompt, err := prompts.BuildQuestionPaperPrompt(spec)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.relayPrompt(r.Context(), w, prompt)
}

func (h *Handler) handleGenerateMockTest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	topic, err := h.material(req.Topic)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	qs := h.svc.GenerateMockTest(r.Context(), topic)
	respondJSON(w, http.StatusCreated, map[string]any{"questions": qs})
}

func (h *Handler) handleCurrentMockTest(w http.ResponseWriter, r *http.Request) {
	qs, ok := h.svc.CurrentTest()
	if !ok {
		respondError(w, http.StatusNotFound, appI18n.T(r.Context(), "NoActiveTest"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"questions": qs})
}

func (h *Handler) handleRecordAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.svc.RecordAnswer(req.Question, req.Answer)
	switch {
	case errors.Is(err, mocktest.ErrNoActiveTest):
		respondError(w, http.StatusConflict, appI18n.T(r.Context(), "NoActiveTest"))
	case errors.Is(err, mocktest.ErrUnknownQuestion):
		respondError(w, http.StatusNotFound, err.Error())
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Submit()

	var incomplete *mocktest.IncompleteSubmissionError
	switch {
	case errors.Is(err, mocktest.ErrNoActiveTest):
		respondError(w, http.StatusConflict, appI18n.T(r.Context(), "NoActiveTest"))
		return
	case errors.As(err, &incomplete):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      appI18n.Tp(r.Context(), "UnansweredQuestions", len(incomplete.Positions)),
			"unanswered": incomplete.Positions,
		})
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, h.reportView(r.Context(), result))
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	result, ok := h.svc.Report()
	if !ok {
		respondError(w, http.StatusNotFound, appI18n.T(r.Context(), "NoReport"))
		return
	}
	respondJSON(w, http.StatusOK, h.reportView(r.Context(), *result))
}

// reportView pairs the raw analysis with display strings the UI shell can
// show as-is.
func (h *Handler) reportView(ctx context.Context, result model.AnalysisResult) map[string]any {
	summary := appI18n.Td(ctx, "ReportSummary", map[string]any{
		"Correct": result.CorrectMCQs,
		"Total":   result.TotalMCQs,
		"Seconds": fmt.Sprintf("%.2f", result.TimeTakenSeconds),
	})
	feedback := make([]string, 0, len(result.DescriptiveFeedback))
	for _, fb := range result.DescriptiveFeedback {
		feedback = append(feedback, appI18n.Td(ctx, "KeywordsMatched", map[string]any{
			"Question": fb.Question,
			"Matched":  fb.MatchedKeywords,
			"Total":    fb.TotalKeywords,
		}))
	}
	return map[string]any{
		"result":   result,
		"summary":  summary,
		"feedback": feedback,
	}
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := h.config.LeaderboardSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"entries": h.svc.Leaderboard(limit),
	})
}
