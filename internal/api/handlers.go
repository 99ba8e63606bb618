package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"edustack.io/learning-tutor/internal/core"
	"edustack.io/learning-tutor/internal/store"
)

type APIHandler struct {
	generator *core.GeneratorService
	dbStore   *store.SQLiteStore
	backend   core.Backend
}

func NewAPIHandler(generator *core.GeneratorService, dbStore *store.SQLiteStore, backend core.Backend) *APIHandler {
	return &APIHandler{
		generator: generator,
		dbStore:   dbStore,
		backend:   backend,
	}
}

var validDifficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

// normalizeDifficulty defaults an empty difficulty to "medium" and rejects
// anything outside the known set.
func normalizeDifficulty(difficulty string) (string, error) {
	if difficulty == "" {
		return "medium", nil
	}
	if !validDifficulties[difficulty] {
		return "", fmt.Errorf("difficulty must be one of easy, medium, hard")
	}
	return difficulty, nil
}

func validateTopic(topic string) error {
	if len(topic) < 2 || len(topic) > 100 {
		return fmt.Errorf("topic must be 2-100 characters")
	}
	return nil
}

func validateSectionTitle(title string) error {
	if len(title) < 3 || len(title) > 200 {
		return fmt.Errorf("section_title must be 3-200 characters")
	}
	return nil
}

func validateSectionIndex(index int) error {
	if index < 0 || index > 10 {
		return fmt.Errorf("section_index must be between 0 and 10")
	}
	return nil
}

type StudyGuideRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

type StudyGuideResponse struct {
	Topic       string         `json:"topic"`
	Difficulty  string         `json:"difficulty"`
	Structure   *store.Outline `json:"structure"`
	TopicHash   string         `json:"topic_hash"`
	ModelUsed   string         `json:"model_used"`
	AIGenerated bool           `json:"ai_generated"`
	Cached      bool           `json:"cached"`
}

func (h *APIHandler) StudyGuideHandler(w http.ResponseWriter, r *http.Request) {
	var req StudyGuideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	topic := strings.TrimSpace(req.Topic)
	if err := validateTopic(topic); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	difficulty, err := normalizeDifficulty(req.Difficulty)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := h.generator.GetOrCreateOutline(r.Context(), topic, difficulty)

	writeJSON(w, http.StatusOK, StudyGuideResponse{
		Topic:       topic,
		Difficulty:  difficulty,
		Structure:   result.Outline,
		TopicHash:   result.TopicHash,
		ModelUsed:   result.ModelUsed,
		AIGenerated: result.AIGenerated,
		Cached:      result.Cached,
	})
}

type SectionContentRequest struct {
	Topic        string `json:"topic"`
	SectionTitle string `json:"section_title"`
	SectionIndex int    `json:"section_index"`
	Difficulty   string `json:"difficulty"`
}

type SectionContentResponse struct {
	Topic          string `json:"topic"`
	SectionTitle   string `json:"section_title"`
	SectionIndex   int    `json:"section_index"`
	Difficulty     string `json:"difficulty"`
	Content        string `json:"content"`
	AIGenerated    bool   `json:"ai_generated"`
	ModelUsed      string `json:"model_used"`
	GenerationTime string `json:"generation_time"`
	Cached         bool   `json:"cached"`
}

func (h *APIHandler) SectionContentHandler(w http.ResponseWriter, r *http.Request) {
	h.handleSection(w, r, false)
}

func (h *APIHandler) RegenerateContentHandler(w http.ResponseWriter, r *http.Request) {
	h.handleSection(w, r, true)
}

func (h *APIHandler) handleSection(w http.ResponseWriter, r *http.Request, forceRegenerate bool) {
	var req SectionContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	topic := strings.TrimSpace(req.Topic)
	sectionTitle := strings.TrimSpace(req.SectionTitle)
	if err := validateTopic(topic); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validateSectionTitle(sectionTitle); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validateSectionIndex(req.SectionIndex); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	difficulty, err := normalizeDifficulty(req.Difficulty)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	coreReq := core.SectionRequest{
		Topic:        topic,
		SectionTitle: sectionTitle,
		SectionIndex: req.SectionIndex,
		Difficulty:   difficulty,
	}

	var result *core.SectionResult
	if forceRegenerate {
		result = h.generator.RegenerateSection(r.Context(), coreReq)
	} else {
		result = h.generator.GetOrCreateSection(r.Context(), coreReq)
	}

	generationTime := "cached"
	if !result.Cached {
		generationTime = fmt.Sprintf("%.1fs", result.GenerationTime)
	}

	writeJSON(w, http.StatusOK, SectionContentResponse{
		Topic:          result.Topic,
		SectionTitle:   result.SectionTitle,
		SectionIndex:   result.SectionIndex,
		Difficulty:     result.Difficulty,
		Content:        result.Content,
		AIGenerated:    result.AIGenerated,
		ModelUsed:      result.ModelUsed,
		GenerationTime: generationTime,
		Cached:         result.Cached,
	})
}

type ProgressUpdateRequest struct {
	Topic        string  `json:"topic"`
	TopicHash    string  `json:"topic_hash"`
	SectionIndex int     `json:"section_index"`
	Completed    *bool   `json:"completed"`
	StudyTime    float64 `json:"study_time"`
}

func (h *APIHandler) ProgressUpdateHandler(w http.ResponseWriter, r *http.Request) {
	var req ProgressUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	topic := strings.TrimSpace(req.Topic)
	if err := validateTopic(topic); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.TopicHash) < 10 || len(req.TopicHash) > 100 {
		http.Error(w, "topic_hash must be 10-100 characters", http.StatusBadRequest)
		return
	}
	if err := validateSectionIndex(req.SectionIndex); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.StudyTime < 0 {
		http.Error(w, "study_time must not be negative", http.StatusBadRequest)
		return
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	sessionID := sessionIDFromContext(r.Context())
	if err := h.dbStore.UpsertProgress(sessionID, topic, req.TopicHash, req.SectionIndex, completed, req.StudyTime); err != nil {
		log.Printf("Failed to update progress for session %.8s: %v", sessionID, err)
		http.Error(w, "Failed to update progress", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Progress updated successfully",
	})
}

type ProgressResponse struct {
	Progress          map[int]store.SectionProgress `json:"progress"`
	CompletedSections int                           `json:"completed_sections"`
	TotalStudyTime    float64                       `json:"total_study_time"`
}

func (h *APIHandler) GetProgressHandler(w http.ResponseWriter, r *http.Request) {
	topicHash := chi.URLParam(r, "topicHash")
	sessionID := sessionIDFromContext(r.Context())

	rows, err := h.dbStore.GetProgress(sessionID, topicHash)
	if err != nil {
		log.Printf("Failed to load progress for session %.8s: %v", sessionID, err)
		http.Error(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}

	resp := ProgressResponse{Progress: make(map[int]store.SectionProgress)}
	for _, p := range rows {
		resp.Progress[p.SectionIndex] = p
		resp.TotalStudyTime += p.StudyTime
		if p.Completed {
			resp.CompletedSections++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"model":           h.backend.ModelName(),
		"model_available": h.backend.Available(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
