package store

import "time"

// SectionSpec is one entry of an outline's table of contents. IDs are
// 1-based and match the section's position in the outline.
type SectionSpec struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Overview           string   `json:"overview"`
	LearningObjectives []string `json:"learning_objectives"`
	EstimatedTime      string   `json:"estimated_time"`
}

// Outline is the generated study-guide structure for a topic+difficulty.
// Outlines are immutable once persisted and are never deleted.
type Outline struct {
	Topic         string        `json:"topic"`
	Difficulty    string        `json:"difficulty"`
	Overview      string        `json:"overview"`
	EstimatedTime string        `json:"estimated_time"`
	Sections      []SectionSpec `json:"sections"`
}

// OutlineRecord is an Outline plus its persistence metadata.
type OutlineRecord struct {
	Outline     *Outline  `json:"structure"`
	TopicHash   string    `json:"topic_hash"`
	ModelUsed   string    `json:"model_used"`
	AIGenerated bool      `json:"ai_generated"`
	CreatedAt   time.Time `json:"created_at"`
}

// SectionContent is the persisted body for one outline section. A record
// may be deleted and recreated under forced regeneration; it never expires.
type SectionContent struct {
	Topic        string `json:"topic"`
	SectionTitle string `json:"section_title"`
	SectionIndex int    `json:"section_index"`
	Difficulty   string `json:"difficulty"`
	Content      string `json:"content"`
	ModelUsed    string `json:"model_used"`
	// GenerationTime is wall-clock seconds spent in the backend; 0 for
	// template fallbacks and cache hits.
	GenerationTime float64 `json:"generation_time"`
	AIGenerated    bool    `json:"ai_generated"`
}

// SectionProgress is one session's completion state for one outline section.
type SectionProgress struct {
	SectionIndex int        `json:"section_index"`
	Completed    bool       `json:"completed"`
	StudyTime    float64    `json:"study_time"`
	CompletedAt  *time.Time `json:"completed_at"`
}
