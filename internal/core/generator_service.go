package core

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"edustack.io/learning-tutor/internal/fingerprint"
	"edustack.io/learning-tutor/internal/store"
)

// Outline generation uses a tighter budget than section bodies: the
// structure is short and a low temperature keeps it inside the JSON shape.
const (
	outlineMaxOutputTokens = 800
	outlineTemperature     = 0.4

	warmUpMaxOutputTokens = 10
	warmUpTemperature     = 0.1
)

// GeneratorService is the generation policy engine. For each request it
// decides cache-hit vs. generate vs. fallback vs. forced regenerate, and
// writes results back. Generation failures of any kind degrade to the
// template fallback and are never surfaced to callers; the only state held
// across requests is the one-shot warm-up.
type GeneratorService struct {
	dbStore *store.SQLiteStore
	backend Backend
	budget  GenerationOptions

	warmUp sync.Once
}

func NewGeneratorService(db *store.SQLiteStore, backend Backend, budget GenerationOptions) *GeneratorService {
	return &GeneratorService{
		dbStore: db,
		backend: backend,
		budget:  budget,
	}
}

// OutlineResult is the terminal outcome of an outline request.
type OutlineResult struct {
	Outline     *store.Outline `json:"structure"`
	TopicHash   string         `json:"topic_hash"`
	ModelUsed   string         `json:"model_used"`
	AIGenerated bool           `json:"ai_generated"`
	Cached      bool           `json:"cached"`
}

// SectionRequest identifies one outline section. Input validation happens
// at the API boundary; by the time a request reaches the orchestrator it is
// assumed well-formed.
type SectionRequest struct {
	Topic        string
	SectionTitle string
	SectionIndex int
	Difficulty   string
}

// SectionResult is the terminal outcome of a section request.
type SectionResult struct {
	store.SectionContent
	Cached bool `json:"cached"`
}

// TopicFingerprint exposes the outline cache key so callers can correlate
// progress records without re-deriving the hashing scheme.
func (s *GeneratorService) TopicFingerprint(topic, difficulty string) string {
	return fingerprint.Topic(topic, difficulty)
}

// SectionFingerprint exposes the section cache key.
func (s *GeneratorService) SectionFingerprint(topic, sectionTitle, difficulty string) string {
	return fingerprint.Section(topic, sectionTitle, difficulty)
}

// GetOrCreateOutline returns the cached outline for topic+difficulty or
// generates one. Outlines are stable once cached; there is no regenerate
// path for them.
func (s *GeneratorService) GetOrCreateOutline(ctx context.Context, topic, difficulty string) *OutlineResult {
	rec, err := s.dbStore.GetOutline(topic, difficulty)
	if err != nil {
		// A failed read is treated as a miss: regenerating beats failing.
		log.Printf("Outline cache read failed for %q (%s): %v", topic, difficulty, err)
	}
	if rec != nil {
		return &OutlineResult{
			Outline:     rec.Outline,
			TopicHash:   rec.TopicHash,
			ModelUsed:   rec.ModelUsed,
			AIGenerated: rec.AIGenerated,
			Cached:      true,
		}
	}

	if s.backend.Available() {
		s.warmUpBackend(ctx)

		start := time.Now()
		raw, err := s.backend.Generate(ctx, outlinePrompt(topic, difficulty), GenerationOptions{
			MaxOutputTokens: outlineMaxOutputTokens,
			Temperature:     outlineTemperature,
			Timeout:         s.budget.Timeout,
		})
		if err != nil {
			log.Printf("Outline generation failed for %q (%s), falling back to template: %v", topic, difficulty, err)
		} else if outline, err := parseOutline(raw, topic, difficulty); err != nil {
			log.Printf("Outline output rejected for %q (%s), falling back to template: %v", topic, difficulty, err)
		} else {
			log.Printf("Generated outline for %q (%s) in %.1fs", topic, difficulty, time.Since(start).Seconds())
			s.persistOutline(topic, difficulty, outline, s.backend.ModelName(), true)
			return &OutlineResult{
				Outline:     outline,
				TopicHash:   fingerprint.Topic(topic, difficulty),
				ModelUsed:   s.backend.ModelName(),
				AIGenerated: true,
			}
		}
	}

	outline := fallbackOutline(topic, difficulty)
	s.persistOutline(topic, difficulty, outline, TemplateModelName, false)
	return &OutlineResult{
		Outline:   outline,
		TopicHash: fingerprint.Topic(topic, difficulty),
		ModelUsed: TemplateModelName,
	}
}

// GetOrCreateSection returns the cached body for one section or generates
// it.
func (s *GeneratorService) GetOrCreateSection(ctx context.Context, req SectionRequest) *SectionResult {
	return s.generateSection(ctx, req, false)
}

// RegenerateSection discards any cached body for the section and generates
// a fresh one, even if the fresh one turns out to be a template fallback.
func (s *GeneratorService) RegenerateSection(ctx context.Context, req SectionRequest) *SectionResult {
	return s.generateSection(ctx, req, true)
}

func (s *GeneratorService) generateSection(ctx context.Context, req SectionRequest, forceRegenerate bool) *SectionResult {
	if forceRegenerate {
		if err := s.dbStore.DeleteSection(req.Topic, req.SectionTitle, req.Difficulty); err != nil {
			log.Printf("Failed to evict section %q of %q: %v", req.SectionTitle, req.Topic, err)
		}
	} else {
		sc, err := s.dbStore.GetSection(req.Topic, req.SectionTitle, req.Difficulty)
		if err != nil {
			log.Printf("Section cache read failed for %q of %q: %v", req.SectionTitle, req.Topic, err)
		}
		if sc != nil {
			return &SectionResult{SectionContent: *sc, Cached: true}
		}
	}

	if s.backend.Available() {
		s.warmUpBackend(ctx)

		start := time.Now()
		raw, err := s.backend.Generate(ctx, sectionPrompt(req.Topic, req.SectionTitle, req.Difficulty), s.budget)
		content := strings.TrimSpace(raw)
		switch {
		case err != nil:
			log.Printf("Section generation failed for %q of %q, falling back to template: %v", req.SectionTitle, req.Topic, err)
		case !validSectionContent(content):
			log.Printf("Section output too short for %q of %q (%d chars), falling back to template", req.SectionTitle, req.Topic, len(content))
		default:
			elapsed := time.Since(start).Seconds()
			log.Printf("Generated %d chars for %q of %q in %.1fs", len(content), req.SectionTitle, req.Topic, elapsed)
			sc := &store.SectionContent{
				Topic:          req.Topic,
				SectionTitle:   req.SectionTitle,
				SectionIndex:   req.SectionIndex,
				Difficulty:     req.Difficulty,
				Content:        content,
				ModelUsed:      s.backend.ModelName(),
				GenerationTime: elapsed,
				AIGenerated:    true,
			}
			s.persistSection(sc)
			return &SectionResult{SectionContent: *sc}
		}
	}

	sc := fallbackSection(req.Topic, req.SectionTitle, req.SectionIndex, req.Difficulty)
	s.persistSection(sc)
	return &SectionResult{SectionContent: *sc}
}

// warmUpBackend pays the backend's cold-start cost once per process, off
// the generation timing reported to callers. Its outcome is deliberately
// ignored; the real generation call that follows stands on its own.
func (s *GeneratorService) warmUpBackend(ctx context.Context) {
	s.warmUp.Do(func() {
		start := time.Now()
		_, err := s.backend.Generate(ctx, "Hello", GenerationOptions{
			MaxOutputTokens: warmUpMaxOutputTokens,
			Temperature:     warmUpTemperature,
			Timeout:         s.budget.Timeout,
		})
		if err != nil {
			log.Printf("Model warm-up failed (ignored): %v", err)
			return
		}
		log.Printf("Model warmed up in %.1fs", time.Since(start).Seconds())
	})
}

// persistOutline writes the outline back to the cache. A write failure is
// logged and swallowed: the caller still gets the computed outline, and
// first-writer-wins means a lost race is not a failure either.
func (s *GeneratorService) persistOutline(topic, difficulty string, outline *store.Outline, modelUsed string, aiGenerated bool) {
	inserted, err := s.dbStore.PutOutline(topic, difficulty, outline, modelUsed, aiGenerated)
	if err != nil {
		log.Printf("Failed to persist outline for %q (%s): %v", topic, difficulty, err)
		return
	}
	if !inserted {
		log.Printf("Outline for %q (%s) already cached by a concurrent request", topic, difficulty)
	}
}

func (s *GeneratorService) persistSection(sc *store.SectionContent) {
	if err := s.dbStore.PutSection(sc); err != nil {
		log.Printf("Failed to persist section %q of %q: %v", sc.SectionTitle, sc.Topic, err)
	}
}
