package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"edustack.io/learning-tutor/internal/config"
)

// GenerationOptions bounds a single backend call.
type GenerationOptions struct {
	MaxOutputTokens int
	Temperature     float64
	Timeout         time.Duration
}

// Backend is the generation contract the orchestrator depends on. It hides
// the backend SDK's response types behind a plain text result; retry and
// fallback policy live in the orchestrator, never here.
type Backend interface {
	// Available reports whether a model was selected at startup. The value
	// is fixed for the process lifetime; there is no re-probing.
	Available() bool
	ModelName() string
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}

// LLMService adapts the Gemini API to the Backend contract.
type LLMService struct {
	client    *genai.Client
	modelName string
}

// NewLLMService connects to the backend and selects a model once. Any
// failure here (missing key, unreachable API, no models) leaves the service
// in backend-unavailable mode rather than aborting the process: the
// template fallback keeps every request answerable.
func NewLLMService() *LLMService {
	if config.AppConfig.GeminiAPIKey == "" {
		return &LLMService{}
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Printf("Failed to create GenAI client, running without backend: %v", err)
		return &LLMService{}
	}

	modelName, err := selectModel(ctx, client, config.AppConfig.PreferredModels)
	if err != nil {
		log.Printf("Model selection failed, running without backend: %v", err)
		client.Close()
		return &LLMService{}
	}

	log.Printf("Selected generation model: %s", modelName)
	return &LLMService{client: client, modelName: modelName}
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

func (s *LLMService) Available() bool {
	return s.client != nil && s.modelName != ""
}

func (s *LLMService) ModelName() string {
	return s.modelName
}

// Generate sends one bounded prompt and returns the raw response text. It
// never retries; a timeout is reported as ErrBackendTimeout, everything
// else the backend does wrong as ErrBackendError.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	if !s.Available() {
		return "", ErrBackendUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	model := s.client.GenerativeModel(s.modelName)
	maxTokens := int32(opts.MaxOutputTokens)
	temperature := float32(opts.Temperature)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temperature,
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("no response within %s: %w", opts.Timeout, ErrBackendTimeout)
		}
		return "", fmt.Errorf("generate content failed: %w (%v)", ErrBackendError, err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response: %w", ErrBackendError)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("response contained no text parts: %w", ErrBackendError)
	}

	return text.String(), nil
}

// selectModel probes the backend's model list once and applies the
// preference ladder. No preferred match falls through to whatever model can
// generate at all; that permissive choice is logged so operators notice.
func selectModel(ctx context.Context, client *genai.Client, preferred []string) (string, error) {
	var available []string
	it := client.ListModels(ctx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to list models: %w", err)
		}
		if !supportsGeneration(m) {
			continue
		}
		available = append(available, strings.TrimPrefix(m.Name, "models/"))
	}

	name := pickPreferredModel(available, preferred)
	if name == "" {
		return "", fmt.Errorf("no usable models reported by backend")
	}
	return name, nil
}

func supportsGeneration(m *genai.ModelInfo) bool {
	for _, method := range m.SupportedGenerationMethods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}

// pickPreferredModel returns the first ladder entry present in available,
// or an arbitrary available model when none of the ladder matches.
func pickPreferredModel(available, preferred []string) string {
	for _, want := range preferred {
		for _, have := range available {
			if have == want {
				return want
			}
		}
	}
	if len(available) > 0 {
		log.Printf("No preferred model available, using %s (available: %v)", available[0], available)
		return available[0]
	}
	return ""
}
