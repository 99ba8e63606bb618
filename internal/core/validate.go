package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"edustack.io/learning-tutor/internal/store"
)

// minSectionContentLength is the validity cutoff for section bodies: a
// response of exactly 150 characters is rejected, 151 is accepted. Short
// responses almost always mean the model truncated or refused.
const minSectionContentLength = 150

// validSectionContent reports whether backend output is usable as a
// section body.
func validSectionContent(content string) bool {
	return len(strings.TrimSpace(content)) > minSectionContentLength
}

// extractJSON unmarshals a JSON document that may be wrapped in prose.
// Stage one is a strict parse of the whole text; stage two retries on the
// substring between the first '{' and the last '}', which recovers the
// common "Here is your JSON: {...} Hope this helps!" shape.
func extractJSON(raw string, v interface{}) error {
	raw = strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return fmt.Errorf("no JSON object found in output: %w", ErrInvalidOutput)
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), v); err != nil {
		return fmt.Errorf("embedded JSON did not parse: %w", ErrInvalidOutput)
	}
	return nil
}

// parseOutline validates and normalizes raw backend output into an Outline.
// The model is free to get section ids wrong or omit the echo of topic and
// difficulty; those are normalized here, at generation time, because cached
// outlines are immutable afterwards.
func parseOutline(raw, topic, difficulty string) (*store.Outline, error) {
	var outline store.Outline
	if err := extractJSON(raw, &outline); err != nil {
		return nil, err
	}
	if len(outline.Sections) == 0 {
		return nil, fmt.Errorf("outline has no sections: %w", ErrInvalidOutput)
	}

	outline.Topic = topic
	outline.Difficulty = difficulty
	if outline.Overview == "" {
		outline.Overview = fmt.Sprintf("A %s-level study guide for %s", difficulty, topic)
	}
	if outline.EstimatedTime == "" {
		outline.EstimatedTime = "2-3 hours"
	}
	for i := range outline.Sections {
		outline.Sections[i].ID = i + 1
		if strings.TrimSpace(outline.Sections[i].Title) == "" {
			return nil, fmt.Errorf("outline section %d has no title: %w", i+1, ErrInvalidOutput)
		}
	}
	return &outline, nil
}
