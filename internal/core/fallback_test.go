package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackOutlineShape(t *testing.T) {
	outline := fallbackOutline("Quantum Computing", "hard")

	assert.Equal(t, "Quantum Computing", outline.Topic)
	assert.Equal(t, "hard", outline.Difficulty)
	assert.NotEmpty(t, outline.Overview)
	require.Len(t, outline.Sections, 6)

	for i, sec := range outline.Sections {
		assert.Equal(t, i+1, sec.ID, "ids are 1-based and match position")
		assert.NotEmpty(t, sec.Title)
		assert.NotEmpty(t, sec.Overview)
		assert.NotEmpty(t, sec.LearningObjectives)
		assert.NotEmpty(t, sec.EstimatedTime)
	}
	assert.Contains(t, outline.Sections[0].Title, "Quantum Computing")
}

func TestFallbackOutlineDeterministic(t *testing.T) {
	a := fallbackOutline("Algebra", "easy")
	b := fallbackOutline("Algebra", "easy")
	assert.Equal(t, a, b)
}

func TestFallbackSectionPerIndex(t *testing.T) {
	seen := make(map[string]int)
	for i := 0; i < 6; i++ {
		sc := fallbackSection("Networking", "Some Section", i, "medium")

		assert.False(t, sc.AIGenerated)
		assert.Equal(t, TemplateModelName, sc.ModelUsed)
		assert.Zero(t, sc.GenerationTime)
		assert.Equal(t, i, sc.SectionIndex)
		assert.True(t, validSectionContent(sc.Content), "template body for index %d must pass validation", i)
		assert.Contains(t, sc.Content, "Networking")

		if prev, dup := seen[sc.Content]; dup {
			t.Fatalf("indexes %d and %d produced identical content", prev, i)
		}
		seen[sc.Content] = i
	}
}

func TestFallbackSectionUnknownIndex(t *testing.T) {
	// An index outside the archetype set gets the introduction archetype,
	// never an error.
	known := fallbackSection("Networking", "Extra Section", 0, "medium")
	outOfRange := fallbackSection("Networking", "Extra Section", 9, "medium")

	assert.Equal(t, known.Content, outOfRange.Content)
	assert.Equal(t, 9, outOfRange.SectionIndex)
}

func TestFallbackSectionInterpolatesTitle(t *testing.T) {
	sc := fallbackSection("Go", "Concurrency Patterns", 2, "hard")
	assert.True(t, strings.Contains(sc.Content, "Concurrency Patterns"))
}
