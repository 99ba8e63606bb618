package core

import "fmt"

// outlinePrompt asks for the full six-section guide structure as bare JSON.
// The skeleton in the prompt keeps small models on the rails: they are far
// more reliable completing a shown shape than inventing one.
func outlinePrompt(topic, difficulty string) string {
	return fmt.Sprintf(`Create 6 study sections for "%[1]s" (%[2]s level).

JSON format:
{
  "topic": "%[1]s",
  "difficulty": "%[2]s",
  "overview": "Brief overview...",
  "estimated_time": "2-3 hours",
  "sections": [
    {"id": 1, "title": "Introduction to %[1]s", "overview": "Basic concepts...", "learning_objectives": ["Learn basics", "Understand concepts", "Apply knowledge"], "estimated_time": "30 min"},
    {"id": 2, "title": "Core Principles", "overview": "Key principles...", "learning_objectives": ["Master principles", "Understand relationships", "Apply concepts"], "estimated_time": "40 min"},
    {"id": 3, "title": "Practical Applications", "overview": "Real-world uses...", "learning_objectives": ["See examples", "Understand implementation", "Practice skills"], "estimated_time": "45 min"},
    {"id": 4, "title": "Advanced Concepts", "overview": "Complex topics...", "learning_objectives": ["Advanced features", "Complex scenarios", "Expert concepts"], "estimated_time": "50 min"},
    {"id": 5, "title": "Best Practices", "overview": "Standards and practices...", "learning_objectives": ["Industry standards", "Avoid mistakes", "Professional practices"], "estimated_time": "35 min"},
    {"id": 6, "title": "Future Directions", "overview": "Next steps...", "learning_objectives": ["Future trends", "Advanced resources", "Continued learning"], "estimated_time": "20 min"}
  ]
}

ONLY JSON output:`, topic, difficulty)
}

// sectionPrompt asks for one section's body in a fixed markdown shape.
func sectionPrompt(topic, sectionTitle, difficulty string) string {
	return fmt.Sprintf(`Generate educational content for:

Topic: %[1]s
Section: %[2]s
Level: %[3]s

Create focused content with:

## Overview
Brief explanation of %[2]s in %[1]s context.

## Key Concepts
- Main principle 1
- Main principle 2
- Main principle 3

## Practical Examples
1. Example 1: Real application
2. Example 2: Use case
3. Example 3: Implementation

## Important Points
- Critical insight 1
- Critical insight 2
- Critical insight 3

## Next Steps
How this connects to broader %[1]s learning.

Keep concise but informative. Focus on %[3]s level appropriateness.`, topic, sectionTitle, difficulty)
}
