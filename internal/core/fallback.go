package core

import (
	"fmt"

	"edustack.io/learning-tutor/internal/store"
)

// TemplateModelName marks records produced by the deterministic fallback
// rather than a generative model.
const TemplateModelName = "template"

// fallbackOutline builds the canned six-section study guide. It never
// fails and never returns an empty structure; it is the correctness
// backstop when no backend is reachable.
func fallbackOutline(topic, difficulty string) *store.Outline {
	return &store.Outline{
		Topic:         topic,
		Difficulty:    difficulty,
		Overview:      fmt.Sprintf("Comprehensive %s-level study guide for %s", difficulty, topic),
		EstimatedTime: "2-3 hours",
		Sections: []store.SectionSpec{
			{
				ID:                 1,
				Title:              fmt.Sprintf("Introduction to %s", topic),
				Overview:           fmt.Sprintf("Fundamentals of %s", topic),
				LearningObjectives: []string{fmt.Sprintf("Understand %s basics", topic), "Learn key concepts", "See practical applications"},
				EstimatedTime:      "30 min",
			},
			{
				ID:                 2,
				Title:              "Core Principles",
				Overview:           fmt.Sprintf("Essential principles of %s", topic),
				LearningObjectives: []string{"Master core principles", "Understand relationships", "Apply knowledge"},
				EstimatedTime:      "40 min",
			},
			{
				ID:                 3,
				Title:              "Practical Applications",
				Overview:           fmt.Sprintf("Real-world applications of %s", topic),
				LearningObjectives: []string{"Explore examples", "Understand implementation", "Practice skills"},
				EstimatedTime:      "45 min",
			},
			{
				ID:                 4,
				Title:              "Advanced Concepts",
				Overview:           fmt.Sprintf("Advanced topics in %s", topic),
				LearningObjectives: []string{"Advanced features", "Complex scenarios", "Expert concepts"},
				EstimatedTime:      "50 min",
			},
			{
				ID:                 5,
				Title:              "Best Practices",
				Overview:           fmt.Sprintf("Professional standards for %s", topic),
				LearningObjectives: []string{"Industry standards", "Avoid mistakes", "Professional practices"},
				EstimatedTime:      "35 min",
			},
			{
				ID:                 6,
				Title:              "Future Directions",
				Overview:           fmt.Sprintf("Future developments in %s", topic),
				LearningObjectives: []string{"Future trends", "Advanced resources", "Continued learning"},
				EstimatedTime:      "20 min",
			},
		},
	}
}

// sectionArchetypes maps a section index to its template body. Six
// archetypes mirror the fixed outline shape: introduction, fundamentals,
// application, advanced, best practices, future directions.
var sectionArchetypes = map[int]func(topic, title string) string{
	0: func(topic, title string) string {
		return fmt.Sprintf(`## %[2]s

### Overview
%[2]s introduces the fundamental concepts of %[1]s. This section establishes the foundation for the rest of the guide.

### Key Concepts
- **Core Definition**: What %[1]s is and why it matters
- **Historical Context**: How %[1]s developed and evolved
- **Basic Principles**: Fundamental ideas underlying %[1]s
- **Practical Relevance**: Why learning %[1]s is valuable

### Examples
1. **Everyday Application**: How you might encounter %[1]s in daily life
2. **Industry Usage**: Professional applications of %[1]s
3. **Academic Context**: How %[1]s fits into educational curricula

### Important Points
- Start with a solid understanding of the basics
- Build knowledge progressively and connect concepts to real applications
- Practice reinforces learning

### Next Steps
This foundation prepares you for a deeper exploration of %[1]s in the following sections.`, topic, title)
	},
	1: func(topic, title string) string {
		return fmt.Sprintf(`## %[2]s

### Deep Dive into Fundamentals
%[2]s explores the essential mechanisms and principles that make %[1]s work.

### Key Concepts
- **Core Mechanisms**: How the fundamental processes operate
- **Essential Relationships**: How different elements interact
- **Governing Principles**: Rules and guidelines that apply throughout
- **Critical Components**: The parts that matter most

### Practical Understanding
1. **Mechanism Analysis**: Breaking down how things work
2. **Process Flows**: Step-by-step operation sequences
3. **Component Interaction**: How the parts fit together

### Important Points
- These principles underpin every advanced application of %[1]s
- Real-world systems depend on these fundamentals
- Working through examples builds intuition

### Integration
These core concepts connect directly to the practical applications covered next.`, topic, title)
	},
	2: func(topic, title string) string {
		return fmt.Sprintf(`## %[2]s

### Real-World Implementation
%[2]s bridges theory and practice, showing how %[1]s concepts work in real applications.

### Key Areas
- **Implementation Strategies**: How to put the concepts into practice
- **Real-World Examples**: Actual applications and use cases
- **Practical Considerations**: What matters when the theory meets reality
- **Success Factors**: What makes implementations effective

### Application Examples
1. **Industry Case Study**: A large-scale professional implementation
2. **Small-Scale Application**: Individual or small-team usage
3. **Innovation Example**: Creative or novel applications of %[1]s

### Important Points
- Theory without practice is incomplete
- Real applications carry their own challenges
- Iteration improves implementation quality

### Skills Development
This section builds skills you can apply immediately in your own work with %[1]s.`, topic, title)
	},
	3: func(topic, title string) string {
		return fmt.Sprintf(`## %[2]s

### Advanced Understanding
%[2]s covers sophisticated aspects of %[1]s that require deeper knowledge and analytical thinking.

### Advanced Principles
- **Complex Interactions**: How multiple factors work together
- **Sophisticated Models**: Advanced frameworks and approaches
- **Exception Handling**: When standard approaches do not apply
- **Optimization Strategies**: Making systems more efficient

### Technical Depth
1. **Advanced Mechanisms**: Sophisticated operational principles
2. **Complex Scenarios**: Multi-variable problem situations
3. **Expert Techniques**: Methods used by experienced practitioners

### Important Points
- Advanced concepts build on solid fundamentals
- Complexity rewards systematic thinking
- These topics separate practitioners from beginners

### Mastery Development
Working through this material indicates readiness for professional-level applications of %[1]s.`, topic, title)
	},
	4: func(topic, title string) string {
		return fmt.Sprintf(`## %[2]s

### Professional Standards and Excellence
%[2]s focuses on the established standards, proven methods, and professional practices that define quality work in %[1]s.

### Professional Standards
- **Quality Benchmarks**: Expected levels of professional work
- **Industry Guidelines**: Established protocols and procedures
- **Ethical Considerations**: Professional responsibility and integrity

### Proven Methodologies
1. **Systematic Approaches**: Time-tested methods for consistent results
2. **Quality Assurance**: Techniques for maintaining high standards
3. **Risk Management**: Handling uncertainty professionally

### Common Pitfalls
- Frequent mistakes practitioners should avoid
- Keeping quality up under time pressure
- Communicating clearly with stakeholders

### Important Points
- Professional standards ensure consistent quality
- Best practices are the field's collective experience
- Avoiding known pitfalls saves time and resources

### Career Integration
These standards form the foundation of professional work in %[1]s.`, topic, title)
	},
	5: func(topic, title string) string {
		return fmt.Sprintf(`## %[2]s

### Future Learning and Development
%[2]s prepares you for continued growth in the evolving field of %[1]s.

### Future Trends
- **Emerging Developments**: New directions in %[1]s
- **Technology Integration**: How new tools affect the field
- **Research Frontiers**: Active areas of investigation

### Learning Pathways
1. **Specialized Focus**: Developing expertise in specific areas
2. **Interdisciplinary Connections**: Linking %[1]s with neighboring fields
3. **Research Opportunities**: Contributing to the field's advancement

### Resources
- **Formal Education**: Advanced courses and degree programs
- **Professional Development**: Workshops, conferences, certifications
- **Self-Directed Learning**: Books, online material, independent projects

### Important Points
- Learning %[1]s is a continuous journey
- The field keeps evolving, and so should you
- Community engagement accelerates development

### Long-Term Success
Your %[1]s journey continues beyond this guide; these pathways support your ongoing development.`, topic, title)
	},
}

// fallbackSection produces deterministic content for one section. An index
// outside the known archetype set falls back to the introduction archetype
// rather than failing; every body comfortably exceeds the validity
// threshold and the call runs in constant time.
func fallbackSection(topic, sectionTitle string, sectionIndex int, difficulty string) *store.SectionContent {
	archetype, ok := sectionArchetypes[sectionIndex]
	if !ok {
		archetype = sectionArchetypes[0]
	}
	return &store.SectionContent{
		Topic:          topic,
		SectionTitle:   sectionTitle,
		SectionIndex:   sectionIndex,
		Difficulty:     difficulty,
		Content:        archetype(topic, sectionTitle),
		ModelUsed:      TemplateModelName,
		GenerationTime: 0,
		AIGenerated:    false,
	}
}
