package categorize

import (
	"strings"
	"sync"

	"github.com/Veraticus/soapbox/internal/model"
)

// Categorizer routes dictation into note sections by explicit tag or keyword match.
// Keywords are matched as lowercase substrings in section priority order.
type Categorizer struct {
	keywords Keywords
	mu       sync.RWMutex
}

// NewCategorizer creates a categorizer that owns a lowercased copy of keywords.
func NewCategorizer(keywords Keywords) *Categorizer {
	return &Categorizer{
		keywords: Keywords{
			Subjective: normalize(keywords.Subjective),
			Objective:  normalize(keywords.Objective),
			Assessment: normalize(keywords.Assessment),
			Plan:       normalize(keywords.Plan),
		},
	}
}

// Categorize appends text to the section it belongs to and returns that section.
// A valid explicit section wins; otherwise the first section whose keywords occur
// in text is used, falling back to subjective.
func (c *Categorizer) Categorize(text string, note *model.Note, explicit string) model.Section {
	section := c.Detect(text, explicit)
	note.AppendField(section, text)
	return section
}

// Detect returns the section text would be routed to without touching any note.
func (c *Categorizer) Detect(text, explicit string) model.Section {
	if section, ok := model.ParseSection(explicit); ok {
		return section
	}

	lower := strings.ToLower(text)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, section := range model.Sections() {
		if containsAny(lower, c.keywords.For(section)) {
			return section
		}
	}
	return model.SectionSubjective
}

// AddKeywords extends the keyword list of a section. Unknown sections are ignored
// and reported through the return value.
func (c *Categorizer) AddKeywords(section string, words ...string) bool {
	s, ok := model.ParseSection(section)
	if !ok {
		return false
	}

	cleaned := normalize(words)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch s {
	case model.SectionSubjective:
		c.keywords.Subjective = append(c.keywords.Subjective, cleaned...)
	case model.SectionObjective:
		c.keywords.Objective = append(c.keywords.Objective, cleaned...)
	case model.SectionAssessment:
		c.keywords.Assessment = append(c.keywords.Assessment, cleaned...)
	case model.SectionPlan:
		c.keywords.Plan = append(c.keywords.Plan, cleaned...)
	}
	return true
}

// Keywords returns a copy of the current table.
func (c *Categorizer) Keywords() Keywords {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.keywords.Clone()
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func normalize(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
