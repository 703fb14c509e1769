package scoring

import (
	"encoding/json"
	"strings"
)

// Likert bounds shared by every assessment version.
const (
	LikertMin = 1
	LikertMax = 7
)

// MetaCategory groups questions independently of their pillar.
type MetaCategory string

const (
	Thinking MetaCategory = "thinking"
	Feeling  MetaCategory = "feeling"
	Action   MetaCategory = "action"
)

func (m MetaCategory) valid() bool {
	switch m {
	case Thinking, Feeling, Action:
		return true
	}
	return false
}

// Question is one Likert item of an assessment version.
type Question struct {
	ID              int          `json:"id" yaml:"id"`
	Text            string       `json:"text" yaml:"text"`
	Pillar          string       `json:"pillar" yaml:"pillar"`
	SecondaryPillar string       `json:"secondary_pillar,omitempty" yaml:"secondary_pillar,omitempty"`
	IsReverse       bool         `json:"is_reverse" yaml:"is_reverse"`
	Category        MetaCategory `json:"category" yaml:"category"`
}

// EffectiveValue applies reverse scoring to a raw answer.
func (q Question) EffectiveValue(raw int) int {
	if q.IsReverse {
		return (LikertMin + LikertMax) - raw
	}
	return raw
}

// QuestionBank is the ordered, read-only question list of one assessment version.
type QuestionBank []Question

// ParseQuestionBank decodes a stored question document and validates it.
func ParseQuestionBank(raw []byte) (QuestionBank, error) {
	var bank QuestionBank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, configErrorf("decode questions: %v", err)
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return bank, nil
}

// Validate checks ids, pillar keys and meta categories.
func (b QuestionBank) Validate() error {
	if len(b) == 0 {
		return configErrorf("question bank is empty")
	}
	seen := make(map[int]struct{}, len(b))
	for i, q := range b {
		if q.ID <= 0 {
			return configErrorf("question at position %d has invalid id %d", i, q.ID)
		}
		if _, dup := seen[q.ID]; dup {
			return configErrorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = struct{}{}
		if strings.TrimSpace(q.Pillar) == "" {
			return configErrorf("question %d has no pillar", q.ID)
		}
		if q.SecondaryPillar == q.Pillar {
			return configErrorf("question %d repeats pillar %q as secondary", q.ID, q.Pillar)
		}
		if !q.Category.valid() {
			return configErrorf("question %d has unknown category %q", q.ID, q.Category)
		}
	}
	return nil
}

// Lookup returns the question with the given id.
func (b QuestionBank) Lookup(id int) (Question, bool) {
	for _, q := range b {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// IDs returns question ids in bank order.
func (b QuestionBank) IDs() []int {
	ids := make([]int, len(b))
	for i, q := range b {
		ids[i] = q.ID
	}
	return ids
}

// Missing lists the question ids without an answer.
func (b QuestionBank) Missing(answers map[int]int) []int {
	var missing []int
	for _, q := range b {
		if _, ok := answers[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// RequireCoverage fails with an IncompleteAnswersError unless every question is answered.
func (b QuestionBank) RequireCoverage(answers map[int]int) error {
	if missing := b.Missing(answers); len(missing) > 0 {
		return newIncompleteAnswersError(missing)
	}
	return nil
}
