package scoring

import (
	"fmt"
	"sort"
)

// Result is the output of one scoring run.
type Result struct {
	PillarScores map[string]float64 `json:"pillar_scores"`
	MetaScores   map[string]float64 `json:"meta_scores"`
	Strengths    []string           `json:"strengths"`
	GrowthAreas  []string           `json:"growth_areas"`
}

type tally struct {
	sum   int
	count int
}

func (t tally) mean() float64 {
	return float64(t.sum) / float64(t.count)
}

// ValidateAnswers rejects unknown question ids and values outside the Likert range.
func ValidateAnswers(answers map[int]int, bank QuestionBank) error {
	ids := make([]int, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		field := fmt.Sprintf("answers[%d]", id)
		if _, ok := bank.Lookup(id); !ok {
			return &ValidationError{Field: field, Reason: "unknown question id"}
		}
		if v := answers[id]; v < LikertMin || v > LikertMax {
			return &ValidationError{
				Field:  field,
				Reason: fmt.Sprintf("value %d outside [%d,%d]", v, LikertMin, LikertMax),
			}
		}
	}
	return nil
}

// Score aggregates answers into pillar and meta scores and classifies every
// scored pillar. Unanswered questions are skipped.
func Score(answers map[int]int, bank QuestionBank, cfg PillarConfig) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if err := ValidateAnswers(answers, bank); err != nil {
		return Result{}, err
	}

	pillars := make(map[string]tally)
	metas := make(map[string]tally)
	for _, q := range bank {
		raw, ok := answers[q.ID]
		if !ok {
			continue
		}
		v := q.EffectiveValue(raw)
		add(pillars, q.Pillar, v)
		if q.SecondaryPillar != "" {
			add(pillars, q.SecondaryPillar, v)
		}
		add(metas, string(q.Category), v)
	}

	res := Result{
		PillarScores: make(map[string]float64, len(pillars)),
		MetaScores:   make(map[string]float64, len(metas)),
		Strengths:    []string{},
		GrowthAreas:  []string{},
	}
	for key, t := range metas {
		res.MetaScores[key] = t.mean()
	}
	for key, t := range pillars {
		p, ok := cfg[key]
		if !ok {
			return Result{}, configErrorf("pillar %q is not configured", key)
		}
		score := t.mean()
		res.PillarScores[key] = score
		switch p.Classify(score) {
		case Strength:
			res.Strengths = append(res.Strengths, key)
		case GrowthArea:
			res.GrowthAreas = append(res.GrowthAreas, key)
		}
	}

	sort.Slice(res.Strengths, func(i, j int) bool {
		a, b := res.Strengths[i], res.Strengths[j]
		if res.PillarScores[a] != res.PillarScores[b] {
			return res.PillarScores[a] > res.PillarScores[b]
		}
		return a < b
	})
	sort.Slice(res.GrowthAreas, func(i, j int) bool {
		a, b := res.GrowthAreas[i], res.GrowthAreas[j]
		if res.PillarScores[a] != res.PillarScores[b] {
			return res.PillarScores[a] < res.PillarScores[b]
		}
		return a < b
	})
	return res, nil
}

func add(m map[string]tally, key string, v int) {
	t := m[key]
	t.sum += v
	t.count++
	m[key] = t
}
