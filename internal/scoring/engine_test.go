package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func focusConfig() PillarConfig {
	return PillarConfig{
		"focus": {DisplayName: "Focus", Category: CoreCategory, StrengthThreshold: 5.5, GrowthThreshold: 3.5},
	}
}

func TestScoreFocusScenario(t *testing.T) {
	bank := QuestionBank{
		{ID: 1, Pillar: "focus", Category: Thinking},
		{ID: 2, Pillar: "focus", IsReverse: true, Category: Action},
	}

	res, err := Score(map[int]int{1: 6, 2: 2}, bank, focusConfig())
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"focus": 6.0}, res.PillarScores)
	assert.Equal(t, map[string]float64{"thinking": 6.0, "action": 6.0}, res.MetaScores)
	assert.Equal(t, []string{"focus"}, res.Strengths)
	assert.Empty(t, res.GrowthAreas)
}

func TestEffectiveValueReversal(t *testing.T) {
	q := Question{ID: 1, Pillar: "focus", IsReverse: true, Category: Feeling}
	want := []int{7, 6, 5, 4, 3, 2, 1}
	for v := LikertMin; v <= LikertMax; v++ {
		assert.Equal(t, want[v-1], q.EffectiveValue(v), "raw %d", v)
	}
	assert.Equal(t, 3, Question{IsReverse: false}.EffectiveValue(3))
}

func TestScoreSecondaryPillarCountsTwice(t *testing.T) {
	cfg := PillarConfig{
		"focus":      {StrengthThreshold: 6, GrowthThreshold: 2},
		"confidence": {StrengthThreshold: 6, GrowthThreshold: 2},
	}
	bank := QuestionBank{
		{ID: 1, Pillar: "focus", SecondaryPillar: "confidence", Category: Thinking},
		{ID: 2, Pillar: "confidence", Category: Feeling},
	}

	res, err := Score(map[int]int{1: 5, 2: 3}, bank, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, res.PillarScores["focus"], 1e-9)
	assert.InDelta(t, 4.0, res.PillarScores["confidence"], 1e-9)
	assert.InDelta(t, 5.0, res.MetaScores["thinking"], 1e-9)
	assert.InDelta(t, 3.0, res.MetaScores["feeling"], 1e-9)
}

func TestScoreOmitsPillarsWithoutAnswers(t *testing.T) {
	cfg := PillarConfig{
		"focus":      {StrengthThreshold: 6, GrowthThreshold: 2},
		"resilience": {StrengthThreshold: 6, GrowthThreshold: 2},
	}
	bank := QuestionBank{
		{ID: 1, Pillar: "focus", Category: Thinking},
		{ID: 2, Pillar: "resilience", Category: Action},
	}

	res, err := Score(map[int]int{1: 4}, bank, cfg)
	require.NoError(t, err)
	assert.Contains(t, res.PillarScores, "focus")
	assert.NotContains(t, res.PillarScores, "resilience")
	assert.NotContains(t, res.MetaScores, "action")
}

func TestScoreEmptyAnswers(t *testing.T) {
	bank := QuestionBank{{ID: 1, Pillar: "focus", Category: Thinking}}

	res, err := Score(map[int]int{}, bank, focusConfig())
	require.NoError(t, err)
	assert.Empty(t, res.PillarScores)
	assert.Empty(t, res.MetaScores)
	assert.Empty(t, res.Strengths)
	assert.Empty(t, res.GrowthAreas)
}

func TestScoreOrdering(t *testing.T) {
	cfg := PillarConfig{}
	for _, k := range []string{"a", "b", "c", "d", "e", "f"} {
		cfg[k] = Pillar{StrengthThreshold: 5, GrowthThreshold: 3}
	}
	bank := QuestionBank{
		{ID: 1, Pillar: "a", Category: Thinking},
		{ID: 2, Pillar: "b", Category: Thinking},
		{ID: 3, Pillar: "c", Category: Thinking},
		{ID: 4, Pillar: "d", Category: Feeling},
		{ID: 5, Pillar: "e", Category: Feeling},
		{ID: 6, Pillar: "f", Category: Feeling},
	}

	res, err := Score(map[int]int{1: 6, 2: 7, 3: 6, 4: 2, 5: 1, 6: 2}, bank, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, res.Strengths)
	assert.Equal(t, []string{"e", "d", "f"}, res.GrowthAreas)
}

func TestScoreNeverClassifiesTwice(t *testing.T) {
	cfg := PillarConfig{"focus": {StrengthThreshold: 4.5, GrowthThreshold: 4.4}}
	bank := QuestionBank{{ID: 1, Pillar: "focus", Category: Thinking}}

	for v := LikertMin; v <= LikertMax; v++ {
		res, err := Score(map[int]int{1: v}, bank, cfg)
		require.NoError(t, err)
		inStrengths := len(res.Strengths) == 1
		inGrowth := len(res.GrowthAreas) == 1
		assert.False(t, inStrengths && inGrowth, "value %d classified twice", v)
	}
}

func TestScoreRejectsOutOfRange(t *testing.T) {
	bank := QuestionBank{{ID: 1, Pillar: "focus", Category: Thinking}}

	for _, v := range []int{0, 8, -1} {
		_, err := Score(map[int]int{1: v}, bank, focusConfig())
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "answers[1]", verr.Field)
	}
}

func TestScoreRejectsUnknownQuestion(t *testing.T) {
	bank := QuestionBank{{ID: 1, Pillar: "focus", Category: Thinking}}

	_, err := Score(map[int]int{1: 4, 99: 4}, bank, focusConfig())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "answers[99]", verr.Field)
	assert.Equal(t, "unknown question id", verr.Reason)
}

func TestScoreFailsFastOnBadThresholds(t *testing.T) {
	cfg := PillarConfig{"focus": {StrengthThreshold: 4, GrowthThreshold: 4}}
	bank := QuestionBank{{ID: 1, Pillar: "focus", Category: Thinking}}

	_, err := Score(map[int]int{1: 4}, bank, cfg)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
}

func TestScoreUnconfiguredPillar(t *testing.T) {
	bank := QuestionBank{{ID: 1, Pillar: "grit", Category: Action}}

	_, err := Score(map[int]int{1: 4}, bank, focusConfig())
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
}
