package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPillarClassify(t *testing.T) {
	p := Pillar{StrengthThreshold: 5.5, GrowthThreshold: 3.5}

	assert.Equal(t, Strength, p.Classify(5.5))
	assert.Equal(t, Strength, p.Classify(7))
	assert.Equal(t, GrowthArea, p.Classify(3.5))
	assert.Equal(t, GrowthArea, p.Classify(1))
	assert.Equal(t, Neutral, p.Classify(4.5))
}

func TestParsePillarConfig(t *testing.T) {
	raw := []byte(`{
		"focus": {"display_name": "Focus", "category": "core", "meta_category": "thinking",
		          "strength_threshold": 5.5, "growth_threshold": 3.5, "icon": "eye"}
	}`)

	cfg, err := ParsePillarConfig(raw)
	require.NoError(t, err)
	assert.Equal(t, "Focus", cfg["focus"].DisplayName)
	assert.Equal(t, CoreCategory, cfg["focus"].Category)
}

func TestParsePillarConfigThresholdInvariant(t *testing.T) {
	raw := []byte(`{"focus": {"strength_threshold": 3, "growth_threshold": 5}}`)

	_, err := ParsePillarConfig(raw)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Error(), `"focus"`)
}

func TestValidateAssessmentUnknownPillars(t *testing.T) {
	cfg := PillarConfig{"focus": {StrengthThreshold: 5, GrowthThreshold: 3}}

	require.NoError(t, ValidateAssessment(QuestionBank{{ID: 1, Pillar: "focus", Category: Thinking}}, cfg))

	err := ValidateAssessment(QuestionBank{{ID: 1, Pillar: "grit", Category: Thinking}}, cfg)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)

	err = ValidateAssessment(QuestionBank{{ID: 1, Pillar: "focus", SecondaryPillar: "grit", Category: Thinking}}, cfg)
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, err.Error(), "secondary")
}

func TestPillarConfigWithFallback(t *testing.T) {
	current := PillarConfig{"focus": {StrengthThreshold: 6.8, GrowthThreshold: 6}}
	own := PillarConfig{
		"focus":      {StrengthThreshold: 5.5, GrowthThreshold: 3.5},
		"confidence": {StrengthThreshold: 5.5, GrowthThreshold: 3.5},
	}

	merged := current.WithFallback(own)
	assert.Equal(t, []string{"confidence", "focus"}, merged.Keys())
	assert.Equal(t, 6.8, merged["focus"].StrengthThreshold)
	assert.Equal(t, 5.5, merged["confidence"].StrengthThreshold)
	assert.Len(t, current, 1)
}
