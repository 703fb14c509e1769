package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionBankIgnoresUnknownFields(t *testing.T) {
	raw := []byte(`[
		{"id": 1, "text": "I stay locked in", "pillar": "focus", "category": "thinking", "image": "x.png"},
		{"id": 2, "text": "I doubt myself", "pillar": "confidence", "secondary_pillar": "focus", "is_reverse": true, "category": "feeling"}
	]`)

	bank, err := ParseQuestionBank(raw)
	require.NoError(t, err)
	require.Len(t, bank, 2)
	assert.Equal(t, []int{1, 2}, bank.IDs())

	q, ok := bank.Lookup(2)
	require.True(t, ok)
	assert.True(t, q.IsReverse)
	assert.Equal(t, "focus", q.SecondaryPillar)
	assert.Equal(t, Feeling, q.Category)
}

func TestQuestionBankValidate(t *testing.T) {
	cases := map[string]QuestionBank{
		"empty":          {},
		"zero id":        {{ID: 0, Pillar: "focus", Category: Thinking}},
		"duplicate id":   {{ID: 1, Pillar: "focus", Category: Thinking}, {ID: 1, Pillar: "focus", Category: Action}},
		"no pillar":      {{ID: 1, Category: Thinking}},
		"bad category":   {{ID: 1, Pillar: "focus", Category: "doing"}},
		"same secondary": {{ID: 1, Pillar: "focus", SecondaryPillar: "focus", Category: Thinking}},
	}
	for name, bank := range cases {
		t.Run(name, func(t *testing.T) {
			var cerr *ConfigurationError
			require.ErrorAs(t, bank.Validate(), &cerr)
		})
	}
}

func TestParseQuestionBankMalformed(t *testing.T) {
	_, err := ParseQuestionBank([]byte(`{"id": 1}`))
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
}

func TestRequireCoverage(t *testing.T) {
	bank := QuestionBank{
		{ID: 3, Pillar: "focus", Category: Thinking},
		{ID: 1, Pillar: "focus", Category: Action},
		{ID: 2, Pillar: "focus", Category: Feeling},
	}

	require.NoError(t, bank.RequireCoverage(map[int]int{1: 1, 2: 2, 3: 3}))

	err := bank.RequireCoverage(map[int]int{2: 5})
	var ierr *IncompleteAnswersError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, []int{1, 3}, ierr.Missing)
	assert.Equal(t, "missing answers for questions: 1, 3", ierr.Error())
}
