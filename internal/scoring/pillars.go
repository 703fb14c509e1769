package scoring

import (
	"encoding/json"
	"sort"
)

// PillarCategory separates the core pillars from the supporting ones.
type PillarCategory string

const (
	CoreCategory       PillarCategory = "core"
	SupportingCategory PillarCategory = "supporting"
)

// Classification is the outcome of comparing a pillar score with its thresholds.
type Classification string

const (
	Strength   Classification = "strength"
	GrowthArea Classification = "growth"
	Neutral    Classification = "neutral"
)

// Pillar holds display metadata and classification thresholds for one pillar.
type Pillar struct {
	DisplayName       string         `json:"display_name" yaml:"display_name"`
	Description       string         `json:"description" yaml:"description"`
	Category          PillarCategory `json:"category" yaml:"category"`
	MetaCategory      MetaCategory   `json:"meta_category,omitempty" yaml:"meta_category,omitempty"`
	StrengthThreshold float64        `json:"strength_threshold" yaml:"strength_threshold"`
	GrowthThreshold   float64        `json:"growth_threshold" yaml:"growth_threshold"`
}

// Classify compares score against the pillar thresholds.
func (p Pillar) Classify(score float64) Classification {
	switch {
	case score >= p.StrengthThreshold:
		return Strength
	case score <= p.GrowthThreshold:
		return GrowthArea
	default:
		return Neutral
	}
}

// PillarConfig maps pillar keys to their configuration.
type PillarConfig map[string]Pillar

// ParsePillarConfig decodes a stored pillar document and validates it.
func ParsePillarConfig(raw []byte) (PillarConfig, error) {
	var cfg PillarConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, configErrorf("decode pillar config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces growth_threshold < strength_threshold for every pillar.
func (c PillarConfig) Validate() error {
	if len(c) == 0 {
		return configErrorf("pillar config is empty")
	}
	for _, key := range c.Keys() {
		p := c[key]
		if p.GrowthThreshold >= p.StrengthThreshold {
			return configErrorf("pillar %q growth threshold %.2f must be below strength threshold %.2f",
				key, p.GrowthThreshold, p.StrengthThreshold)
		}
		if p.MetaCategory != "" && !p.MetaCategory.valid() {
			return configErrorf("pillar %q has unknown meta category %q", key, p.MetaCategory)
		}
	}
	return nil
}

// WithFallback returns c plus every pillar of fallback that c does not define.
func (c PillarConfig) WithFallback(fallback PillarConfig) PillarConfig {
	merged := make(PillarConfig, len(c)+len(fallback))
	for k, p := range fallback {
		merged[k] = p
	}
	for k, p := range c {
		merged[k] = p
	}
	return merged
}

// Keys returns the pillar keys sorted.
func (c PillarConfig) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateAssessment checks that every pillar a question references is configured.
func ValidateAssessment(bank QuestionBank, cfg PillarConfig) error {
	if err := bank.Validate(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	for _, q := range bank {
		if _, ok := cfg[q.Pillar]; !ok {
			return configErrorf("question %d references unknown pillar %q", q.ID, q.Pillar)
		}
		if q.SecondaryPillar != "" {
			if _, ok := cfg[q.SecondaryPillar]; !ok {
				return configErrorf("question %d references unknown secondary pillar %q", q.ID, q.SecondaryPillar)
			}
		}
	}
	return nil
}
