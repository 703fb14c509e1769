// Package coaching picks guidance text for a pillar score.
//
// Classification always uses the thresholds passed in, not whatever was stored
// on the response when it was scored, so tips follow the current configuration.
package coaching

import (
	"context"
	"fmt"

	"mindset-backend/internal/scoring"
)

// Tip is the guidance shown for one pillar.
type Tip struct {
	Pillar         string                 `json:"pillar"`
	Classification scoring.Classification `json:"classification"`
	PracticeTip    string                 `json:"practice_tip"`
	GameDayTip     string                 `json:"game_day_tip"`
}

// TipSource supplies static tip text per pillar and classification.
type TipSource interface {
	FindTip(ctx context.Context, pillar string, classification scoring.Classification) (practice, gameDay string, found bool, err error)
}

// Lookup classifies score with the pillar's current thresholds and returns the
// matching tip. ok is false when the score is neutral or no content exists.
func Lookup(ctx context.Context, pillar string, score float64, cfg scoring.PillarConfig, src TipSource) (Tip, bool, error) {
	p, exists := cfg[pillar]
	if !exists {
		return Tip{}, false, &scoring.ConfigurationError{Reason: fmt.Sprintf("pillar %q is not configured", pillar)}
	}
	class := p.Classify(score)
	if class == scoring.Neutral {
		return Tip{}, false, nil
	}
	practice, gameDay, found, err := src.FindTip(ctx, pillar, class)
	if err != nil {
		return Tip{}, false, fmt.Errorf("find tip for %s/%s: %w", pillar, class, err)
	}
	if !found {
		return Tip{}, false, nil
	}
	return Tip{
		Pillar:         pillar,
		Classification: class,
		PracticeTip:    practice,
		GameDayTip:     gameDay,
	}, true, nil
}

// LookupAll returns tips for every scored pillar, ordered by pillar key.
func LookupAll(ctx context.Context, scores map[string]float64, cfg scoring.PillarConfig, src TipSource) ([]Tip, error) {
	tips := []Tip{}
	for _, key := range cfg.Keys() {
		score, scored := scores[key]
		if !scored {
			continue
		}
		tip, ok, err := Lookup(ctx, key, score, cfg, src)
		if err != nil {
			return nil, err
		}
		if ok {
			tips = append(tips, tip)
		}
	}
	return tips, nil
}
