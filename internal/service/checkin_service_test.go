package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindset-backend/internal/scoring"
)

func TestCheckInUsesCallerLocalDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// 02:30 UTC on the 2nd is still the evening of the 1st in Los Angeles.
	f.checkIns.now = fixedClock("2026-05-02T02:30:00Z")

	la, err := f.checkIns.Submit(ctx, f.owner, CheckInInput{Mood: 7, Confidence: 6, Energy: 5, TimeZone: "America/Los_Angeles"})
	require.NoError(t, err)
	assert.Equal(t, "2026-05-01", la.LocalDate)
	assert.Equal(t, "America/Los_Angeles", la.TimeZone)

	utc, err := f.checkIns.Submit(ctx, f.owner, CheckInInput{Mood: 4, Confidence: 4, Energy: 4})
	require.NoError(t, err)
	assert.Equal(t, "2026-05-02", utc.LocalDate)

	today, err := f.checkIns.Today(ctx, f.owner, "America/Los_Angeles")
	require.NoError(t, err)
	assert.Equal(t, 7, today.Mood)

	today, err = f.checkIns.Today(ctx, f.owner, "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, 4, today.Mood)

	f.checkIns.now = fixedClock("2026-05-03T12:00:00Z")
	_, err = f.checkIns.Today(ctx, f.owner, "Asia/Tokyo")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckInSameDayOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.checkIns.now = fixedClock("2026-05-02T12:00:00Z")

	_, err := f.checkIns.Submit(ctx, f.owner, CheckInInput{Mood: 3, Confidence: 3, Energy: 3, Note: "rough"})
	require.NoError(t, err)
	second, err := f.checkIns.Submit(ctx, f.owner, CheckInInput{Mood: 8, Confidence: 7, Energy: 9, BreathingMinutes: 10, Note: " better "})
	require.NoError(t, err)

	assert.Equal(t, 8, second.Mood)
	assert.Equal(t, 10, second.BreathingMinutes)
	assert.Equal(t, "better", second.Note)

	var count int64
	require.NoError(t, f.db.Table("check_ins").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCheckInValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := map[string]CheckInInput{
		"mood":              {Mood: 0, Confidence: 5, Energy: 5},
		"confidence":        {Mood: 5, Confidence: 11, Energy: 5},
		"energy":            {Mood: 5, Confidence: 5, Energy: -1},
		"breathing_minutes": {Mood: 5, Confidence: 5, Energy: 5, BreathingMinutes: -3},
		"tz":                {Mood: 5, Confidence: 5, Energy: 5, TimeZone: "Mars/Olympus"},
	}
	for field, in := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := f.checkIns.Submit(ctx, f.owner, in)
			var verr *scoring.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, field, verr.Field)
		})
	}

	_, err := f.checkIns.Today(ctx, f.owner, "Not/AZone")
	var verr *scoring.ValidationError
	assert.ErrorAs(t, err, &verr)
}
