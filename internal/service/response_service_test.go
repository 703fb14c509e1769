package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindset-backend/internal/model"
	"mindset-backend/internal/repository"
	"mindset-backend/internal/scoring"
	"mindset-backend/utilities"
)

// counterTotal sums every series of a counter family in reg.
func counterTotal(t *testing.T, reg prometheus.Gatherer, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

// assertSameResult compares results ignoring the location of CompletedAt,
// which differs once a timestamp has been through the database.
func assertSameResult(t *testing.T, want, got model.AssessmentResultOut) {
	t.Helper()
	if want.CompletedAt != nil && got.CompletedAt != nil {
		assert.True(t, want.CompletedAt.Equal(*got.CompletedAt), "completed_at %v != %v", want.CompletedAt, got.CompletedAt)
		want.CompletedAt, got.CompletedAt = nil, nil
	}
	assert.Equal(t, want, got)
}

func TestBeginOrContinueReusesOpenResponse(t *testing.T) {
	f := newFixture(t)
	a := f.publish(t, focusDefinition())
	ctx := context.Background()

	first, err := f.responses.BeginOrContinue(ctx, f.owner, a.ID)
	require.NoError(t, err)
	second, err := f.responses.BeginOrContinue(ctx, f.owner, a.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.IsComplete)
	assert.Empty(t, second.Answers.Data())
}

func TestBeginOrContinueStartsNewAttemptAfterCompletion(t *testing.T) {
	f := newFixture(t)
	a := f.publish(t, focusDefinition())

	done := f.completeWith(t, a.ID, map[int]int{1: 6, 2: 2, 3: 3})
	next, err := f.responses.BeginOrContinue(context.Background(), f.owner, a.ID)
	require.NoError(t, err)

	assert.NotEqual(t, done.ID, next.ID)
	assert.False(t, next.IsComplete)
}

func TestBeginOrContinueRejectsRetiredVersion(t *testing.T) {
	f := newFixture(t)
	v1 := f.publish(t, focusDefinition())
	ctx := context.Background()

	// warm the snapshot cache before v1 is retired
	_, err := f.assessments.Snapshot(ctx, v1.ID)
	require.NoError(t, err)
	f.publish(t, focusDefinition())

	_, err = f.responses.BeginOrContinue(ctx, f.owner, v1.ID)
	assert.ErrorIs(t, err, ErrAssessmentInactive)
}

func TestBeginOrContinueUnknownAssessment(t *testing.T) {
	f := newFixture(t)
	_, err := f.responses.BeginOrContinue(context.Background(), f.owner, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitAnswersMergesPartialSaves(t *testing.T) {
	f := newFixture(t)
	a := f.publish(t, focusDefinition())
	ctx := context.Background()
	resp, err := f.responses.BeginOrContinue(ctx, f.owner, a.ID)
	require.NoError(t, err)

	_, err = f.responses.SubmitAnswers(ctx, f.owner, resp.ID, map[int]int{1: 6})
	require.NoError(t, err)
	updated, err := f.responses.SubmitAnswers(ctx, f.owner, resp.ID, map[int]int{1: 5, 2: 2})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 5, 2: 2}, updated.Answers.Data())

	stored, err := f.responses.Get(ctx, f.owner, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 5, 2: 2}, stored.Answers.Data())
}

func TestSubmitAnswersRejectsInvalidBatchWhole(t *testing.T) {
	f := newFixture(t)
	a := f.publish(t, focusDefinition())
	ctx := context.Background()
	resp, err := f.responses.BeginOrContinue(ctx, f.owner, a.ID)
	require.NoError(t, err)
	_, err = f.responses.SubmitAnswers(ctx, f.owner, resp.ID, map[int]int{1: 4})
	require.NoError(t, err)

	_, err = f.responses.SubmitAnswers(ctx, f.owner, resp.ID, map[int]int{2: 3, 3: 9})
	var verr *scoring.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "answers[3]", verr.Field)

	_, err = f.responses.SubmitAnswers(ctx, f.owner, resp.ID, map[int]int{42: 3})
	require.ErrorAs(t, err, &verr)

	stored, err := f.responses.Get(ctx, f.owner, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 4}, stored.Answers.Data())
}

func TestCompleteScoresAndPublishes(t *testing.T) {
	f := newFixture(t)
	a := f.publish(t, focusDefinition())
	f.responses.(*responseService).now = fixedClock("2026-03-01T10:00:00Z")

	var (
		mu     sync.Mutex
		events []ResponseCompleted
	)
	f.bus.Subscribe(utilities.EventResponseCompleted, func(data interface{}) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, data.(ResponseCompleted))
	})

	done := f.completeWith(t, a.ID, map[int]int{1: 6, 2: 2, 3: 3})
	f.bus.Wait()

	assert.True(t, done.IsComplete)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, "2026-03-01T10:00:00Z", done.CompletedAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
	assert.Equal(t, map[string]float64{"focus": 6, "confidence": 3}, done.PillarScores.Data())
	assert.Equal(t, map[string]float64{"thinking": 6, "action": 6, "feeling": 3}, done.MetaScores.Data())
	assert.Equal(t, []string{"focus"}, done.Strengths.Data())
	assert.Equal(t, []string{"confidence"}, done.GrowthAreas.Data())

	stored, err := f.responses.Get(context.Background(), f.owner, done.ID)
	require.NoError(t, err)
	assertSameResult(t, done.ResultOut(), stored.ResultOut())

	require.Len(t, events, 1)
	assert.Equal(t, done.ID, events[0].ResponseID)
	assert.Equal(t, "core-mindset", events[0].AssessmentName)
	assert.Equal(t, 1.0, counterTotal(t, f.metrics.Registry(), "mindset_responses_completed_total"))
	assert.Equal(t, 1.0, counterTotal(t, f.metrics.Registry(), "mindset_scoring_runs_total"))
}

func TestCompleteRequiresEveryAnswer(t *testing.T) {
	f := newFixture(t)
	a := f.publish(t, focusDefinition())
	ctx := context.Background()
	resp, err := f.responses.BeginOrContinue(ctx, f.owner, a.ID)
	require.NoError(t, err)

	_, err = f.responses.Complete(ctx, f.owner, resp.ID)
	var incomplete *scoring.IncompleteAnswersError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []int{1, 2, 3}, incomplete.Missing)

	_, err = f.responses.SubmitAnswers(ctx, f.owner, resp.ID, map[int]int{2: 5})
	require.NoError(t, err)
	_, err = f.responses.Complete(ctx, f.owner, resp.ID)
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []int{1, 3}, incomplete.Missing)

	stored, err := f.responses.Get(ctx, f.owner, resp.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsComplete)
	assert.Nil(t, stored.CompletedAt)
}

func TestCompleteTwiceKeepsFirstResult(t *testing.T) {
	f := newFixture(t)
	a := f.publish(t, focusDefinition())
	ctx := context.Background()
	done := f.completeWith(t, a.ID, map[int]int{1: 6, 2: 2, 3: 3})

	_, err := f.responses.Complete(ctx, f.owner, done.ID)
	var already *scoring.AlreadyCompleteError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, done.ID, already.ResponseID)

	_, err = f.responses.SubmitAnswers(ctx, f.owner, done.ID, map[int]int{1: 1})
	require.ErrorAs(t, err, &already)

	stored, err := f.responses.Get(ctx, f.owner, done.ID)
	require.NoError(t, err)
	assertSameResult(t, done.ResultOut(), stored.ResultOut())
	assert.Equal(t, map[int]int{1: 6, 2: 2, 3: 3}, stored.Answers.Data())
}

func TestCompleteConcurrentCallsFinalizeOnce(t *testing.T) {
	f := newFixture(t)
	a := f.publish(t, focusDefinition())
	ctx := context.Background()
	resp, err := f.responses.BeginOrContinue(ctx, f.owner, a.ID)
	require.NoError(t, err)
	_, err = f.responses.SubmitAnswers(ctx, f.owner, resp.ID, map[int]int{1: 6, 2: 2, 3: 3})
	require.NoError(t, err)

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.responses.Complete(ctx, f.owner, resp.ID)
			mu.Lock()
			defer mu.Unlock()
			var already *scoring.AlreadyCompleteError
			switch {
			case err == nil:
				successes++
			case errors.As(err, &already):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, conflicts)
	assert.Equal(t, float64(callers-1), counterTotal(t, f.metrics.Registry(), "mindset_completion_conflicts_total"))
}

func TestResponsesAreScopedToOwner(t *testing.T) {
	f := newFixture(t)
	a := f.publish(t, focusDefinition())
	ctx := context.Background()
	resp, err := f.responses.BeginOrContinue(ctx, f.owner, a.ID)
	require.NoError(t, err)

	stranger := repository.Owner{UserID: f.owner.UserID + 1, OrganizationID: f.owner.OrganizationID}
	_, err = f.responses.Get(ctx, stranger, resp.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.responses.Complete(ctx, stranger, resp.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	otherOrg := repository.Owner{UserID: f.owner.UserID, OrganizationID: f.owner.OrganizationID + 1}
	_, err = f.responses.SubmitAnswers(ctx, otherOrg, resp.ID, map[int]int{1: 3})
	assert.ErrorIs(t, err, ErrNotFound)
}
