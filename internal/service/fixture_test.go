package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mindset-backend/internal/metrics"
	"mindset-backend/internal/model"
	"mindset-backend/internal/repository"
	"mindset-backend/internal/scoring"
	"mindset-backend/internal/testutil"
	"mindset-backend/utilities"
)

type fixture struct {
	db          *gorm.DB
	metrics     *metrics.Metrics
	bus         *utilities.EventBus
	assessments AssessmentService
	responses   ResponseService
	progress    ProgressService
	coaching    CoachingService
	orgs        OrganizationService
	checkIns    *checkInService
	responseDB  repository.ResponseRepository
	owner       repository.Owner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.NewDB(t)
	m := metrics.New()
	bus := utilities.NewEventBus()
	log := utilities.NewNopLogger()

	assessments, err := NewAssessmentService(repository.NewAssessmentRepository(gdb), 8, m)
	require.NoError(t, err)
	responseRepo := repository.NewResponseRepository(gdb)

	f := &fixture{
		db:          gdb,
		metrics:     m,
		bus:         bus,
		assessments: assessments,
		responses:   NewResponseService(responseRepo, assessments, m, bus, log),
		progress:    NewProgressService(responseRepo, assessments),
		coaching:    NewCoachingService(repository.NewCoachingRepository(gdb), assessments),
		orgs:        NewOrganizationService(repository.NewOrganizationRepository(gdb)),
		checkIns:    NewCheckInService(repository.NewCheckInRepository(gdb), "UTC").(*checkInService),
		responseDB:  responseRepo,
	}

	ctx := context.Background()
	user := &model.User{Email: "ath@example.com", FirstName: "Ana"}
	require.NoError(t, repository.NewUserRepository(gdb).CreateUser(ctx, user))
	org, err := f.orgs.EnsureOrganization(ctx, "Harbor FC", "harbor-fc")
	require.NoError(t, err)
	require.NoError(t, f.orgs.AddMember(ctx, user.ID, org.ID, model.RoleAthlete))
	f.owner = repository.Owner{UserID: user.ID, OrganizationID: org.ID}
	return f
}

// focusDefinition has three questions over two pillars; question 2 is reversed.
func focusDefinition() AssessmentDefinition {
	return AssessmentDefinition{
		Name: "core-mindset",
		Questions: scoring.QuestionBank{
			{ID: 1, Text: "I stay locked in under pressure.", Pillar: "focus", Category: scoring.Thinking},
			{ID: 2, Text: "My mind wanders during play.", Pillar: "focus", IsReverse: true, Category: scoring.Action},
			{ID: 3, Text: "I trust my preparation.", Pillar: "confidence", Category: scoring.Feeling},
		},
		Pillars: scoring.PillarConfig{
			"focus":      {DisplayName: "Focus", Category: scoring.CoreCategory, MetaCategory: scoring.Thinking, StrengthThreshold: 5.5, GrowthThreshold: 3.5},
			"confidence": {DisplayName: "Confidence", Category: scoring.CoreCategory, MetaCategory: scoring.Feeling, StrengthThreshold: 5.5, GrowthThreshold: 3.5},
		},
	}
}

func (f *fixture) publish(t *testing.T, def AssessmentDefinition) *model.Assessment {
	t.Helper()
	a, err := f.assessments.Publish(context.Background(), def)
	require.NoError(t, err)
	return a
}

// completeWith runs the whole lifecycle for one attempt.
func (f *fixture) completeWith(t *testing.T, assessmentID uint, answers map[int]int) *model.AssessmentResponse {
	t.Helper()
	ctx := context.Background()
	resp, err := f.responses.BeginOrContinue(ctx, f.owner, assessmentID)
	require.NoError(t, err)
	_, err = f.responses.SubmitAnswers(ctx, f.owner, resp.ID, answers)
	require.NoError(t, err)
	done, err := f.responses.Complete(ctx, f.owner, resp.ID)
	require.NoError(t, err)
	return done
}

func fixedClock(ts string) func() time.Time {
	at, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return at }
}
