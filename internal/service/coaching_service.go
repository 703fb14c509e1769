package service

import (
	"context"

	"mindset-backend/internal/coaching"
	"mindset-backend/internal/model"
	"mindset-backend/internal/repository"
)

type CoachingService interface {
	// TipsFor returns tips for every scored pillar of a completed response.
	// Classification uses the thresholds of the active version of the
	// assessment; pillars that version no longer has use the response's own.
	TipsFor(ctx context.Context, response *model.AssessmentResponse) ([]coaching.Tip, error)
	UpsertTip(ctx context.Context, tip *model.CoachingTip) error
}

type coachingService struct {
	tips        repository.CoachingRepository
	assessments AssessmentService
}

func NewCoachingService(tips repository.CoachingRepository, assessments AssessmentService) CoachingService {
	return &coachingService{tips: tips, assessments: assessments}
}

func (s *coachingService) TipsFor(ctx context.Context, response *model.AssessmentResponse) ([]coaching.Tip, error) {
	if !response.IsComplete {
		return []coaching.Tip{}, nil
	}
	snap, err := s.assessments.Snapshot(ctx, response.AssessmentID)
	if err != nil {
		return nil, err
	}
	thresholds, err := s.assessments.Thresholds(ctx, snap)
	if err != nil {
		return nil, err
	}
	return coaching.LookupAll(ctx, response.PillarScores.Data(), thresholds, s.tips)
}

func (s *coachingService) UpsertTip(ctx context.Context, tip *model.CoachingTip) error {
	return s.tips.UpsertTip(ctx, tip)
}
