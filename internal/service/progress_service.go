package service

import (
	"context"
	"fmt"
	"math"

	"mindset-backend/internal/model"
	"mindset-backend/internal/repository"
)

// ProgressData compares the first and the most recent completed attempt of an
// assessment across all of its versions.
type ProgressData struct {
	AssessmentName  string                    `json:"assessment_name"`
	Completed       int                       `json:"completed"`
	InitialProgress model.AssessmentResultOut `json:"initial_progress"`
	CurrentProgress model.AssessmentResultOut `json:"current_progress"`
	// Improvement holds latest minus initial for pillars scored in both.
	Improvement map[string]float64 `json:"improvement"`
}

type ProgressService interface {
	History(ctx context.Context, owner repository.Owner, assessmentID uint) ([]model.AssessmentResultOut, error)
	Progress(ctx context.Context, owner repository.Owner, assessmentID uint) (*ProgressData, error)
}

type progressService struct {
	responses   repository.ResponseRepository
	assessments AssessmentService
}

func NewProgressService(responses repository.ResponseRepository, assessments AssessmentService) ProgressService {
	return &progressService{responses: responses, assessments: assessments}
}

// History lists completed attempts oldest first. assessmentID may name any
// version; every version sharing its name is included.
func (s *progressService) History(ctx context.Context, owner repository.Owner, assessmentID uint) ([]model.AssessmentResultOut, error) {
	completed, _, err := s.completed(ctx, owner, assessmentID)
	if err != nil {
		return nil, err
	}
	out := make([]model.AssessmentResultOut, 0, len(completed))
	for i := range completed {
		out = append(out, completed[i].ResultOut())
	}
	return out, nil
}

func (s *progressService) Progress(ctx context.Context, owner repository.Owner, assessmentID uint) (*ProgressData, error) {
	completed, name, err := s.completed(ctx, owner, assessmentID)
	if err != nil {
		return nil, err
	}
	if len(completed) == 0 {
		return nil, fmt.Errorf("completed responses for %q: %w", name, ErrNotFound)
	}

	initial := completed[0].ResultOut()
	latest := completed[len(completed)-1].ResultOut()
	improvement := make(map[string]float64, len(latest.PillarScores))
	for pillar, score := range latest.PillarScores {
		before, ok := initial.PillarScores[pillar]
		if !ok {
			continue
		}
		improvement[pillar] = math.Round((score-before)*1000) / 1000
	}

	return &ProgressData{
		AssessmentName:  name,
		Completed:       len(completed),
		InitialProgress: initial,
		CurrentProgress: latest,
		Improvement:     improvement,
	}, nil
}

func (s *progressService) completed(ctx context.Context, owner repository.Owner, assessmentID uint) ([]model.AssessmentResponse, string, error) {
	snap, err := s.assessments.Snapshot(ctx, assessmentID)
	if err != nil {
		return nil, "", err
	}
	name := snap.Assessment.Name
	ids, err := s.assessments.VersionIDs(ctx, name)
	if err != nil {
		return nil, "", fmt.Errorf("versions of %q: %w", name, err)
	}
	responses, err := s.responses.ListCompleted(ctx, owner, ids)
	if err != nil {
		return nil, "", fmt.Errorf("completed responses: %w", err)
	}
	return responses, name, nil
}
