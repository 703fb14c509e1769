package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mindset-backend/internal/db"
	"mindset-backend/internal/metrics"
	"mindset-backend/internal/model"
	"mindset-backend/internal/repository"
	"mindset-backend/internal/scoring"
	"mindset-backend/utilities"
)

// ResponseCompleted is the payload of utilities.EventResponseCompleted.
type ResponseCompleted struct {
	ResponseID     uint
	UserID         uint
	OrganizationID uint
	AssessmentID   uint
	AssessmentName string
	Strengths      []string
	GrowthAreas    []string
	CompletedAt    time.Time
}

type ResponseService interface {
	BeginOrContinue(ctx context.Context, owner repository.Owner, assessmentID uint) (*model.AssessmentResponse, error)
	SubmitAnswers(ctx context.Context, owner repository.Owner, responseID uint, answers map[int]int) (*model.AssessmentResponse, error)
	Complete(ctx context.Context, owner repository.Owner, responseID uint) (*model.AssessmentResponse, error)
	Get(ctx context.Context, owner repository.Owner, responseID uint) (*model.AssessmentResponse, error)
}

type responseService struct {
	repo        repository.ResponseRepository
	assessments AssessmentService
	metrics     *metrics.Metrics
	bus         *utilities.EventBus
	log         *utilities.Logger
	now         func() time.Time
}

func NewResponseService(
	repo repository.ResponseRepository,
	assessments AssessmentService,
	m *metrics.Metrics,
	bus *utilities.EventBus,
	log *utilities.Logger,
) ResponseService {
	return &responseService{
		repo:        repo,
		assessments: assessments,
		metrics:     m,
		bus:         bus,
		log:         log.With("service", "ResponseService"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// BeginOrContinue returns the caller's open response for the assessment or
// starts an empty one. The caller's membership is checked upstream.
func (s *responseService) BeginOrContinue(ctx context.Context, owner repository.Owner, assessmentID uint) (*model.AssessmentResponse, error) {
	if _, err := s.assessments.Snapshot(ctx, assessmentID); err != nil {
		return nil, err
	}
	open, err := s.repo.FindOpen(ctx, owner, assessmentID)
	if err == nil {
		return open, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	active, err := s.assessments.IsActive(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrAssessmentInactive
	}

	response := &model.AssessmentResponse{
		UserID:         owner.UserID,
		AssessmentID:   assessmentID,
		OrganizationID: owner.OrganizationID,
		Answers:        datatypes.NewJSONType(map[int]int{}),
	}
	if err := s.repo.Create(ctx, response); err != nil {
		if !db.IsDuplicate(err) {
			return nil, fmt.Errorf("create response: %w", err)
		}
		// a concurrent request created the open response first
		return s.repo.FindOpen(ctx, owner, assessmentID)
	}
	s.log.Debug("response started", "response_id", response.ID, "assessment_id", assessmentID, "user_id", owner.UserID)
	return response, nil
}

// SubmitAnswers merges answers into an open response. Nothing is written when
// any answer is invalid.
func (s *responseService) SubmitAnswers(ctx context.Context, owner repository.Owner, responseID uint, answers map[int]int) (*model.AssessmentResponse, error) {
	current, err := s.repo.Get(ctx, owner, responseID)
	if err != nil {
		return nil, err
	}
	if current.IsComplete {
		return nil, &scoring.AlreadyCompleteError{ResponseID: responseID}
	}
	snap, err := s.assessments.Snapshot(ctx, current.AssessmentID)
	if err != nil {
		return nil, err
	}
	if err := scoring.ValidateAnswers(answers, snap.Bank); err != nil {
		return nil, err
	}

	var updated *model.AssessmentResponse
	err = s.repo.WithLocked(ctx, owner, responseID, func(tx *gorm.DB, response *model.AssessmentResponse) error {
		if response.IsComplete {
			return &scoring.AlreadyCompleteError{ResponseID: responseID}
		}
		merged := make(map[int]int, len(answers))
		for id, v := range response.Answers.Data() {
			merged[id] = v
		}
		for id, v := range answers {
			merged[id] = v
		}
		ok, err := s.repo.SaveAnswers(tx, responseID, merged)
		if err != nil {
			return fmt.Errorf("save answers: %w", err)
		}
		if !ok {
			return &scoring.AlreadyCompleteError{ResponseID: responseID}
		}
		response.Answers = datatypes.NewJSONType(merged)
		updated = response
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Complete scores the response and finalizes it. The check, the scoring run
// and the guarded write share one transaction holding the row lock; of two
// concurrent calls exactly one succeeds and the other gets AlreadyCompleteError.
func (s *responseService) Complete(ctx context.Context, owner repository.Owner, responseID uint) (*model.AssessmentResponse, error) {
	current, err := s.repo.Get(ctx, owner, responseID)
	if err != nil {
		return nil, err
	}
	if current.IsComplete {
		s.metrics.CompletionConflict()
		return nil, &scoring.AlreadyCompleteError{ResponseID: responseID}
	}
	snap, err := s.assessments.Snapshot(ctx, current.AssessmentID)
	if err != nil {
		return nil, err
	}

	var (
		completed *model.AssessmentResponse
		result    scoring.Result
	)
	err = s.repo.WithLocked(ctx, owner, responseID, func(tx *gorm.DB, response *model.AssessmentResponse) error {
		if response.IsComplete {
			return &scoring.AlreadyCompleteError{ResponseID: responseID}
		}
		answers := response.Answers.Data()
		if err := snap.Bank.RequireCoverage(answers); err != nil {
			return err
		}

		started := time.Now()
		result, err = scoring.Score(answers, snap.Bank, snap.Config)
		s.metrics.ObserveScoring(started, err)
		if err != nil {
			return err
		}

		completedAt := s.now()
		ok, err := s.repo.MarkComplete(tx, responseID, result, completedAt)
		if err != nil {
			return fmt.Errorf("mark complete: %w", err)
		}
		if !ok {
			return &scoring.AlreadyCompleteError{ResponseID: responseID}
		}

		response.PillarScores = datatypes.NewJSONType(result.PillarScores)
		response.MetaScores = datatypes.NewJSONType(result.MetaScores)
		response.Strengths = datatypes.NewJSONType(result.Strengths)
		response.GrowthAreas = datatypes.NewJSONType(result.GrowthAreas)
		response.IsComplete = true
		response.CompletedAt = &completedAt
		completed = response
		return nil
	})
	if err != nil {
		var already *scoring.AlreadyCompleteError
		if errors.As(err, &already) {
			s.metrics.CompletionConflict()
		}
		return nil, err
	}

	s.metrics.ResponseCompleted(snap.Assessment.Name)
	s.log.Info("response completed",
		"response_id", completed.ID,
		"assessment", snap.Assessment.Name,
		"version", snap.Assessment.Version,
		"strengths", result.Strengths,
		"growth_areas", result.GrowthAreas,
	)
	if s.bus != nil {
		s.bus.Publish(utilities.EventResponseCompleted, ResponseCompleted{
			ResponseID:     completed.ID,
			UserID:         completed.UserID,
			OrganizationID: completed.OrganizationID,
			AssessmentID:   completed.AssessmentID,
			AssessmentName: snap.Assessment.Name,
			Strengths:      result.Strengths,
			GrowthAreas:    result.GrowthAreas,
			CompletedAt:    *completed.CompletedAt,
		})
	}
	return completed, nil
}

func (s *responseService) Get(ctx context.Context, owner repository.Owner, responseID uint) (*model.AssessmentResponse, error) {
	return s.repo.Get(ctx, owner, responseID)
}
