package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/datatypes"

	"mindset-backend/internal/metrics"
	"mindset-backend/internal/model"
	"mindset-backend/internal/repository"
	"mindset-backend/internal/scoring"
)

// AssessmentDefinition is the publishable form of an assessment version.
type AssessmentDefinition struct {
	Name      string               `json:"name" yaml:"name"`
	Sport     *string              `json:"sport,omitempty" yaml:"sport,omitempty"`
	Questions scoring.QuestionBank `json:"questions" yaml:"questions"`
	Pillars   scoring.PillarConfig `json:"pillar_config" yaml:"pillar_config"`
}

// Snapshot is a parsed, validated assessment version. Questions and pillars
// never change after publishing; Assessment.IsActive is only as fresh as the
// moment the snapshot was loaded.
type Snapshot struct {
	Assessment model.Assessment
	Bank       scoring.QuestionBank
	Config     scoring.PillarConfig
}

type AssessmentService interface {
	Publish(ctx context.Context, def AssessmentDefinition) (*model.Assessment, error)
	ListActive(ctx context.Context) ([]model.Assessment, error)
	Snapshot(ctx context.Context, id uint) (*Snapshot, error)
	IsActive(ctx context.Context, id uint) (bool, error)
	// Current returns the active version sharing a name with snapshot, or
	// snapshot itself when that name has no active version.
	Current(ctx context.Context, snapshot *Snapshot) (*Snapshot, error)
	// Thresholds is the pillar config used to classify scores stored against
	// snapshot: the current version's pillars, plus snapshot's own pillars
	// the current version dropped.
	Thresholds(ctx context.Context, snapshot *Snapshot) (scoring.PillarConfig, error)
	VersionIDs(ctx context.Context, name string) ([]uint, error)
}

type assessmentService struct {
	repo    repository.AssessmentRepository
	cache   *lru.Cache[uint, *Snapshot]
	metrics *metrics.Metrics
}

func NewAssessmentService(repo repository.AssessmentRepository, cacheSize int, m *metrics.Metrics) (AssessmentService, error) {
	cache, err := lru.New[uint, *Snapshot](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("snapshot cache: %w", err)
	}
	return &assessmentService{repo: repo, cache: cache, metrics: m}, nil
}

// Publish validates def and stores it as the next active version of its name.
// Invalid definitions are the caller's fault here and surface as validation errors.
func (s *assessmentService) Publish(ctx context.Context, def AssessmentDefinition) (*model.Assessment, error) {
	def.Name = strings.TrimSpace(def.Name)
	if def.Name == "" {
		return nil, &scoring.ValidationError{Field: "name", Reason: "required"}
	}
	if err := scoring.ValidateAssessment(def.Questions, def.Pillars); err != nil {
		var cerr *scoring.ConfigurationError
		if errors.As(err, &cerr) {
			return nil, &scoring.ValidationError{Field: "definition", Reason: cerr.Reason}
		}
		return nil, err
	}

	questions, err := json.Marshal(def.Questions)
	if err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}
	pillars, err := json.Marshal(def.Pillars)
	if err != nil {
		return nil, fmt.Errorf("encode pillar config: %w", err)
	}

	assessment := &model.Assessment{
		Name:         def.Name,
		Sport:        def.Sport,
		Questions:    datatypes.JSON(questions),
		PillarConfig: datatypes.JSON(pillars),
	}
	if err := s.repo.Publish(ctx, assessment); err != nil {
		return nil, fmt.Errorf("publish assessment %q: %w", def.Name, err)
	}
	return assessment, nil
}

func (s *assessmentService) ListActive(ctx context.Context) ([]model.Assessment, error) {
	return s.repo.ListActive(ctx)
}

func (s *assessmentService) Snapshot(ctx context.Context, id uint) (*Snapshot, error) {
	if snap, ok := s.cache.Get(id); ok {
		s.metrics.SnapshotCache(true)
		return snap, nil
	}
	s.metrics.SnapshotCache(false)

	assessment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	snap, err := parseSnapshot(assessment)
	if err != nil {
		return nil, err
	}
	s.cache.Add(id, snap)
	return snap, nil
}

func (s *assessmentService) IsActive(ctx context.Context, id uint) (bool, error) {
	assessment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return assessment.IsActive, nil
}

func (s *assessmentService) Current(ctx context.Context, snapshot *Snapshot) (*Snapshot, error) {
	active, err := s.repo.GetActiveByName(ctx, snapshot.Assessment.Name)
	if errors.Is(err, repository.ErrNotFound) {
		return snapshot, nil
	}
	if err != nil {
		return nil, err
	}
	if active.ID == snapshot.Assessment.ID {
		return snapshot, nil
	}
	return s.Snapshot(ctx, active.ID)
}

func (s *assessmentService) Thresholds(ctx context.Context, snapshot *Snapshot) (scoring.PillarConfig, error) {
	current, err := s.Current(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	return current.Config.WithFallback(snapshot.Config), nil
}

func (s *assessmentService) VersionIDs(ctx context.Context, name string) ([]uint, error) {
	return s.repo.ListVersionIDs(ctx, name)
}

func parseSnapshot(a *model.Assessment) (*Snapshot, error) {
	bank, err := scoring.ParseQuestionBank(a.Questions)
	if err != nil {
		return nil, fmt.Errorf("assessment %d: %w", a.ID, err)
	}
	cfg, err := scoring.ParsePillarConfig(a.PillarConfig)
	if err != nil {
		return nil, fmt.Errorf("assessment %d: %w", a.ID, err)
	}
	if err := scoring.ValidateAssessment(bank, cfg); err != nil {
		return nil, fmt.Errorf("assessment %d: %w", a.ID, err)
	}
	return &Snapshot{Assessment: *a, Bank: bank, Config: cfg}, nil
}
