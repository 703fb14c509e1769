package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mindset-backend/internal/db"
	"mindset-backend/internal/model"
	"mindset-backend/internal/scoring"
)

// Owner scopes a query to one user inside one organization.
type Owner struct {
	UserID         uint
	OrganizationID uint
}

type ResponseRepository interface {
	FindOpen(ctx context.Context, owner Owner, assessmentID uint) (*model.AssessmentResponse, error)
	Create(ctx context.Context, response *model.AssessmentResponse) error
	Get(ctx context.Context, owner Owner, id uint) (*model.AssessmentResponse, error)
	// WithLocked loads the response inside a transaction holding its row lock
	// and runs fn. Returning an error from fn rolls everything back.
	WithLocked(ctx context.Context, owner Owner, id uint, fn func(tx *gorm.DB, response *model.AssessmentResponse) error) error
	SaveAnswers(tx *gorm.DB, id uint, answers map[int]int) (bool, error)
	MarkComplete(tx *gorm.DB, id uint, result scoring.Result, completedAt time.Time) (bool, error)
	ListCompleted(ctx context.Context, owner Owner, assessmentIDs []uint) ([]model.AssessmentResponse, error)
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) FindOpen(ctx context.Context, owner Owner, assessmentID uint) (*model.AssessmentResponse, error) {
	var response model.AssessmentResponse
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ? AND assessment_id = ? AND is_complete = ?",
			owner.UserID, owner.OrganizationID, assessmentID, false).
		First(&response).Error
	if err != nil {
		return nil, notFound(err, "open response")
	}
	return &response, nil
}

func (r *responseRepository) Create(ctx context.Context, response *model.AssessmentResponse) error {
	return r.db.WithContext(ctx).Create(response).Error
}

func (r *responseRepository) Get(ctx context.Context, owner Owner, id uint) (*model.AssessmentResponse, error) {
	var response model.AssessmentResponse
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND organization_id = ?", id, owner.UserID, owner.OrganizationID).
		First(&response).Error
	if err != nil {
		return nil, notFound(err, "response")
	}
	return &response, nil
}

func (r *responseRepository) WithLocked(ctx context.Context, owner Owner, id uint, fn func(tx *gorm.DB, response *model.AssessmentResponse) error) error {
	return db.NewQueryExecutor(r.db).Transaction(ctx, func(tx *gorm.DB) error {
		var response model.AssessmentResponse
		err := db.ForUpdate(tx).
			Where("id = ? AND user_id = ? AND organization_id = ?", id, owner.UserID, owner.OrganizationID).
			First(&response).Error
		if err != nil {
			return notFound(err, "response")
		}
		return fn(tx, &response)
	})
}

// SaveAnswers replaces the stored answers while the response is still open.
func (r *responseRepository) SaveAnswers(tx *gorm.DB, id uint, answers map[int]int) (bool, error) {
	return db.UpdateGuarded(tx, &model.AssessmentResponse{},
		map[string]interface{}{"id": id, "is_complete": false},
		map[string]interface{}{"answers": datatypes.NewJSONType(answers)},
	)
}

// MarkComplete writes every score field and the completion flag in a single
// statement guarded by is_complete = false.
func (r *responseRepository) MarkComplete(tx *gorm.DB, id uint, result scoring.Result, completedAt time.Time) (bool, error) {
	return db.UpdateGuarded(tx, &model.AssessmentResponse{},
		map[string]interface{}{"id": id, "is_complete": false},
		map[string]interface{}{
			"pillar_scores": datatypes.NewJSONType(result.PillarScores),
			"meta_scores":   datatypes.NewJSONType(result.MetaScores),
			"strengths":     datatypes.NewJSONType(result.Strengths),
			"growth_areas":  datatypes.NewJSONType(result.GrowthAreas),
			"is_complete":   true,
			"completed_at":  completedAt,
		},
	)
}

// ListCompleted returns completed responses for the given assessment versions,
// oldest completion first.
func (r *responseRepository) ListCompleted(ctx context.Context, owner Owner, assessmentIDs []uint) ([]model.AssessmentResponse, error) {
	var responses []model.AssessmentResponse
	if len(assessmentIDs) == 0 {
		return responses, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ? AND is_complete = ? AND assessment_id IN ?",
			owner.UserID, owner.OrganizationID, true, assessmentIDs).
		Order("completed_at asc, id asc").
		Find(&responses).Error
	return responses, err
}
