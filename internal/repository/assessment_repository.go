package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"mindset-backend/internal/db"
	"mindset-backend/internal/model"
)

type AssessmentRepository interface {
	Publish(ctx context.Context, assessment *model.Assessment) error
	GetByID(ctx context.Context, id uint) (*model.Assessment, error)
	ListActive(ctx context.Context) ([]model.Assessment, error)
	GetActiveByName(ctx context.Context, name string) (*model.Assessment, error)
	ListVersionIDs(ctx context.Context, name string) ([]uint, error)
}

type assessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

// Publish stores assessment as the next active version of its name and
// retires the previous ones.
func (r *assessmentRepository) Publish(ctx context.Context, assessment *model.Assessment) error {
	return db.NewQueryExecutor(r.db).Transaction(ctx, func(tx *gorm.DB) error {
		var latest int
		if err := tx.Model(&model.Assessment{}).
			Where("name = ?", assessment.Name).
			Select("COALESCE(MAX(version), 0)").
			Scan(&latest).Error; err != nil {
			return fmt.Errorf("find latest version: %w", err)
		}
		if err := tx.Model(&model.Assessment{}).
			Where("name = ? AND is_active = ?", assessment.Name, true).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("retire previous versions: %w", err)
		}
		assessment.ID = 0
		assessment.Version = latest + 1
		assessment.IsActive = true
		return tx.Create(assessment).Error
	})
}

func (r *assessmentRepository) GetByID(ctx context.Context, id uint) (*model.Assessment, error) {
	var assessment model.Assessment
	if err := r.db.WithContext(ctx).First(&assessment, id).Error; err != nil {
		return nil, notFound(err, "assessment")
	}
	return &assessment, nil
}

func (r *assessmentRepository) ListActive(ctx context.Context) ([]model.Assessment, error) {
	var assessments []model.Assessment
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&assessments).Error
	return assessments, err
}

// ListVersionIDs returns the ids of every version of name, oldest first.
func (r *assessmentRepository) ListVersionIDs(ctx context.Context, name string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.Assessment{}).
		Where("name = ?", name).
		Order("version asc").
		Pluck("id", &ids).Error
	return ids, err
}

// GetActiveByName returns the active version of name.
func (r *assessmentRepository) GetActiveByName(ctx context.Context, name string) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		Order("version desc").
		First(&assessment).Error
	if err != nil {
		return nil, notFound(err, "active assessment")
	}
	return &assessment, nil
}
