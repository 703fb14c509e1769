package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mindset-backend/internal/model"
	"mindset-backend/internal/scoring"
)

type CoachingRepository interface {
	FindTip(ctx context.Context, pillar string, classification scoring.Classification) (string, string, bool, error)
	UpsertTip(ctx context.Context, tip *model.CoachingTip) error
}

type coachingRepository struct {
	db *gorm.DB
}

func NewCoachingRepository(db *gorm.DB) CoachingRepository {
	return &coachingRepository{db: db}
}

func (r *coachingRepository) FindTip(ctx context.Context, pillar string, classification scoring.Classification) (string, string, bool, error) {
	var tip model.CoachingTip
	err := r.db.WithContext(ctx).
		Where("pillar = ? AND classification = ?", pillar, string(classification)).
		First(&tip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	return tip.PracticeTip, tip.GameDayTip, true, nil
}

func (r *coachingRepository) UpsertTip(ctx context.Context, tip *model.CoachingTip) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pillar"}, {Name: "classification"}},
			DoUpdates: clause.AssignmentColumns([]string{"practice_tip", "game_day_tip", "updated_at"}),
		}).
		Create(tip).Error
}
