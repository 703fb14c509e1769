package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mindset-backend/internal/model"
)

type CheckInRepository interface {
	Upsert(ctx context.Context, checkIn *model.CheckIn) error
	FindByDate(ctx context.Context, owner Owner, localDate string) (*model.CheckIn, error)
}

type checkInRepository struct {
	db *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) CheckInRepository {
	return &checkInRepository{db: db}
}

// Upsert keeps one check-in per user, organization and local day; a second
// submission on the same day overwrites the first.
func (r *checkInRepository) Upsert(ctx context.Context, checkIn *model.CheckIn) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "organization_id"}, {Name: "local_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"time_zone", "mood", "confidence", "energy", "breathing_minutes", "note", "updated_at",
			}),
		}).
		Create(checkIn).Error
}

func (r *checkInRepository) FindByDate(ctx context.Context, owner Owner, localDate string) (*model.CheckIn, error) {
	var checkIn model.CheckIn
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ? AND local_date = ?", owner.UserID, owner.OrganizationID, localDate).
		First(&checkIn).Error
	if err != nil {
		return nil, notFound(err, "check-in")
	}
	return &checkIn, nil
}
