package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mindset-backend/internal/model"
)

type OrganizationRepository interface {
	CreateOrganization(ctx context.Context, org *model.Organization) error
	GetBySlug(ctx context.Context, slug string) (*model.Organization, error)
	AddMembership(ctx context.Context, membership *model.Membership) error
	GetActiveMembership(ctx context.Context, userID, orgID uint) (*model.Membership, error)
	ListMemberships(ctx context.Context, userID uint) ([]model.Membership, error)
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) CreateOrganization(ctx context.Context, org *model.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&org).Error; err != nil {
		return nil, notFound(err, "organization")
	}
	return &org, nil
}

// AddMembership inserts or reactivates the membership of a user.
func (r *organizationRepository) AddMembership(ctx context.Context, membership *model.Membership) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "organization_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "is_active", "updated_at"}),
		}).
		Create(membership).Error
}

func (r *organizationRepository) GetActiveMembership(ctx context.Context, userID, orgID uint) (*model.Membership, error) {
	var membership model.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ? AND is_active = ?", userID, orgID, true).
		First(&membership).Error
	if err != nil {
		return nil, notFound(err, "membership")
	}
	return &membership, nil
}

func (r *organizationRepository) ListMemberships(ctx context.Context, userID uint) ([]model.Membership, error) {
	var memberships []model.Membership
	err := r.db.WithContext(ctx).
		Preload("Organization").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("organization_id asc").
		Find(&memberships).Error
	return memberships, err
}
