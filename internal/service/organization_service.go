package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mindset-backend/internal/model"
	"mindset-backend/internal/repository"
	"mindset-backend/internal/scoring"
)

type OrganizationService interface {
	// RequireMembership fails with ErrForbidden unless the user is an active
	// member of the organization.
	RequireMembership(ctx context.Context, userID, orgID uint) (*model.Membership, error)
	// RequireAdmin fails with ErrForbidden unless the user holds an active
	// admin membership in some organization.
	RequireAdmin(ctx context.Context, userID uint) error
	ListForUser(ctx context.Context, userID uint) ([]model.Membership, error)
	EnsureOrganization(ctx context.Context, name, slug string) (*model.Organization, error)
	AddMember(ctx context.Context, userID, orgID uint, role string) error
}

type organizationService struct {
	repo repository.OrganizationRepository
}

func NewOrganizationService(repo repository.OrganizationRepository) OrganizationService {
	return &organizationService{repo: repo}
}

func (s *organizationService) RequireMembership(ctx context.Context, userID, orgID uint) (*model.Membership, error) {
	m, err := s.repo.GetActiveMembership(ctx, userID, orgID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("membership lookup: %w", err)
	}
	return m, nil
}

func (s *organizationService) RequireAdmin(ctx context.Context, userID uint) error {
	memberships, err := s.repo.ListMemberships(ctx, userID)
	if err != nil {
		return fmt.Errorf("membership lookup: %w", err)
	}
	for _, m := range memberships {
		if m.Role == model.RoleAdmin {
			return nil
		}
	}
	return ErrForbidden
}

func (s *organizationService) ListForUser(ctx context.Context, userID uint) ([]model.Membership, error) {
	return s.repo.ListMemberships(ctx, userID)
}

// EnsureOrganization returns the organization with slug, creating it first if needed.
func (s *organizationService) EnsureOrganization(ctx context.Context, name, slug string) (*model.Organization, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, &scoring.ValidationError{Field: "slug", Reason: "required"}
	}
	org, err := s.repo.GetBySlug(ctx, slug)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	org = &model.Organization{Name: name, Slug: slug}
	if err := s.repo.CreateOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("create organization %q: %w", slug, err)
	}
	return org, nil
}

func (s *organizationService) AddMember(ctx context.Context, userID, orgID uint, role string) error {
	switch role {
	case model.RoleAthlete, model.RoleCoach, model.RoleAdmin:
	case "":
		role = model.RoleAthlete
	default:
		return &scoring.ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", role)}
	}
	return s.repo.AddMembership(ctx, &model.Membership{
		UserID:         userID,
		OrganizationID: orgID,
		Role:           role,
		IsActive:       true,
	})
}
