// Package seed loads organizations, users, assessments and coaching tips from
// a YAML document. Loading the same file twice changes nothing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"mindset-backend/internal/model"
	"mindset-backend/internal/repository"
	"mindset-backend/internal/scoring"
	"mindset-backend/internal/service"
	"mindset-backend/utilities"
)

type File struct {
	Organizations []Organization                 `yaml:"organizations"`
	Users         []User                         `yaml:"users"`
	Assessments   []service.AssessmentDefinition `yaml:"assessments"`
	CoachingTips  []CoachingTip                  `yaml:"coaching_tips"`
}

type Organization struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type User struct {
	Email       string            `yaml:"email"`
	FirstName   string            `yaml:"first_name"`
	LastName    string            `yaml:"last_name"`
	Memberships map[string]string `yaml:"memberships"` // org slug -> role
}

type CoachingTip struct {
	Pillar         string                 `yaml:"pillar"`
	Classification scoring.Classification `yaml:"classification"`
	PracticeTip    string                 `yaml:"practice_tip"`
	GameDayTip     string                 `yaml:"game_day_tip"`
}

// Summary counts what a run changed.
type Summary struct {
	Organizations int
	Users         int
	Memberships   int
	Published     int
	Unchanged     int
	Tips          int
}

type Seeder struct {
	Users         repository.UserRepository
	Organizations service.OrganizationService
	Assessments   service.AssessmentService
	Coaching      service.CoachingService
	Log           *utilities.Logger
}

func ReadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

func (s *Seeder) Apply(ctx context.Context, f *File) (Summary, error) {
	var sum Summary

	orgIDs := map[string]uint{}
	for _, o := range f.Organizations {
		org, err := s.Organizations.EnsureOrganization(ctx, o.Name, o.Slug)
		if err != nil {
			return sum, err
		}
		orgIDs[org.Slug] = org.ID
		sum.Organizations++
	}

	for _, u := range f.Users {
		user, err := s.ensureUser(ctx, u)
		if err != nil {
			return sum, err
		}
		sum.Users++
		for slug, role := range u.Memberships {
			orgID, ok := orgIDs[strings.ToLower(slug)]
			if !ok {
				return sum, fmt.Errorf("user %s: unknown organization %q", u.Email, slug)
			}
			if err := s.Organizations.AddMember(ctx, user.ID, orgID, role); err != nil {
				return sum, fmt.Errorf("user %s in %s: %w", u.Email, slug, err)
			}
			sum.Memberships++
		}
	}

	for _, def := range f.Assessments {
		changed, err := s.publishIfChanged(ctx, def)
		if err != nil {
			return sum, err
		}
		if changed {
			sum.Published++
		} else {
			sum.Unchanged++
		}
	}

	for _, tip := range f.CoachingTips {
		if tip.Classification != scoring.Strength && tip.Classification != scoring.GrowthArea {
			return sum, fmt.Errorf("tip for %s: classification must be %q or %q", tip.Pillar, scoring.Strength, scoring.GrowthArea)
		}
		err := s.Coaching.UpsertTip(ctx, &model.CoachingTip{
			Pillar:         tip.Pillar,
			Classification: string(tip.Classification),
			PracticeTip:    strings.TrimSpace(tip.PracticeTip),
			GameDayTip:     strings.TrimSpace(tip.GameDayTip),
		})
		if err != nil {
			return sum, fmt.Errorf("tip for %s/%s: %w", tip.Pillar, tip.Classification, err)
		}
		sum.Tips++
	}

	s.Log.Info("seed applied",
		"organizations", sum.Organizations,
		"users", sum.Users,
		"memberships", sum.Memberships,
		"published", sum.Published,
		"unchanged", sum.Unchanged,
		"tips", sum.Tips,
	)
	return sum, nil
}

func (s *Seeder) ensureUser(ctx context.Context, u User) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	user, err := s.Users.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	user = &model.User{Email: email, FirstName: u.FirstName, LastName: u.LastName}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %s: %w", email, err)
	}
	return user, nil
}

// publishIfChanged publishes def unless the active version of its name already
// has the same questions and pillars.
func (s *Seeder) publishIfChanged(ctx context.Context, def service.AssessmentDefinition) (bool, error) {
	active, err := s.Assessments.ListActive(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range active {
		if a.Name != strings.TrimSpace(def.Name) {
			continue
		}
		snap, err := s.Assessments.Snapshot(ctx, a.ID)
		if err != nil {
			return false, err
		}
		if reflect.DeepEqual(snap.Bank, def.Questions) && reflect.DeepEqual(snap.Config, def.Pillars) {
			return false, nil
		}
	}
	if _, err := s.Assessments.Publish(ctx, def); err != nil {
		return false, fmt.Errorf("publish %q: %w", def.Name, err)
	}
	return true, nil
}
