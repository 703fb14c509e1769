package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"mindset-backend/internal/model"
	"mindset-backend/internal/repository"
	"mindset-backend/internal/scoring"
)

const localDateLayout = "2006-01-02"

// CheckInInput is one daily self report. Ratings are on a 1-10 scale.
type CheckInInput struct {
	Mood             int    `json:"mood"`
	Confidence       int    `json:"confidence"`
	Energy           int    `json:"energy"`
	BreathingMinutes int    `json:"breathing_minutes"`
	Note             string `json:"note"`
	TimeZone         string `json:"time_zone"`
}

type CheckInService interface {
	// Submit records today's check-in in the given zone, replacing an earlier
	// one from the same local day.
	Submit(ctx context.Context, owner repository.Owner, in CheckInInput) (*model.CheckIn, error)
	Today(ctx context.Context, owner repository.Owner, tz string) (*model.CheckIn, error)
}

type checkInService struct {
	repo        repository.CheckInRepository
	defaultZone string
	now         func() time.Time
}

// NewCheckInService uses defaultZone when a request names no zone.
func NewCheckInService(repo repository.CheckInRepository, defaultZone string) CheckInService {
	return &checkInService{repo: repo, defaultZone: defaultZone, now: time.Now}
}

func (s *checkInService) Submit(ctx context.Context, owner repository.Owner, in CheckInInput) (*model.CheckIn, error) {
	ratings := []struct {
		field string
		value int
	}{{"mood", in.Mood}, {"confidence", in.Confidence}, {"energy", in.Energy}}
	for _, r := range ratings {
		if r.value < 1 || r.value > 10 {
			return nil, &scoring.ValidationError{Field: r.field, Reason: fmt.Sprintf("value %d outside [1,10]", r.value)}
		}
	}
	if in.BreathingMinutes < 0 {
		return nil, &scoring.ValidationError{Field: "breathing_minutes", Reason: "must not be negative"}
	}
	loc, err := s.zone(in.TimeZone)
	if err != nil {
		return nil, err
	}

	checkIn := &model.CheckIn{
		UserID:           owner.UserID,
		OrganizationID:   owner.OrganizationID,
		LocalDate:        s.now().In(loc).Format(localDateLayout),
		TimeZone:         loc.String(),
		Mood:             in.Mood,
		Confidence:       in.Confidence,
		Energy:           in.Energy,
		BreathingMinutes: in.BreathingMinutes,
		Note:             strings.TrimSpace(in.Note),
	}
	if err := s.repo.Upsert(ctx, checkIn); err != nil {
		return nil, fmt.Errorf("save check-in: %w", err)
	}
	return s.repo.FindByDate(ctx, owner, checkIn.LocalDate)
}

func (s *checkInService) Today(ctx context.Context, owner repository.Owner, tz string) (*model.CheckIn, error) {
	loc, err := s.zone(tz)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByDate(ctx, owner, s.now().In(loc).Format(localDateLayout))
}

// zone resolves an IANA zone name, falling back to the default zone and then UTC.
func (s *checkInService) zone(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = s.defaultZone
	}
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, &scoring.ValidationError{Field: "tz", Reason: fmt.Sprintf("unknown time zone %q", tz)}
	}
	return loc, nil
}
