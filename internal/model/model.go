package model

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Organization struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RoleAthlete = "athlete"
	RoleCoach   = "coach"
	RoleAdmin   = "admin"
)

type Membership struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	UserID         uint         `json:"user_id" gorm:"not null;uniqueIndex:idx_membership_user_org"`
	OrganizationID uint         `json:"organization_id" gorm:"not null;uniqueIndex:idx_membership_user_org"`
	Organization   Organization `json:"organization" gorm:"foreignKey:OrganizationID"`
	Role           string       `json:"role" gorm:"not null;default:'athlete'"`
	IsActive       bool         `json:"is_active" gorm:"not null;default:true"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Assessment is one published version of a question bank. Rows are never
// edited after publishing; a change is a new version.
type Assessment struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"not null;uniqueIndex:idx_assessment_name_version"`
	Sport        *string        `json:"sport,omitempty"`
	Version      int            `json:"version" gorm:"not null;uniqueIndex:idx_assessment_name_version"`
	Questions    datatypes.JSON `json:"questions" gorm:"not null"`
	PillarConfig datatypes.JSON `json:"pillar_config" gorm:"not null"`
	IsActive     bool           `json:"is_active" gorm:"not null;default:false;index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// AssessmentResponse is one user's attempt at an assessment version inside an
// organization. At most one incomplete attempt exists per tuple.
type AssessmentResponse struct {
	ID             uint                                   `json:"id" gorm:"primaryKey"`
	UserID         uint                                   `json:"user_id" gorm:"not null;uniqueIndex:idx_open_response,where:is_complete = false;index:idx_response_owner"`
	AssessmentID   uint                                   `json:"assessment_id" gorm:"not null;uniqueIndex:idx_open_response,where:is_complete = false"`
	OrganizationID uint                                   `json:"organization_id" gorm:"not null;uniqueIndex:idx_open_response,where:is_complete = false;index:idx_response_owner"`
	Answers        datatypes.JSONType[map[int]int]        `json:"answers"`
	PillarScores   datatypes.JSONType[map[string]float64] `json:"pillar_scores"`
	MetaScores     datatypes.JSONType[map[string]float64] `json:"meta_scores"`
	Strengths      datatypes.JSONType[[]string]           `json:"strengths"`
	GrowthAreas    datatypes.JSONType[[]string]           `json:"growth_areas"`
	IsComplete     bool                                   `json:"is_complete" gorm:"not null;default:false"`
	CompletedAt    *time.Time                             `json:"completed_at"`
	CreatedAt      time.Time                              `json:"created_at"`
	UpdatedAt      time.Time                              `json:"updated_at"`
}

// AssessmentResultOut is the presentation shape of a response.
type AssessmentResultOut struct {
	ResponseID   uint               `json:"response_id"`
	AssessmentID uint               `json:"assessment_id"`
	PillarScores map[string]float64 `json:"pillar_scores"`
	MetaScores   map[string]float64 `json:"meta_scores"`
	Strengths    []string           `json:"strengths"`
	GrowthAreas  []string           `json:"growth_areas"`
	IsComplete   bool               `json:"is_complete"`
	CompletedAt  *time.Time         `json:"completed_at"`
}

// ResultOut converts the stored row.
func (r *AssessmentResponse) ResultOut() AssessmentResultOut {
	out := AssessmentResultOut{
		ResponseID:   r.ID,
		AssessmentID: r.AssessmentID,
		PillarScores: r.PillarScores.Data(),
		MetaScores:   r.MetaScores.Data(),
		Strengths:    r.Strengths.Data(),
		GrowthAreas:  r.GrowthAreas.Data(),
		IsComplete:   r.IsComplete,
		CompletedAt:  r.CompletedAt,
	}
	if out.PillarScores == nil {
		out.PillarScores = map[string]float64{}
	}
	if out.MetaScores == nil {
		out.MetaScores = map[string]float64{}
	}
	if out.Strengths == nil {
		out.Strengths = []string{}
	}
	if out.GrowthAreas == nil {
		out.GrowthAreas = []string{}
	}
	return out
}

type CoachingTip struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Pillar         string    `json:"pillar" gorm:"not null;uniqueIndex:idx_tip_pillar_class"`
	Classification string    `json:"classification" gorm:"not null;uniqueIndex:idx_tip_pillar_class"`
	PracticeTip    string    `json:"practice_tip" gorm:"type:text"`
	GameDayTip     string    `json:"game_day_tip" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CheckIn is a daily self report. LocalDate is YYYY-MM-DD in the athlete's zone.
type CheckIn struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_checkin_day"`
	OrganizationID   uint      `json:"organization_id" gorm:"not null;uniqueIndex:idx_checkin_day"`
	LocalDate        string    `json:"local_date" gorm:"not null;size:10;uniqueIndex:idx_checkin_day"`
	TimeZone         string    `json:"time_zone" gorm:"not null"`
	Mood             int       `json:"mood" gorm:"not null"`
	Confidence       int       `json:"confidence" gorm:"not null"`
	Energy           int       `json:"energy" gorm:"not null"`
	BreathingMinutes int       `json:"breathing_minutes" gorm:"not null;default:0"`
	Note             string    `json:"note" gorm:"type:text"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// All lists every table for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Organization{},
		&Membership{},
		&Assessment{},
		&AssessmentResponse{},
		&CoachingTip{},
		&CheckIn{},
	}
}
