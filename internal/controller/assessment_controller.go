package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mindset-backend/internal/scoring"
	"mindset-backend/internal/service"
)

type AssessmentController struct {
	AssessmentService service.AssessmentService
}

func NewAssessmentController(assessmentService service.AssessmentService) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService}
}

type assessmentOut struct {
	ID           uint                 `json:"id"`
	Name         string               `json:"name"`
	Sport        *string              `json:"sport,omitempty"`
	Version      int                  `json:"version"`
	IsActive     bool                 `json:"is_active"`
	Questions    scoring.QuestionBank `json:"questions"`
	PillarConfig scoring.PillarConfig `json:"pillar_config"`
}

func (ac *AssessmentController) ListAssessments(c *gin.Context) {
	assessments, err := ac.AssessmentService.ListActive(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(assessments))
	for _, a := range assessments {
		out = append(out, gin.H{
			"id":      a.ID,
			"name":    a.Name,
			"sport":   a.Sport,
			"version": a.Version,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (ac *AssessmentController) GetAssessment(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	snap, err := ac.AssessmentService.Snapshot(ctx, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	active, err := ac.AssessmentService.IsActive(ctx, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessmentOut{
		ID:           snap.Assessment.ID,
		Name:         snap.Assessment.Name,
		Sport:        snap.Assessment.Sport,
		Version:      snap.Assessment.Version,
		IsActive:     active,
		Questions:    snap.Bank,
		PillarConfig: snap.Config,
	})
}

func (ac *AssessmentController) PublishAssessment(c *gin.Context) {
	var def service.AssessmentDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		BadRequest(c, "invalid assessment definition")
		return
	}
	assessment, err := ac.AssessmentService.Publish(c.Request.Context(), def)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":        assessment.ID,
		"name":      assessment.Name,
		"version":   assessment.Version,
		"is_active": assessment.IsActive,
	})
}
