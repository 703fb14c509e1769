package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mindset-backend/internal/service"
	"mindset-backend/utilities"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Assessments   service.AssessmentService
	Responses     service.ResponseService
	Progress      service.ProgressService
	Coaching      service.CoachingService
	Reports       service.ReportService
	CheckIns      service.CheckInService
	Organizations service.OrganizationService
}

func RegisterRoutes(r *gin.Engine, svc Services, tokens *utilities.TokenManager) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/", utilities.AuthMiddleware(tokens))

	// Assessment catalog.
	assessmentCtrl := NewAssessmentController(svc.Assessments)
	api.GET("/assessments", assessmentCtrl.ListAssessments)
	api.POST("/assessments", AdminGuard(svc.Organizations), assessmentCtrl.PublishAssessment)
	api.GET("/assessments/:id", assessmentCtrl.GetAssessment)

	orgCtrl := &OrganizationController{OrganizationService: svc.Organizations}
	api.GET("/organizations", orgCtrl.ListOrganizations)

	// Everything below acts inside one organization.
	org := api.Group("/organizations/:org_id", MembershipGuard(svc.Organizations))

	responseCtrl := &ResponseController{
		ResponseService:   svc.Responses,
		AssessmentService: svc.Assessments,
		ProgressService:   svc.Progress,
		CoachingService:   svc.Coaching,
		ReportService:     svc.Reports,
	}
	org.POST("/assessments/:id/responses", responseCtrl.BeginOrContinue)
	org.GET("/assessments/:id/history", responseCtrl.History)
	org.GET("/assessments/:id/progress", responseCtrl.Progress)
	org.PUT("/responses/:response_id/answers", responseCtrl.SubmitAnswers)
	org.POST("/responses/:response_id/complete", responseCtrl.Complete)
	org.GET("/responses/:response_id", responseCtrl.GetResponse)
	org.GET("/responses/:response_id/tips", responseCtrl.GetTips)
	org.GET("/responses/:response_id/report.pdf", responseCtrl.DownloadReport)

	checkInCtrl := &CheckInController{CheckInService: svc.CheckIns}
	org.POST("/checkins", checkInCtrl.SubmitCheckIn)
	org.GET("/checkins/today", checkInCtrl.Today)
}
