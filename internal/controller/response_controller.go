package controller

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mindset-backend/internal/model"
	"mindset-backend/internal/service"
)

type ResponseController struct {
	ResponseService   service.ResponseService
	AssessmentService service.AssessmentService
	ProgressService   service.ProgressService
	CoachingService   service.CoachingService
	ReportService     service.ReportService
}

type responseOut struct {
	model.AssessmentResultOut
	Answers map[int]int `json:"answers"`
}

func newResponseOut(r *model.AssessmentResponse) responseOut {
	answers := r.Answers.Data()
	if answers == nil {
		answers = map[int]int{}
	}
	return responseOut{AssessmentResultOut: r.ResultOut(), Answers: answers}
}

func (rc *ResponseController) BeginOrContinue(c *gin.Context) {
	assessmentID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	resp, err := rc.ResponseService.BeginOrContinue(c.Request.Context(), owner(c), assessmentID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newResponseOut(resp))
}

func (rc *ResponseController) SubmitAnswers(c *gin.Context) {
	responseID, ok := uintParam(c, "response_id")
	if !ok {
		return
	}
	var req struct {
		Answers map[int]int `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "answers must be an object of question id to value")
		return
	}
	resp, err := rc.ResponseService.SubmitAnswers(c.Request.Context(), owner(c), responseID, req.Answers)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newResponseOut(resp))
}

func (rc *ResponseController) Complete(c *gin.Context) {
	responseID, ok := uintParam(c, "response_id")
	if !ok {
		return
	}
	resp, err := rc.ResponseService.Complete(c.Request.Context(), owner(c), responseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.ResultOut())
}

func (rc *ResponseController) GetResponse(c *gin.Context) {
	responseID, ok := uintParam(c, "response_id")
	if !ok {
		return
	}
	resp, err := rc.ResponseService.Get(c.Request.Context(), owner(c), responseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newResponseOut(resp))
}

func (rc *ResponseController) GetTips(c *gin.Context) {
	responseID, ok := uintParam(c, "response_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	resp, err := rc.ResponseService.Get(ctx, owner(c), responseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	tips, err := rc.CoachingService.TipsFor(ctx, resp)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response_id": resp.ID, "tips": tips})
}

func (rc *ResponseController) DownloadReport(c *gin.Context) {
	responseID, ok := uintParam(c, "response_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	resp, err := rc.ResponseService.Get(ctx, owner(c), responseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	if !resp.IsComplete {
		RespondError(c, service.ErrResponseOpen)
		return
	}
	snap, err := rc.AssessmentService.Snapshot(ctx, resp.AssessmentID)
	if err != nil {
		RespondError(c, err)
		return
	}
	thresholds, err := rc.AssessmentService.Thresholds(ctx, snap)
	if err != nil {
		RespondError(c, err)
		return
	}
	tips, err := rc.CoachingService.TipsFor(ctx, resp)
	if err != nil {
		RespondError(c, err)
		return
	}

	var buf bytes.Buffer
	err = rc.ReportService.Render(&buf, service.ReportInput{
		AssessmentName: snap.Assessment.Name,
		Version:        snap.Assessment.Version,
		Result:         resp.ResultOut(),
		Pillars:        thresholds,
		Tips:           tips,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	filename := fmt.Sprintf("mindset_report_%d.pdf", resp.ID)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (rc *ResponseController) History(c *gin.Context) {
	assessmentID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	history, err := rc.ProgressService.History(c.Request.Context(), owner(c), assessmentID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (rc *ResponseController) Progress(c *gin.Context) {
	assessmentID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	progress, err := rc.ProgressService.Progress(c.Request.Context(), owner(c), assessmentID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
