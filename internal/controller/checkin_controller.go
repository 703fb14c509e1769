package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mindset-backend/internal/service"
)

type CheckInController struct {
	CheckInService service.CheckInService
}

func (cc *CheckInController) SubmitCheckIn(c *gin.Context) {
	var in service.CheckInInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "invalid check-in")
		return
	}
	checkIn, err := cc.CheckInService.Submit(c.Request.Context(), owner(c), in)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkIn)
}

func (cc *CheckInController) Today(c *gin.Context) {
	checkIn, err := cc.CheckInService.Today(c.Request.Context(), owner(c), c.Query("tz"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkIn)
}
