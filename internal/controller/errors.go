package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mindset-backend/internal/scoring"
	"mindset-backend/internal/service"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Missing []int  `json:"missing,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps a service or scoring error onto a status code and the
// error envelope. Server-side failures are attached to the gin context so the
// request logger records the cause; the client gets a generic message.
func RespondError(c *gin.Context, err error) {
	var (
		verr       *scoring.ValidationError
		incomplete *scoring.IncompleteAnswersError
		already    *scoring.AlreadyCompleteError
		cfgErr     *scoring.ConfigurationError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, ErrorEnvelope{Error: APIError{
			Code: "validation_error", Message: verr.Error(), Field: verr.Field,
		}})
	case errors.As(err, &incomplete):
		c.JSON(http.StatusUnprocessableEntity, ErrorEnvelope{Error: APIError{
			Code: "incomplete_answers", Message: incomplete.Error(), Missing: incomplete.Missing,
		}})
	case errors.As(err, &already):
		respond(c, http.StatusConflict, "already_complete", already.Error())
	case errors.Is(err, service.ErrAssessmentInactive):
		respond(c, http.StatusConflict, "assessment_inactive", err.Error())
	case errors.Is(err, service.ErrResponseOpen):
		respond(c, http.StatusConflict, "response_incomplete", err.Error())
	case errors.Is(err, service.ErrNotFound):
		respond(c, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, service.ErrForbidden):
		respond(c, http.StatusForbidden, "forbidden", err.Error())
	case errors.As(err, &cfgErr):
		_ = c.Error(err)
		respond(c, http.StatusInternalServerError, "configuration_error", "assessment is misconfigured")
	default:
		_ = c.Error(err)
		respond(c, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// BadRequest reports an unparsable request.
func BadRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, "bad_request", message)
}

func respond(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorEnvelope{Error: APIError{Code: code, Message: message}})
}
