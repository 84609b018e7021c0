package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"battery-scheduler/internal/api/models"
	"battery-scheduler/internal/model"
)

// errorStatus maps error kinds to an HTTP status and envelope code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrConfiguration):
		return http.StatusBadRequest, "INVALID_CONFIG"
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, model.ErrNoCandidate):
		return http.StatusUnprocessableEntity, "NO_CANDIDATE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func errorDetail(err error) models.ErrorDetail {
	_, code := errorStatus(err)
	return models.ErrorDetail{Code: code, Message: err.Error()}
}

func respondError(c *gin.Context, err error) {
	status, _ := errorStatus(err)
	c.JSON(status, models.ErrorResponse{Error: errorDetail(err)})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}
