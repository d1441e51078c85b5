package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"lottohouse/domain/entities"
)

// respondWithError maps domain errors onto HTTP statuses. The retryable
// flag tells clients whether the same request can succeed after user
// action (topping up a balance) as opposed to terminal rejections.
func respondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case entities.IsValidation(err):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrDrawNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, entities.ErrDuplicateTicket),
		errors.Is(err, entities.ErrAlreadyCompleted):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, entities.ErrInsufficientBalance),
		errors.Is(err, entities.ErrTicketCapExceeded):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, entities.ErrDrawLocked),
		errors.Is(err, entities.ErrDrawNotOpen),
		errors.Is(err, entities.ErrUserBlocked):
		status = http.StatusForbidden
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}

	c.JSON(status, gin.H{
		"error":     message,
		"retryable": entities.IsRetryable(err),
	})
}
