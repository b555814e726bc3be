package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/electrify/backend/internal/contest"
)

// respondError maps engine error kinds to HTTP status codes. The
// wrapped message is safe to show; raw storage errors are not.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, contest.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, contest.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, contest.ErrForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, contest.ErrInvalidState):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, contest.ErrDuplicateVote):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, contest.ErrTransient):
		status, message = http.StatusServiceUnavailable, "Temporarily unavailable, please retry"
	}

	c.JSON(status, gin.H{"success": false, "error": message})
}
