package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pontoamd/ponto-server/internal/model"
)

// handleError maps service errors to HTTP status codes. Unknown errors
// collapse to 500 without leaking internals.
func handleError(c *gin.Context, err error) {
	var decodeErr *model.DecodeError
	if errors.As(err, &decodeErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": decodeErr.Error()})
		return
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, model.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, model.ErrDuplicateHandle):
		c.JSON(http.StatusConflict, gin.H{"error": "handle already registered"})
	case errors.Is(err, model.ErrMissingEvidence):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "evidence photo required"})
	case errors.Is(err, model.ErrInvalidEvidence):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "evidence photo is not a valid image"})
	case errors.Is(err, model.ErrMissingLocation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "location fix required"})
	case errors.Is(err, model.ErrBrokenAlternation):
		c.JSON(http.StatusConflict, gin.H{"error": "correction breaks clock-in/out alternation"})
	case errors.Is(err, model.ErrSelfRoleChange):
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot change own role"})
	case errors.Is(err, model.ErrEmptyRange):
		c.JSON(http.StatusNotFound, gin.H{"error": "no events in the requested period"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
