package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	behaviordomain "github.com/ZamoritaCR/neurostream/internal/behavior/domain"
	mooddomain "github.com/ZamoritaCR/neurostream/internal/mood/domain"
	queuedomain "github.com/ZamoritaCR/neurostream/internal/queue/domain"
	subscriptiondomain "github.com/ZamoritaCR/neurostream/internal/subscription/domain"
)

// AbortWithError maps domain sentinel errors to HTTP responses.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, behaviordomain.ErrInvalidUser),
		errors.Is(err, mooddomain.ErrInvalidUser),
		errors.Is(err, queuedomain.ErrInvalidUser),
		errors.Is(err, subscriptiondomain.ErrInvalidUser):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, behaviordomain.ErrInvalidAction),
		errors.Is(err, mooddomain.ErrInvalidMood),
		errors.Is(err, queuedomain.ErrInvalidContent),
		errors.Is(err, queuedomain.ErrInvalidStatus):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, queuedomain.ErrItemNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
