package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	mooddomain "github.com/ZamoritaCR/neurostream/internal/mood/domain"
)

func (s *Server) TrackMood(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}
	if !s.allowTrack(c, userID) {
		return
	}

	var req mooddomain.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	if err := s.moodsvc.Track(c.Request.Context(), userID, req); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "tracked"})
}

func (s *Server) MoodPatterns(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}

	patterns := s.moodsvc.Patterns(c.Request.Context(), userID, windowDays(c))
	c.JSON(http.StatusOK, patterns)
}

func (s *Server) MoodStreak(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"streak_days": s.moodsvc.Streak(c.Request.Context(), userID)})
}
