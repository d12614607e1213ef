package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	behaviordomain "github.com/ZamoritaCR/neurostream/internal/behavior/domain"
)

// defaultWindowDays is the lookback applied when the query omits "days".
const defaultWindowDays = 30

func (s *Server) TrackBehavior(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}
	if !s.allowTrack(c, userID) {
		return
	}

	var req behaviordomain.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	if err := s.behaviorsvc.Track(c.Request.Context(), userID, req); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "tracked"})
}

func (s *Server) EngagementScore(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}

	score := s.behaviorsvc.EngagementScore(c.Request.Context(), userID, windowDays(c))
	c.JSON(http.StatusOK, score)
}

func (s *Server) FavoriteContentTypes(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}

	ranked := s.behaviorsvc.FavoriteContentTypes(c.Request.Context(), userID, windowDays(c))
	c.JSON(http.StatusOK, gin.H{"content_types": ranked})
}

func (s *Server) PeakUsageHours(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}

	hours := s.behaviorsvc.PeakUsageHours(c.Request.Context(), userID, windowDays(c))
	c.JSON(http.StatusOK, gin.H{"peak_hours": hours})
}

func (s *Server) BehaviorInsights(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}

	c.JSON(http.StatusOK, s.behaviorsvc.Insights(c.Request.Context(), userID))
}

func (s *Server) allowTrack(c *gin.Context, userID int64) bool {
	result := s.tracklimiter.Allow(c.Request.Context(), userID)
	if result.Allowed {
		return true
	}
	if result.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
	return false
}

func windowDays(c *gin.Context) int {
	raw := strings.TrimSpace(c.Query("days"))
	if raw == "" {
		return defaultWindowDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return defaultWindowDays
	}
	return days
}
