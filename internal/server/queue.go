package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	queuedomain "github.com/ZamoritaCR/neurostream/internal/queue/domain"
)

func (s *Server) AddToQueue(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}

	var req queuedomain.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	added, err := s.queuesvc.Add(c.Request.Context(), userID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"added": added})
}

func (s *Server) ListQueue(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}

	status := queuedomain.QueueStatus(c.Query("status"))
	items, err := s.queuesvc.List(c.Request.Context(), userID, status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) UpdateQueueStatus(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}

	var req struct {
		Status queuedomain.QueueStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	if err := s.queuesvc.UpdateStatus(c.Request.Context(), userID, c.Param("id"), req.Status); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (s *Server) QueueStats(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}

	c.JSON(http.StatusOK, s.queuesvc.Stats(c.Request.Context(), userID))
}
