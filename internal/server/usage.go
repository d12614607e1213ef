package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/ZamoritaCR/neurostream/internal/ledger/domain"
)

func (s *Server) CheckUsage(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}

	feature := ledgerdomain.Feature(c.Param("feature"))
	decision := s.ledgersvc.CanUse(c.Request.Context(), userID, feature)
	c.JSON(http.StatusOK, decision)
}

func (s *Server) IncrementUsage(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}

	feature := ledgerdomain.Feature(c.Param("feature"))
	s.ledgersvc.Increment(c.Request.Context(), userID, feature)
	c.JSON(http.StatusOK, s.ledgersvc.CanUse(c.Request.Context(), userID, feature))
}
