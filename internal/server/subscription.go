package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/ZamoritaCR/neurostream/internal/subscription/domain"
)

func (s *Server) GetSubscription(c *gin.Context) {
	userID, ok := userFromRequest(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_user"})
		return
	}

	sub, err := s.subsvc.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		// Users without a billing row are on the free plan.
		if errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"plan_type": subscriptiondomain.PlanFree,
				"status":    subscriptiondomain.SubscriptionStatusActive,
				"premium":   false,
			})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan_type": sub.PlanType,
		"status":    sub.Status,
		"premium":   sub.IsActivePremium(),
	})
}
