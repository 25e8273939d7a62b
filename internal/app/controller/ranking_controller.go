package controller

import (
	"net/http"

	"github.com/foodierank/foodierank-backend/internal/app/service"
	apperrors "github.com/foodierank/foodierank-backend/internal/errors"
	"github.com/foodierank/foodierank-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type RankingController struct {
	rankingService service.RankingService
}

func NewRankingController(rankingService service.RankingService) *RankingController {
	return &RankingController{rankingService: rankingService}
}

// GetTopRestaurants returns the restaurant leaderboard
// GET /api/v1/ranking/restaurants
func (ctrl *RankingController) GetTopRestaurants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	restaurants, err := ctrl.rankingService.GetTopRestaurants(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch restaurant ranking", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "fetch ranking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": restaurants,
		"count":       len(restaurants),
	})
}

// ReconcileAggregates triggers an on-demand aggregate reconciliation (admin only)
// POST /api/v1/admin/ranking/reconcile
func (ctrl *RankingController) ReconcileAggregates(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.rankingService.ReconcileAggregates(); err != nil {
		log.Error("Aggregate reconciliation failed", err, nil)
		apperrors.InternalError(c, "Reconciliation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Aggregates reconciled",
	})
}
