package controller

import (
	"errors"
	"net/http"

	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/internal/app/service"
	apperrors "github.com/foodierank/foodierank-backend/internal/errors"
	"github.com/foodierank/foodierank-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type FavoriteController struct {
	favoriteService service.FavoriteService
}

func NewFavoriteController(favoriteService service.FavoriteService) *FavoriteController {
	return &FavoriteController{favoriteService: favoriteService}
}

type FavoriteRequest struct {
	ResourceType string `json:"resource_type" binding:"required"`
	ResourceID   uint   `json:"resource_id" binding:"required"`
}

// AddFavorite bookmarks a restaurant or dish
// POST /api/v1/favorites
func (ctrl *FavoriteController) AddFavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid favorite data")
		return
	}

	favorite, err := ctrl.favoriteService.AddFavorite(userID, model.ResourceType(req.ResourceType), req.ResourceID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResourceType):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown resource type")
		case errors.Is(err, service.ErrResourceNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Resource not found")
		case errors.Is(err, service.ErrAlreadyFavorited):
			apperrors.Conflict(c, apperrors.FavoriteAlreadyExists, "Already in your favorites")
		default:
			log.Error("Failed to add favorite", err, map[string]interface{}{
				"user_id":     userID,
				"resource_id": req.ResourceID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add favorite")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Added to favorites",
		"favorite": favorite,
	})
}

// RemoveFavorite removes a bookmark
// DELETE /api/v1/favorites
func (ctrl *FavoriteController) RemoveFavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid favorite data")
		return
	}

	err := ctrl.favoriteService.RemoveFavorite(userID, model.ResourceType(req.ResourceType), req.ResourceID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResourceType):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown resource type")
		case errors.Is(err, service.ErrFavoriteNotFound):
			apperrors.NotFound(c, apperrors.FavoriteNotFound, "Favorite not found")
		default:
			log.Error("Failed to remove favorite", err, map[string]interface{}{
				"user_id":     userID,
				"resource_id": req.ResourceID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove favorite")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Removed from favorites",
	})
}

// ListMyFavorites lists the authenticated user's favorites
// GET /api/v1/favorites
func (ctrl *FavoriteController) ListMyFavorites(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	favorites, err := ctrl.favoriteService.GetUserFavorites(userID)
	if err != nil {
		log.Error("Failed to list favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}
