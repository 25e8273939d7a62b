package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/internal/app/repository"
	"github.com/foodierank/foodierank-backend/internal/app/service"
	apperrors "github.com/foodierank/foodierank-backend/internal/errors"
	"github.com/foodierank/foodierank-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type RestaurantController struct {
	restaurantService service.RestaurantService
}

func NewRestaurantController(restaurantService service.RestaurantService) *RestaurantController {
	return &RestaurantController{restaurantService: restaurantService}
}

type ProposeRestaurantRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
	ImageURL    string `json:"image_url"`
	CategoryID  *uint  `json:"category_id"`
}

type UpdateRestaurantRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	ImageURL    *string `json:"image_url"`
	CategoryID  *uint   `json:"category_id"`
}

// ListRestaurants lists approved restaurants
// GET /api/v1/restaurants
func (ctrl *RestaurantController) ListRestaurants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.RestaurantFilter{
		Search: c.Query("search"),
	}
	if categoryStr := c.Query("category_id"); categoryStr != "" {
		categoryID, err := strconv.ParseUint(categoryStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category ID")
			return
		}
		filter.CategoryID = uint(categoryID)
	}

	// 관리자는 승인 대기 목록도 볼 수 있다
	if role, ok := middleware.GetUserRole(c); ok && role == model.RoleAdmin {
		filter.IncludePending = c.Query("include_pending") == "true"
	}

	restaurants, err := ctrl.restaurantService.GetRestaurants(filter)
	if err != nil {
		log.Error("Failed to list restaurants", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list restaurants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": restaurants,
		"count":       len(restaurants),
	})
}

// GetRestaurant fetches one restaurant by ID
// GET /api/v1/restaurants/:id
func (ctrl *RestaurantController) GetRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	includePending := false
	if role, exists := middleware.GetUserRole(c); exists && role == model.RoleAdmin {
		includePending = true
	}

	restaurant, err := ctrl.restaurantService.GetRestaurantByID(id, includePending)
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
			return
		}
		log.Error("Failed to fetch restaurant", err, map[string]interface{}{
			"restaurant_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "fetch restaurant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant,
	})
}

// ProposeRestaurant proposes a new restaurant (admin proposals are auto-approved)
// POST /api/v1/restaurants
func (ctrl *RestaurantController) ProposeRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req ProposeRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid restaurant data")
		return
	}

	restaurant, err := ctrl.restaurantService.ProposeRestaurant(
		userID, role == model.RoleAdmin,
		req.Name, req.Description, req.Address, req.ImageURL, req.CategoryID,
	)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to propose restaurant", err, map[string]interface{}{
			"user_id": userID,
			"name":    req.Name,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "propose restaurant")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Restaurant proposed successfully",
		"restaurant": restaurant,
	})
}

// ApproveRestaurant approves a pending restaurant (admin only)
// POST /api/v1/admin/restaurants/:id/approve
func (ctrl *RestaurantController) ApproveRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	restaurant, err := ctrl.restaurantService.ApproveRestaurant(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		case errors.Is(err, service.ErrAlreadyApproved):
			apperrors.Conflict(c, apperrors.RestaurantAlreadyApproved, "Restaurant is already approved")
		default:
			log.Error("Failed to approve restaurant", err, map[string]interface{}{
				"restaurant_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "approve restaurant")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Restaurant approved",
		"restaurant": restaurant,
	})
}

// UpdateRestaurant updates restaurant metadata (admin only)
// PUT /api/v1/admin/restaurants/:id
func (ctrl *RestaurantController) UpdateRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid restaurant data")
		return
	}

	restaurant, err := ctrl.restaurantService.UpdateRestaurant(id, service.RestaurantUpdate{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		default:
			log.Error("Failed to update restaurant", err, map[string]interface{}{
				"restaurant_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update restaurant")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Restaurant updated",
		"restaurant": restaurant,
	})
}

// DeleteRestaurant deletes a restaurant and everything attached to it (admin only)
// DELETE /api/v1/admin/restaurants/:id
func (ctrl *RestaurantController) DeleteRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.restaurantService.DeleteRestaurant(id); err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
			return
		}
		log.Error("Failed to delete restaurant", err, map[string]interface{}{
			"restaurant_id": id,
		})
		apperrors.TransactionAborted(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Restaurant deleted",
	})
}
