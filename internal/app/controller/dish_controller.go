package controller

import (
	"errors"
	"net/http"

	"github.com/foodierank/foodierank-backend/internal/app/service"
	apperrors "github.com/foodierank/foodierank-backend/internal/errors"
	"github.com/foodierank/foodierank-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type DishController struct {
	dishService service.DishService
}

func NewDishController(dishService service.DishService) *DishController {
	return &DishController{dishService: dishService}
}

type CreateDishRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

type UpdateDishRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    string   `json:"image_url"`
}

// ListDishes lists dishes of a restaurant
// GET /api/v1/restaurants/:id/dishes
func (ctrl *DishController) ListDishes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	dishes, err := ctrl.dishService.GetDishes(restaurantID)
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
			return
		}
		log.Error("Failed to list dishes", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list dishes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dishes": dishes,
		"count":  len(dishes),
	})
}

// GetDish fetches one dish by ID
// GET /api/v1/dishes/:id
func (ctrl *DishController) GetDish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	dish, err := ctrl.dishService.GetDishByID(id)
	if err != nil {
		if errors.Is(err, service.ErrDishNotFound) {
			apperrors.NotFound(c, apperrors.DishNotFound, "Dish not found")
			return
		}
		log.Error("Failed to fetch dish", err, map[string]interface{}{
			"dish_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "fetch dish")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dish": dish,
	})
}

// CreateDish adds a dish to a restaurant
// POST /api/v1/restaurants/:id/dishes
func (ctrl *DishController) CreateDish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid dish data")
		return
	}

	dish, err := ctrl.dishService.AddDish(userID, restaurantID, req.Name, req.Description, req.Price, req.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		case errors.Is(err, service.ErrDishNameTaken):
			apperrors.Conflict(c, apperrors.DishNameConflict, "A dish with this name already exists here")
		default:
			log.Error("Failed to create dish", err, map[string]interface{}{
				"restaurant_id": restaurantID,
				"name":          req.Name,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create dish")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Dish created",
		"dish":    dish,
	})
}

// UpdateDish updates a dish (admin only)
// PUT /api/v1/admin/dishes/:id
func (ctrl *DishController) UpdateDish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid dish data")
		return
	}

	dish, err := ctrl.dishService.UpdateDish(id, req.Name, req.Description, req.Price, req.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDishNotFound):
			apperrors.NotFound(c, apperrors.DishNotFound, "Dish not found")
		case errors.Is(err, service.ErrDishNameTaken):
			apperrors.Conflict(c, apperrors.DishNameConflict, "A dish with this name already exists here")
		default:
			log.Error("Failed to update dish", err, map[string]interface{}{
				"dish_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update dish")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dish updated",
		"dish":    dish,
	})
}

// DeleteDish deletes a dish and its reviews (admin only)
// DELETE /api/v1/admin/dishes/:id
func (ctrl *DishController) DeleteDish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.dishService.DeleteDish(id); err != nil {
		if errors.Is(err, service.ErrDishNotFound) {
			apperrors.NotFound(c, apperrors.DishNotFound, "Dish not found")
			return
		}
		log.Error("Failed to delete dish", err, map[string]interface{}{
			"dish_id": id,
		})
		apperrors.TransactionAborted(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dish deleted",
	})
}
