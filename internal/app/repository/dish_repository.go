package repository

import (
	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/pkg/logger"
	"gorm.io/gorm"
)

type DishRepository interface {
	Create(dish *model.Dish) error
	Update(dish *model.Dish) error
	FindByID(id uint) (*model.Dish, error)
	FindByRestaurant(restaurantID uint) ([]model.Dish, error)
}

type dishRepository struct {
	db *gorm.DB
}

func NewDishRepository(db *gorm.DB) DishRepository {
	return &dishRepository{db: db}
}

func (r *dishRepository) Create(dish *model.Dish) error {
	logger.Debug("Creating dish in database", map[string]interface{}{
		"restaurant_id": dish.RestaurantID,
		"name":          dish.Name,
	})

	if err := r.db.Create(dish).Error; err != nil {
		logger.Error("Failed to create dish in database", err, map[string]interface{}{
			"restaurant_id": dish.RestaurantID,
			"name":          dish.Name,
		})
		return err
	}

	logger.Debug("Dish created in database", map[string]interface{}{
		"dish_id": dish.ID,
		"name":    dish.Name,
	})
	return nil
}

func (r *dishRepository) Update(dish *model.Dish) error {
	logger.Debug("Updating dish in database", map[string]interface{}{
		"dish_id": dish.ID,
		"name":    dish.Name,
	})

	if err := r.db.Save(dish).Error; err != nil {
		logger.Error("Failed to update dish in database", err, map[string]interface{}{
			"dish_id": dish.ID,
		})
		return err
	}
	return nil
}

func (r *dishRepository) FindByID(id uint) (*model.Dish, error) {
	var dish model.Dish
	if err := r.db.First(&dish, id).Error; err != nil {
		logger.Error("Failed to find dish", err, map[string]interface{}{
			"dish_id": id,
		})
		return nil, err
	}
	return &dish, nil
}

func (r *dishRepository) FindByRestaurant(restaurantID uint) ([]model.Dish, error) {
	var dishes []model.Dish
	if err := r.db.Where("restaurant_id = ?", restaurantID).
		Order("name ASC").
		Find(&dishes).Error; err != nil {
		logger.Error("Failed to find dishes by restaurant", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, err
	}
	return dishes, nil
}
