package service

import (
	"errors"
	"fmt"

	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/internal/app/repository"
	"github.com/foodierank/foodierank-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrDishNotFound  = errors.New("dish not found")
	ErrDishNameTaken = errors.New("dish name already exists in this restaurant")
)

type DishService interface {
	AddDish(userID uint, restaurantID uint, name, description string, price float64, imageURL string) (*model.Dish, error)
	GetDishes(restaurantID uint) ([]model.Dish, error)
	GetDishByID(id uint) (*model.Dish, error)
	UpdateDish(id uint, name, description string, price *float64, imageURL string) (*model.Dish, error)
	DeleteDish(id uint) error
}

type dishService struct {
	dishRepo       repository.DishRepository
	restaurantRepo repository.RestaurantRepository
	db             *gorm.DB
}

func NewDishService(
	dishRepo repository.DishRepository,
	restaurantRepo repository.RestaurantRepository,
	db *gorm.DB,
) DishService {
	return &dishService{
		dishRepo:       dishRepo,
		restaurantRepo: restaurantRepo,
		db:             db,
	}
}

func (s *dishService) AddDish(userID uint, restaurantID uint, name, description string, price float64, imageURL string) (*model.Dish, error) {
	logger.Info("Adding dish", map[string]interface{}{
		"restaurant_id": restaurantID,
		"name":          name,
		"created_by":    userID,
	})

	restaurant, err := s.restaurantRepo.FindByID(restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	if !restaurant.Approved {
		return nil, ErrRestaurantNotFound
	}

	// 음식점 안에서 이름이 겹치면 거절한다. 유니크 인덱스가 최후 방어선.
	var count int64
	if err := s.db.Model(&model.Dish{}).
		Where("restaurant_id = ? AND name = ?", restaurantID, name).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		logger.Warn("Dish name already taken", map[string]interface{}{
			"restaurant_id": restaurantID,
			"name":          name,
		})
		return nil, ErrDishNameTaken
	}

	dish := &model.Dish{
		RestaurantID: restaurantID,
		Name:         name,
		Description:  description,
		Price:        price,
		ImageURL:     imageURL,
		CreatedBy:    userID,
	}
	if err := s.dishRepo.Create(dish); err != nil {
		return nil, err
	}
	return dish, nil
}

func (s *dishService) GetDishes(restaurantID uint) ([]model.Dish, error) {
	if _, err := s.restaurantRepo.FindByID(restaurantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return s.dishRepo.FindByRestaurant(restaurantID)
}

func (s *dishService) GetDishByID(id uint) (*model.Dish, error) {
	dish, err := s.dishRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, err
	}
	return dish, nil
}

func (s *dishService) UpdateDish(id uint, name, description string, price *float64, imageURL string) (*model.Dish, error) {
	logger.Info("Updating dish", map[string]interface{}{
		"dish_id": id,
	})

	dish, err := s.dishRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, err
	}

	if name != "" && name != dish.Name {
		var count int64
		if err := s.db.Model(&model.Dish{}).
			Where("restaurant_id = ? AND name = ? AND id <> ?", dish.RestaurantID, name, id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDishNameTaken
		}
		dish.Name = name
	}
	if description != "" {
		dish.Description = description
	}
	if price != nil {
		dish.Price = *price
	}
	if imageURL != "" {
		dish.ImageURL = imageURL
	}

	if err := s.dishRepo.Update(dish); err != nil {
		return nil, err
	}
	return dish, nil
}

// DeleteDish 메뉴와 딸린 리뷰, 리액션, 즐겨찾기를 한 트랜잭션에서 지운다
func (s *dishService) DeleteDish(id uint) error {
	logger.Info("Deleting dish", map[string]interface{}{
		"dish_id": id,
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during dish deletion, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"dish_id": id,
			})
		}
	}()

	var dish model.Dish
	if err := tx.First(&dish, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDishNotFound
		}
		return err
	}

	var reviewIDs []uint
	if err := tx.Model(&model.Review{}).
		Where("resource_type = ? AND resource_id = ?", model.ResourceDish, id).
		Pluck("id", &reviewIDs).Error; err != nil {
		tx.Rollback()
		return err
	}

	if len(reviewIDs) > 0 {
		if err := tx.Where("review_id IN ?", reviewIDs).Delete(&model.Reaction{}).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to delete reactions during dish deletion", err, map[string]interface{}{
				"dish_id": id,
			})
			return err
		}
		if err := tx.Where("id IN ?", reviewIDs).Delete(&model.Review{}).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to delete reviews during dish deletion", err, map[string]interface{}{
				"dish_id": id,
			})
			return err
		}
	}

	if err := tx.Where("resource_type = ? AND resource_id = ?", model.ResourceDish, id).
		Delete(&model.Favorite{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&model.Dish{}, id).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete dish", err, map[string]interface{}{
			"dish_id": id,
		})
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit dish deletion", err, map[string]interface{}{
			"dish_id": id,
		})
		return err
	}

	logger.Info("Dish deleted", map[string]interface{}{
		"dish_id":      id,
		"review_count": len(reviewIDs),
	})
	return nil
}
