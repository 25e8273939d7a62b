package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/internal/app/repository"
	"github.com/foodierank/foodierank-backend/pkg/logger"
	"github.com/foodierank/foodierank-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrRestaurantForbidden = errors.New("no permission on this restaurant")
	ErrAlreadyApproved     = errors.New("restaurant already approved")
)

// RestaurantUpdate 수정 가능한 필드만 허용하는 입력.
// 집계/점수 컬럼은 여기 없으므로 클라이언트가 건드릴 수 없다.
type RestaurantUpdate struct {
	Name        *string
	Description *string
	Address     *string
	ImageURL    *string
	CategoryID  *uint
}

type RestaurantService interface {
	ProposeRestaurant(userID uint, isAdmin bool, name, description, address, imageURL string, categoryID *uint) (*model.Restaurant, error)
	GetRestaurants(filter repository.RestaurantFilter) ([]model.Restaurant, error)
	GetRestaurantByID(id uint, includePending bool) (*model.Restaurant, error)
	ApproveRestaurant(id uint) (*model.Restaurant, error)
	UpdateRestaurant(id uint, update RestaurantUpdate) (*model.Restaurant, error)
	DeleteRestaurant(id uint) error
}

type restaurantService struct {
	restaurantRepo repository.RestaurantRepository
	categoryRepo   repository.CategoryRepository
	db             *gorm.DB
}

func NewRestaurantService(
	restaurantRepo repository.RestaurantRepository,
	categoryRepo repository.CategoryRepository,
	db *gorm.DB,
) RestaurantService {
	return &restaurantService{
		restaurantRepo: restaurantRepo,
		categoryRepo:   categoryRepo,
		db:             db,
	}
}

// ProposeRestaurant 음식점 등록 제안. 일반 사용자는 승인 대기 상태로
// 들어가고 관리자는 바로 승인된다.
func (s *restaurantService) ProposeRestaurant(userID uint, isAdmin bool, name, description, address, imageURL string, categoryID *uint) (*model.Restaurant, error) {
	logger.Info("Proposing restaurant", map[string]interface{}{
		"name":        name,
		"proposed_by": userID,
		"is_admin":    isAdmin,
	})

	if categoryID != nil {
		if _, err := s.categoryRepo.FindByID(*categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}

	restaurant := &model.Restaurant{
		Name:        name,
		Description: description,
		Address:     address,
		ImageURL:    imageURL,
		CategoryID:  categoryID,
		ProposedBy:  userID,
		Approved:    isAdmin,
	}
	if err := s.restaurantRepo.Create(restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}

func (s *restaurantService) GetRestaurants(filter repository.RestaurantFilter) ([]model.Restaurant, error) {
	return s.restaurantRepo.FindAll(filter)
}

func (s *restaurantService) GetRestaurantByID(id uint, includePending bool) (*model.Restaurant, error) {
	restaurant, err := s.restaurantRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	if !restaurant.Approved && !includePending {
		return nil, ErrRestaurantNotFound
	}
	return restaurant, nil
}

func (s *restaurantService) ApproveRestaurant(id uint) (*model.Restaurant, error) {
	logger.Info("Approving restaurant", map[string]interface{}{
		"restaurant_id": id,
	})

	restaurant, err := s.restaurantRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	if restaurant.Approved {
		return nil, ErrAlreadyApproved
	}

	restaurant.Approved = true
	if err := s.restaurantRepo.Update(restaurant); err != nil {
		return nil, err
	}

	redis.InvalidateRanking(context.Background())

	logger.Info("Restaurant approved", map[string]interface{}{
		"restaurant_id": id,
		"name":          restaurant.Name,
	})
	return restaurant, nil
}

func (s *restaurantService) UpdateRestaurant(id uint, update RestaurantUpdate) (*model.Restaurant, error) {
	logger.Info("Updating restaurant", map[string]interface{}{
		"restaurant_id": id,
	})

	restaurant, err := s.restaurantRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if update.Name != nil {
		restaurant.Name = *update.Name
	}
	if update.Description != nil {
		restaurant.Description = *update.Description
	}
	if update.Address != nil {
		restaurant.Address = *update.Address
	}
	if update.ImageURL != nil {
		restaurant.ImageURL = *update.ImageURL
	}
	if update.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*update.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		restaurant.CategoryID = update.CategoryID
	}

	if err := s.restaurantRepo.Update(restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}

// DeleteRestaurant 음식점과 딸린 데이터(메뉴, 리뷰, 리액션, 즐겨찾기)를
// 하나의 트랜잭션에서 모두 지운다.
func (s *restaurantService) DeleteRestaurant(id uint) error {
	logger.Info("Deleting restaurant", map[string]interface{}{
		"restaurant_id": id,
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during restaurant deletion, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"restaurant_id": id,
			})
		}
	}()

	var restaurant model.Restaurant
	if err := tx.First(&restaurant, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRestaurantNotFound
		}
		return err
	}

	var dishIDs []uint
	if err := tx.Model(&model.Dish{}).Where("restaurant_id = ?", id).Pluck("id", &dishIDs).Error; err != nil {
		tx.Rollback()
		return err
	}

	// 음식점 리뷰와 메뉴 리뷰의 리액션부터 바깥쪽으로 지운다
	reviewQuery := tx.Model(&model.Review{}).Where("resource_type = ? AND resource_id = ?", model.ResourceRestaurant, id)
	if len(dishIDs) > 0 {
		reviewQuery = reviewQuery.Or("resource_type = ? AND resource_id IN ?", model.ResourceDish, dishIDs)
	}
	var reviewIDs []uint
	if err := reviewQuery.Pluck("id", &reviewIDs).Error; err != nil {
		tx.Rollback()
		return err
	}

	if len(reviewIDs) > 0 {
		if err := tx.Where("review_id IN ?", reviewIDs).Delete(&model.Reaction{}).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to delete reactions during restaurant deletion", err, map[string]interface{}{
				"restaurant_id": id,
			})
			return err
		}
		if err := tx.Where("id IN ?", reviewIDs).Delete(&model.Review{}).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to delete reviews during restaurant deletion", err, map[string]interface{}{
				"restaurant_id": id,
			})
			return err
		}
	}

	favoriteQuery := tx.Where("resource_type = ? AND resource_id = ?", model.ResourceRestaurant, id)
	if len(dishIDs) > 0 {
		favoriteQuery = favoriteQuery.Or("resource_type = ? AND resource_id IN ?", model.ResourceDish, dishIDs)
	}
	if err := favoriteQuery.Delete(&model.Favorite{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if len(dishIDs) > 0 {
		if err := tx.Where("restaurant_id = ?", id).Delete(&model.Dish{}).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to delete dishes during restaurant deletion", err, map[string]interface{}{
				"restaurant_id": id,
			})
			return err
		}
	}

	if err := tx.Delete(&model.Restaurant{}, id).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete restaurant", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit restaurant deletion", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return err
	}

	redis.InvalidateRanking(context.Background())

	logger.Info("Restaurant deleted", map[string]interface{}{
		"restaurant_id": id,
		"dish_count":    len(dishIDs),
		"review_count":  len(reviewIDs),
	})
	return nil
}
