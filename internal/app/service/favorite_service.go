package service

import (
	"errors"

	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/internal/app/repository"
	"github.com/foodierank/foodierank-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAlreadyFavorited = errors.New("resource already favorited")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

type FavoriteService interface {
	AddFavorite(userID uint, resourceType model.ResourceType, resourceID uint) (*model.Favorite, error)
	RemoveFavorite(userID uint, resourceType model.ResourceType, resourceID uint) error
	GetUserFavorites(userID uint) ([]model.Favorite, error)
}

type favoriteService struct {
	favoriteRepo   repository.FavoriteRepository
	restaurantRepo repository.RestaurantRepository
	dishRepo       repository.DishRepository
}

func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	restaurantRepo repository.RestaurantRepository,
	dishRepo repository.DishRepository,
) FavoriteService {
	return &favoriteService{
		favoriteRepo:   favoriteRepo,
		restaurantRepo: restaurantRepo,
		dishRepo:       dishRepo,
	}
}

func (s *favoriteService) AddFavorite(userID uint, resourceType model.ResourceType, resourceID uint) (*model.Favorite, error) {
	logger.Info("Adding favorite", map[string]interface{}{
		"user_id":       userID,
		"resource_type": resourceType,
		"resource_id":   resourceID,
	})

	if !resourceType.Valid() {
		return nil, ErrInvalidResourceType
	}

	switch resourceType {
	case model.ResourceRestaurant:
		restaurant, err := s.restaurantRepo.FindByID(resourceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrResourceNotFound
			}
			return nil, err
		}
		if !restaurant.Approved {
			return nil, ErrResourceNotFound
		}
	case model.ResourceDish:
		if _, err := s.dishRepo.FindByID(resourceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrResourceNotFound
			}
			return nil, err
		}
	}

	exists, err := s.favoriteRepo.Exists(userID, resourceType, resourceID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyFavorited
	}

	favorite := &model.Favorite{
		UserID:       userID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
	if err := s.favoriteRepo.Create(favorite); err != nil {
		return nil, err
	}
	return favorite, nil
}

func (s *favoriteService) RemoveFavorite(userID uint, resourceType model.ResourceType, resourceID uint) error {
	if !resourceType.Valid() {
		return ErrInvalidResourceType
	}

	if err := s.favoriteRepo.Delete(userID, resourceType, resourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}
	return nil
}

func (s *favoriteService) GetUserFavorites(userID uint) ([]model.Favorite, error) {
	return s.favoriteRepo.FindByUser(userID)
}
