package repository

import (
	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/pkg/logger"
	"gorm.io/gorm"
)

type FavoriteRepository interface {
	Create(favorite *model.Favorite) error
	Delete(userID uint, resourceType model.ResourceType, resourceID uint) error
	FindByUser(userID uint) ([]model.Favorite, error)
	Exists(userID uint, resourceType model.ResourceType, resourceID uint) (bool, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(favorite *model.Favorite) error {
	logger.Debug("Creating favorite in database", map[string]interface{}{
		"user_id":       favorite.UserID,
		"resource_type": favorite.ResourceType,
		"resource_id":   favorite.ResourceID,
	})

	if err := r.db.Create(favorite).Error; err != nil {
		logger.Error("Failed to create favorite in database", err, map[string]interface{}{
			"user_id":     favorite.UserID,
			"resource_id": favorite.ResourceID,
		})
		return err
	}
	return nil
}

func (r *favoriteRepository) Delete(userID uint, resourceType model.ResourceType, resourceID uint) error {
	result := r.db.Where("user_id = ? AND resource_type = ? AND resource_id = ?", userID, resourceType, resourceID).
		Delete(&model.Favorite{})
	if result.Error != nil {
		logger.Error("Failed to delete favorite from database", result.Error, map[string]interface{}{
			"user_id":     userID,
			"resource_id": resourceID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *favoriteRepository) FindByUser(userID uint) ([]model.Favorite, error) {
	var favorites []model.Favorite
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		logger.Error("Failed to find favorites by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return favorites, nil
}

func (r *favoriteRepository) Exists(userID uint, resourceType model.ResourceType, resourceID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Favorite{}).
		Where("user_id = ? AND resource_type = ? AND resource_id = ?", userID, resourceType, resourceID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
