package repository

import (
	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/pkg/logger"
	"gorm.io/gorm"
)

type RestaurantFilter struct {
	CategoryID      uint
	Search          string
	IncludePending  bool // 승인 대기 중인 음식점 포함 여부 (관리자용)
	ProposedBy      uint
}

type RestaurantRepository interface {
	Create(restaurant *model.Restaurant) error
	BulkCreate(restaurants []model.Restaurant, batchSize int) error
	Update(restaurant *model.Restaurant) error
	FindAll(filter RestaurantFilter) ([]model.Restaurant, error)
	FindByID(id uint) (*model.Restaurant, error)
	FindTopRanked(limit int) ([]model.Restaurant, error)
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(restaurant *model.Restaurant) error {
	logger.Debug("Creating restaurant in database", map[string]interface{}{
		"name":        restaurant.Name,
		"proposed_by": restaurant.ProposedBy,
	})

	if err := r.db.Create(restaurant).Error; err != nil {
		logger.Error("Failed to create restaurant in database", err, map[string]interface{}{
			"name":        restaurant.Name,
			"proposed_by": restaurant.ProposedBy,
		})
		return err
	}

	logger.Debug("Restaurant created in database", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"name":          restaurant.Name,
	})
	return nil
}

// BulkCreate 음식점 목록을 배치로 저장한다. 데이터 일괄 적재(seed)용.
func (r *restaurantRepository) BulkCreate(restaurants []model.Restaurant, batchSize int) error {
	logger.Info("Bulk creating restaurants", map[string]interface{}{
		"count":      len(restaurants),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(restaurants, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create restaurants", err, map[string]interface{}{
			"count": len(restaurants),
		})
		return err
	}
	return nil
}

func (r *restaurantRepository) Update(restaurant *model.Restaurant) error {
	logger.Debug("Updating restaurant in database", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"name":          restaurant.Name,
	})

	if err := r.db.Save(restaurant).Error; err != nil {
		logger.Error("Failed to update restaurant in database", err, map[string]interface{}{
			"restaurant_id": restaurant.ID,
		})
		return err
	}
	return nil
}

func (r *restaurantRepository) FindAll(filter RestaurantFilter) ([]model.Restaurant, error) {
	logger.Debug("Finding restaurants", map[string]interface{}{
		"category_id":     filter.CategoryID,
		"search":          filter.Search,
		"include_pending": filter.IncludePending,
	})

	query := r.db.Model(&model.Restaurant{}).Preload("Category")

	if !filter.IncludePending {
		query = query.Where("approved = ?", true)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ProposedBy != 0 {
		query = query.Where("proposed_by = ?", filter.ProposedBy)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ?", like)
	}

	var restaurants []model.Restaurant
	if err := query.Order("name ASC").Find(&restaurants).Error; err != nil {
		logger.Error("Failed to find restaurants", err, map[string]interface{}{
			"category_id": filter.CategoryID,
		})
		return nil, err
	}

	logger.Debug("Restaurants found", map[string]interface{}{
		"count": len(restaurants),
	})
	return restaurants, nil
}

func (r *restaurantRepository) FindByID(id uint) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := r.db.Preload("Category").First(&restaurant, id).Error; err != nil {
		logger.Error("Failed to find restaurant", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return nil, err
	}
	return &restaurant, nil
}

// FindTopRanked 승인된 음식점을 랭킹 점수 내림차순으로 조회한다.
// 점수가 같으면 리뷰 수, 그다음 ID 순으로 정렬해 순서를 안정화한다.
func (r *restaurantRepository) FindTopRanked(limit int) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	if err := r.db.Preload("Category").
		Where("approved = ?", true).
		Order("ranking_score DESC, rating_count DESC, id ASC").
		Limit(limit).
		Find(&restaurants).Error; err != nil {
		logger.Error("Failed to find top ranked restaurants", err, map[string]interface{}{
			"limit": limit,
		})
		return nil, err
	}
	return restaurants, nil
}
