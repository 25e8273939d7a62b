package repository

import (
	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewFilter struct {
	ResourceType model.ResourceType
	ResourceID   uint
	Page         int
	PageSize     int
}

// ReviewRepository 리뷰 읽기 경로 전용.
// 쓰기(생성/수정/삭제/리액션)는 집계와 함께 하나의 트랜잭션으로 묶여야
// 하므로 서비스의 트랜잭션 블록에서 직접 수행한다.
type ReviewRepository interface {
	FindByID(id uint) (*model.Review, error)
	FindByResource(filter ReviewFilter) ([]model.Review, int64, error)
	FindByAuthor(authorID uint) ([]model.Review, error)
	FindReaction(reviewID, userID uint) (*model.Reaction, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.Preload("Author").First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByResource(filter ReviewFilter) ([]model.Review, int64, error) {
	logger.Debug("Finding reviews by resource", map[string]interface{}{
		"resource_type": filter.ResourceType,
		"resource_id":   filter.ResourceID,
		"page":          filter.Page,
	})

	query := r.db.Model(&model.Review{}).
		Where("resource_type = ? AND resource_id = ?", filter.ResourceType, filter.ResourceID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count reviews", err, map[string]interface{}{
			"resource_type": filter.ResourceType,
			"resource_id":   filter.ResourceID,
		})
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var reviews []model.Review
	if err := query.Preload("Author").
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		logger.Error("Failed to find reviews by resource", err, map[string]interface{}{
			"resource_type": filter.ResourceType,
			"resource_id":   filter.ResourceID,
		})
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *reviewRepository) FindByAuthor(authorID uint) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		logger.Error("Failed to find reviews by author", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindReaction(reviewID, userID uint) (*model.Reaction, error) {
	var reaction model.Reaction
	if err := r.db.Where("review_id = ? AND user_id = ?", reviewID, userID).
		First(&reaction).Error; err != nil {
		return nil, err
	}
	return &reaction, nil
}
