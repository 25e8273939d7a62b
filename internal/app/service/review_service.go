package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/internal/app/repository"
	"github.com/foodierank/foodierank-backend/internal/ranking"
	"github.com/foodierank/foodierank-backend/pkg/logger"
	"github.com/foodierank/foodierank-backend/pkg/redis"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrResourceNotFound    = errors.New("review target not found")
	ErrInvalidResourceType = errors.New("invalid resource type")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrAlreadyReviewed     = errors.New("user already reviewed this resource")
	ErrReviewForbidden     = errors.New("review does not belong to user")
	ErrSelfReaction        = errors.New("cannot react to own review")
	ErrInvalidReactionType = errors.New("invalid reaction type")
)

type ReviewService interface {
	CreateReview(authorID uint, resourceType model.ResourceType, resourceID uint, rating int, comment string) (*model.Review, error)
	UpdateReview(reviewID, requesterID uint, requesterRole model.UserRole, rating *int, comment *string) (*model.Review, error)
	DeleteReview(reviewID, requesterID uint, requesterRole model.UserRole) error
	React(reviewID, userID uint, reaction model.ReactionType) (*model.Review, error)
	GetResourceReviews(resourceType model.ResourceType, resourceID uint, page, pageSize int) ([]model.Review, int64, error)
	GetUserReviews(userID uint) ([]model.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	db         *gorm.DB
}

func NewReviewService(reviewRepo repository.ReviewRepository, db *gorm.DB) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		db:         db,
	}
}

// targetAggregate 잠금 시점의 리뷰 대상 집계 스냅샷
type targetAggregate struct {
	count    int
	sum      int
	approved bool // 음식점에만 의미 있음
}

// lockTarget 리뷰 대상(음식점/메뉴) 행을 FOR UPDATE로 잠그고 현재 집계를 읽는다.
// 같은 대상에 대한 동시 리뷰 변경은 여기서 직렬화된다.
func lockTarget(tx *gorm.DB, resourceType model.ResourceType, resourceID uint) (*targetAggregate, error) {
	switch resourceType {
	case model.ResourceRestaurant:
		var restaurant model.Restaurant
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&restaurant, resourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrResourceNotFound
			}
			return nil, err
		}
		return &targetAggregate{
			count:    restaurant.RatingCount,
			sum:      restaurant.RatingSum,
			approved: restaurant.Approved,
		}, nil
	case model.ResourceDish:
		var dish model.Dish
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&dish, resourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrResourceNotFound
			}
			return nil, err
		}
		return &targetAggregate{
			count:    dish.RatingCount,
			sum:      dish.RatingSum,
			approved: true,
		}, nil
	default:
		return nil, ErrInvalidResourceType
	}
}

// shiftAggregates 집계 컬럼을 상대 증분으로만 갱신한다.
// 절대값 대입은 동시 트랜잭션의 증분을 덮어쓸 수 있으므로 쓰지 않는다.
// 음식점이면 잠금 하에 계산한 새 집계로 랭킹 점수도 함께 갱신한다.
func shiftAggregates(tx *gorm.DB, resourceType model.ResourceType, resourceID uint, countDelta, sumDelta, newCount, newSum int) error {
	switch resourceType {
	case model.ResourceRestaurant:
		return tx.Model(&model.Restaurant{}).
			Where("id = ?", resourceID).
			UpdateColumns(map[string]interface{}{
				"rating_count":  gorm.Expr("rating_count + ?", countDelta),
				"rating_sum":    gorm.Expr("rating_sum + ?", sumDelta),
				"ranking_score": ranking.ComputeScore(newCount, newSum),
				"updated_at":    time.Now(),
			}).Error
	case model.ResourceDish:
		return tx.Model(&model.Dish{}).
			Where("id = ?", resourceID).
			UpdateColumns(map[string]interface{}{
				"rating_count": gorm.Expr("rating_count + ?", countDelta),
				"rating_sum":   gorm.Expr("rating_sum + ?", sumDelta),
				"updated_at":   time.Now(),
			}).Error
	default:
		return ErrInvalidResourceType
	}
}

func (s *reviewService) CreateReview(authorID uint, resourceType model.ResourceType, resourceID uint, rating int, comment string) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"author_id":     authorID,
		"resource_type": resourceType,
		"resource_id":   resourceID,
		"rating":        rating,
	})

	if !resourceType.Valid() {
		return nil, ErrInvalidResourceType
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during review creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"author_id": authorID,
			})
		}
	}()

	target, err := lockTarget(tx, resourceType, resourceID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, ErrResourceNotFound) {
			logger.Warn("Review target not found", map[string]interface{}{
				"resource_type": resourceType,
				"resource_id":   resourceID,
			})
		}
		return nil, err
	}
	if resourceType == model.ResourceRestaurant && !target.approved {
		tx.Rollback()
		return nil, ErrResourceNotFound
	}

	// 대상 행을 잠근 상태에서 중복을 재확인한다.
	// 유니크 인덱스가 최후 방어선이지만 여기서 걸러야 에러를 구분해 줄 수 있다.
	var existing int64
	if err := tx.Model(&model.Review{}).
		Where("resource_type = ? AND resource_id = ? AND author_id = ?", resourceType, resourceID, authorID).
		Count(&existing).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to check existing review", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}
	if existing > 0 {
		tx.Rollback()
		logger.Warn("User already reviewed this resource", map[string]interface{}{
			"author_id":     authorID,
			"resource_type": resourceType,
			"resource_id":   resourceID,
		})
		return nil, ErrAlreadyReviewed
	}

	review := &model.Review{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		AuthorID:     authorID,
		Rating:       rating,
		Comment:      comment,
	}
	if err := tx.Create(review).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create review", err, map[string]interface{}{
			"author_id":   authorID,
			"resource_id": resourceID,
		})
		return nil, err
	}

	if err := shiftAggregates(tx, resourceType, resourceID, 1, rating, target.count+1, target.sum+rating); err != nil {
		tx.Rollback()
		logger.Error("Failed to update rating aggregates", err, map[string]interface{}{
			"resource_type": resourceType,
			"resource_id":   resourceID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit review creation", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}

	if resourceType == model.ResourceRestaurant {
		redis.InvalidateRanking(context.Background())
	}

	logger.Info("Review created successfully", map[string]interface{}{
		"review_id":     review.ID,
		"author_id":     authorID,
		"resource_type": resourceType,
		"resource_id":   resourceID,
	})
	return review, nil
}

func (s *reviewService) UpdateReview(reviewID, requesterID uint, requesterRole model.UserRole, rating *int, comment *string) (*model.Review, error) {
	logger.Info("Updating review", map[string]interface{}{
		"review_id":    reviewID,
		"requester_id": requesterID,
	})

	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, ErrInvalidRating
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during review update, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"review_id": reviewID,
			})
		}
	}()

	var review model.Review
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&review, reviewID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		logger.Error("Failed to fetch review for update", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return nil, err
	}

	if review.AuthorID != requesterID && requesterRole != model.RoleAdmin {
		tx.Rollback()
		logger.Warn("Review update forbidden", map[string]interface{}{
			"review_id":    reviewID,
			"author_id":    review.AuthorID,
			"requester_id": requesterID,
		})
		return nil, ErrReviewForbidden
	}

	// 전달된 필드만 바꾼다. 평점/내용 외의 필드는 이 경로로 쓸 수 없다.
	delta := 0
	updates := map[string]interface{}{}
	if rating != nil {
		delta = *rating - review.Rating
		updates["rating"] = *rating
	}
	if comment != nil {
		updates["comment"] = *comment
	}

	if len(updates) == 0 {
		tx.Rollback()
		return &review, nil
	}

	if err := tx.Model(&review).Updates(updates).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to update review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return nil, err
	}

	// 평점이 바뀌면 합계와 파생 점수를 같은 트랜잭션에서 따라 바꾼다.
	// 리뷰 수는 변하지 않는다.
	if delta != 0 {
		target, err := lockTarget(tx, review.ResourceType, review.ResourceID)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := shiftAggregates(tx, review.ResourceType, review.ResourceID, 0, delta, target.count, target.sum+delta); err != nil {
			tx.Rollback()
			logger.Error("Failed to update rating aggregates", err, map[string]interface{}{
				"review_id": reviewID,
			})
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit review update", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return nil, err
	}

	if delta != 0 && review.ResourceType == model.ResourceRestaurant {
		redis.InvalidateRanking(context.Background())
	}

	logger.Info("Review updated successfully", map[string]interface{}{
		"review_id":    reviewID,
		"rating_delta": delta,
	})
	return &review, nil
}

func (s *reviewService) DeleteReview(reviewID, requesterID uint, requesterRole model.UserRole) error {
	logger.Info("Deleting review", map[string]interface{}{
		"review_id":    reviewID,
		"requester_id": requesterID,
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during review deletion, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"review_id": reviewID,
			})
		}
	}()

	var review model.Review
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&review, reviewID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		logger.Error("Failed to fetch review for deletion", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	if review.AuthorID != requesterID && requesterRole != model.RoleAdmin {
		tx.Rollback()
		logger.Warn("Review deletion forbidden", map[string]interface{}{
			"review_id":    reviewID,
			"author_id":    review.AuthorID,
			"requester_id": requesterID,
		})
		return ErrReviewForbidden
	}

	target, err := lockTarget(tx, review.ResourceType, review.ResourceID)
	if err != nil {
		tx.Rollback()
		return err
	}

	// 리액션은 리뷰와 함께 같은 트랜잭션에서 지운다
	if err := tx.Where("review_id = ?", reviewID).Delete(&model.Reaction{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete review reactions", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	if err := tx.Delete(&model.Review{}, reviewID).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	if err := shiftAggregates(tx, review.ResourceType, review.ResourceID, -1, -review.Rating, target.count-1, target.sum-review.Rating); err != nil {
		tx.Rollback()
		logger.Error("Failed to update rating aggregates", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit review deletion", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	if review.ResourceType == model.ResourceRestaurant {
		redis.InvalidateRanking(context.Background())
	}

	logger.Info("Review deleted successfully", map[string]interface{}{
		"review_id": reviewID,
	})
	return nil
}

func (s *reviewService) React(reviewID, userID uint, reaction model.ReactionType) (*model.Review, error) {
	logger.Info("Reacting to review", map[string]interface{}{
		"review_id": reviewID,
		"user_id":   userID,
		"reaction":  reaction,
	})

	if reaction != model.ReactionLike && reaction != model.ReactionDislike && reaction != model.ReactionRemove {
		return nil, ErrInvalidReactionType
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during reaction, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"review_id": reviewID,
			})
		}
	}()

	var review model.Review
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&review, reviewID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		logger.Error("Failed to fetch review for reaction", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return nil, err
	}

	if review.AuthorID == userID {
		tx.Rollback()
		logger.Warn("Self reaction rejected", map[string]interface{}{
			"review_id": reviewID,
			"user_id":   userID,
		})
		return nil, ErrSelfReaction
	}

	var existing model.Reaction
	hasExisting := true
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			logger.Error("Failed to fetch existing reaction", err, map[string]interface{}{
				"review_id": reviewID,
				"user_id":   userID,
			})
			return nil, err
		}
		hasExisting = false
	}

	// 상태 전이와 카운터 증분을 함께 결정한다.
	// 이미 같은 상태면 아무것도 하지 않는다(멱등).
	likesDelta, dislikesDelta := 0, 0
	switch {
	case !hasExisting && reaction == model.ReactionRemove:
		// 지울 리액션이 없으면 no-op
	case !hasExisting:
		newReaction := &model.Reaction{
			ReviewID: reviewID,
			UserID:   userID,
			Type:     reaction,
		}
		if err := tx.Create(newReaction).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to create reaction", err, map[string]interface{}{
				"review_id": reviewID,
				"user_id":   userID,
			})
			return nil, err
		}
		if reaction == model.ReactionLike {
			likesDelta = 1
		} else {
			dislikesDelta = 1
		}
	case reaction == model.ReactionRemove:
		if err := tx.Delete(&model.Reaction{}, existing.ID).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to delete reaction", err, map[string]interface{}{
				"reaction_id": existing.ID,
			})
			return nil, err
		}
		if existing.Type == model.ReactionLike {
			likesDelta = -1
		} else {
			dislikesDelta = -1
		}
	case existing.Type == reaction:
		// 멱등: 같은 리액션 반복은 상태를 바꾸지 않는다
	default:
		if err := tx.Model(&model.Reaction{}).
			Where("id = ?", existing.ID).
			Update("type", reaction).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to switch reaction", err, map[string]interface{}{
				"reaction_id": existing.ID,
			})
			return nil, err
		}
		if reaction == model.ReactionLike {
			likesDelta, dislikesDelta = 1, -1
		} else {
			likesDelta, dislikesDelta = -1, 1
		}
	}

	if likesDelta != 0 || dislikesDelta != 0 {
		if err := tx.Model(&model.Review{}).
			Where("id = ?", reviewID).
			UpdateColumns(map[string]interface{}{
				"likes":    gorm.Expr("likes + ?", likesDelta),
				"dislikes": gorm.Expr("dislikes + ?", dislikesDelta),
			}).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to update reaction counters", err, map[string]interface{}{
				"review_id": reviewID,
			})
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit reaction", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return nil, err
	}

	logger.Info("Reaction applied", map[string]interface{}{
		"review_id":      reviewID,
		"user_id":        userID,
		"reaction":       reaction,
		"likes_delta":    likesDelta,
		"dislikes_delta": dislikesDelta,
	})

	// 커밋된 증분을 잠금 시점 스냅샷에 반영해 돌려준다.
	// 커밋 후 재조회는 그 사이 리뷰가 지워지면 NotFound가 되는 틈이 있다.
	review.Likes += likesDelta
	review.Dislikes += dislikesDelta
	return &review, nil
}

func (s *reviewService) GetResourceReviews(resourceType model.ResourceType, resourceID uint, page, pageSize int) ([]model.Review, int64, error) {
	if !resourceType.Valid() {
		return nil, 0, ErrInvalidResourceType
	}

	return s.reviewRepo.FindByResource(repository.ReviewFilter{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Page:         page,
		PageSize:     pageSize,
	})
}

func (s *reviewService) GetUserReviews(userID uint) ([]model.Review, error) {
	return s.reviewRepo.FindByAuthor(userID)
}
