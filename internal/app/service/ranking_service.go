package service

import (
	"context"
	"time"

	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/internal/app/repository"
	"github.com/foodierank/foodierank-backend/internal/ranking"
	"github.com/foodierank/foodierank-backend/pkg/logger"
	"github.com/foodierank/foodierank-backend/pkg/redis"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RankingService interface {
	GetTopRestaurants(ctx context.Context) ([]model.Restaurant, error)
	ReconcileAggregates() error
}

type rankingService struct {
	restaurantRepo repository.RestaurantRepository
	db             *gorm.DB
	topSize        int
	cacheTTL       time.Duration
}

func NewRankingService(
	restaurantRepo repository.RestaurantRepository,
	db *gorm.DB,
	topSize int,
	cacheTTL time.Duration,
) RankingService {
	return &rankingService{
		restaurantRepo: restaurantRepo,
		db:             db,
		topSize:        topSize,
		cacheTTL:       cacheTTL,
	}
}

// GetTopRestaurants 랭킹 상위 음식점을 조회한다.
// Redis 캐시를 먼저 보고, 없으면 DB에서 읽어 채운다.
// 캐시 실패는 조회를 막지 않는다.
func (s *rankingService) GetTopRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	var cached []model.Restaurant
	hit, err := redis.GetCachedRanking(ctx, &cached)
	if err != nil {
		logger.Warn("Ranking cache read failed, falling back to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if hit {
		logger.Debug("Ranking served from cache", map[string]interface{}{
			"count": len(cached),
		})
		return cached, nil
	}

	restaurants, err := s.restaurantRepo.FindTopRanked(s.topSize)
	if err != nil {
		return nil, err
	}

	if err := redis.SetCachedRanking(ctx, restaurants, s.cacheTTL); err != nil {
		logger.Warn("Failed to cache ranking", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return restaurants, nil
}

type aggregateRow struct {
	ResourceID  uint
	ReviewCount int
	RatingTotal int
}

// ReconcileAggregates 리뷰 테이블을 기준으로 집계 컬럼의 어긋남을 바로잡는다.
// 정상 경로에서는 집계가 리뷰 트랜잭션과 함께 움직이므로 어긋남이 없어야
// 하고, 이 작업은 야간 안전망이다. 고친 건수를 로그로 남긴다.
func (s *rankingService) ReconcileAggregates() error {
	logger.Info("Starting rating aggregate reconciliation", nil)

	fixedRestaurants, err := s.reconcileRestaurants()
	if err != nil {
		logger.Error("Failed to reconcile restaurant aggregates", err, nil)
		return err
	}

	fixedDishes, err := s.reconcileDishes()
	if err != nil {
		logger.Error("Failed to reconcile dish aggregates", err, nil)
		return err
	}

	if fixedRestaurants > 0 {
		redis.InvalidateRanking(context.Background())
	}

	logger.Info("Rating aggregate reconciliation finished", map[string]interface{}{
		"fixed_restaurants": fixedRestaurants,
		"fixed_dishes":      fixedDishes,
	})
	return nil
}

func (s *rankingService) reconcileRestaurants() (int, error) {
	fixed := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var restaurants []model.Restaurant
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Find(&restaurants).Error; err != nil {
			return err
		}

		// 재집계는 행을 잠근 뒤 같은 트랜잭션에서 한다.
		// 잠금 전에 세면 그 사이 커밋된 리뷰 트랜잭션의 증분을
		// 어긋남으로 오인해 낡은 절대값으로 덮어쓰게 된다.
		truth, err := loadReviewTotals(tx, model.ResourceRestaurant)
		if err != nil {
			return err
		}

		for _, restaurant := range restaurants {
			row := truth[restaurant.ID]
			score := ranking.ComputeScore(row.ReviewCount, row.RatingTotal)
			if restaurant.RatingCount == row.ReviewCount &&
				restaurant.RatingSum == row.RatingTotal &&
				restaurant.RankingScore == score {
				continue
			}

			logger.Warn("Aggregate drift detected on restaurant", map[string]interface{}{
				"restaurant_id": restaurant.ID,
				"stored_count":  restaurant.RatingCount,
				"actual_count":  row.ReviewCount,
				"stored_sum":    restaurant.RatingSum,
				"actual_sum":    row.RatingTotal,
			})

			if err := tx.Model(&model.Restaurant{}).
				Where("id = ?", restaurant.ID).
				UpdateColumns(map[string]interface{}{
					"rating_count":  row.ReviewCount,
					"rating_sum":    row.RatingTotal,
					"ranking_score": score,
				}).Error; err != nil {
				return err
			}
			fixed++
		}
		return nil
	})
	return fixed, err
}

func (s *rankingService) reconcileDishes() (int, error) {
	fixed := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var dishes []model.Dish
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Find(&dishes).Error; err != nil {
			return err
		}

		truth, err := loadReviewTotals(tx, model.ResourceDish)
		if err != nil {
			return err
		}

		for _, dish := range dishes {
			row := truth[dish.ID]
			if dish.RatingCount == row.ReviewCount && dish.RatingSum == row.RatingTotal {
				continue
			}

			logger.Warn("Aggregate drift detected on dish", map[string]interface{}{
				"dish_id":      dish.ID,
				"stored_count": dish.RatingCount,
				"actual_count": row.ReviewCount,
			})

			if err := tx.Model(&model.Dish{}).
				Where("id = ?", dish.ID).
				UpdateColumns(map[string]interface{}{
					"rating_count": row.ReviewCount,
					"rating_sum":   row.RatingTotal,
				}).Error; err != nil {
				return err
			}
			fixed++
		}
		return nil
	})
	return fixed, err
}

// loadReviewTotals 리소스별 살아있는 리뷰 수와 평점 합계를 센다.
// 호출자가 잠금을 잡은 트랜잭션 핸들을 넘겨야 한다.
func loadReviewTotals(tx *gorm.DB, resourceType model.ResourceType) (map[uint]aggregateRow, error) {
	var rows []aggregateRow
	if err := tx.Model(&model.Review{}).
		Select("resource_id, COUNT(*) as review_count, COALESCE(SUM(rating), 0) as rating_total").
		Where("resource_type = ?", resourceType).
		Group("resource_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	truth := make(map[uint]aggregateRow, len(rows))
	for _, row := range rows {
		truth[row.ResourceID] = row
	}
	return truth, nil
}
