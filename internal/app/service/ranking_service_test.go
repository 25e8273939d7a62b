package service

import (
	"context"
	"testing"
	"time"

	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/internal/app/repository"
	"github.com/foodierank/foodierank-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRankingServiceTest(t *testing.T) (RankingService, ReviewService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	restaurantRepo := repository.NewRestaurantRepository(testDB)
	rankingService := NewRankingService(restaurantRepo, testDB, 10, time.Minute)
	reviewService := NewReviewService(repository.NewReviewRepository(testDB), testDB)

	return rankingService, reviewService, testDB
}

func seedRestaurant(t *testing.T, testDB *gorm.DB, name string, approved bool) *model.Restaurant {
	t.Helper()
	restaurant := &model.Restaurant{Name: name, ProposedBy: 1, Approved: approved}
	require.NoError(t, testDB.Create(restaurant).Error)
	return restaurant
}

func seedUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "hash", Name: email, Role: model.RoleUser}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestRankingService_GetTopRestaurants_Ordering(t *testing.T) {
	rankingService, reviewService, testDB := setupRankingServiceTest(t)

	first := seedRestaurant(t, testDB, "일등집", true)
	second := seedRestaurant(t, testDB, "이등집", true)
	seedRestaurant(t, testDB, "리뷰없는집", true)
	seedRestaurant(t, testDB, "대기중인집", false)

	u1 := seedUser(t, testDB, "u1@example.com")
	u2 := seedUser(t, testDB, "u2@example.com")

	_, err := reviewService.CreateReview(u1.ID, model.ResourceRestaurant, first.ID, 5, "")
	require.NoError(t, err)
	_, err = reviewService.CreateReview(u2.ID, model.ResourceRestaurant, first.ID, 5, "")
	require.NoError(t, err)
	_, err = reviewService.CreateReview(u1.ID, model.ResourceRestaurant, second.ID, 3, "")
	require.NoError(t, err)

	top, err := rankingService.GetTopRestaurants(context.Background())
	require.NoError(t, err)

	// 승인된 음식점만, 점수 내림차순으로
	require.Len(t, top, 3)
	assert.Equal(t, first.ID, top[0].ID)
	assert.Equal(t, second.ID, top[1].ID)
	assert.Zero(t, top[2].RankingScore)
}

func TestRankingService_GetTopRestaurants_RespectsLimit(t *testing.T) {
	_, _, testDB := setupRankingServiceTest(t)

	for _, name := range []string{"가", "나", "다"} {
		seedRestaurant(t, testDB, name, true)
	}

	limited := NewRankingService(repository.NewRestaurantRepository(testDB), testDB, 2, time.Minute)
	top, err := limited.GetTopRestaurants(context.Background())
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestRankingService_ReconcileAggregates_FixesDrift(t *testing.T) {
	rankingService, reviewService, testDB := setupRankingServiceTest(t)

	restaurant := seedRestaurant(t, testDB, "어긋난집", true)
	user := seedUser(t, testDB, "u1@example.com")

	_, err := reviewService.CreateReview(user.ID, model.ResourceRestaurant, restaurant.ID, 4, "")
	require.NoError(t, err)

	// 집계를 고의로 어긋나게 만든다
	require.NoError(t, testDB.Model(&model.Restaurant{}).
		Where("id = ?", restaurant.ID).
		UpdateColumns(map[string]interface{}{"rating_count": 7, "rating_sum": 30}).Error)

	err = rankingService.ReconcileAggregates()
	require.NoError(t, err)

	var fixed model.Restaurant
	testDB.First(&fixed, restaurant.ID)
	assert.Equal(t, 1, fixed.RatingCount)
	assert.Equal(t, 4, fixed.RatingSum)
	assert.InDelta(t, 4.277, fixed.RankingScore, 1e-9)
}

func TestRankingService_ReconcileAggregates_RecountsInsideLockingTx(t *testing.T) {
	rankingService, reviewService, testDB := setupRankingServiceTest(t)

	restaurant := seedRestaurant(t, testDB, "국밥집", true)
	dish := &model.Dish{Name: "순대국밥", RestaurantID: restaurant.ID}
	require.NoError(t, testDB.Create(dish).Error)

	user := seedUser(t, testDB, "u1@example.com")
	_, err := reviewService.CreateReview(user.ID, model.ResourceDish, dish.ID, 5, "")
	require.NoError(t, err)

	// 음식점과 메뉴 집계를 모두 어긋나게 만든다
	require.NoError(t, testDB.Model(&model.Restaurant{}).
		Where("id = ?", restaurant.ID).
		UpdateColumns(map[string]interface{}{"rating_count": 3, "rating_sum": 9}).Error)
	require.NoError(t, testDB.Model(&model.Dish{}).
		Where("id = ?", dish.ID).
		UpdateColumns(map[string]interface{}{"rating_count": 3, "rating_sum": 9}).Error)

	require.NoError(t, rankingService.ReconcileAggregates())

	// 재집계는 잠긴 행과 같은 트랜잭션의 리뷰 스냅샷을 쓰므로
	// 두 리소스 모두 리뷰 테이블 기준으로 복원된다
	var fixedRestaurant model.Restaurant
	testDB.First(&fixedRestaurant, restaurant.ID)
	assert.Zero(t, fixedRestaurant.RatingCount)
	assert.Zero(t, fixedRestaurant.RatingSum)

	var fixedDish model.Dish
	testDB.First(&fixedDish, dish.ID)
	assert.Equal(t, 1, fixedDish.RatingCount)
	assert.Equal(t, 5, fixedDish.RatingSum)
}

func TestRankingService_ReconcileAggregates_CleanStateUntouched(t *testing.T) {
	rankingService, reviewService, testDB := setupRankingServiceTest(t)

	restaurant := seedRestaurant(t, testDB, "정상집", true)
	user := seedUser(t, testDB, "u1@example.com")

	_, err := reviewService.CreateReview(user.ID, model.ResourceRestaurant, restaurant.ID, 5, "")
	require.NoError(t, err)

	var before model.Restaurant
	testDB.First(&before, restaurant.ID)

	err = rankingService.ReconcileAggregates()
	require.NoError(t, err)

	var after model.Restaurant
	testDB.First(&after, restaurant.ID)
	assert.Equal(t, before.RatingCount, after.RatingCount)
	assert.Equal(t, before.RatingSum, after.RatingSum)
	assert.Equal(t, before.RankingScore, after.RankingScore)
}
