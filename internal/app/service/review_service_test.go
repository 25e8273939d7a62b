package service

import (
	"testing"

	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/internal/app/repository"
	"github.com/foodierank/foodierank-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (ReviewService, *gorm.DB, *model.User, *model.User, *model.Restaurant, *model.Dish) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	reviewRepo := repository.NewReviewRepository(testDB)
	reviewService := NewReviewService(reviewRepo, testDB)

	author := &model.User{
		Email:        "author@example.com",
		PasswordHash: "hash",
		Name:         "Author",
		Role:         model.RoleUser,
	}
	testDB.Create(author)

	reader := &model.User{
		Email:        "reader@example.com",
		PasswordHash: "hash",
		Name:         "Reader",
		Role:         model.RoleUser,
	}
	testDB.Create(reader)

	restaurant := &model.Restaurant{
		Name:       "국밥천국",
		Address:    "서울시 마포구 테스트로 1",
		ProposedBy: author.ID,
		Approved:   true,
	}
	testDB.Create(restaurant)

	dish := &model.Dish{
		RestaurantID: restaurant.ID,
		Name:         "순대국밥",
		Price:        9000,
		CreatedBy:    author.ID,
	}
	testDB.Create(dish)

	return reviewService, testDB, author, reader, restaurant, dish
}

func TestReviewService_CreateReview_Success(t *testing.T) {
	reviewService, testDB, author, _, restaurant, _ := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "정말 맛있어요")
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.Equal(t, author.ID, review.AuthorID)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, 0, review.Likes)
	assert.Equal(t, 0, review.Dislikes)

	// Verify aggregates and derived score updated in the same transaction
	var updated model.Restaurant
	testDB.First(&updated, restaurant.ID)
	assert.Equal(t, 1, updated.RatingCount)
	assert.Equal(t, 5, updated.RatingSum)
	assert.InDelta(t, 5.347, updated.RankingScore, 1e-9)
}

func TestReviewService_CreateReview_SecondAuthor(t *testing.T) {
	reviewService, testDB, author, reader, restaurant, _ := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 4, "")
	require.NoError(t, err)
	_, err = reviewService.CreateReview(reader.ID, model.ResourceRestaurant, restaurant.ID, 2, "")
	require.NoError(t, err)

	var updated model.Restaurant
	testDB.First(&updated, restaurant.ID)
	assert.Equal(t, 2, updated.RatingCount)
	assert.Equal(t, 6, updated.RatingSum)
	assert.InDelta(t, 3.33, updated.RankingScore, 1e-9)
}

func TestReviewService_CreateReview_Duplicate(t *testing.T) {
	reviewService, testDB, author, _, restaurant, _ := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "")
	require.NoError(t, err)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 3, "")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	assert.Nil(t, review)

	// Verify aggregates unchanged by the rejected attempt
	var updated model.Restaurant
	testDB.First(&updated, restaurant.ID)
	assert.Equal(t, 1, updated.RatingCount)
	assert.Equal(t, 5, updated.RatingSum)
}

func TestReviewService_CreateReview_SameAuthorDifferentResources(t *testing.T) {
	reviewService, testDB, author, _, restaurant, dish := setupReviewServiceTest(t)

	// 같은 작성자라도 음식점과 메뉴에는 각각 리뷰할 수 있다
	_, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "")
	require.NoError(t, err)
	_, err = reviewService.CreateReview(author.ID, model.ResourceDish, dish.ID, 3, "")
	require.NoError(t, err)

	var updatedDish model.Dish
	testDB.First(&updatedDish, dish.ID)
	assert.Equal(t, 1, updatedDish.RatingCount)
	assert.Equal(t, 3, updatedDish.RatingSum)
}

func TestReviewService_CreateReview_InvalidRating(t *testing.T) {
	reviewService, _, author, _, restaurant, _ := setupReviewServiceTest(t)

	for _, rating := range []int{0, 6, -1} {
		review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, rating, "")
		assert.ErrorIs(t, err, ErrInvalidRating)
		assert.Nil(t, review)
	}
}

func TestReviewService_CreateReview_ResourceNotFound(t *testing.T) {
	reviewService, _, author, _, _, _ := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, 9999, 5, "")
	assert.ErrorIs(t, err, ErrResourceNotFound)
	assert.Nil(t, review)
}

func TestReviewService_CreateReview_UnapprovedRestaurant(t *testing.T) {
	reviewService, testDB, author, _, _, _ := setupReviewServiceTest(t)

	pending := &model.Restaurant{
		Name:       "아직없는집",
		ProposedBy: author.ID,
		Approved:   false,
	}
	testDB.Create(pending)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, pending.ID, 5, "")
	assert.ErrorIs(t, err, ErrResourceNotFound)
	assert.Nil(t, review)
}

func TestReviewService_CreateReview_InvalidResourceType(t *testing.T) {
	reviewService, _, author, _, restaurant, _ := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(author.ID, model.ResourceType("store"), restaurant.ID, 5, "")
	assert.ErrorIs(t, err, ErrInvalidResourceType)
	assert.Nil(t, review)
}

func TestReviewService_UpdateReview_RatingChangeRecomputesScore(t *testing.T) {
	reviewService, testDB, author, _, restaurant, _ := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "처음엔 최고")
	require.NoError(t, err)

	newRating := 4
	newComment := "다시 가보니 그냥 좋음"
	updated, err := reviewService.UpdateReview(review.ID, author.ID, model.RoleUser, &newRating, &newComment)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "다시 가보니 그냥 좋음", updated.Comment)

	// 합계와 점수가 평점 변경을 따라간다. 리뷰 수는 그대로.
	var updatedRestaurant model.Restaurant
	testDB.First(&updatedRestaurant, restaurant.ID)
	assert.Equal(t, 1, updatedRestaurant.RatingCount)
	assert.Equal(t, 4, updatedRestaurant.RatingSum)
	assert.InDelta(t, 4.277, updatedRestaurant.RankingScore, 1e-9)
}

func TestReviewService_UpdateReview_CommentOnlyKeepsAggregates(t *testing.T) {
	reviewService, testDB, author, _, restaurant, _ := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "맛집")
	require.NoError(t, err)

	var before model.Restaurant
	testDB.First(&before, restaurant.ID)

	newComment := "여전히 맛집"
	updated, err := reviewService.UpdateReview(review.ID, author.ID, model.RoleUser, nil, &newComment)
	require.NoError(t, err)
	assert.Equal(t, "여전히 맛집", updated.Comment)
	assert.Equal(t, 5, updated.Rating)

	var after model.Restaurant
	testDB.First(&after, restaurant.ID)
	assert.Equal(t, before.RatingCount, after.RatingCount)
	assert.Equal(t, before.RatingSum, after.RatingSum)
	assert.Equal(t, before.RankingScore, after.RankingScore)
}

func TestReviewService_UpdateReview_Forbidden(t *testing.T) {
	reviewService, _, author, reader, restaurant, _ := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "")
	require.NoError(t, err)

	badRating := 1
	badComment := "남의 리뷰"
	updated, err := reviewService.UpdateReview(review.ID, reader.ID, model.RoleUser, &badRating, &badComment)
	assert.ErrorIs(t, err, ErrReviewForbidden)
	assert.Nil(t, updated)
}

func TestReviewService_UpdateReview_AdminCanEditOthersReview(t *testing.T) {
	reviewService, testDB, author, _, restaurant, _ := setupReviewServiceTest(t)

	admin := &model.User{
		Email:        "admin@example.com",
		PasswordHash: "hash",
		Name:         "Admin",
		Role:         model.RoleAdmin,
	}
	testDB.Create(admin)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "광고성 리뷰")
	require.NoError(t, err)

	// 관리자는 작성자가 아니어도 수정할 수 있다
	newRating := 2
	newComment := "관리자 정정"
	updated, err := reviewService.UpdateReview(review.ID, admin.ID, model.RoleAdmin, &newRating, &newComment)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, "관리자 정정", updated.Comment)
	assert.Equal(t, author.ID, updated.AuthorID)

	var updatedRestaurant model.Restaurant
	testDB.First(&updatedRestaurant, restaurant.ID)
	assert.Equal(t, 1, updatedRestaurant.RatingCount)
	assert.Equal(t, 2, updatedRestaurant.RatingSum)
}

func TestReviewService_UpdateReview_RatingOnlyKeepsComment(t *testing.T) {
	reviewService, testDB, author, _, restaurant, _ := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "원래 코멘트")
	require.NoError(t, err)

	// 평점만 보내면 코멘트는 그대로 남는다
	newRating := 3
	updated, err := reviewService.UpdateReview(review.ID, author.ID, model.RoleUser, &newRating, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Rating)
	assert.Equal(t, "원래 코멘트", updated.Comment)

	var stored model.Review
	testDB.First(&stored, review.ID)
	assert.Equal(t, "원래 코멘트", stored.Comment)
	assert.Equal(t, 3, stored.Rating)
}

func TestReviewService_UpdateReview_NotFound(t *testing.T) {
	reviewService, _, author, _, _, _ := setupReviewServiceTest(t)

	newRating := 3
	updated, err := reviewService.UpdateReview(9999, author.ID, model.RoleUser, &newRating, nil)
	assert.ErrorIs(t, err, ErrReviewNotFound)
	assert.Nil(t, updated)
}

func TestReviewService_DeleteReview_Success(t *testing.T) {
	reviewService, testDB, author, reader, restaurant, _ := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "")
	require.NoError(t, err)
	_, err = reviewService.React(review.ID, reader.ID, model.ReactionLike)
	require.NoError(t, err)

	err = reviewService.DeleteReview(review.ID, author.ID, model.RoleUser)
	require.NoError(t, err)

	// Review, its reactions and its aggregate contribution are all gone
	var reviewCount, reactionCount int64
	testDB.Model(&model.Review{}).Where("id = ?", review.ID).Count(&reviewCount)
	testDB.Model(&model.Reaction{}).Where("review_id = ?", review.ID).Count(&reactionCount)
	assert.Zero(t, reviewCount)
	assert.Zero(t, reactionCount)

	var updated model.Restaurant
	testDB.First(&updated, restaurant.ID)
	assert.Equal(t, 0, updated.RatingCount)
	assert.Equal(t, 0, updated.RatingSum)
	assert.Zero(t, updated.RankingScore)
}

func TestReviewService_DeleteReview_AdminCanDelete(t *testing.T) {
	reviewService, testDB, author, _, restaurant, _ := setupReviewServiceTest(t)

	admin := &model.User{
		Email:        "admin@example.com",
		PasswordHash: "hash",
		Name:         "Admin",
		Role:         model.RoleAdmin,
	}
	testDB.Create(admin)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "")
	require.NoError(t, err)

	err = reviewService.DeleteReview(review.ID, admin.ID, model.RoleAdmin)
	assert.NoError(t, err)
}

func TestReviewService_DeleteReview_Forbidden(t *testing.T) {
	reviewService, _, author, reader, restaurant, _ := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "")
	require.NoError(t, err)

	err = reviewService.DeleteReview(review.ID, reader.ID, model.RoleUser)
	assert.ErrorIs(t, err, ErrReviewForbidden)
}

func TestReviewService_React_LikeThenSwitchThenRemove(t *testing.T) {
	reviewService, _, author, reader, restaurant, _ := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "")
	require.NoError(t, err)

	// like
	updated, err := reviewService.React(review.ID, reader.ID, model.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Likes)
	assert.Equal(t, 0, updated.Dislikes)

	// like -> dislike 전환: 두 카운터가 함께 움직인다
	updated, err = reviewService.React(review.ID, reader.ID, model.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Likes)
	assert.Equal(t, 1, updated.Dislikes)

	// remove
	updated, err = reviewService.React(review.ID, reader.ID, model.ReactionRemove)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Likes)
	assert.Equal(t, 0, updated.Dislikes)
}

func TestReviewService_React_Idempotent(t *testing.T) {
	reviewService, testDB, author, reader, restaurant, _ := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		updated, err := reviewService.React(review.ID, reader.ID, model.ReactionLike)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.Likes)
	}

	// 리액션 행도 하나만 존재한다
	var reactionCount int64
	testDB.Model(&model.Reaction{}).Where("review_id = ?", review.ID).Count(&reactionCount)
	assert.Equal(t, int64(1), reactionCount)
}

func TestReviewService_React_RemoveWithoutReaction(t *testing.T) {
	reviewService, _, author, reader, restaurant, _ := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "")
	require.NoError(t, err)

	updated, err := reviewService.React(review.ID, reader.ID, model.ReactionRemove)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Likes)
	assert.Equal(t, 0, updated.Dislikes)
}

func TestReviewService_React_SelfReaction(t *testing.T) {
	reviewService, _, author, _, restaurant, _ := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "")
	require.NoError(t, err)

	updated, err := reviewService.React(review.ID, author.ID, model.ReactionLike)
	assert.ErrorIs(t, err, ErrSelfReaction)
	assert.Nil(t, updated)
}

func TestReviewService_React_ReviewNotFound(t *testing.T) {
	reviewService, _, _, reader, _, _ := setupReviewServiceTest(t)

	updated, err := reviewService.React(9999, reader.ID, model.ReactionLike)
	assert.ErrorIs(t, err, ErrReviewNotFound)
	assert.Nil(t, updated)
}

func TestReviewService_React_InvalidType(t *testing.T) {
	reviewService, _, author, reader, restaurant, _ := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "")
	require.NoError(t, err)

	updated, err := reviewService.React(review.ID, reader.ID, model.ReactionType("love"))
	assert.ErrorIs(t, err, ErrInvalidReactionType)
	assert.Nil(t, updated)
}

func TestReviewService_GetResourceReviews(t *testing.T) {
	reviewService, _, author, reader, restaurant, _ := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "")
	require.NoError(t, err)
	_, err = reviewService.CreateReview(reader.ID, model.ResourceRestaurant, restaurant.ID, 3, "")
	require.NoError(t, err)

	reviews, total, err := reviewService.GetResourceReviews(model.ResourceRestaurant, restaurant.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, reviews, 2)

	// 페이지 크기 1로 나눠서 조회
	page1, total, err := reviewService.GetResourceReviews(model.ResourceRestaurant, restaurant.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, page1, 1)
}

func TestReviewService_GetUserReviews(t *testing.T) {
	reviewService, _, author, _, restaurant, dish := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(author.ID, model.ResourceRestaurant, restaurant.ID, 5, "")
	require.NoError(t, err)
	_, err = reviewService.CreateReview(author.ID, model.ResourceDish, dish.ID, 4, "")
	require.NoError(t, err)

	reviews, err := reviewService.GetUserReviews(author.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}
