package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/internal/app/repository"
	"github.com/foodierank/foodierank-backend/internal/app/service"
	"github.com/foodierank/foodierank-backend/internal/db"
	"github.com/foodierank/foodierank-backend/internal/middleware"
	"github.com/foodierank/foodierank-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const reviewTestSecret = "test-secret"

func setupReviewControllerTest(t *testing.T) (*gin.Engine, *gorm.DB, *model.User, *model.User, *model.Restaurant) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	reviewRepo := repository.NewReviewRepository(testDB)
	reviewService := service.NewReviewService(reviewRepo, testDB)
	ctrl := NewReviewController(reviewService)
	authMiddleware := middleware.NewAuthMiddleware(reviewTestSecret)

	router := gin.New()
	router.POST("/reviews", authMiddleware.Authenticate(), ctrl.CreateReview)
	router.PUT("/reviews/:id", authMiddleware.Authenticate(), ctrl.UpdateReview)
	router.DELETE("/reviews/:id", authMiddleware.Authenticate(), ctrl.DeleteReview)
	router.POST("/reviews/:id/reaction", authMiddleware.Authenticate(), ctrl.React)
	router.GET("/reviews", ctrl.ListResourceReviews)

	author := &model.User{Email: "author@example.com", PasswordHash: "hash", Name: "Author", Role: model.RoleUser}
	testDB.Create(author)
	reader := &model.User{Email: "reader@example.com", PasswordHash: "hash", Name: "Reader", Role: model.RoleUser}
	testDB.Create(reader)

	restaurant := &model.Restaurant{Name: "국밥천국", ProposedBy: author.ID, Approved: true}
	testDB.Create(restaurant)

	return router, testDB, author, reader, restaurant
}

func tokenFor(t *testing.T, user *model.User) string {
	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), reviewTestSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return tokens.AccessToken
}

func doJSON(router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReviewController_CreateReview_Success(t *testing.T) {
	router, _, author, _, restaurant := setupReviewControllerTest(t)

	w := doJSON(router, "POST", "/reviews", tokenFor(t, author), CreateReviewRequest{
		ResourceType: "restaurant",
		ResourceID:   restaurant.ID,
		Rating:       5,
		Comment:      "인생 국밥",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Review created successfully", response["message"])
	assert.NotNil(t, response["review"])
}

func TestReviewController_CreateReview_Unauthorized(t *testing.T) {
	router, _, _, _, restaurant := setupReviewControllerTest(t)

	w := doJSON(router, "POST", "/reviews", "", CreateReviewRequest{
		ResourceType: "restaurant",
		ResourceID:   restaurant.ID,
		Rating:       5,
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReviewController_CreateReview_Duplicate(t *testing.T) {
	router, _, author, _, restaurant := setupReviewControllerTest(t)

	token := tokenFor(t, author)
	first := doJSON(router, "POST", "/reviews", token, CreateReviewRequest{
		ResourceType: "restaurant", ResourceID: restaurant.ID, Rating: 5,
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(router, "POST", "/reviews", token, CreateReviewRequest{
		ResourceType: "restaurant", ResourceID: restaurant.ID, Rating: 3,
	})
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "REVIEW_ALREADY_EXISTS")
}

func TestReviewController_CreateReview_InvalidRating(t *testing.T) {
	router, _, author, _, restaurant := setupReviewControllerTest(t)

	w := doJSON(router, "POST", "/reviews", tokenFor(t, author), CreateReviewRequest{
		ResourceType: "restaurant", ResourceID: restaurant.ID, Rating: 9,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "REVIEW_INVALID_RATING")
}

func TestReviewController_UpdateReview_Forbidden(t *testing.T) {
	router, _, author, reader, restaurant := setupReviewControllerTest(t)

	created := doJSON(router, "POST", "/reviews", tokenFor(t, author), CreateReviewRequest{
		ResourceType: "restaurant", ResourceID: restaurant.ID, Rating: 5,
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var response struct {
		Review model.Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &response))

	rating := 1
	w := doJSON(router, "PUT", fmt.Sprintf("/reviews/%d", response.Review.ID), tokenFor(t, reader), UpdateReviewRequest{
		Rating: &rating,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReviewController_UpdateReview_AdminEditsOthersReview(t *testing.T) {
	router, testDB, author, _, restaurant := setupReviewControllerTest(t)

	admin := &model.User{Email: "admin@example.com", PasswordHash: "hash", Name: "Admin", Role: model.RoleAdmin}
	testDB.Create(admin)

	created := doJSON(router, "POST", "/reviews", tokenFor(t, author), CreateReviewRequest{
		ResourceType: "restaurant", ResourceID: restaurant.ID, Rating: 5, Comment: "바이럴 리뷰",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var response struct {
		Review model.Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &response))

	rating := 2
	w := doJSON(router, "PUT", fmt.Sprintf("/reviews/%d", response.Review.ID), tokenFor(t, admin), UpdateReviewRequest{
		Rating: &rating,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Review model.Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 2, updated.Review.Rating)
	// 평점만 보냈으므로 코멘트는 유지된다
	assert.Equal(t, "바이럴 리뷰", updated.Review.Comment)
	assert.Equal(t, author.ID, updated.Review.AuthorID)

	var storedRestaurant model.Restaurant
	testDB.First(&storedRestaurant, restaurant.ID)
	assert.Equal(t, 2, storedRestaurant.RatingSum)
}

func TestReviewController_React_SelfReaction(t *testing.T) {
	router, _, author, _, restaurant := setupReviewControllerTest(t)

	token := tokenFor(t, author)
	created := doJSON(router, "POST", "/reviews", token, CreateReviewRequest{
		ResourceType: "restaurant", ResourceID: restaurant.ID, Rating: 5,
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var response struct {
		Review model.Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &response))

	w := doJSON(router, "POST", fmt.Sprintf("/reviews/%d/reaction", response.Review.ID), token, ReactionRequest{
		Action: "like",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReviewController_React_Success(t *testing.T) {
	router, _, author, reader, restaurant := setupReviewControllerTest(t)

	created := doJSON(router, "POST", "/reviews", tokenFor(t, author), CreateReviewRequest{
		ResourceType: "restaurant", ResourceID: restaurant.ID, Rating: 5,
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var response struct {
		Review model.Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &response))

	w := doJSON(router, "POST", fmt.Sprintf("/reviews/%d/reaction", response.Review.ID), tokenFor(t, reader), ReactionRequest{
		Action: "like",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Review model.Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 1, updated.Review.Likes)
}

func TestReviewController_DeleteReview_Success(t *testing.T) {
	router, testDB, author, _, restaurant := setupReviewControllerTest(t)

	token := tokenFor(t, author)
	created := doJSON(router, "POST", "/reviews", token, CreateReviewRequest{
		ResourceType: "restaurant", ResourceID: restaurant.ID, Rating: 5,
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var response struct {
		Review model.Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &response))

	w := doJSON(router, "DELETE", fmt.Sprintf("/reviews/%d", response.Review.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated model.Restaurant
	testDB.First(&updated, restaurant.ID)
	assert.Zero(t, updated.RatingCount)
}

func TestReviewController_ListResourceReviews(t *testing.T) {
	router, _, author, reader, restaurant := setupReviewControllerTest(t)

	for _, user := range []*model.User{author, reader} {
		w := doJSON(router, "POST", "/reviews", tokenFor(t, user), CreateReviewRequest{
			ResourceType: "restaurant", ResourceID: restaurant.ID, Rating: 4,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(router, "GET", fmt.Sprintf("/reviews?resource_type=restaurant&resource_id=%d", restaurant.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Reviews []model.Review `json:"reviews"`
		Total   int64          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(2), response.Total)
	assert.Len(t, response.Reviews, 2)
}
