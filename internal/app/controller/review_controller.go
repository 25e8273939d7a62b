package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/internal/app/service"
	apperrors "github.com/foodierank/foodierank-backend/internal/errors"
	"github.com/foodierank/foodierank-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

type CreateReviewRequest struct {
	ResourceType string `json:"resource_type" binding:"required"`
	ResourceID   uint   `json:"resource_id" binding:"required"`
	Rating       int    `json:"rating" binding:"required"`
	Comment      string `json:"comment"`
}

// UpdateReviewRequest 전달된 필드만 수정한다
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`
}

type ReactionRequest struct {
	Action string `json:"action" binding:"required"` // like | dislike | remove
}

// CreateReview creates a review for a restaurant or dish
// POST /api/v1/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid review creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid review data")
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, model.ResourceType(req.ResourceType), req.ResourceID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResourceType):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown resource type")
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be between 1 and 5")
		case errors.Is(err, service.ErrResourceNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Review target not found")
		case errors.Is(err, service.ErrAlreadyReviewed):
			apperrors.Conflict(c, apperrors.ReviewAlreadyExists, "You have already reviewed this")
		default:
			log.Error("Failed to create review", err, map[string]interface{}{
				"user_id":     userID,
				"resource_id": req.ResourceID,
			})
			apperrors.TransactionAborted(c)
		}
		return
	}

	log.Info("Review created", map[string]interface{}{
		"review_id": review.ID,
		"user_id":   userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  review,
	})
}

// UpdateReview updates a review (author or admin)
// PUT /api/v1/reviews/:id
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetUserRole(c)

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid review data")
		return
	}

	review, err := ctrl.reviewService.UpdateReview(reviewID, userID, role, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be between 1 and 5")
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
		case errors.Is(err, service.ErrReviewForbidden):
			apperrors.Forbidden(c, "You can only edit your own reviews")
		default:
			log.Error("Failed to update review", err, map[string]interface{}{
				"review_id": reviewID,
			})
			apperrors.TransactionAborted(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"review":  review,
	})
}

// DeleteReview deletes a review (author or admin)
// DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetUserRole(c)

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReview(reviewID, userID, role); err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
		case errors.Is(err, service.ErrReviewForbidden):
			apperrors.Forbidden(c, "You can only delete your own reviews")
		default:
			log.Error("Failed to delete review", err, map[string]interface{}{
				"review_id": reviewID,
			})
			apperrors.TransactionAborted(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}

// React applies a like/dislike/remove action to a review
// POST /api/v1/reviews/:id/reaction
func (ctrl *ReviewController) React(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid reaction data")
		return
	}

	review, err := ctrl.reviewService.React(reviewID, userID, model.ReactionType(req.Action))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidReactionType):
			apperrors.BadRequest(c, apperrors.ReviewInvalidAction, "Action must be like, dislike or remove")
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
		case errors.Is(err, service.ErrSelfReaction):
			apperrors.Forbidden(c, "You cannot react to your own review")
		default:
			log.Error("Failed to apply reaction", err, map[string]interface{}{
				"review_id": reviewID,
				"user_id":   userID,
			})
			apperrors.TransactionAborted(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reaction applied",
		"review":  review,
	})
}

// ListResourceReviews lists reviews for a restaurant or dish
// GET /api/v1/reviews?resource_type=restaurant&resource_id=1
func (ctrl *ReviewController) ListResourceReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	resourceType := model.ResourceType(c.Query("resource_type"))
	resourceID, err := strconv.ParseUint(c.Query("resource_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid resource ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	reviews, total, err := ctrl.reviewService.GetResourceReviews(resourceType, uint(resourceID), page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrInvalidResourceType) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown resource type")
			return
		}
		log.Error("Failed to list reviews", err, map[string]interface{}{
			"resource_id": resourceID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"page":    page,
	})
}

// ListMyReviews lists the authenticated user's reviews
// GET /api/v1/reviews/me
func (ctrl *ReviewController) ListMyReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	reviews, err := ctrl.reviewService.GetUserReviews(userID)
	if err != nil {
		log.Error("Failed to list user reviews", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// parseIDParam parses a numeric path parameter, responding with 400 on failure
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}
