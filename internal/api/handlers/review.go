package handlers

import (
	"strconv"

	"github.com/cinetrack/movie-review-backend/internal/services"
	"github.com/cinetrack/movie-review-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// SubmitReview handles POST /movies/:tmdb_id/reviews.
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	tmdbID, err := strconv.ParseInt(c.Param("tmdb_id"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid movie ID")
		return
	}

	var req services.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	review, err := h.reviewService.Submit(userID, tmdbID, req)
	if err != nil {
		respondError(c, "Failed to submit review", err)
		return
	}

	utils.SendCreated(c, "Review submitted successfully", review)
}

// DeleteReview handles DELETE /reviews/:review_id.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	reviewID, err := uuid.Parse(c.Param("review_id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid review ID")
		return
	}

	if err := h.reviewService.Delete(reviewID, userID); err != nil {
		respondError(c, "Failed to delete review", err)
		return
	}

	utils.SendSuccess(c, "Review deleted successfully", nil)
}

// GetMovieReviews handles GET /movies/:tmdb_id/reviews.
func (h *ReviewHandler) GetMovieReviews(c *gin.Context) {
	tmdbID, err := strconv.ParseInt(c.Param("tmdb_id"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid movie ID")
		return
	}

	page, limit := pagination(c, 10)

	reviews, err := h.reviewService.ListByMovie(tmdbID, page, limit)
	if err != nil {
		respondError(c, "Failed to fetch reviews", err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}

// GetAllReviews handles GET /reviews.
func (h *ReviewHandler) GetAllReviews(c *gin.Context) {
	page, limit := pagination(c, 20)

	reviews, err := h.reviewService.ListAll(page, limit)
	if err != nil {
		respondError(c, "Failed to fetch reviews", err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}

func pagination(c *gin.Context, defaultLimit int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}

	return page, limit
}
