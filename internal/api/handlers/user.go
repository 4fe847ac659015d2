package handlers

import (
	"net/http"
	"strconv"

	"github.com/cinetrack/movie-review-backend/internal/services"
	"github.com/cinetrack/movie-review-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authService   *services.AuthService
	reviewService *services.ReviewService
	s3Service     *services.S3Service
}

func NewUserHandler(authService *services.AuthService, reviewService *services.ReviewService, s3Service *services.S3Service) *UserHandler {
	return &UserHandler{
		authService:   authService,
		reviewService: reviewService,
		s3Service:     s3Service,
	}
}

// GetUser handles GET /users/:user_id.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid user ID")
		return
	}

	user, err := h.authService.GetUserByID(uint(userID))
	if err != nil {
		respondError(c, "User not found", err)
		return
	}

	utils.SendSuccess(c, "User retrieved successfully", user)
}

// UpdateUser handles PUT /users/:user_id (owner only).
func (h *UserHandler) UpdateUser(c *gin.Context) {
	requestingUserID := c.GetUint("user_id")

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid user ID")
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	user, err := h.authService.UpdateProfile(uint(userID), requestingUserID, req)
	if err != nil {
		respondError(c, "Failed to update profile", err)
		return
	}

	utils.SendSuccess(c, "Profile updated successfully", user)
}

// GetUserReviews handles GET /users/:user_id/reviews.
func (h *UserHandler) GetUserReviews(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid user ID")
		return
	}

	page, limit := pagination(c, 10)

	reviews, err := h.reviewService.ListByUser(uint(userID), page, limit)
	if err != nil {
		respondError(c, "Failed to fetch user reviews", err)
		return
	}

	utils.SendSuccess(c, "User reviews retrieved successfully", reviews)
}

// UploadAvatar handles POST /users/avatar.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	if h.s3Service == nil {
		utils.SendError(c, http.StatusServiceUnavailable, "Avatar uploads are not configured", nil)
		return
	}

	userID := c.GetUint("user_id")

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		utils.SendValidationError(c, "Avatar file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.SendInternalError(c, "Failed to read uploaded file", err)
		return
	}
	defer file.Close()

	url, err := h.s3Service.UploadAvatar(userID, file, fileHeader)
	if err != nil {
		respondError(c, "Failed to upload avatar", err)
		return
	}

	if err := h.authService.SetProfilePicture(userID, url); err != nil {
		utils.SendInternalError(c, "Failed to save avatar URL", err)
		return
	}

	utils.SendSuccess(c, "Avatar uploaded successfully", gin.H{"profile_picture": url})
}
