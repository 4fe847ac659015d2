package handlers

import (
	"net/http"

	"github.com/cinetrack/movie-review-backend/internal/services"
	"github.com/cinetrack/movie-review-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type PasswordHandler struct {
	authService *services.AuthService
}

func NewPasswordHandler(authService *services.AuthService) *PasswordHandler {
	return &PasswordHandler{authService: authService}
}

func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var req services.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.authService.ForgotPassword(req); err != nil {
		respondError(c, "Failed to process forgot password request", err)
		return
	}

	utils.SendSuccess(c, "If your email exists in our system, you will receive a password reset link shortly", nil)
}

func (h *PasswordHandler) ValidateResetToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.SendValidationError(c, "Reset token is required")
		return
	}

	user, err := h.authService.ValidateResetToken(token)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid or expired reset token", err)
		return
	}

	utils.SendSuccess(c, "Reset token is valid", gin.H{"email": user.Email})
}

func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.authService.ResetPassword(req); err != nil {
		respondError(c, "Failed to reset password", err)
		return
	}

	utils.SendSuccess(c, "Password reset successfully", nil)
}

func (h *PasswordHandler) ChangePassword(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.authService.ChangePassword(userID, req); err != nil {
		respondError(c, "Failed to change password", err)
		return
	}

	utils.SendSuccess(c, "Password changed successfully", nil)
}
