package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/cinetrack/movie-review-backend/internal/models"
	"github.com/cinetrack/movie-review-backend/internal/utils"
	"github.com/cinetrack/movie-review-backend/pkg/logger"
	"gorm.io/gorm"
)

type AuthService struct {
	db           *gorm.DB
	jwtSecret    string
	emailService *EmailService
	baseURL      string
}

func NewAuthService(db *gorm.DB, jwtSecret string, emailService *EmailService, baseURL string) *AuthService {
	return &AuthService{
		db:           db,
		jwtSecret:    jwtSecret,
		emailService: emailService,
		baseURL:      baseURL,
	}
}

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateProfileRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type AuthResponse struct {
	Tokens utils.TokenPair `json:"tokens"`
	User   models.User     `json:"user"`
}

func (s *AuthService) Signup(req SignupRequest) (*AuthResponse, error) {
	if !utils.IsValidUsername(req.Username) {
		return nil, fmt.Errorf("%w: username must be 3-20 characters", ErrValidation)
	}
	if !utils.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if !utils.IsValidPassword(req.Password) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	user := models.User{
		Username: utils.SanitizeString(req.Username),
		Email:    utils.SanitizeString(req.Email),
		Password: req.Password, // hashed in BeforeCreate hook
		Role:     "user",
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrValidation)
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return s.issueTokens(&user)
}

func (s *AuthService) Login(req LoginRequest) (*AuthResponse, error) {
	if !utils.IsValidEmail(req.Email) {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	// Revoke outstanding refresh tokens before issuing a new pair.
	s.db.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Update("is_revoked", true)

	return s.issueTokens(&user)
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	tokenPair, err := utils.GenerateTokenPair(user.ID, user.Username, user.Role, s.jwtSecret)
	if err != nil {
		return nil, errors.New("failed to generate tokens")
	}

	refreshToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     tokenPair.RefreshToken,
		ExpiresAt: time.Unix(tokenPair.RefreshTokenExpiresAt, 0),
		IsRevoked: false,
	}

	if err := s.db.Create(&refreshToken).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return &AuthResponse{
		Tokens: *tokenPair,
		User:   *user,
	}, nil
}

func (s *AuthService) RefreshToken(req RefreshRequest) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(req.RefreshToken, s.jwtSecret)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	if claims.Type != string(utils.RefreshToken) {
		return nil, errors.New("invalid token type")
	}

	var refreshToken models.RefreshToken
	if err := s.db.Where("token = ? AND is_revoked = ? AND expires_at > ?", req.RefreshToken, false, time.Now()).
		First(&refreshToken).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("refresh token not found or expired")
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	var user models.User
	if err := s.db.First(&user, refreshToken.UserID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	// Rotate: revoke the old token and store the new one in one transaction.
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	refreshToken.IsRevoked = true
	if err := tx.Save(&refreshToken).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("failed to revoke old token")
	}

	tokenPair, err := utils.GenerateTokenPair(user.ID, user.Username, user.Role, s.jwtSecret)
	if err != nil {
		tx.Rollback()
		return nil, errors.New("failed to generate new tokens")
	}

	newRefresh := models.RefreshToken{
		UserID:    user.ID,
		Token:     tokenPair.RefreshToken,
		ExpiresAt: time.Unix(tokenPair.RefreshTokenExpiresAt, 0),
		IsRevoked: false,
	}

	if err := tx.Create(&newRefresh).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("failed to store new refresh token")
	}

	tx.Commit()

	return &AuthResponse{
		Tokens: *tokenPair,
		User:   user,
	}, nil
}

func (s *AuthService) Logout(refreshToken string) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("token = ?", refreshToken).
		Update("is_revoked", true).Error
}

func (s *AuthService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	return &user, nil
}

// UpdateProfile applies profile changes for the owning user only.
func (s *AuthService) UpdateProfile(userID, requestingUserID uint, req UpdateProfileRequest) (*models.User, error) {
	if userID != requestingUserID {
		return nil, ErrForbidden
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Username != "" {
		if !utils.IsValidUsername(req.Username) {
			return nil, fmt.Errorf("%w: username must be 3-20 characters", ErrValidation)
		}
		updates["username"] = utils.SanitizeString(req.Username)
	}
	if req.Email != "" {
		if !utils.IsValidEmail(req.Email) {
			return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
		}
		updates["email"] = utils.SanitizeString(req.Email)
	}
	if req.ProfilePicture != "" {
		updates["profile_picture"] = req.ProfilePicture
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, fmt.Errorf("%w: username or email already taken", ErrValidation)
			}
			return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
	}

	return s.GetUserByID(userID)
}

// SetProfilePicture stores the uploaded avatar URL.
func (s *AuthService) SetProfilePicture(userID uint, url string) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("profile_picture", url).Error
}

func (s *AuthService) ForgotPassword(req ForgotPasswordRequest) error {
	if !utils.IsValidEmail(req.Email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil // Don't reveal if email exists
	}

	resetToken, err := utils.GenerateRandomString(32)
	if err != nil {
		return errors.New("failed to generate reset token")
	}

	s.db.Model(&models.PasswordResetToken{}).
		Where("user_id = ? AND is_used = ?", user.ID, false).
		Update("is_used", true)

	passwordResetToken := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     resetToken,
		ExpiresAt: time.Now().Add(1 * time.Hour),
		IsUsed:    false,
	}

	if err := s.db.Create(&passwordResetToken).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	if s.emailService != nil {
		if err := s.emailService.SendPasswordResetEmail(user.Email, resetToken, s.baseURL); err != nil {
			logger.Warnf("failed to send password reset email: %v", err)
		}
	}

	return nil
}

func (s *AuthService) ValidateResetToken(token string) (*models.User, error) {
	var resetToken models.PasswordResetToken
	if err := s.db.Where("token = ? AND is_used = ? AND expires_at > ?", token, false, time.Now()).
		First(&resetToken).Error; err != nil {
		return nil, fmt.Errorf("%w: invalid or expired reset token", ErrValidation)
	}

	return s.GetUserByID(resetToken.UserID)
}

func (s *AuthService) ResetPassword(req ResetPasswordRequest) error {
	if !utils.IsValidPassword(req.NewPassword) {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	var resetToken models.PasswordResetToken
	if err := s.db.Where("token = ? AND is_used = ? AND expires_at > ?", req.Token, false, time.Now()).
		First(&resetToken).Error; err != nil {
		return fmt.Errorf("%w: invalid or expired reset token", ErrValidation)
	}

	user, err := s.GetUserByID(resetToken.UserID)
	if err != nil {
		return err
	}

	if err := user.UpdatePassword(req.NewPassword); err != nil {
		return errors.New("failed to update password")
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("password", user.Password).Error; err != nil {
		tx.Rollback()
		return errors.New("failed to update password")
	}

	if err := tx.Model(&resetToken).Update("is_used", true).Error; err != nil {
		tx.Rollback()
		return errors.New("failed to consume reset token")
	}

	// A password change invalidates every active session.
	if err := tx.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Update("is_revoked", true).Error; err != nil {
		tx.Rollback()
		return errors.New("failed to revoke sessions")
	}

	tx.Commit()
	return nil
}

func (s *AuthService) ChangePassword(userID uint, req ChangePasswordRequest) error {
	if !utils.IsValidPassword(req.NewPassword) {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(req.CurrentPassword) {
		return ErrInvalidCredentials
	}

	if err := user.UpdatePassword(req.NewPassword); err != nil {
		return errors.New("failed to update password")
	}

	return s.db.Model(&models.User{}).Where("id = ?", user.ID).Update("password", user.Password).Error
}
