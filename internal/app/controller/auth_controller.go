package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/service"
	apperrors "github.com/nvolkov/brewhub-backend/internal/errors"
	"github.com/nvolkov/brewhub-backend/internal/middleware"
	"github.com/nvolkov/brewhub-backend/pkg/util"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"required,min=2,max=30"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Phone    *string `json:"phone"`
}

type VerifyEmailRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

func userResponse(user *model.User) gin.H {
	return gin.H{
		"id":          user.ID,
		"email":       user.Email,
		"username":    user.Username,
		"phone":       user.Phone,
		"role":        user.Role,
		"is_verified": user.IsVerified,
		"created_at":  user.CreatedAt,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid registration input")
		return
	}

	user, err := ctrl.authService.Register(req.Email, req.Password, req.Username, req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			log.Warn("Registration failed: email already exists", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email is already in use")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    userResponse(user),
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid login input")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login failed: invalid credentials", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Incorrect email or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   userResponse(user),
		"tokens": tokens,
	})
}

// RefreshToken exchanges a refresh token for a new pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) RefreshToken(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Refresh token is required")
		return
	}

	tokens, err := ctrl.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Refresh token has expired")
			return
		}
		if errors.Is(err, util.ErrInvalidToken) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid refresh token")
			return
		}
		log.Error("Token refresh failed", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
	})
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": userResponse(user),
	})
}

// UpdateProfile updates the authenticated user's profile
// PATCH /api/v1/auth/me
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid profile input")
		return
	}

	// Only fields present in the request are written
	patch := map[string]interface{}{}
	if req.Username != nil {
		patch["username"] = *req.Username
	}
	if req.Phone != nil {
		patch["phone"] = *req.Phone
	}

	user, err := ctrl.authService.UpdateProfile(userID, patch)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Profile update failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": userResponse(user),
	})
}

// DeleteAccount soft deletes the authenticated user's account
// DELETE /api/v1/auth/me
func (ctrl *AuthController) DeleteAccount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := ctrl.authService.DeleteAccount(userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account deleted",
	})
}

// SendVerification emails a verification code to the user
// POST /api/v1/auth/verify/send
func (ctrl *AuthController) SendVerification(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	if err := ctrl.authService.SendEmailVerification(c.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrAlreadyVerified) {
			apperrors.Conflict(c, apperrors.AuthAlreadyVerified, "Email is already verified")
			return
		}
		log.Error("Failed to send verification code", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification code sent",
	})
}

// VerifyEmail checks the emailed code and marks the account verified
// POST /api/v1/auth/verify
func (ctrl *AuthController) VerifyEmail(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Verification code is required")
		return
	}

	if err := ctrl.authService.VerifyEmail(c.Request.Context(), userID, req.Code); err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			apperrors.BadRequest(c, apperrors.AuthCodeInvalid, "Invalid or expired verification code")
			return
		}
		if errors.Is(err, service.ErrAlreadyVerified) {
			apperrors.Conflict(c, apperrors.AuthAlreadyVerified, "Email is already verified")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified",
	})
}
