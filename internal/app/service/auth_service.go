package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nvolkov/brewhub-backend/config"
	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/repository"
	apperrors "github.com/nvolkov/brewhub-backend/internal/errors"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
	"github.com/nvolkov/brewhub-backend/pkg/mailer"
	"github.com/nvolkov/brewhub-backend/pkg/redis"
	"github.com/nvolkov/brewhub-backend/pkg/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrInvalidCode        = errors.New("invalid verification code")
)

const verificationCodeTTL = 10 * time.Minute

type AuthService interface {
	Register(email, password, username, phone string) (*model.User, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	RefreshToken(refreshToken string) (*util.TokenPair, error)
	GetUserByID(userID uint) (*model.User, error)
	UpdateProfile(userID uint, patch map[string]interface{}) (*model.User, error)
	DeleteAccount(userID uint) error
	SendEmailVerification(ctx context.Context, userID uint) error
	VerifyEmail(ctx context.Context, userID uint, code string) error
}

type authService struct {
	userRepo *repository.UserRepository
	mailer   *mailer.Mailer
	jwtCfg   *config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, m *mailer.Mailer, jwtCfg *config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		mailer:   m,
		jwtCfg:   jwtCfg,
	}
}

func (s *authService) Register(email, password, username, phone string) (*model.User, error) {
	logger.Info("Registering new user", map[string]interface{}{
		"email": email,
	})

	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, nil)
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Username:     username,
		Phone:        phone,
		Role:         model.RoleUser,
		IsActive:     true,
	}

	if err := s.userRepo.CreateWithUniqueEmail(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Registration rejected: email already in use", map[string]interface{}{
				"email": email,
			})
			return nil, ErrEmailExists
		}
		logger.Error("Failed to create user", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("User login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		logger.Error("Failed to fetch user for login", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}
	if user == nil || !user.IsActive {
		logger.Warn("Login failed: unknown or inactive account", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrInvalidCredentials
	}

	if err := util.VerifyPassword(user.PasswordHash, password); err != nil {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID, user.Email, string(user.Role),
		s.jwtCfg.Secret, s.jwtCfg.AccessTokenExpiry, s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate token pair", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

// RefreshToken exchanges a valid refresh token for a brand new pair.
// Access tokens are rejected here even when otherwise valid.
func (s *authService) RefreshToken(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtCfg.Secret)
	if err != nil {
		logger.Warn("Token refresh failed: invalid token", map[string]interface{}{
			"reason": err.Error(),
		})
		return nil, err
	}
	if claims.TokenType != util.TokenTypeRefresh {
		logger.Warn("Token refresh failed: wrong token type", map[string]interface{}{
			"user_id":    claims.UserID,
			"token_type": claims.TokenType,
		})
		return nil, util.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		logger.Warn("Token refresh failed: account gone or inactive", map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil, util.ErrInvalidToken
	}

	tokens, err := util.GenerateTokenPair(
		user.ID, user.Email, string(user.Role),
		s.jwtCfg.Secret, s.jwtCfg.AccessTokenExpiry, s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate token pair on refresh", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	logger.Info("Token pair refreshed", map[string]interface{}{
		"user_id": user.ID,
	})
	return tokens, nil
}

func (s *authService) GetUserByID(userID uint) (*model.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, patch map[string]interface{}) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
		"fields":  len(patch),
	})

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.userRepo.Update(user, patch); err != nil {
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return user, nil
}

func (s *authService) DeleteAccount(userID uint) error {
	logger.Info("Deleting user account", map[string]interface{}{
		"user_id": userID,
	})

	err := s.userRepo.Delete(map[string]interface{}{"id": userID})
	if errors.Is(err, apperrors.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// SendEmailVerification stores a short-lived code in Redis and mails it.
func (s *authService) SendEmailVerification(ctx context.Context, userID uint) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	code, err := util.GenerateVerificationCode()
	if err != nil {
		logger.Error("Failed to generate verification code", err, nil)
		return err
	}

	if err := redis.StoreVerificationCode(ctx, user.Email, code, verificationCodeTTL); err != nil {
		logger.Error("Failed to store verification code", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	msg := mailer.Message{
		To:      user.Email,
		Subject: "BrewHub email verification",
		Body:    fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(verificationCodeTTL.Minutes())),
	}
	if err := s.mailer.Send(msg); err != nil {
		return err
	}

	logger.Info("Verification code sent", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// VerifyEmail checks the code against Redis and marks the account verified.
// Codes are single use.
func (s *authService) VerifyEmail(ctx context.Context, userID uint, code string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	ok, err := redis.CheckVerificationCode(ctx, user.Email, code)
	if err != nil {
		if errors.Is(err, redis.ErrCodeNotFound) {
			return ErrInvalidCode
		}
		logger.Error("Failed to check verification code", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	if !ok {
		logger.Warn("Email verification failed: wrong code", map[string]interface{}{
			"user_id": userID,
		})
		return ErrInvalidCode
	}

	if err := s.userRepo.Update(user, map[string]interface{}{"is_verified": true}); err != nil {
		return err
	}

	logger.Info("Email verified", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
