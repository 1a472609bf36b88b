package service

import (
	"errors"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/repository"
	apperrors "github.com/nvolkov/brewhub-backend/internal/errors"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
)

// UserService is the staff-facing account management surface.
type UserService interface {
	ListUsers(skip, limit int) ([]model.User, error)
	GetUser(id uint) (*model.User, error)
	UpdateUser(id uint, patch map[string]interface{}) (*model.User, error)
	DeleteUser(id uint) error
}

type userService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers(skip, limit int) ([]model.User, error) {
	return s.userRepo.List(nil, repository.WithPagination(skip, limit))
}

func (s *userService) GetUser(id uint) (*model.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) UpdateUser(id uint, patch map[string]interface{}) (*model.User, error) {
	logger.Info("Updating user as staff", map[string]interface{}{
		"user_id": id,
		"fields":  len(patch),
	})

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.userRepo.Update(user, patch); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser soft deletes the account. The email becomes free for
// registration again once the row is gone from the live set.
func (s *userService) DeleteUser(id uint) error {
	logger.Info("Deleting user as staff", map[string]interface{}{
		"user_id": id,
	})

	err := s.userRepo.Delete(map[string]interface{}{"id": id})
	if errors.Is(err, apperrors.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
