package service

import (
	"errors"

	"github.com/foodierank/foodierank-backend/internal/app/model"
	"github.com/foodierank/foodierank-backend/internal/app/repository"
	"github.com/foodierank/foodierank-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrInvalidRole = errors.New("invalid user role")

// UserService 관리자용 사용자 관리
type UserService interface {
	ChangeRole(userID uint, role model.UserRole) (*model.User, error)
	DeleteUser(userID uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ChangeRole(userID uint, role model.UserRole) (*model.User, error) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, ErrInvalidRole
	}

	logger.Info("Changing user role", map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Role == role {
		return user, nil
	}

	user.Role = role
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to change user role", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User role changed", map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})
	return user, nil
}

func (s *userService) DeleteUser(userID uint) error {
	logger.Info("Deleting user", map[string]interface{}{
		"user_id": userID,
	})

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.userRepo.Delete(userID)
}
