package db

import (
	"context"
	"errors"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *DbDao
}

func NewUserRepo(db *DbDao) *UserRepo {
	return &UserRepo{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserRepo) CreateUser(ctx context.Context, user *model.User) error {
	user.Email = normalizeEmail(user.Email)
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *UserRepo) GetUserByID(ctx context.Context, userID int) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (s *UserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (s *UserRepo) UpdateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

func (s *UserRepo) CountUsersByRole(ctx context.Context, role model.Role) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", role).Count(&total).Error
	return total, err
}
