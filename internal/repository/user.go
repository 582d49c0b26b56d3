package repository

import (
	"context"
	"time"

	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/pkg/xcontext"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByKakaoID(ctx context.Context, kakaoID string) (*entity.User, error)
	GetByAppleID(ctx context.Context, appleID string) (*entity.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	CreateActivity(ctx context.Context, activity *entity.UserActivity) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return xcontext.DB(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByKakaoID(ctx context.Context, kakaoID string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "kakao_id=?", kakaoID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByAppleID(ctx context.Context, appleID string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "apple_id=?", appleID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", id).
		Update("last_login_at", at).Error
}

func (r *userRepository) CreateActivity(ctx context.Context, activity *entity.UserActivity) error {
	return xcontext.DB(ctx).Create(activity).Error
}
