package repository

import (
	"context"

	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/pkg/xcontext"
)

type RoleRepository interface {
	Create(ctx context.Context, role *entity.UserRole) error
	GetRoles(ctx context.Context, userID string) ([]entity.GlobalRole, error)
}

type roleRepository struct{}

func NewRoleRepository() *roleRepository {
	return &roleRepository{}
}

func (r *roleRepository) Create(ctx context.Context, role *entity.UserRole) error {
	return xcontext.DB(ctx).Create(role).Error
}

func (r *roleRepository) GetRoles(ctx context.Context, userID string) ([]entity.GlobalRole, error) {
	var result []entity.GlobalRole
	err := xcontext.DB(ctx).Model(&entity.UserRole{}).
		Where("uid=?", userID).
		Pluck("role", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
