package entity

import "github.com/luckywalk/backend/pkg/enum"

type GlobalRole string

var (
	RoleAdmin = enum.New(GlobalRole("admin"))
)

// UserRole grants an administrative role to a user.
type UserRole struct {
	Base

	UserID string     `gorm:"column:uid;uniqueIndex:idx_user_roles_uid_role"`
	Role   GlobalRole `gorm:"uniqueIndex:idx_user_roles_uid_role"`
}
