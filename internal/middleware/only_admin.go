package middleware

import (
	"context"

	"github.com/luckywalk/backend/internal/common"
	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/internal/repository"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/router"
)

type OnlyAdmin struct {
	globalRoleVerifier *common.GlobalRoleVerifier
}

func NewOnlyAdmin(roleRepo repository.RoleRepository) *OnlyAdmin {
	return &OnlyAdmin{
		globalRoleVerifier: common.NewGlobalRoleVerifier(roleRepo),
	}
}

// Middleware must run after Authenticate.
func (a *OnlyAdmin) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if err := a.globalRoleVerifier.Verify(ctx, entity.RoleAdmin); err != nil {
			return nil, errorx.New(errorx.PermissionDenied, "Admin access required")
		}

		return nil, nil
	}
}
