package common

import (
	"context"
	"errors"

	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/internal/repository"
	"github.com/luckywalk/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

var ErrPermissionDenied = errors.New("user role does not have permission")

type GlobalRoleVerifier struct {
	roleRepo repository.RoleRepository
}

func NewGlobalRoleVerifier(roleRepo repository.RoleRepository) *GlobalRoleVerifier {
	return &GlobalRoleVerifier{roleRepo: roleRepo}
}

// Verify checks the requesting user holds one of the required roles.
func (verifier *GlobalRoleVerifier) Verify(ctx context.Context, requiredRoles ...entity.GlobalRole) error {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return errors.New("user is not valid")
	}

	roles, err := verifier.roleRepo.GetRoles(ctx, userID)
	if err != nil {
		return err
	}

	for _, role := range roles {
		if slices.Contains(requiredRoles, role) {
			return nil
		}
	}

	return ErrPermissionDenied
}
