package domain

import (
	"context"

	"github.com/fatih/structs"
	"github.com/google/uuid"
	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/internal/repository"
	"github.com/luckywalk/backend/pkg/xcontext"
)

// recordEvent stores an analytics event. Params is a struct whose fields are
// tagged with `structs`. A failure is logged only.
func recordEvent(ctx context.Context, auditRepo repository.AuditRepository, name string, params any) {
	err := auditRepo.CreateEvent(ctx, &entity.AnalyticsEvent{
		Base:       entity.Base{ID: uuid.NewString()},
		EventName:  name,
		Parameters: structs.Map(params),
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot record event %s: %v", name, err)
	}
}
