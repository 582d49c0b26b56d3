package repository

import (
	"context"

	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/pkg/xcontext"
)

type AuditRepository interface {
	CreateAdminAction(ctx context.Context, action *entity.AdminAction) error
	CreateEvent(ctx context.Context, event *entity.AnalyticsEvent) error
	GetEvents(ctx context.Context, name string) ([]entity.AnalyticsEvent, error)
}

type auditRepository struct{}

func NewAuditRepository() *auditRepository {
	return &auditRepository{}
}

func (r *auditRepository) CreateAdminAction(ctx context.Context, action *entity.AdminAction) error {
	return xcontext.DB(ctx).Create(action).Error
}

func (r *auditRepository) CreateEvent(ctx context.Context, event *entity.AnalyticsEvent) error {
	return xcontext.DB(ctx).Create(event).Error
}

func (r *auditRepository) GetEvents(ctx context.Context, name string) ([]entity.AnalyticsEvent, error) {
	var result []entity.AnalyticsEvent
	if err := xcontext.DB(ctx).Order("created_at").Find(&result, "event_name=?", name).Error; err != nil {
		return nil, err
	}

	return result, nil
}
