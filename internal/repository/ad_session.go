package repository

import (
	"context"
	"time"

	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// AdSessionStat counts the sessions started and completed by a user.
type AdSessionStat struct {
	UserID    string `gorm:"column:uid"`
	Started   int    `gorm:"column:started"`
	Completed int    `gorm:"column:completed"`
}

type AdSessionRepository interface {
	Create(ctx context.Context, session *entity.AdSession) error
	GetByIDAndUser(ctx context.Context, id, userID string) (*entity.AdSession, error)
	Expire(ctx context.Context, id string) error
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	Complete(ctx context.Context, session *entity.AdSession) error
	GetUnflaggedStats(ctx context.Context, since time.Time) ([]AdSessionStat, error)
}

type adSessionRepository struct{}

func NewAdSessionRepository() *adSessionRepository {
	return &adSessionRepository{}
}

func (r *adSessionRepository) Create(ctx context.Context, session *entity.AdSession) error {
	return xcontext.DB(ctx).Create(session).Error
}

func (r *adSessionRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*entity.AdSession, error) {
	var result entity.AdSession
	if err := xcontext.DB(ctx).Take(&result, "id=? AND uid=?", id, userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *adSessionRepository) Expire(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Model(&entity.AdSession{}).
		Where("id=? AND status=?", id, entity.AdSessionIssued).
		Update("status", entity.AdSessionExpired).Error
}

func (r *adSessionRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.AdSession{}).
		Where("status=? AND expires_at<?", entity.AdSessionIssued, now).
		Update("status", entity.AdSessionExpired)
	return tx.RowsAffected, tx.Error
}

// Complete moves an issued session to completed. Only one caller can win, the
// others get gorm.ErrRecordNotFound.
func (r *adSessionRepository) Complete(ctx context.Context, session *entity.AdSession) error {
	tx := xcontext.DB(ctx).Model(&entity.AdSession{}).
		Where("id=? AND uid=? AND status=?", session.ID, session.UserID, entity.AdSessionIssued).
		Updates(map[string]any{
			"status":         entity.AdSessionCompleted,
			"reward_tickets": session.RewardTickets,
			"device_id":      session.DeviceID,
			"completed_at":   session.CompletedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *adSessionRepository) GetUnflaggedStats(ctx context.Context, since time.Time) ([]AdSessionStat, error) {
	var result []AdSessionStat
	err := xcontext.DB(ctx).Model(&entity.AdSession{}).
		Select("ad_sessions.uid, COUNT(*) AS started, "+
			"SUM(CASE WHEN ad_sessions.status=? THEN 1 ELSE 0 END) AS completed", entity.AdSessionCompleted).
		Joins("JOIN user_profiles ON user_profiles.uid=ad_sessions.uid AND user_profiles.abuse_flag=?", false).
		Where("ad_sessions.created_at>=?", since).
		Group("ad_sessions.uid").
		Order("ad_sessions.uid").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
