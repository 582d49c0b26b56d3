package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// PendingWinner is a result which has not been notified yet, together with
// the push token of its owner.
type PendingWinner struct {
	ResultID string         `gorm:"column:result_id"`
	UserID   string         `gorm:"column:uid"`
	Tier     int            `gorm:"column:tier"`
	FCMToken sql.NullString `gorm:"column:fcm_token"`
}

type RoundRepository interface {
	Create(ctx context.Context, round *entity.Round) error
	GetByID(ctx context.Context, id string) (*entity.Round, error)
	GetLatestDrawn(ctx context.Context) (*entity.Round, error)
	MarkDrawn(ctx context.Context, id string) error

	CreateTicket(ctx context.Context, ticket *entity.Ticket) error
	GetTickets(ctx context.Context, roundID string) ([]entity.Ticket, error)

	CreateResults(ctx context.Context, results []entity.ResultUser) error
	GetResults(ctx context.Context, roundID string) ([]entity.ResultUser, error)
	GetPendingWinners(ctx context.Context, roundID string) ([]PendingWinner, error)
	MarkNotified(ctx context.Context, roundID string, at time.Time) (int64, error)
}

type roundRepository struct{}

func NewRoundRepository() *roundRepository {
	return &roundRepository{}
}

func (r *roundRepository) Create(ctx context.Context, round *entity.Round) error {
	return xcontext.DB(ctx).Create(round).Error
}

func (r *roundRepository) GetByID(ctx context.Context, id string) (*entity.Round, error) {
	var result entity.Round
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *roundRepository) GetLatestDrawn(ctx context.Context) (*entity.Round, error) {
	var result entity.Round
	err := xcontext.DB(ctx).
		Where("status=?", entity.RoundDrawn).
		Order("created_at DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// MarkDrawn moves a scheduled round to drawn. It returns
// gorm.ErrRecordNotFound if the round is not scheduled anymore.
func (r *roundRepository) MarkDrawn(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.Round{}).
		Where("id=? AND status=?", id, entity.RoundScheduled).
		Update("status", entity.RoundDrawn)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *roundRepository) CreateTicket(ctx context.Context, ticket *entity.Ticket) error {
	return xcontext.DB(ctx).Create(ticket).Error
}

func (r *roundRepository) GetTickets(ctx context.Context, roundID string) ([]entity.Ticket, error) {
	var result []entity.Ticket
	if err := xcontext.DB(ctx).Order("created_at").Find(&result, "round_id=?", roundID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *roundRepository) CreateResults(ctx context.Context, results []entity.ResultUser) error {
	if len(results) == 0 {
		return nil
	}

	return xcontext.DB(ctx).CreateInBatches(results, 500).Error
}

func (r *roundRepository) GetResults(ctx context.Context, roundID string) ([]entity.ResultUser, error) {
	var result []entity.ResultUser
	if err := xcontext.DB(ctx).Order("tier").Find(&result, "round_id=?", roundID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *roundRepository) GetPendingWinners(ctx context.Context, roundID string) ([]PendingWinner, error) {
	var result []PendingWinner
	err := xcontext.DB(ctx).Model(&entity.ResultUser{}).
		Select("results_user.id AS result_id, results_user.uid, results_user.tier, user_profiles.fcm_token").
		Joins("JOIN user_profiles ON user_profiles.uid=results_user.uid").
		Where("results_user.round_id=? AND results_user.notified_at IS NULL", roundID).
		Order("results_user.tier, results_user.id").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *roundRepository) MarkNotified(ctx context.Context, roundID string, at time.Time) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.ResultUser{}).
		Where("round_id=? AND notified_at IS NULL", roundID).
		Update("notified_at", at)
	return tx.RowsAffected, tx.Error
}
