package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/pkg/xcontext"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyProgressRepository interface {
	Create(ctx context.Context, progress *entity.DailyProgress) error
	Get(ctx context.Context, userID, date string) (*entity.DailyProgress, error)
	AdvanceAdSeq(ctx context.Context, userID, date string, seq int) error
	ResetDate(ctx context.Context, date string) error
	UpsertEmpty(ctx context.Context, userIDs []string, date string) error
	GetUnflaggedSince(ctx context.Context, date string) ([]entity.DailyProgress, error)
}

type dailyProgressRepository struct{}

func NewDailyProgressRepository() *dailyProgressRepository {
	return &dailyProgressRepository{}
}

func (r *dailyProgressRepository) Create(ctx context.Context, progress *entity.DailyProgress) error {
	return xcontext.DB(ctx).Create(progress).Error
}

func (r *dailyProgressRepository) Get(ctx context.Context, userID, date string) (*entity.DailyProgress, error) {
	var result entity.DailyProgress
	if err := xcontext.DB(ctx).Take(&result, "uid=? AND date=?", userID, date).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// AdvanceAdSeq sets ad_claimed_seq to seq only if it is currently seq-1. The
// row of the day is created when the first slot is claimed. It returns
// gorm.ErrRecordNotFound if the counter has moved.
func (r *dailyProgressRepository) AdvanceAdSeq(ctx context.Context, userID, date string, seq int) error {
	tx := xcontext.DB(ctx).Model(&entity.DailyProgress{}).
		Where("uid=? AND date=? AND ad_claimed_seq=?", userID, date, seq-1).
		Update("ad_claimed_seq", seq)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 0 {
		return nil
	}

	if seq != 1 {
		return gorm.ErrRecordNotFound
	}

	tx = xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&entity.DailyProgress{
		Base:             entity.Base{ID: uuid.NewString()},
		UserID:           userID,
		Date:             date,
		StepClaimedFlags: datatypes.JSONMap{},
		AdClaimedSeq:     1,
	})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *dailyProgressRepository) ResetDate(ctx context.Context, date string) error {
	return xcontext.DB(ctx).Model(&entity.DailyProgress{}).
		Where("date=?", date).
		Updates(map[string]any{
			"step_claimed_flags": datatypes.JSONMap{},
			"ad_claimed_seq":     0,
			"attendance_done":    false,
		}).Error
}

// UpsertEmpty creates an empty row of the date for every user, resetting the
// row if it exists.
func (r *dailyProgressRepository) UpsertEmpty(ctx context.Context, userIDs []string, date string) error {
	if len(userIDs) == 0 {
		return nil
	}

	rows := make([]entity.DailyProgress, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, entity.DailyProgress{
			Base:             entity.Base{ID: uuid.NewString()},
			UserID:           id,
			Date:             date,
			StepClaimedFlags: datatypes.JSONMap{},
		})
	}

	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"step_claimed_flags", "ad_claimed_seq", "attendance_done", "updated_at"}),
		}).
		CreateInBatches(rows, 500).Error
}

func (r *dailyProgressRepository) GetUnflaggedSince(ctx context.Context, date string) ([]entity.DailyProgress, error) {
	var result []entity.DailyProgress
	err := xcontext.DB(ctx).
		Joins("JOIN user_profiles ON user_profiles.uid=daily_progress.uid AND user_profiles.abuse_flag=?", false).
		Where("daily_progress.date>=?", date).
		Order("daily_progress.uid, daily_progress.date").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
