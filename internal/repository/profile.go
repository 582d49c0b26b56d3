package repository

import (
	"context"

	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type DeviceAccounts struct {
	DeviceFingerprint string
	UserIDs           []string
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.UserProfile) error
	GetByUserID(ctx context.Context, userID string) (*entity.UserProfile, error)
	GetUnflaggedUserIDs(ctx context.Context) ([]string, error)
	GetSharedDevices(ctx context.Context, minAccounts int) ([]DeviceAccounts, error)
	Flag(ctx context.Context, userID string, reason entity.AbuseReason, score float64) error
	IncreaseTicketBalance(ctx context.Context, userID string, tickets int) error
	IncreaseWinnings(ctx context.Context, userID string, amount int64) error
}

type profileRepository struct{}

func NewProfileRepository() *profileRepository {
	return &profileRepository{}
}

func (r *profileRepository) Create(ctx context.Context, profile *entity.UserProfile) error {
	return xcontext.DB(ctx).Create(profile).Error
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*entity.UserProfile, error) {
	var result entity.UserProfile
	if err := xcontext.DB(ctx).Take(&result, "uid=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *profileRepository) GetUnflaggedUserIDs(ctx context.Context) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.UserProfile{}).
		Where("abuse_flag=?", false).
		Order("uid").
		Pluck("uid", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetSharedDevices returns every device fingerprint backing at least
// minAccounts unflagged accounts, ordered by fingerprint.
func (r *profileRepository) GetSharedDevices(ctx context.Context, minAccounts int) ([]DeviceAccounts, error) {
	var profiles []entity.UserProfile
	err := xcontext.DB(ctx).
		Select("uid", "device_fingerprint").
		Where("abuse_flag=? AND device_fingerprint IS NOT NULL AND device_fingerprint<>?", false, "").
		Order("device_fingerprint, uid").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	var devices []DeviceAccounts
	for _, p := range profiles {
		n := len(devices)
		if n == 0 || devices[n-1].DeviceFingerprint != p.DeviceFingerprint.String {
			devices = append(devices, DeviceAccounts{DeviceFingerprint: p.DeviceFingerprint.String})
			n++
		}

		devices[n-1].UserIDs = append(devices[n-1].UserIDs, p.UserID)
	}

	result := devices[:0]
	for _, d := range devices {
		if len(d.UserIDs) >= minAccounts {
			result = append(result, d)
		}
	}

	return result, nil
}

// Flag marks an unflagged user. It returns gorm.ErrRecordNotFound if the user
// has no profile or is already flagged.
func (r *profileRepository) Flag(
	ctx context.Context, userID string, reason entity.AbuseReason, score float64,
) error {
	tx := xcontext.DB(ctx).Model(&entity.UserProfile{}).
		Where("uid=? AND abuse_flag=?", userID, false).
		Updates(map[string]any{
			"abuse_flag":   true,
			"abuse_reason": string(reason),
			"abuse_score":  score,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *profileRepository) IncreaseTicketBalance(ctx context.Context, userID string, tickets int) error {
	tx := xcontext.DB(ctx).Model(&entity.UserProfile{}).
		Where("uid=?", userID).
		Update("ticket_balance", gorm.Expr("ticket_balance+?", tickets))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *profileRepository) IncreaseWinnings(ctx context.Context, userID string, amount int64) error {
	return xcontext.DB(ctx).Model(&entity.UserProfile{}).
		Where("uid=?", userID).
		Updates(map[string]any{
			"total_tickets_won":  gorm.Expr("total_tickets_won+?", 1),
			"total_prize_amount": gorm.Expr("total_prize_amount+?", amount),
		}).Error
}
