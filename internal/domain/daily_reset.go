package domain

import (
	"context"
	"time"

	"github.com/luckywalk/backend/internal/model"
	"github.com/luckywalk/backend/internal/repository"
	"github.com/luckywalk/backend/pkg/dateutil"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/xcontext"
)

type DailyResetDomain interface {
	Reset(context.Context, *model.DailyResetRequest) (*model.DailyResetResponse, error)
}

type dailyResetDomain struct {
	dailyProgressRepo repository.DailyProgressRepository
	profileRepo       repository.ProfileRepository
	adSessionRepo     repository.AdSessionRepository
	auditRepo         repository.AuditRepository
	now               func() time.Time
}

func NewDailyResetDomain(
	dailyProgressRepo repository.DailyProgressRepository,
	profileRepo repository.ProfileRepository,
	adSessionRepo repository.AdSessionRepository,
	auditRepo repository.AuditRepository,
) *dailyResetDomain {
	return &dailyResetDomain{
		dailyProgressRepo: dailyProgressRepo,
		profileRepo:       profileRepo,
		adSessionRepo:     adSessionRepo,
		auditRepo:         auditRepo,
		now:               time.Now,
	}
}

type dailyResetEvent struct {
	Date       string `structs:"date"`
	UsersCount int    `structs:"users_count"`
	ResetType  string `structs:"reset_type"`
}

func (d *dailyResetDomain) Reset(
	ctx context.Context, req *model.DailyResetRequest,
) (*model.DailyResetResponse, error) {
	now := d.now()
	today := dateutil.Date(now)

	if err := d.dailyProgressRepo.ResetDate(ctx, today); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reset daily progress of %s: %v", today, err)
		return nil, errorx.Unknown
	}

	userIDs, err := d.profileRepo.GetUnflaggedUserIDs(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active users: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.dailyProgressRepo.UpsertEmpty(ctx, userIDs, today); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create daily progress of %s: %v", today, err)
		return nil, errorx.Unknown
	}

	if n, err := d.adSessionRepo.ExpireStale(ctx, now); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot expire stale ad sessions: %v", err)
	} else if n > 0 {
		xcontext.Logger(ctx).Infof("Expired %d stale ad sessions", n)
	}

	recordEvent(ctx, d.auditRepo, "daily_reset", dailyResetEvent{
		Date:       today,
		UsersCount: len(userIDs),
		ResetType:  "full",
	})

	return &model.DailyResetResponse{
		Success:    true,
		Message:    "Daily reset completed",
		Date:       today,
		UsersCount: len(userIDs),
		Timestamp:  now,
	}, nil
}
