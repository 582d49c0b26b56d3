package domain

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/luckywalk/backend/internal/common"
	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/internal/model"
	"github.com/luckywalk/backend/internal/repository"
	"github.com/luckywalk/backend/pkg/dateutil"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AbuseDomain interface {
	Sweep(context.Context, *model.AbuseSweepRequest) (*model.AbuseSweepResponse, error)
}

type abuseDomain struct {
	profileRepo       repository.ProfileRepository
	dailyProgressRepo repository.DailyProgressRepository
	adSessionRepo     repository.AdSessionRepository
	auditRepo         repository.AuditRepository
	now               func() time.Time
}

func NewAbuseDomain(
	profileRepo repository.ProfileRepository,
	dailyProgressRepo repository.DailyProgressRepository,
	adSessionRepo repository.AdSessionRepository,
	auditRepo repository.AuditRepository,
) *abuseDomain {
	return &abuseDomain{
		profileRepo:       profileRepo,
		dailyProgressRepo: dailyProgressRepo,
		adSessionRepo:     adSessionRepo,
		auditRepo:         auditRepo,
		now:               time.Now,
	}
}

// Sweep runs the detectors in a fixed order: shared devices, fake steps, then
// ad fraud. A flagged user is skipped by the following detectors, so the
// order decides which reason is recorded.
func (d *abuseDomain) Sweep(
	ctx context.Context, req *model.AbuseSweepRequest,
) (*model.AbuseSweepResponse, error) {
	result := model.AbuseSweepResult{}

	if err := d.detectSharedDevices(ctx, &result); err != nil {
		return nil, err
	}

	d.detectFakeSteps(ctx, &result)
	d.detectAdFraud(ctx, &result)

	result.TotalFlagged = result.FlaggedUsers + result.FakeStepsDetected + result.AdFraudDetected
	recordEvent(ctx, d.auditRepo, "abuse_sweep_completed", result)

	xcontext.Logger(ctx).Infof("Abuse sweep completed, flagged %d users", result.TotalFlagged)

	return &model.AbuseSweepResponse{
		Success:   true,
		Message:   "Anti-abuse sweep completed",
		Results:   result,
		Timestamp: d.now(),
	}, nil
}

// flag returns true if the user was flagged by this call.
func (d *abuseDomain) flag(ctx context.Context, userID string, reason entity.AbuseReason, score float64) bool {
	err := d.profileRepo.Flag(ctx, userID, reason, roundScore(score))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot flag user %s: %v", userID, err)
		}

		return false
	}

	common.PromCounters[common.AbuseFlagsTotal].WithLabelValues(string(reason)).Inc()
	return true
}

func (d *abuseDomain) detectSharedDevices(ctx context.Context, result *model.AbuseSweepResult) error {
	cfg := xcontext.Configs(ctx).Abuse
	devices, err := d.profileRepo.GetSharedDevices(ctx, cfg.MinAccountsPerDevice)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get shared devices: %v", err)
		return errorx.Unknown
	}

	result.SuspiciousDevices = len(devices)
	for _, device := range devices {
		score := math.Min(float64(len(device.UserIDs))*cfg.DeviceScorePerAccount, 1.0)
		for _, userID := range device.UserIDs {
			if d.flag(ctx, userID, entity.MultipleAccounts, score) {
				result.FlaggedUsers++
			}
		}
	}

	return nil
}

func (d *abuseDomain) detectFakeSteps(ctx context.Context, result *model.AbuseSweepResult) {
	cfg := xcontext.Configs(ctx).Abuse
	since := dateutil.Date(d.now().Add(-cfg.Window))

	progresses, err := d.dailyProgressRepo.GetUnflaggedSince(ctx, since)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get daily progress since %s: %v", since, err)
		return
	}

	perfectDays := map[string]int{}
	order := []string{}
	for _, p := range progresses {
		if _, ok := perfectDays[p.UserID]; !ok {
			order = append(order, p.UserID)
			perfectDays[p.UserID] = 0
		}

		if len(p.StepClaimedFlags) >= cfg.PerfectDayClaims {
			perfectDays[p.UserID]++
		}
	}

	for _, userID := range order {
		if perfectDays[userID] < cfg.MinPerfectDays {
			continue
		}

		if d.flag(ctx, userID, entity.FakeSteps, cfg.FakeStepsScore) {
			result.FakeStepsDetected++
		}
	}
}

func (d *abuseDomain) detectAdFraud(ctx context.Context, result *model.AbuseSweepResult) {
	cfg := xcontext.Configs(ctx).Abuse
	stats, err := d.adSessionRepo.GetUnflaggedStats(ctx, d.now().Add(-cfg.Window))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ad session stats: %v", err)
		return
	}

	for _, stat := range stats {
		if stat.Started < cfg.MinAdSessions || stat.Completed != stat.Started {
			continue
		}

		if d.flag(ctx, stat.UserID, entity.AdFraud, cfg.AdFraudScore) {
			result.AdFraudDetected++
		}
	}
}

// roundScore keeps two decimals so summed weights persist as 0.9 rather than
// 0.8999999999999999.
func roundScore(score float64) float64 {
	return math.Round(score*100) / 100
}
