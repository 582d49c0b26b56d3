package cron

import (
	"context"
	"time"

	"github.com/luckywalk/backend/internal/domain"
	"github.com/luckywalk/backend/internal/model"
	"github.com/luckywalk/backend/pkg/dateutil"
	"github.com/luckywalk/backend/pkg/xcontext"
)

type DailyResetCronJob struct {
	dailyResetDomain domain.DailyResetDomain
	hour             int
}

// NewDailyResetCronJob runs the reset every day at the given UTC hour.
func NewDailyResetCronJob(dailyResetDomain domain.DailyResetDomain, hour int) *DailyResetCronJob {
	return &DailyResetCronJob{dailyResetDomain: dailyResetDomain, hour: hour}
}

func (job *DailyResetCronJob) Name() string {
	return "daily_reset"
}

func (job *DailyResetCronJob) Do(ctx context.Context) {
	resp, err := job.dailyResetDomain.Reset(ctx, &model.DailyResetRequest{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reset daily progress: %v", err)
		return
	}

	xcontext.Logger(ctx).Infof("Daily progress of %s reset for %d users", resp.Date, resp.UsersCount)
}

func (job *DailyResetCronJob) RunNow() bool {
	return false
}

func (job *DailyResetCronJob) Next(now time.Time) time.Time {
	return dateutil.NextHour(now, job.hour)
}
