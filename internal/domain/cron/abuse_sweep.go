package cron

import (
	"context"
	"time"

	"github.com/luckywalk/backend/internal/domain"
	"github.com/luckywalk/backend/internal/model"
	"github.com/luckywalk/backend/pkg/xcontext"
)

type AbuseSweepCronJob struct {
	abuseDomain domain.AbuseDomain
	interval    time.Duration
}

func NewAbuseSweepCronJob(abuseDomain domain.AbuseDomain, interval time.Duration) *AbuseSweepCronJob {
	return &AbuseSweepCronJob{abuseDomain: abuseDomain, interval: interval}
}

func (job *AbuseSweepCronJob) Name() string {
	return "abuse_sweep"
}

func (job *AbuseSweepCronJob) Do(ctx context.Context) {
	resp, err := job.abuseDomain.Sweep(ctx, &model.AbuseSweepRequest{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sweep abusers: %v", err)
		return
	}

	xcontext.Logger(ctx).Infof("Abuse sweep flagged %d users", resp.Results.TotalFlagged)
}

func (job *AbuseSweepCronJob) RunNow() bool {
	return false
}

func (job *AbuseSweepCronJob) Next(now time.Time) time.Time {
	return nextSlot(now, job.interval)
}
