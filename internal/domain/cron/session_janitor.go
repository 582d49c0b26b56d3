package cron

import (
	"context"
	"time"

	"github.com/luckywalk/backend/internal/domain"
	"github.com/luckywalk/backend/pkg/xcontext"
)

// SessionJanitorCronJob expires ad sessions which were never completed.
type SessionJanitorCronJob struct {
	adSessionDomain domain.AdSessionDomain
	interval        time.Duration
}

func NewSessionJanitorCronJob(adSessionDomain domain.AdSessionDomain, interval time.Duration) *SessionJanitorCronJob {
	return &SessionJanitorCronJob{adSessionDomain: adSessionDomain, interval: interval}
}

func (job *SessionJanitorCronJob) Name() string {
	return "session_janitor"
}

func (job *SessionJanitorCronJob) Do(ctx context.Context) {
	n, err := job.adSessionDomain.ExpireStale(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot expire ad sessions: %v", err)
		return
	}

	if n > 0 {
		xcontext.Logger(ctx).Infof("Expired %d ad sessions", n)
	}
}

func (job *SessionJanitorCronJob) RunNow() bool {
	return true
}

func (job *SessionJanitorCronJob) Next(now time.Time) time.Time {
	return nextSlot(now, job.interval)
}
