package cron

import (
	"context"
	"sync"
	"time"

	"github.com/luckywalk/backend/internal/common"
	"github.com/luckywalk/backend/pkg/xcontext"
	"github.com/luckywalk/backend/pkg/xredis"
)

type CronJob interface {
	Name() string
	Do(context.Context)
	RunNow() bool

	// Next returns the first scheduled time after now. Replicas compute the
	// same times, so a run is identified by the job name and its time.
	Next(now time.Time) time.Time
}

type CronJobManager struct {
	mutex  sync.Mutex
	wait   sync.WaitGroup
	jobs   map[CronJob]*time.Timer
	locker xredis.Client
	now    func() time.Time
}

// NewCronJobManager creates a manager. If locker is not nil, a scheduled run
// is executed by only one replica.
func NewCronJobManager(locker xredis.Client) *CronJobManager {
	return &CronJobManager{
		jobs:   make(map[CronJob]*time.Timer),
		locker: locker,
		now:    time.Now,
	}
}

func (m *CronJobManager) Register(job CronJob) {
	m.jobs[job] = nil
}

// Start blocks until Cancel is called.
func (m *CronJobManager) Start(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Cron job manager started")

	m.mutex.Lock()
	jobs := make([]CronJob, 0, len(m.jobs))
	for job := range m.jobs {
		jobs = append(jobs, job)
	}
	m.wait.Add(len(jobs))
	m.mutex.Unlock()

	for _, job := range jobs {
		if job.RunNow() {
			go m.run(ctx, job, m.now())
		} else {
			m.schedule(ctx, job)
		}
	}

	m.wait.Wait()
	xcontext.Logger(ctx).Infof("Cron job manager stopped")
}

func (m *CronJobManager) Cancel(ctx context.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for job, timer := range m.jobs {
		if timer != nil {
			timer.Stop()
		} else {
			xcontext.Logger(ctx).Warnf("Stop job %s before it is scheduled", job.Name())
		}

		m.wait.Done()
	}

	// Clear all jobs to not schedule them again.
	m.jobs = make(map[CronJob]*time.Timer)
}

func (m *CronJobManager) run(ctx context.Context, job CronJob, at time.Time) {
	if m.acquire(ctx, job, at) {
		xcontext.Logger(ctx).Infof("%s is running...", job.Name())
		job.Do(ctx)
		xcontext.Logger(ctx).Infof("%s ok", job.Name())
	} else {
		xcontext.Logger(ctx).Debugf("%s at %s is run by another replica", job.Name(), at)
	}

	m.schedule(ctx, job)
}

// acquire reports whether this replica owns the run of job at the given time.
func (m *CronJobManager) acquire(ctx context.Context, job CronJob, at time.Time) bool {
	if m.locker == nil {
		return true
	}

	ttl := job.Next(at).Sub(at)
	if ttl <= 0 {
		ttl = time.Minute
	}

	key := common.RedisKeyCronLock(job.Name(), at.Unix())
	ok, err := m.locker.SetNX(ctx, key, "1", ttl)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot lock %s, run it anyway: %v", job.Name(), err)
		return true
	}

	return ok
}

func (m *CronJobManager) schedule(ctx context.Context, job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Only schedule jobs which are still registered.
	if _, ok := m.jobs[job]; ok {
		next := job.Next(m.now())
		m.jobs[job] = time.AfterFunc(next.Sub(m.now()), func() { m.run(ctx, job, next) })
	}
}

// nextSlot aligns interval jobs to the wall clock.
func nextSlot(now time.Time, interval time.Duration) time.Time {
	if interval <= 0 {
		interval = time.Minute
	}

	return now.Truncate(interval).Add(interval)
}
