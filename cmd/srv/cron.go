package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/luckywalk/backend/internal/domain/cron"
	"github.com/luckywalk/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.bootstrap()

	cfg := xcontext.Configs(s.ctx).Cron
	cronJobManager := cron.NewCronJobManager(s.redisClient)
	cronJobManager.Register(cron.NewAbuseSweepCronJob(s.abuseDomain, cfg.AbuseSweepInterval))
	cronJobManager.Register(cron.NewDailyResetCronJob(s.dailyResetDomain, cfg.DailyResetHour))
	cronJobManager.Register(cron.NewSessionJanitorCronJob(s.adSessionDomain, cfg.SessionJanitor))

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		<-signals
		cronJobManager.Cancel(s.ctx)
	}()

	cronJobManager.Start(s.ctx)
	return nil
}
