package main

import (
	"net/http"

	"github.com/luckywalk/backend/internal/middleware"
	"github.com/luckywalk/backend/pkg/prometheus"
	"github.com/luckywalk/backend/pkg/router"
	"github.com/luckywalk/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.bootstrap()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on port: %s", cfg.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stop")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())
	s.router.Mount("/metrics", prometheus.NewHandler())

	// Social login.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.NewRateLimiter("auth", s.redisClient).Middleware())
	{
		router.POST(authRouter, "/auth-kakao", s.authDomain.KakaoLogin)
		router.POST(authRouter, "/auth-apple", s.authDomain.AppleLogin)
	}

	// Ad reward sessions need an access token.
	adRouter := s.router.Branch()
	adRouter.Before(middleware.Authenticate())
	adRouter.Before(middleware.NewRateLimiter("ad", s.redisClient).Middleware())
	{
		router.POST(adRouter, "/ad-session-start", s.adSessionDomain.Start)
		router.POST(adRouter, "/ad-session-complete", s.adSessionDomain.Complete)
	}

	adminRouter := s.router.Branch()
	adminRouter.Before(middleware.Authenticate())
	adminRouter.Before(middleware.NewOnlyAdmin(s.roleRepo).Middleware())
	{
		router.POST(adminRouter, "/draw-apply-results", s.drawDomain.ApplyResults)
	}

	// These following APIs are called by schedulers and operators.
	internalRouter := s.router.Branch()
	internalRouter.Before(middleware.ServiceKey())
	{
		router.POST(internalRouter, "/process-winners", s.drawDomain.ProcessWinners)
		router.ANY(internalRouter, "/anti-abuse-sweep", s.abuseDomain.Sweep)
		router.ANY(internalRouter, "/daily-reset", s.dailyResetDomain.Reset)
		router.POST(internalRouter, "/notify-winners", s.notifyDomain.NotifyWinners)
	}
}
