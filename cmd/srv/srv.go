package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/luckywalk/backend/config"
	"github.com/luckywalk/backend/internal/client"
	"github.com/luckywalk/backend/internal/common"
	"github.com/luckywalk/backend/internal/domain"
	"github.com/luckywalk/backend/internal/domain/tier"
	"github.com/luckywalk/backend/internal/repository"
	"github.com/luckywalk/backend/migration"
	"github.com/luckywalk/backend/pkg/api"
	"github.com/luckywalk/backend/pkg/authenticator"
	"github.com/luckywalk/backend/pkg/logger"
	"github.com/luckywalk/backend/pkg/router"
	"github.com/luckywalk/backend/pkg/xcontext"
	"github.com/luckywalk/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	userRepo          repository.UserRepository
	profileRepo       repository.ProfileRepository
	roleRepo          repository.RoleRepository
	roundRepo         repository.RoundRepository
	lotteryRepo       repository.LotteryRepository
	adSessionRepo     repository.AdSessionRepository
	dailyProgressRepo repository.DailyProgressRepository
	auditRepo         repository.AuditRepository

	authDomain       domain.AuthDomain
	adSessionDomain  domain.AdSessionDomain
	drawDomain       domain.DrawDomain
	abuseDomain      domain.AbuseDomain
	dailyResetDomain domain.DailyResetDomain
	notifyDomain     domain.NotifyDomain

	apiGenerator   api.Generator
	pushSender     client.PushSender
	oauth2Services []authenticator.IOAuth2Service

	redisClient xredis.Client

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
	s.ctx = xcontext.WithHTTPClient(s.ctx, &http.Client{Timeout: 10 * time.Second})
	s.ctx = xcontext.WithTokenEngine(s.ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.ConnectionString(),
		DefaultStringSize:         256,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{
		Logger: gormlogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormLogLevel(cfg.LogLevel),
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		panic(err)
	}

	return db
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Error
	}
}

func (s *srv) migrateDB() {
	var err error
	if xcontext.Configs(s.ctx).Env == "local" {
		err = migration.AutoMigrate(s.ctx)
	} else {
		err = migration.Migrate(s.ctx)
	}

	if err != nil {
		panic(err)
	}
}

// loadRedisClient leaves the client nil when redis is not configured, rate
// limits then fallback to in-process counters and cron jobs are not locked.
func (s *srv) loadRedisClient() {
	if xcontext.Configs(s.ctx).Redis.Addr == "" {
		xcontext.Logger(s.ctx).Warnf("Redis is not configured")
		return
	}

	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.profileRepo = repository.NewProfileRepository()
	s.roleRepo = repository.NewRoleRepository()
	s.roundRepo = repository.NewRoundRepository()
	s.lotteryRepo = repository.NewLotteryRepository()
	s.adSessionRepo = repository.NewAdSessionRepository()
	s.dailyProgressRepo = repository.NewDailyProgressRepository()
	s.auditRepo = repository.NewAuditRepository()
}

func (s *srv) loadClients() {
	s.apiGenerator = api.NewGenerator()
	s.pushSender = client.NewFCMSender(s.ctx, s.apiGenerator)
	s.oauth2Services = []authenticator.IOAuth2Service{
		client.NewKakaoClient(s.apiGenerator),
		client.NewAppleVerifier(s.ctx),
	}
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)

	drawTable, err := tier.FromConfig(cfg.Lottery.DrawTiers)
	if err != nil {
		panic(err)
	}

	processTable, err := tier.FromConfig(cfg.Lottery.ProcessTiers)
	if err != nil {
		panic(err)
	}

	s.authDomain = domain.NewAuthDomain(s.userRepo, s.profileRepo, s.oauth2Services)
	s.adSessionDomain = domain.NewAdSessionDomain(s.adSessionRepo, s.dailyProgressRepo, s.profileRepo)
	s.drawDomain = domain.NewDrawDomain(
		s.roundRepo,
		s.lotteryRepo,
		s.profileRepo,
		s.auditRepo,
		common.NewGlobalRoleVerifier(s.roleRepo),
		drawTable,
		processTable,
	)
	s.abuseDomain = domain.NewAbuseDomain(s.profileRepo, s.dailyProgressRepo, s.adSessionRepo, s.auditRepo)
	s.dailyResetDomain = domain.NewDailyResetDomain(
		s.dailyProgressRepo, s.profileRepo, s.adSessionRepo, s.auditRepo)
	s.notifyDomain = domain.NewNotifyDomain(s.roundRepo, s.auditRepo, s.pushSender)
}

// bootstrap prepares everything a command needs to run a domain operation.
func (s *srv) bootstrap() {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadRepos()
	s.loadClients()
	s.loadDomains()
}
