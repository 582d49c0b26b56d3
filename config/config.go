package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Internal  InternalConfigs
	Admob     AdmobConfigs
	Lottery   LotteryConfigs
	Abuse     AbuseConfigs
	Push      PushConfigs
	Kakao     KakaoConfigs
	Apple     AppleConfigs
	Redis     RedisConfigs
	RateLimit RateLimitConfigs
	Cron      CronConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

// InternalConfigs protects the endpoints which are called by schedulers or
// operators. An empty ServiceKey leaves them open.
type InternalConfigs struct {
	ServiceKey string
}

type AdmobConfigs struct {
	SecretKey string
}

type TierConfigs struct {
	// Scale is either "five" or "six".
	Scale string

	// Amounts maps a tier (1 is the best) to its prize in KRW.
	Amounts map[string]int64

	// PooledTiers split their amount evenly among all winners of the tier.
	PooledTiers []int
}

type LotteryConfigs struct {
	DrawTiers    TierConfigs
	ProcessTiers TierConfigs

	MaxDailyAdClaims int
	AdSessionTTL     time.Duration
}

type AbuseConfigs struct {
	Window                time.Duration
	MinAccountsPerDevice  int
	DeviceScorePerAccount float64
	PerfectDayClaims      int
	MinPerfectDays        int
	FakeStepsScore        float64
	MinAdSessions         int
	AdFraudScore          float64
}

type PushConfigs struct {
	Endpoint         string
	ServerKey        string
	BatchSize        int
	BatchesPerSecond float64
}

type KakaoConfigs struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	APIEndpoint  string
}

type AppleConfigs struct {
	Issuer         string
	ClientID       string
	TeamID         string
	KeyID          string
	PrivateKeyPath string
}

type RedisConfigs struct {
	Addr string
}

type RateLimitConfigs struct {
	Enable bool
	Limit  int
	Window time.Duration
}

type CronConfigs struct {
	AbuseSweepInterval time.Duration
	DailyResetHour     int
	SessionJanitor     time.Duration
}
