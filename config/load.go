package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "luckywalk",
			User:     "root",
			LogLevel: "error",
		},
		ApiServer: ServerConfigs{Port: "8080"},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{Name: "access_token", Expiration: 24 * time.Hour},
		},
		Lottery: LotteryConfigs{
			DrawTiers: TierConfigs{
				Scale:       "five",
				Amounts:     map[string]int64{"1": 1000000, "2": 500000, "3": 50, "4": 10, "5": 5},
				PooledTiers: []int{1, 2},
			},
			ProcessTiers: TierConfigs{
				Scale: "six",
				Amounts: map[string]int64{
					"1": 2000000000, "2": 50000000, "3": 1500000, "4": 50000, "5": 5000, "6": 0,
				},
			},
			MaxDailyAdClaims: 10,
			AdSessionTTL:     time.Minute,
		},
		Abuse: AbuseConfigs{
			Window:                7 * 24 * time.Hour,
			MinAccountsPerDevice:  3,
			DeviceScorePerAccount: 0.3,
			PerfectDayClaims:      10,
			MinPerfectDays:        5,
			FakeStepsScore:        0.8,
			MinAdSessions:         20,
			AdFraudScore:          0.7,
		},
		Push: PushConfigs{
			Endpoint:         "https://fcm.googleapis.com/fcm/send",
			BatchSize:        1000,
			BatchesPerSecond: 5,
		},
		Kakao: KakaoConfigs{
			TokenURL:    "https://kauth.kakao.com/oauth/token",
			APIEndpoint: "https://kapi.kakao.com",
		},
		Apple: AppleConfigs{
			Issuer: "https://appleid.apple.com",
		},
		RateLimit: RateLimitConfigs{
			Enable: true,
			Limit:  30,
			Window: time.Minute,
		},
		Cron: CronConfigs{
			AbuseSweepInterval: time.Hour,
			DailyResetHour:     0,
			SessionJanitor:     time.Minute,
		},
	}
}

// Load builds the configurations from defaults, then the toml file at path
// (if any), then the environment. A .env file in the working directory is
// loaded into the environment first.
func Load(path string) (Configs, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Configs{}, err
	}

	overrideString(&cfg.Env, "ENV")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideString(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.Database, "DB_DATABASE")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.ApiServer.Host, "API_HOST")
	overrideString(&cfg.ApiServer.Port, "API_PORT")
	overrideString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	overrideString(&cfg.Internal.ServiceKey, "SERVICE_KEY")
	overrideString(&cfg.Admob.SecretKey, "ADMOB_SECRET_KEY")
	overrideString(&cfg.Push.ServerKey, "FCM_SERVER_KEY")
	overrideString(&cfg.Kakao.ClientID, "KAKAO_CLIENT_ID")
	overrideString(&cfg.Kakao.ClientSecret, "KAKAO_CLIENT_SECRET")
	overrideString(&cfg.Apple.ClientID, "APPLE_CLIENT_ID")
	overrideString(&cfg.Apple.TeamID, "APPLE_TEAM_ID")
	overrideString(&cfg.Apple.KeyID, "APPLE_KEY_ID")
	overrideString(&cfg.Apple.PrivateKeyPath, "APPLE_PRIVATE_KEY_PATH")
	overrideString(&cfg.Redis.Addr, "REDIS_ADDR")

	if err := overrideInt(&cfg.RateLimit.Limit, "RATE_LIMIT"); err != nil {
		return Configs{}, err
	}

	if cfg.Auth.TokenSecret == "" {
		return Configs{}, errors.New("token secret must be configured")
	}

	return cfg, nil
}

func overrideString(field *string, env string) {
	if value, ok := os.LookupEnv(env); ok {
		*field = value
	}
}

func overrideInt(field *int, env string) error {
	value, ok := os.LookupEnv(env)
	if !ok {
		return nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return err
	}

	*field = n
	return nil
}
