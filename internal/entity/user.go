package entity

import (
	"database/sql"

	"github.com/luckywalk/backend/pkg/enum"
	"gorm.io/datatypes"
)

type AuthProvider string

var (
	KakaoProvider = enum.New(AuthProvider("kakao"))
	AppleProvider = enum.New(AuthProvider("apple"))
)

type User struct {
	Base

	Email       string         `gorm:"index"`
	KakaoID     sql.NullString `gorm:"uniqueIndex"`
	AppleID     sql.NullString `gorm:"uniqueIndex"`
	Provider    AuthProvider
	LastLoginAt sql.NullTime
}

type Gender string

var (
	Male           = enum.New(Gender("male"))
	Female         = enum.New(Gender("female"))
	PreferNotToSay = enum.New(Gender("prefer_not_to_say"))
)

type AbuseReason string

var (
	MultipleAccounts = enum.New(AbuseReason("multiple_accounts"))
	FakeSteps        = enum.New(AbuseReason("fake_steps"))
	AdFraud          = enum.New(AbuseReason("ad_fraud"))
)

type UserProfile struct {
	Base

	UserID            string `gorm:"column:uid;uniqueIndex"`
	Nickname          string
	ProfileImageURL   string `gorm:"column:profile_image_url"`
	BirthYear         sql.NullInt32
	Gender            sql.NullString
	DeviceFingerprint sql.NullString `gorm:"index"`
	FCMToken          sql.NullString `gorm:"column:fcm_token"`

	AbuseFlag   bool `gorm:"index"`
	AbuseReason sql.NullString
	AbuseScore  float64

	TicketBalance    int64
	TotalTicketsWon  int64
	TotalPrizeAmount int64
}

type ActivityType string

var (
	LoginActivity = enum.New(ActivityType("login"))
)

type UserActivity struct {
	Base

	UserID        string `gorm:"column:uid;index"`
	ActivityType  ActivityType
	ActivityValue int
	ActivityData  datatypes.JSONMap
}
