package entity

import (
	"database/sql"
	"time"

	"github.com/luckywalk/backend/pkg/enum"
	"gorm.io/datatypes"
)

type AdSessionStatus string

var (
	AdSessionIssued    = enum.New(AdSessionStatus("issued"))
	AdSessionCompleted = enum.New(AdSessionStatus("completed"))
	AdSessionExpired   = enum.New(AdSessionStatus("expired"))
)

type AdSession struct {
	Base

	UserID        string `gorm:"column:uid;index"`
	AdUnitID      string
	Seq           int
	Nonce         string
	ExpiresAt     time.Time       `gorm:"index"`
	Status        AdSessionStatus `gorm:"index"`
	DeviceID      sql.NullString
	RewardTickets int
	CompletedAt   sql.NullTime
}

// DailyProgress holds the per day counters of a user. Date is formatted as
// YYYY-MM-DD.
type DailyProgress struct {
	Base

	UserID           string `gorm:"column:uid;uniqueIndex:idx_daily_progress_uid_date"`
	Date             string `gorm:"uniqueIndex:idx_daily_progress_uid_date;index"`
	StepClaimedFlags datatypes.JSONMap
	AdClaimedSeq     int
	AttendanceDone   bool
}

func (DailyProgress) TableName() string {
	return "daily_progress"
}
