package entity

import (
	"database/sql"
	"time"

	"github.com/luckywalk/backend/pkg/enum"
)

type RoundStatus string

var (
	RoundScheduled = enum.New(RoundStatus("scheduled"))
	RoundDrawn     = enum.New(RoundStatus("drawn"))
	RoundCompleted = enum.New(RoundStatus("completed"))
)

// Round is a draw cycle settled by an administrator.
type Round struct {
	Base

	RoundNo     int `gorm:"uniqueIndex"`
	ResultNums  Array[int]
	ResultBonus sql.NullInt64
	Status      RoundStatus `gorm:"index;default:scheduled"`
	DrawAt      sql.NullTime
}

type Ticket struct {
	Base

	UserID  string `gorm:"column:uid;index"`
	RoundID string `gorm:"index"`
	Round   Round  `gorm:"foreignKey:RoundID"`
	Numbers Array[int]
}

type KYCStatus string

var (
	KYCNone     = enum.New(KYCStatus("none"))
	KYCPending  = enum.New(KYCStatus("pending"))
	KYCVerified = enum.New(KYCStatus("verified"))
)

// ResultUser is the settlement result of a winning ticket.
type ResultUser struct {
	Base

	UserID         string `gorm:"column:uid;index"`
	RoundID        string `gorm:"index"`
	TicketID       string `gorm:"uniqueIndex"`
	Tier           int
	MatchedCount   int
	ShareAmountKRW int64          `gorm:"column:share_amount_krw"`
	KYCRequired    bool           `gorm:"column:kyc_required"`
	KYCStatus      sql.NullString `gorm:"column:kyc_status"`
	NotifiedAt     sql.NullTime
}

func (ResultUser) TableName() string {
	return "results_user"
}

// LotteryRound is a weekly draw which is settled by process-winners.
type LotteryRound struct {
	Base

	RoundNumber    int `gorm:"uniqueIndex"`
	WinningNumbers Array[int]
	BonusNumber    sql.NullInt64
	Status         RoundStatus `gorm:"index;default:scheduled"`
	DrawDate       sql.NullTime
}

type UserTicket struct {
	Base

	UserID         string       `gorm:"index"`
	RoundID        string       `gorm:"index"`
	LotteryRound   LotteryRound `gorm:"foreignKey:RoundID"`
	TicketNumbers  Array[int]
	IsWinner       bool
	PrizeTier      int
	MatchedNumbers int
	PrizeAmount    int64
}

type LotteryResult struct {
	RoundID string `gorm:"primarykey"`

	TotalWinners     int
	TotalPrizeAmount int64

	Tier1Winners     int   `gorm:"column:tier_1_winners"`
	Tier1PrizeAmount int64 `gorm:"column:tier_1_prize_amount"`
	Tier2Winners     int   `gorm:"column:tier_2_winners"`
	Tier2PrizeAmount int64 `gorm:"column:tier_2_prize_amount"`
	Tier3Winners     int   `gorm:"column:tier_3_winners"`
	Tier3PrizeAmount int64 `gorm:"column:tier_3_prize_amount"`
	Tier4Winners     int   `gorm:"column:tier_4_winners"`
	Tier4PrizeAmount int64 `gorm:"column:tier_4_prize_amount"`
	Tier5Winners     int   `gorm:"column:tier_5_winners"`
	Tier5PrizeAmount int64 `gorm:"column:tier_5_prize_amount"`
	Tier6Winners     int   `gorm:"column:tier_6_winners"`
	Tier6PrizeAmount int64 `gorm:"column:tier_6_prize_amount"`

	Status      RoundStatus
	ProcessedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AddWinner accumulates a winning ticket into the per-tier counters.
func (r *LotteryResult) AddWinner(tier int, amount int64) {
	r.TotalWinners++
	r.TotalPrizeAmount += amount

	switch tier {
	case 1:
		r.Tier1Winners++
		r.Tier1PrizeAmount += amount
	case 2:
		r.Tier2Winners++
		r.Tier2PrizeAmount += amount
	case 3:
		r.Tier3Winners++
		r.Tier3PrizeAmount += amount
	case 4:
		r.Tier4Winners++
		r.Tier4PrizeAmount += amount
	case 5:
		r.Tier5Winners++
		r.Tier5PrizeAmount += amount
	case 6:
		r.Tier6Winners++
		r.Tier6PrizeAmount += amount
	}
}
