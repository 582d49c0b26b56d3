package model

import "time"

type DrawApplyResultsRequest struct {
	RoundID string `json:"round_id"`
}

type DrawApplyResultsResponse struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message"`
	RoundID       string         `json:"round_id"`
	RoundNo       int            `json:"round_no"`
	TotalTickets  int            `json:"total_tickets"`
	WinnersCount  int            `json:"winners_count"`
	ResultsByTier map[string]int `json:"results_by_tier"`
	Timestamp     time.Time      `json:"timestamp"`
}

type ProcessWinnersRequest struct {
	RoundNumber    int   `json:"roundNumber"`
	WinningNumbers []int `json:"winningNumbers"`
	BonusNumber    int   `json:"bonusNumber"`
}

type ProcessWinnersResponse struct {
	Success          bool          `json:"success"`
	ProcessedTickets int           `json:"processed_tickets"`
	TotalWinners     int           `json:"total_winners"`
	TotalPrizeAmount int64         `json:"total_prize_amount"`
	LotteryResult    LotteryResult `json:"lottery_result"`
}

type LotteryResult struct {
	RoundID          string    `json:"round_id"`
	TotalWinners     int       `json:"total_winners"`
	TotalPrizeAmount int64     `json:"total_prize_amount"`
	Tier1Winners     int       `json:"tier_1_winners"`
	Tier1PrizeAmount int64     `json:"tier_1_prize_amount"`
	Tier2Winners     int       `json:"tier_2_winners"`
	Tier2PrizeAmount int64     `json:"tier_2_prize_amount"`
	Tier3Winners     int       `json:"tier_3_winners"`
	Tier3PrizeAmount int64     `json:"tier_3_prize_amount"`
	Tier4Winners     int       `json:"tier_4_winners"`
	Tier4PrizeAmount int64     `json:"tier_4_prize_amount"`
	Tier5Winners     int       `json:"tier_5_winners"`
	Tier5PrizeAmount int64     `json:"tier_5_prize_amount"`
	Tier6Winners     int       `json:"tier_6_winners"`
	Tier6PrizeAmount int64     `json:"tier_6_prize_amount"`
	Status           string    `json:"status"`
	ProcessedAt      time.Time `json:"processed_at"`
}

type NotifyWinnersRequest struct{}

type NotifyWinnersResponse struct {
	Success         bool        `json:"success"`
	Message         string      `json:"message"`
	RoundID         string      `json:"round_id,omitempty"`
	RoundNo         int         `json:"round_no,omitempty"`
	TotalWinners    int         `json:"total_winners"`
	NotifiedWinners int         `json:"notified_winners"`
	PushResult      *PushResult `json:"push_result,omitempty"`
}

type PushResult struct {
	Success      bool     `json:"success"`
	SuccessCount int      `json:"success_count"`
	FailureCount int      `json:"failure_count"`
	Errors       []string `json:"errors"`
}
