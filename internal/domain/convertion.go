package domain

import (
	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/internal/model"
)

func convertUser(user *entity.User) model.User {
	if user == nil {
		return model.User{}
	}

	result := model.User{
		ID:        user.ID,
		Email:     user.Email,
		Provider:  string(user.Provider),
		CreatedAt: user.CreatedAt,
	}

	if user.LastLoginAt.Valid {
		t := user.LastLoginAt.Time
		result.LastLoginAt = &t
	}

	return result
}

func convertLotteryResult(result *entity.LotteryResult) model.LotteryResult {
	if result == nil {
		return model.LotteryResult{}
	}

	return model.LotteryResult{
		RoundID:          result.RoundID,
		TotalWinners:     result.TotalWinners,
		TotalPrizeAmount: result.TotalPrizeAmount,
		Tier1Winners:     result.Tier1Winners,
		Tier1PrizeAmount: result.Tier1PrizeAmount,
		Tier2Winners:     result.Tier2Winners,
		Tier2PrizeAmount: result.Tier2PrizeAmount,
		Tier3Winners:     result.Tier3Winners,
		Tier3PrizeAmount: result.Tier3PrizeAmount,
		Tier4Winners:     result.Tier4Winners,
		Tier4PrizeAmount: result.Tier4PrizeAmount,
		Tier5Winners:     result.Tier5Winners,
		Tier5PrizeAmount: result.Tier5PrizeAmount,
		Tier6Winners:     result.Tier6Winners,
		Tier6PrizeAmount: result.Tier6PrizeAmount,
		Status:           string(result.Status),
		ProcessedAt:      result.ProcessedAt,
	}
}
