package repository

import (
	"context"
	"database/sql"

	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LotteryRepository interface {
	// Round
	CreateRound(ctx context.Context, round *entity.LotteryRound) error
	GetRoundByNumber(ctx context.Context, roundNumber int) (*entity.LotteryRound, error)
	CompleteRound(ctx context.Context, id string, winning []int, bonus int) error

	// Ticket
	CreateTicket(ctx context.Context, ticket *entity.UserTicket) error
	GetTickets(ctx context.Context, roundID string) ([]entity.UserTicket, error)
	UpdateTicketResult(ctx context.Context, ticket *entity.UserTicket) error

	// Result
	UpsertResult(ctx context.Context, result *entity.LotteryResult) error
	GetResult(ctx context.Context, roundID string) (*entity.LotteryResult, error)
}

type lotteryRepository struct{}

func NewLotteryRepository() *lotteryRepository {
	return &lotteryRepository{}
}

func (r *lotteryRepository) CreateRound(ctx context.Context, round *entity.LotteryRound) error {
	return xcontext.DB(ctx).Create(round).Error
}

func (r *lotteryRepository) GetRoundByNumber(ctx context.Context, roundNumber int) (*entity.LotteryRound, error) {
	var result entity.LotteryRound
	if err := xcontext.DB(ctx).Take(&result, "round_number=?", roundNumber).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// CompleteRound stores the winning numbers and completes the round. It returns
// gorm.ErrRecordNotFound if the round has been completed before.
func (r *lotteryRepository) CompleteRound(ctx context.Context, id string, winning []int, bonus int) error {
	tx := xcontext.DB(ctx).Model(&entity.LotteryRound{}).
		Where("id=? AND status<>?", id, entity.RoundCompleted).
		Updates(map[string]any{
			"winning_numbers": entity.Array[int](winning),
			"bonus_number":    sql.NullInt64{Int64: int64(bonus), Valid: true},
			"status":          entity.RoundCompleted,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *lotteryRepository) CreateTicket(ctx context.Context, ticket *entity.UserTicket) error {
	return xcontext.DB(ctx).Create(ticket).Error
}

func (r *lotteryRepository) GetTickets(ctx context.Context, roundID string) ([]entity.UserTicket, error) {
	var result []entity.UserTicket
	if err := xcontext.DB(ctx).Order("created_at").Find(&result, "round_id=?", roundID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryRepository) UpdateTicketResult(ctx context.Context, ticket *entity.UserTicket) error {
	return xcontext.DB(ctx).Model(&entity.UserTicket{}).
		Where("id=?", ticket.ID).
		Updates(map[string]any{
			"is_winner":       ticket.IsWinner,
			"prize_tier":      ticket.PrizeTier,
			"matched_numbers": ticket.MatchedNumbers,
			"prize_amount":    ticket.PrizeAmount,
		}).Error
}

func (r *lotteryRepository) UpsertResult(ctx context.Context, result *entity.LotteryResult) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "round_id"}},
			UpdateAll: true,
		}).
		Create(result).Error
}

func (r *lotteryRepository) GetResult(ctx context.Context, roundID string) (*entity.LotteryResult, error) {
	var result entity.LotteryResult
	if err := xcontext.DB(ctx).Take(&result, "round_id=?", roundID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
