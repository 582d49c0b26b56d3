package domain

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/luckywalk/backend/internal/common"
	"github.com/luckywalk/backend/internal/domain/tier"
	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/internal/model"
	"github.com/luckywalk/backend/internal/repository"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	minLotteryNumber = 1
	maxLotteryNumber = 45
	drawnNumbers     = 6
)

type DrawDomain interface {
	ApplyResults(context.Context, *model.DrawApplyResultsRequest) (*model.DrawApplyResultsResponse, error)
	ProcessWinners(context.Context, *model.ProcessWinnersRequest) (*model.ProcessWinnersResponse, error)
}

type drawDomain struct {
	roundRepo    repository.RoundRepository
	lotteryRepo  repository.LotteryRepository
	profileRepo  repository.ProfileRepository
	auditRepo    repository.AuditRepository
	roleVerifier *common.GlobalRoleVerifier
	drawTable    tier.Table
	processTable tier.Table
	now          func() time.Time
}

func NewDrawDomain(
	roundRepo repository.RoundRepository,
	lotteryRepo repository.LotteryRepository,
	profileRepo repository.ProfileRepository,
	auditRepo repository.AuditRepository,
	roleVerifier *common.GlobalRoleVerifier,
	drawTable tier.Table,
	processTable tier.Table,
) *drawDomain {
	return &drawDomain{
		roundRepo:    roundRepo,
		lotteryRepo:  lotteryRepo,
		profileRepo:  profileRepo,
		auditRepo:    auditRepo,
		roleVerifier: roleVerifier,
		drawTable:    drawTable,
		processTable: processTable,
		now:          time.Now,
	}
}

func (d *drawDomain) ApplyResults(
	ctx context.Context, req *model.DrawApplyResultsRequest,
) (*model.DrawApplyResultsResponse, error) {
	if req.RoundID == "" {
		return nil, errorx.New(errorx.BadRequest, "round_id is required")
	}

	if err := d.roleVerifier.Verify(ctx, entity.RoleAdmin); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Admin access required")
	}

	round, err := d.roundRepo.GetByID(ctx, req.RoundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Round not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get round: %v", err)
		return nil, errorx.Unknown
	}

	if len(round.ResultNums) != drawnNumbers {
		return nil, errorx.New(errorx.BadRequest, "Winning numbers not set")
	}

	if round.Status != entity.RoundScheduled {
		return nil, errorx.New(errorx.StateConflict, "Round already processed")
	}

	tickets, err := d.roundRepo.GetTickets(ctx, round.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets of round %s: %v", round.ID, err)
		return nil, errorx.Unknown
	}

	if len(tickets) == 0 {
		return nil, errorx.New(errorx.BadRequest, "No tickets found for this round")
	}

	input := make([]tier.Ticket, 0, len(tickets))
	for _, t := range tickets {
		input = append(input, tier.Ticket{ID: t.ID, Numbers: t.Numbers})
	}

	settlement := d.drawTable.Settle(input, round.ResultNums, int(round.ResultBonus.Int64))

	results := []entity.ResultUser{}
	for i, outcome := range settlement.Outcomes {
		if outcome.Tier == tier.NoWin {
			continue
		}

		result := entity.ResultUser{
			Base:           entity.Base{ID: uuid.NewString()},
			UserID:         tickets[i].UserID,
			RoundID:        round.ID,
			TicketID:       tickets[i].ID,
			Tier:           outcome.Tier,
			MatchedCount:   outcome.Matched,
			ShareAmountKRW: outcome.Amount,
			KYCRequired:    outcome.Tier <= 2,
		}

		if result.KYCRequired {
			result.KYCStatus.Valid = true
			result.KYCStatus.String = string(entity.KYCNone)
		}

		results = append(results, result)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.roundRepo.CreateResults(ctx, results); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save results of round %s: %v", round.ID, err)
		return nil, errorx.Unknown
	}

	if err := d.roundRepo.MarkDrawn(ctx, round.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.StateConflict, "Round already processed")
		}

		xcontext.Logger(ctx).Errorf("Cannot update status of round %s: %v", round.ID, err)
		return nil, errorx.Unknown
	}

	ctx, err = xcontext.WithCommitDBTransaction(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit settlement of round %s: %v", round.ID, err)
		return nil, errorx.Unknown
	}

	byTier := map[string]int{}
	for t, n := range settlement.Winners {
		byTier[strconv.Itoa(t)] = n
	}

	err = d.auditRepo.CreateAdminAction(ctx, &entity.AdminAction{
		Base:       entity.Base{ID: uuid.NewString()},
		AdminUID:   xcontext.RequestUserID(ctx),
		ActionType: "draw_apply_results",
		Payload: datatypes.JSONMap{
			"round_id":        round.ID,
			"round_no":        round.RoundNo,
			"total_tickets":   len(tickets),
			"winners_count":   len(results),
			"results_by_tier": byTier,
		},
		IPAddress: common.ClientIP(xcontext.HTTPRequest(ctx)),
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot record admin action: %v", err)
	}

	common.PromCounters[common.RoundsSettledTotal].WithLabelValues("draw").Inc()

	return &model.DrawApplyResultsResponse{
		Success:       true,
		Message:       "Results applied successfully",
		RoundID:       round.ID,
		RoundNo:       round.RoundNo,
		TotalTickets:  len(tickets),
		WinnersCount:  len(results),
		ResultsByTier: byTier,
		Timestamp:     d.now(),
	}, nil
}

func validateDrawnNumbers(winning []int, bonus int) error {
	if len(winning) != drawnNumbers {
		return errorx.New(errorx.BadRequest, "Winning numbers must have %d numbers", drawnNumbers)
	}

	seen := map[int]bool{}
	for _, n := range append(slices.Clone(winning), bonus) {
		if n < minLotteryNumber || n > maxLotteryNumber {
			return errorx.New(errorx.BadRequest, "Number %d is out of range", n)
		}

		if seen[n] {
			return errorx.New(errorx.BadRequest, "Number %d is duplicated", n)
		}

		seen[n] = true
	}

	return nil
}

func (d *drawDomain) ProcessWinners(
	ctx context.Context, req *model.ProcessWinnersRequest,
) (*model.ProcessWinnersResponse, error) {
	if req.RoundNumber <= 0 || len(req.WinningNumbers) == 0 || req.BonusNumber == 0 {
		return nil, errorx.New(errorx.BadRequest, "Missing required parameters")
	}

	if err := validateDrawnNumbers(req.WinningNumbers, req.BonusNumber); err != nil {
		return nil, err
	}

	round, err := d.lotteryRepo.GetRoundByNumber(ctx, req.RoundNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Lottery round not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get lottery round: %v", err)
		return nil, errorx.Unknown
	}

	if round.Status == entity.RoundCompleted {
		return nil, errorx.New(errorx.StateConflict, "Lottery round already completed")
	}

	tickets, err := d.lotteryRepo.GetTickets(ctx, round.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets of lottery round %s: %v", round.ID, err)
		return nil, errorx.Unknown
	}

	input := make([]tier.Ticket, 0, len(tickets))
	for _, t := range tickets {
		input = append(input, tier.Ticket{ID: t.ID, Numbers: t.TicketNumbers})
	}

	settlement := d.processTable.Settle(input, req.WinningNumbers, req.BonusNumber)
	result := &entity.LotteryResult{
		RoundID:     round.ID,
		Status:      entity.RoundCompleted,
		ProcessedAt: d.now(),
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	for i, outcome := range settlement.Outcomes {
		ticket := &tickets[i]
		ticket.IsWinner = outcome.Tier != tier.NoWin
		ticket.PrizeTier = outcome.Tier
		ticket.MatchedNumbers = outcome.Matched
		ticket.PrizeAmount = outcome.Amount

		if err := d.lotteryRepo.UpdateTicketResult(ctx, ticket); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update ticket %s: %v", ticket.ID, err)
			return nil, errorx.Unknown
		}

		if !ticket.IsWinner {
			continue
		}

		result.AddWinner(outcome.Tier, outcome.Amount)
		if err := d.profileRepo.IncreaseWinnings(ctx, ticket.UserID, outcome.Amount); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update winnings of user %s: %v", ticket.UserID, err)
			return nil, errorx.Unknown
		}
	}

	err = d.lotteryRepo.CompleteRound(ctx, round.ID, req.WinningNumbers, req.BonusNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.StateConflict, "Lottery round already completed")
		}

		xcontext.Logger(ctx).Errorf("Cannot complete lottery round %s: %v", round.ID, err)
		return nil, errorx.Unknown
	}

	if err := d.lotteryRepo.UpsertResult(ctx, result); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save lottery result %s: %v", round.ID, err)
		return nil, errorx.Unknown
	}

	ctx, err = xcontext.WithCommitDBTransaction(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit lottery round %s: %v", round.ID, err)
		return nil, errorx.Unknown
	}

	common.PromCounters[common.RoundsSettledTotal].WithLabelValues("process").Inc()

	return &model.ProcessWinnersResponse{
		Success:          true,
		ProcessedTickets: len(tickets),
		TotalWinners:     result.TotalWinners,
		TotalPrizeAmount: result.TotalPrizeAmount,
		LotteryResult:    convertLotteryResult(result),
	}, nil
}
