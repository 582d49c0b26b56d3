package domain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/luckywalk/backend/internal/client"
	"github.com/luckywalk/backend/internal/common"
	"github.com/luckywalk/backend/internal/model"
	"github.com/luckywalk/backend/internal/repository"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type NotifyDomain interface {
	NotifyWinners(context.Context, *model.NotifyWinnersRequest) (*model.NotifyWinnersResponse, error)
}

type notifyDomain struct {
	roundRepo  repository.RoundRepository
	auditRepo  repository.AuditRepository
	pushSender client.PushSender
	now        func() time.Time
}

func NewNotifyDomain(
	roundRepo repository.RoundRepository,
	auditRepo repository.AuditRepository,
	pushSender client.PushSender,
) *notifyDomain {
	return &notifyDomain{
		roundRepo:  roundRepo,
		auditRepo:  auditRepo,
		pushSender: pushSender,
		now:        time.Now,
	}
}

type pushSentEvent struct {
	PushType       string `structs:"push_type"`
	RoundID        string `structs:"round_id"`
	RoundNumber    int    `structs:"round_number"`
	RecipientCount int    `structs:"recipient_count"`
	SuccessCount   int    `structs:"success_count"`
	FailureCount   int    `structs:"failure_count"`
}

func (d *notifyDomain) NotifyWinners(
	ctx context.Context, req *model.NotifyWinnersRequest,
) (*model.NotifyWinnersResponse, error) {
	round, err := d.roundRepo.GetLatestDrawn(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No drawn round found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the latest drawn round: %v", err)
		return nil, errorx.Unknown
	}

	winners, err := d.roundRepo.GetPendingWinners(ctx, round.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending winners of round %s: %v", round.ID, err)
		return nil, errorx.Unknown
	}

	resp := &model.NotifyWinnersResponse{
		Success:      true,
		RoundID:      round.ID,
		RoundNo:      round.RoundNo,
		TotalWinners: len(winners),
	}

	if len(winners) == 0 {
		resp.Message = "No winners to notify"
		return resp, nil
	}

	tokens := []string{}
	for _, w := range winners {
		if w.FCMToken.Valid && w.FCMToken.String != "" {
			tokens = append(tokens, w.FCMToken.String)
		}
	}

	if len(tokens) == 0 {
		resp.Message = "No winners with FCM tokens"
		return resp, nil
	}

	push := d.pushSender.Send(ctx, tokens, client.PushMessage{
		Title: "🎉 당첨 결과 발표!",
		Body:  fmt.Sprintf("%d회차 당첨 결과를 확인해보세요!", round.RoundNo),
		Data: map[string]string{
			"type":         "winner_notification",
			"round_id":     round.ID,
			"round_number": strconv.Itoa(round.RoundNo),
			"action":       "view_results",
		},
	})

	if push.Success {
		if _, err := d.roundRepo.MarkNotified(ctx, round.ID, d.now()); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark winners of round %s as notified: %v", round.ID, err)
		}
		common.PromCounters[common.PushMessagesTotal].WithLabelValues("success").Add(float64(push.SuccessCount))
		common.PromCounters[common.PushMessagesTotal].WithLabelValues("failure").Add(float64(push.FailureCount))
	} else {
		xcontext.Logger(ctx).Warnf("Push of round %s failed: %v", round.ID, push.Errors)
		common.PromCounters[common.PushMessagesTotal].WithLabelValues("error").Inc()
	}

	recordEvent(ctx, d.auditRepo, "push_sent", pushSentEvent{
		PushType:       "winners",
		RoundID:        round.ID,
		RoundNumber:    round.RoundNo,
		RecipientCount: len(tokens),
		SuccessCount:   push.SuccessCount,
		FailureCount:   push.FailureCount,
	})

	errs := push.Errors
	if errs == nil {
		errs = []string{}
	}

	resp.Message = "Winner notifications sent"
	resp.NotifiedWinners = len(tokens)
	resp.PushResult = &model.PushResult{
		Success:      push.Success,
		SuccessCount: push.SuccessCount,
		FailureCount: push.FailureCount,
		Errors:       errs,
	}

	return resp, nil
}
