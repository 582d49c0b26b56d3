package domain

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/luckywalk/backend/internal/common"
	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/internal/model"
	"github.com/luckywalk/backend/internal/repository"
	"github.com/luckywalk/backend/pkg/crypto"
	"github.com/luckywalk/backend/pkg/dateutil"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AdSessionDomain interface {
	Start(context.Context, *model.StartAdSessionRequest) (*model.StartAdSessionResponse, error)
	Complete(context.Context, *model.CompleteAdSessionRequest) (*model.CompleteAdSessionResponse, error)
	ExpireStale(context.Context) (int64, error)
}

type adSessionDomain struct {
	adSessionRepo     repository.AdSessionRepository
	dailyProgressRepo repository.DailyProgressRepository
	profileRepo       repository.ProfileRepository
	now               func() time.Time
}

func NewAdSessionDomain(
	adSessionRepo repository.AdSessionRepository,
	dailyProgressRepo repository.DailyProgressRepository,
	profileRepo repository.ProfileRepository,
) *adSessionDomain {
	return &adSessionDomain{
		adSessionRepo:     adSessionRepo,
		dailyProgressRepo: dailyProgressRepo,
		profileRepo:       profileRepo,
		now:               time.Now,
	}
}

// RewardTickets returns the number of tickets credited for the seq-th ad of
// the day.
func RewardTickets(seq int) int {
	switch {
	case seq <= 0:
		return 0
	case seq <= 3:
		return 1
	case seq <= 6:
		return 3
	case seq <= 9:
		return 5
	case seq == 10:
		return 10
	default:
		return 0
	}
}

func adSignaturePayload(sessionID, nonce, deviceID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", sessionID, nonce, deviceID))
}

func (d *adSessionDomain) Start(
	ctx context.Context, req *model.StartAdSessionRequest,
) (*model.StartAdSessionResponse, error) {
	if req.AdUnitID == "" || req.Seq <= 0 {
		return nil, errorx.New(errorx.BadRequest, "ad_unit_id and seq are required")
	}

	userID := xcontext.RequestUserID(ctx)
	profile, err := d.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user profile")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user profile: %v", err)
		return nil, errorx.Unknown
	}

	if profile.AbuseFlag {
		return nil, errorx.New(errorx.PermissionDenied, "Account is restricted from rewards")
	}

	now := d.now()
	currentSeq := 0
	progress, err := d.dailyProgressRepo.Get(ctx, userID, dateutil.Date(now))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get daily progress: %v", err)
			return nil, errorx.Unknown
		}
	} else {
		currentSeq = progress.AdClaimedSeq
	}

	if req.Seq != currentSeq+1 {
		return nil, errorx.New(errorx.BadRequest,
			"Invalid sequence, expected seq %d but current seq is %d", currentSeq+1, currentSeq)
	}

	cfg := xcontext.Configs(ctx).Lottery
	if req.Seq > cfg.MaxDailyAdClaims {
		return nil, errorx.New(errorx.BadRequest, "Daily limit exceeded")
	}

	session := &entity.AdSession{
		Base:      entity.Base{ID: uuid.NewString(), CreatedAt: now},
		UserID:    userID,
		AdUnitID:  req.AdUnitID,
		Seq:       req.Seq,
		Nonce:     uuid.NewString(),
		ExpiresAt: now.Add(cfg.AdSessionTTL),
		Status:    entity.AdSessionIssued,
	}

	if err := d.adSessionRepo.Create(ctx, session); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create ad session: %v", err)
		return nil, errorx.Unknown
	}

	return &model.StartAdSessionResponse{
		Success:   true,
		SessionID: session.ID,
		Nonce:     session.Nonce,
		ExpiresAt: session.ExpiresAt,
		Seq:       session.Seq,
	}, nil
}

func (d *adSessionDomain) Complete(
	ctx context.Context, req *model.CompleteAdSessionRequest,
) (*model.CompleteAdSessionResponse, error) {
	if req.SessionID == "" || req.Nonce == "" || req.DeviceID == "" {
		return nil, errorx.New(errorx.BadRequest, "session_id, nonce, and device_id are required")
	}

	userID := xcontext.RequestUserID(ctx)
	session, err := d.adSessionRepo.GetByIDAndUser(ctx, req.SessionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Session not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get ad session: %v", err)
		return nil, errorx.Unknown
	}

	if session.Status != entity.AdSessionIssued {
		return nil, errorx.New(errorx.StateConflict, "Session already completed or expired")
	}

	now := d.now()
	if now.After(session.ExpiresAt) {
		if err := d.adSessionRepo.Expire(ctx, session.ID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot expire ad session %s: %v", session.ID, err)
		}

		return nil, errorx.New(errorx.Expired, "Session expired")
	}

	if session.Nonce != req.Nonce {
		return nil, errorx.New(errorx.BadRequest, "Invalid nonce")
	}

	if req.Signature != "" {
		secret := xcontext.Configs(ctx).Admob.SecretKey
		payload := adSignaturePayload(session.ID, session.Nonce, req.DeviceID)
		if !crypto.VerifyHMAC(sha256.New, payload, []byte(secret), req.Signature) {
			return nil, errorx.New(errorx.BadRequest, "Invalid signature")
		}
	}

	session.RewardTickets = RewardTickets(session.Seq)
	session.DeviceID = sql.NullString{String: req.DeviceID, Valid: true}
	session.CompletedAt = sql.NullTime{Time: now, Valid: true}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.adSessionRepo.Complete(ctx, session); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.StateConflict, "Session already completed or expired")
		}

		xcontext.Logger(ctx).Errorf("Cannot complete ad session: %v", err)
		return nil, errorx.New(errorx.Internal, "Failed to process reward")
	}

	// The slot belongs to the day the session was issued.
	date := dateutil.Date(session.CreatedAt)
	if err := d.dailyProgressRepo.AdvanceAdSeq(ctx, userID, date, session.Seq); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.StateConflict, "Sequence %d has already been claimed", session.Seq)
		}

		xcontext.Logger(ctx).Errorf("Cannot advance daily progress: %v", err)
		return nil, errorx.New(errorx.Internal, "Failed to process reward")
	}

	if err := d.profileRepo.IncreaseTicketBalance(ctx, userID, session.RewardTickets); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit %d tickets: %v", session.RewardTickets, err)
		return nil, errorx.New(errorx.Internal, "Failed to process reward")
	}

	ctx, err = xcontext.WithCommitDBTransaction(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit ad reward: %v", err)
		return nil, errorx.New(errorx.Internal, "Failed to process reward")
	}

	common.PromCounters[common.AdRewardTicketsTotal].
		WithLabelValues(strconv.Itoa(session.Seq)).
		Add(float64(session.RewardTickets))

	return &model.CompleteAdSessionResponse{
		Success:       true,
		RewardTickets: session.RewardTickets,
		Seq:           session.Seq,
		CompletedAt:   now,
	}, nil
}

// ExpireStale flips every issued session past its expiry to expired.
func (d *adSessionDomain) ExpireStale(ctx context.Context) (int64, error) {
	n, err := d.adSessionRepo.ExpireStale(ctx, d.now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot expire stale ad sessions: %v", err)
		return 0, errorx.Unknown
	}

	return n, nil
}
