package domain

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/internal/model"
	"github.com/luckywalk/backend/internal/repository"
	"github.com/luckywalk/backend/pkg/crypto"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/testutil"
	"github.com/luckywalk/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

var adTestNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func newTestAdSessionDomain() *adSessionDomain {
	d := NewAdSessionDomain(
		repository.NewAdSessionRepository(),
		repository.NewDailyProgressRepository(),
		repository.NewProfileRepository(),
	)
	d.now = func() time.Time { return adTestNow }
	return d
}

func signAdSession(sessionID, nonce, deviceID string) string {
	return crypto.HMAC(sha256.New, adSignaturePayload(sessionID, nonce, deviceID), []byte("admob-secret"))
}

func TestRewardTickets(t *testing.T) {
	tests := []struct {
		seq  int
		want int
	}{
		{seq: 0, want: 0},
		{seq: 1, want: 1},
		{seq: 3, want: 1},
		{seq: 4, want: 3},
		{seq: 6, want: 3},
		{seq: 7, want: 5},
		{seq: 9, want: 5},
		{seq: 10, want: 10},
		{seq: 11, want: 0},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, RewardTickets(tt.seq), "seq %d", tt.seq)
	}
}

func Test_adSessionDomain_Start(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		claimed  int
		req      *model.StartAdSessionRequest
		wantErr  error
		wantSeq  int
		withUser func(ctx context.Context)
	}{
		{
			name:    "happy case",
			userID:  testutil.User1,
			req:     &model.StartAdSessionRequest{AdUnitID: "unit", Seq: 1},
			wantSeq: 1,
		},
		{
			name:    "continue the daily sequence",
			userID:  testutil.User1,
			claimed: 4,
			req:     &model.StartAdSessionRequest{AdUnitID: "unit", Seq: 5},
			wantSeq: 5,
		},
		{
			name:    "missing ad unit",
			userID:  testutil.User1,
			req:     &model.StartAdSessionRequest{Seq: 1},
			wantErr: errorx.New(errorx.BadRequest, "ad_unit_id and seq are required"),
		},
		{
			name:    "skip a slot",
			userID:  testutil.User1,
			req:     &model.StartAdSessionRequest{AdUnitID: "unit", Seq: 2},
			wantErr: errorx.New(errorx.BadRequest, "Invalid sequence, expected seq 1 but current seq is 0"),
		},
		{
			name:    "replay a claimed slot",
			userID:  testutil.User1,
			claimed: 3,
			req:     &model.StartAdSessionRequest{AdUnitID: "unit", Seq: 3},
			wantErr: errorx.New(errorx.BadRequest, "Invalid sequence, expected seq 4 but current seq is 3"),
		},
		{
			name:    "daily limit",
			userID:  testutil.User1,
			claimed: 10,
			req:     &model.StartAdSessionRequest{AdUnitID: "unit", Seq: 11},
			wantErr: errorx.New(errorx.BadRequest, "Daily limit exceeded"),
		},
		{
			name:    "no profile",
			userID:  "ghost",
			req:     &model.StartAdSessionRequest{AdUnitID: "unit", Seq: 1},
			wantErr: errorx.New(errorx.NotFound, "Not found user profile"),
		},
		{
			name:   "flagged user",
			userID: "cheater",
			req:    &model.StartAdSessionRequest{AdUnitID: "unit", Seq: 1},
			withUser: func(ctx context.Context) {
				testutil.InsertUser(ctx, "cheater", testutil.Flagged(entity.AdFraud))
			},
			wantErr: errorx.New(errorx.PermissionDenied, "Account is restricted from rewards"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContextWithUserID(tt.userID)
			testutil.CreateFixtureDb(ctx)
			if tt.withUser != nil {
				tt.withUser(ctx)
			}

			if tt.claimed > 0 {
				err := repository.NewDailyProgressRepository().Create(ctx, &entity.DailyProgress{
					Base:             entity.Base{ID: "progress"},
					UserID:           tt.userID,
					Date:             "2026-10-19",
					StepClaimedFlags: datatypes.JSONMap{},
					AdClaimedSeq:     tt.claimed,
				})
				require.NoError(t, err)
			}

			resp, err := newTestAdSessionDomain().Start(ctx, tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				require.Equal(t, tt.wantErr, err)
				return
			}

			require.NoError(t, err)
			require.True(t, resp.Success)
			require.Equal(t, tt.wantSeq, resp.Seq)
			require.NotEmpty(t, resp.SessionID)
			require.NotEmpty(t, resp.Nonce)
			require.Equal(t, adTestNow.Add(time.Minute), resp.ExpiresAt)

			session, err := repository.NewAdSessionRepository().GetByIDAndUser(ctx, resp.SessionID, tt.userID)
			require.NoError(t, err)
			require.Equal(t, entity.AdSessionIssued, session.Status)
			require.Equal(t, "unit", session.AdUnitID)
		})
	}
}

func Test_adSessionDomain_Complete(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1)
	testutil.CreateFixtureDb(ctx)
	d := newTestAdSessionDomain()

	started, err := d.Start(ctx, &model.StartAdSessionRequest{AdUnitID: "unit", Seq: 1})
	require.NoError(t, err)

	req := &model.CompleteAdSessionRequest{
		SessionID: started.SessionID,
		Nonce:     started.Nonce,
		DeviceID:  "device",
		Signature: signAdSession(started.SessionID, started.Nonce, "device"),
	}

	resp, err := d.Complete(ctx, req)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, 1, resp.RewardTickets)
	require.Equal(t, 1, resp.Seq)
	require.Equal(t, adTestNow, resp.CompletedAt)

	profile, err := repository.NewProfileRepository().GetByUserID(ctx, testutil.User1)
	require.NoError(t, err)
	require.Equal(t, int64(1), profile.TicketBalance)

	progress, err := repository.NewDailyProgressRepository().Get(ctx, testutil.User1, "2026-10-19")
	require.NoError(t, err)
	require.Equal(t, 1, progress.AdClaimedSeq)

	session, err := repository.NewAdSessionRepository().GetByIDAndUser(ctx, started.SessionID, testutil.User1)
	require.NoError(t, err)
	require.Equal(t, entity.AdSessionCompleted, session.Status)
	require.Equal(t, "device", session.DeviceID.String)

	// The same session cannot be redeemed twice.
	_, err = d.Complete(ctx, req)
	require.Equal(t, errorx.New(errorx.StateConflict, "Session already completed or expired"), err)

	profile, err = repository.NewProfileRepository().GetByUserID(ctx, testutil.User1)
	require.NoError(t, err)
	require.Equal(t, int64(1), profile.TicketBalance)
}

func Test_adSessionDomain_Complete_SequenceClaimedTwice(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1)
	testutil.CreateFixtureDb(ctx)
	d := newTestAdSessionDomain()

	first, err := d.Start(ctx, &model.StartAdSessionRequest{AdUnitID: "unit", Seq: 1})
	require.NoError(t, err)
	second, err := d.Start(ctx, &model.StartAdSessionRequest{AdUnitID: "unit", Seq: 1})
	require.NoError(t, err)

	_, err = d.Complete(ctx, &model.CompleteAdSessionRequest{
		SessionID: first.SessionID,
		Nonce:     first.Nonce,
		DeviceID:  "device",
	})
	require.NoError(t, err)

	_, err = d.Complete(ctx, &model.CompleteAdSessionRequest{
		SessionID: second.SessionID,
		Nonce:     second.Nonce,
		DeviceID:  "device",
	})
	require.Equal(t, errorx.New(errorx.StateConflict, "Sequence 1 has already been claimed"), err)

	session, err := repository.NewAdSessionRepository().GetByIDAndUser(ctx, second.SessionID, testutil.User1)
	require.NoError(t, err)
	require.Equal(t, entity.AdSessionIssued, session.Status)
	require.False(t, session.CompletedAt.Valid)

	profile, err := repository.NewProfileRepository().GetByUserID(ctx, testutil.User1)
	require.NoError(t, err)
	require.Equal(t, int64(1), profile.TicketBalance)

	progress, err := repository.NewDailyProgressRepository().Get(ctx, testutil.User1, "2026-10-19")
	require.NoError(t, err)
	require.Equal(t, 1, progress.AdClaimedSeq)
}

func Test_adSessionDomain_Complete_FullDay(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1)
	testutil.CreateFixtureDb(ctx)
	d := newTestAdSessionDomain()

	total := 0
	for seq := 1; seq <= 10; seq++ {
		started, err := d.Start(ctx, &model.StartAdSessionRequest{AdUnitID: "unit", Seq: seq})
		require.NoError(t, err)

		resp, err := d.Complete(ctx, &model.CompleteAdSessionRequest{
			SessionID: started.SessionID,
			Nonce:     started.Nonce,
			DeviceID:  "device",
		})
		require.NoError(t, err)
		require.Equal(t, seq, resp.Seq)
		total += resp.RewardTickets
	}

	require.Equal(t, 37, total)

	profile, err := repository.NewProfileRepository().GetByUserID(ctx, testutil.User1)
	require.NoError(t, err)
	require.Equal(t, int64(37), profile.TicketBalance)

	_, err = d.Start(ctx, &model.StartAdSessionRequest{AdUnitID: "unit", Seq: 11})
	require.Equal(t, errorx.New(errorx.BadRequest, "Daily limit exceeded"), err)
}

func Test_adSessionDomain_Complete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(ctx context.Context, d *adSessionDomain, req *model.CompleteAdSessionRequest)
		wantErr error
	}{
		{
			name: "missing device",
			modify: func(ctx context.Context, d *adSessionDomain, req *model.CompleteAdSessionRequest) {
				req.DeviceID = ""
			},
			wantErr: errorx.New(errorx.BadRequest, "session_id, nonce, and device_id are required"),
		},
		{
			name: "unknown session",
			modify: func(ctx context.Context, d *adSessionDomain, req *model.CompleteAdSessionRequest) {
				req.SessionID = "unknown"
			},
			wantErr: errorx.New(errorx.NotFound, "Session not found"),
		},
		{
			name: "invalid nonce",
			modify: func(ctx context.Context, d *adSessionDomain, req *model.CompleteAdSessionRequest) {
				req.Nonce = "other"
			},
			wantErr: errorx.New(errorx.BadRequest, "Invalid nonce"),
		},
		{
			name: "invalid signature",
			modify: func(ctx context.Context, d *adSessionDomain, req *model.CompleteAdSessionRequest) {
				req.Signature = signAdSession(req.SessionID, req.Nonce, "other-device")
			},
			wantErr: errorx.New(errorx.BadRequest, "Invalid signature"),
		},
		{
			name: "expired",
			modify: func(ctx context.Context, d *adSessionDomain, req *model.CompleteAdSessionRequest) {
				d.now = func() time.Time { return adTestNow.Add(2 * time.Minute) }
			},
			wantErr: errorx.New(errorx.Expired, "Session expired"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContextWithUserID(testutil.User1)
			testutil.CreateFixtureDb(ctx)
			d := newTestAdSessionDomain()

			started, err := d.Start(ctx, &model.StartAdSessionRequest{AdUnitID: "unit", Seq: 1})
			require.NoError(t, err)

			req := &model.CompleteAdSessionRequest{
				SessionID: started.SessionID,
				Nonce:     started.Nonce,
				DeviceID:  "device",
			}
			tt.modify(ctx, d, req)

			_, err = d.Complete(ctx, req)
			require.Error(t, err)
			require.Equal(t, tt.wantErr, err)

			profile, err := repository.NewProfileRepository().GetByUserID(ctx, testutil.User1)
			require.NoError(t, err)
			require.Equal(t, int64(0), profile.TicketBalance)
		})
	}
}

func Test_adSessionDomain_Complete_OtherUser(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1)
	testutil.CreateFixtureDb(ctx)
	d := newTestAdSessionDomain()

	started, err := d.Start(ctx, &model.StartAdSessionRequest{AdUnitID: "unit", Seq: 1})
	require.NoError(t, err)

	otherCtx := xcontext.WithRequestUserID(ctx, testutil.User2)
	_, err = d.Complete(otherCtx, &model.CompleteAdSessionRequest{
		SessionID: started.SessionID,
		Nonce:     started.Nonce,
		DeviceID:  "device",
	})
	require.Equal(t, errorx.New(errorx.NotFound, "Session not found"), err)
}

func Test_adSessionDomain_ExpireStale(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1)
	testutil.CreateFixtureDb(ctx)
	d := newTestAdSessionDomain()

	started, err := d.Start(ctx, &model.StartAdSessionRequest{AdUnitID: "unit", Seq: 1})
	require.NoError(t, err)

	n, err := d.ExpireStale(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), n)

	d.now = func() time.Time { return adTestNow.Add(time.Hour) }
	n, err = d.ExpireStale(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	session, err := repository.NewAdSessionRepository().GetByIDAndUser(ctx, started.SessionID, testutil.User1)
	require.NoError(t, err)
	require.Equal(t, entity.AdSessionExpired, session.Status)
}
