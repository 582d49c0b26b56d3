package domain

import (
	"context"
	"testing"

	"github.com/luckywalk/backend/internal/client"
	"github.com/luckywalk/backend/internal/entity"
	"github.com/luckywalk/backend/internal/model"
	"github.com/luckywalk/backend/internal/repository"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type mockPushSender struct {
	tokens  [][]string
	message client.PushMessage
	result  client.PushResult
}

func (m *mockPushSender) Send(ctx context.Context, tokens []string, msg client.PushMessage) client.PushResult {
	m.tokens = append(m.tokens, tokens)
	m.message = msg
	return m.result
}

func setupWinners(ctx context.Context) {
	testutil.InsertUser(ctx, "winner1", testutil.WithFCMToken("token1"))
	testutil.InsertUser(ctx, "winner2", testutil.WithFCMToken("token2"))
	testutil.InsertUser(ctx, "winner3")

	insertRound(ctx, "round1", 5, []int{1, 2, 3, 4, 5, 6}, 7, entity.RoundDrawn)
	err := repository.NewRoundRepository().CreateResults(ctx, []entity.ResultUser{
		{Base: entity.Base{ID: "result1"}, UserID: "winner1", RoundID: "round1", TicketID: "ticket1", Tier: 1},
		{Base: entity.Base{ID: "result2"}, UserID: "winner2", RoundID: "round1", TicketID: "ticket2", Tier: 3},
		{Base: entity.Base{ID: "result3"}, UserID: "winner3", RoundID: "round1", TicketID: "ticket3", Tier: 5},
	})
	if err != nil {
		panic(err)
	}
}

func Test_notifyDomain_NotifyWinners(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	setupWinners(ctx)

	sender := &mockPushSender{result: client.PushResult{Success: true, SuccessCount: 2}}
	d := NewNotifyDomain(repository.NewRoundRepository(), repository.NewAuditRepository(), sender)

	resp, err := d.NotifyWinners(ctx, &model.NotifyWinnersRequest{})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "Winner notifications sent", resp.Message)
	require.Equal(t, "round1", resp.RoundID)
	require.Equal(t, 5, resp.RoundNo)
	require.Equal(t, 3, resp.TotalWinners)
	require.Equal(t, 2, resp.NotifiedWinners)
	require.Equal(t, &model.PushResult{Success: true, SuccessCount: 2, Errors: []string{}}, resp.PushResult)

	require.Equal(t, [][]string{{"token1", "token2"}}, sender.tokens)
	require.Equal(t, "5회차 당첨 결과를 확인해보세요!", sender.message.Body)
	require.Equal(t, "round1", sender.message.Data["round_id"])
	require.Equal(t, "5", sender.message.Data["round_number"])

	results, err := repository.NewRoundRepository().GetResults(ctx, "round1")
	require.NoError(t, err)
	for _, r := range results {
		require.True(t, r.NotifiedAt.Valid, r.ID)
	}

	events, err := repository.NewAuditRepository().GetEvents(ctx, "push_sent")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.EqualValues(t, 2, events[0].Parameters["recipient_count"])

	// Winners are notified only once.
	resp, err = d.NotifyWinners(ctx, &model.NotifyWinnersRequest{})
	require.NoError(t, err)
	require.Equal(t, "No winners to notify", resp.Message)
	require.Equal(t, 0, resp.TotalWinners)
	require.Len(t, sender.tokens, 1)
}

func Test_notifyDomain_NotifyWinners_PushFailed(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	setupWinners(ctx)

	sender := &mockPushSender{result: client.PushResult{Success: false, Errors: []string{"FCM API error: 500"}}}
	d := NewNotifyDomain(repository.NewRoundRepository(), repository.NewAuditRepository(), sender)

	resp, err := d.NotifyWinners(ctx, &model.NotifyWinnersRequest{})
	require.NoError(t, err)
	require.False(t, resp.PushResult.Success)
	require.Equal(t, []string{"FCM API error: 500"}, resp.PushResult.Errors)

	// The winners stay pending and are retried on the next call.
	resp, err = d.NotifyWinners(ctx, &model.NotifyWinnersRequest{})
	require.NoError(t, err)
	require.Equal(t, 3, resp.TotalWinners)
	require.Len(t, sender.tokens, 2)
}

func Test_notifyDomain_NotifyWinners_NoTokens(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	testutil.InsertUser(ctx, "winner3")
	insertRound(ctx, "round1", 5, []int{1, 2, 3, 4, 5, 6}, 7, entity.RoundDrawn)
	err := repository.NewRoundRepository().CreateResults(ctx, []entity.ResultUser{
		{Base: entity.Base{ID: "result3"}, UserID: "winner3", RoundID: "round1", TicketID: "ticket3", Tier: 5},
	})
	require.NoError(t, err)

	sender := &mockPushSender{}
	d := NewNotifyDomain(repository.NewRoundRepository(), repository.NewAuditRepository(), sender)

	resp, err := d.NotifyWinners(ctx, &model.NotifyWinnersRequest{})
	require.NoError(t, err)
	require.Equal(t, "No winners with FCM tokens", resp.Message)
	require.Equal(t, 1, resp.TotalWinners)
	require.Nil(t, resp.PushResult)
	require.Empty(t, sender.tokens)
}

func Test_notifyDomain_NotifyWinners_NoDrawnRound(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	insertRound(ctx, "round1", 5, []int{1, 2, 3, 4, 5, 6}, 7, entity.RoundScheduled)

	d := NewNotifyDomain(repository.NewRoundRepository(), repository.NewAuditRepository(), &mockPushSender{})
	_, err := d.NotifyWinners(ctx, &model.NotifyWinnersRequest{})
	require.Equal(t, errorx.New(errorx.NotFound, "No drawn round found"), err)
}
