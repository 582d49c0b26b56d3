package client

import (
	"context"
	"fmt"

	"github.com/luckywalk/backend/pkg/api"
	"github.com/luckywalk/backend/pkg/xcontext"
	"github.com/pkg/math"
	"golang.org/x/time/rate"
)

type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

type PushResult struct {
	Success      bool
	SuccessCount int
	FailureCount int
	Errors       []string
}

type PushSender interface {
	Send(ctx context.Context, tokens []string, msg PushMessage) PushResult
}

// fcmSender delivers messages through the FCM legacy HTTP API.
type fcmSender struct {
	apiGenerator api.Generator
	limiter      *rate.Limiter
}

func NewFCMSender(ctx context.Context, apiGenerator api.Generator) *fcmSender {
	cfg := xcontext.Configs(ctx).Push
	limit := rate.Inf
	if cfg.BatchesPerSecond > 0 {
		limit = rate.Limit(cfg.BatchesPerSecond)
	}

	return &fcmSender{
		apiGenerator: apiGenerator,
		limiter:      rate.NewLimiter(limit, 1),
	}
}

func (s *fcmSender) Send(ctx context.Context, tokens []string, msg PushMessage) PushResult {
	cfg := xcontext.Configs(ctx).Push
	if cfg.ServerKey == "" {
		xcontext.Logger(ctx).Errorf("FCM server key not configured")
		return PushResult{Success: false, Errors: []string{"FCM server key not configured"}}
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	result := PushResult{Success: true, Errors: []string{}}
	for start := 0; start < len(tokens); start += batchSize {
		end := math.MinInt(start+batchSize, len(tokens))

		if err := s.limiter.Wait(ctx); err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("Batch send error: %v", err))
			break
		}

		s.sendBatch(ctx, cfg.Endpoint, cfg.ServerKey, tokens[start:end], start, msg, &result)
	}

	return result
}

func (s *fcmSender) sendBatch(
	ctx context.Context,
	endpoint, serverKey string,
	tokens []string,
	offset int,
	msg PushMessage,
	result *PushResult,
) {
	data := api.JSON{}
	for k, v := range msg.Data {
		data[k] = v
	}

	resp, err := s.apiGenerator.New(endpoint, "").
		Body(api.JSON{
			"registration_ids": tokens,
			"notification": api.JSON{
				"title": msg.Title,
				"body":  msg.Body,
				"icon":  "ic_launcher",
				"sound": "default",
			},
			"data":     data,
			"priority": "high",
		}).
		POST(ctx, api.ServerKey(serverKey))
	if err != nil {
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("Batch send error: %v", err))
		return
	}

	if !resp.OK() {
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("FCM API error: %d", resp.Code))
		return
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		xcontext.Logger(ctx).Warnf("Unexpected FCM response: %s", string(resp.RawBody))
		return
	}

	if n, err := body.GetInt("success"); err == nil {
		result.SuccessCount += n
	}

	if n, err := body.GetInt("failure"); err == nil {
		result.FailureCount += n
	}

	results, err := body.GetArray("results")
	if err != nil {
		return
	}

	for i, r := range results {
		if e, err := r.GetString("error"); err == nil && e != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Token %d: %s", offset+i, e))
		}
	}
}
