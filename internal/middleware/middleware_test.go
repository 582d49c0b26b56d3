package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/luckywalk/backend/internal/model"
	"github.com/luckywalk/backend/internal/repository"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/testutil"
	"github.com/luckywalk/backend/pkg/xcontext"
	"github.com/luckywalk/backend/pkg/xredis"
	"github.com/stretchr/testify/require"
)

func withAuthorization(ctx context.Context, authorization string) context.Context {
	req := httptest.NewRequest("POST", "/ad-session-start", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	return xcontext.WithHTTPRequest(ctx, req)
}

func TestAuthenticate(t *testing.T) {
	ctx := testutil.MockContext()
	token, err := xcontext.TokenEngine(ctx).Generate(time.Minute, model.AccessToken{ID: "user1", Provider: "kakao"})
	require.NoError(t, err)

	expired, err := xcontext.TokenEngine(ctx).Generate(-time.Minute, model.AccessToken{ID: "user1"})
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		wantUserID    string
		wantErr       error
	}{
		{
			name:          "valid token",
			authorization: "Bearer " + token,
			wantUserID:    "user1",
		},
		{
			name:          "lowercase scheme",
			authorization: "bearer " + token,
			wantUserID:    "user1",
		},
		{
			name:    "missing header",
			wantErr: errorx.New(errorx.Unauthenticated, "Missing or invalid authorization header"),
		},
		{
			name:          "not a bearer token",
			authorization: "Basic abc",
			wantErr:       errorx.New(errorx.Unauthenticated, "Missing or invalid authorization header"),
		},
		{
			name:          "invalid token",
			authorization: "Bearer abc",
			wantErr:       errorx.New(errorx.Unauthenticated, "Invalid or expired token"),
		},
		{
			name:          "expired token",
			authorization: "Bearer " + expired,
			wantErr:       errorx.New(errorx.Unauthenticated, "Invalid or expired token"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newCtx, err := Authenticate()(withAuthorization(ctx, tt.authorization))
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantUserID, xcontext.RequestUserID(newCtx))
		})
	}
}

func TestOnlyAdmin(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	onlyAdmin := NewOnlyAdmin(repository.NewRoleRepository()).Middleware()

	_, err := onlyAdmin(xcontext.WithRequestUserID(ctx, testutil.Admin))
	require.NoError(t, err)

	_, err = onlyAdmin(xcontext.WithRequestUserID(ctx, testutil.User1))
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Admin access required"), err)

	_, err = onlyAdmin(ctx)
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Admin access required"), err)
}

func TestServiceKey(t *testing.T) {
	ctx := testutil.MockContext()

	// No key configured.
	_, err := ServiceKey()(withAuthorization(ctx, ""))
	require.NoError(t, err)

	cfg := xcontext.Configs(ctx)
	cfg.Internal.ServiceKey = "service-key"
	ctx = xcontext.WithConfigs(ctx, cfg)

	_, err = ServiceKey()(withAuthorization(ctx, "Bearer service-key"))
	require.NoError(t, err)

	_, err = ServiceKey()(withAuthorization(ctx, "Bearer other-key"))
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Invalid service key"), err)

	_, err = ServiceKey()(withAuthorization(ctx, ""))
	require.Equal(t, errorx.New(errorx.Unauthenticated, "Missing or invalid authorization header"), err)
}

func rateLimitContext(limit int) context.Context {
	ctx := testutil.MockContextWithUserID("user1")
	cfg := xcontext.Configs(ctx)
	cfg.RateLimit.Enable = true
	cfg.RateLimit.Limit = limit
	cfg.RateLimit.Window = time.Minute
	return withAuthorization(xcontext.WithConfigs(ctx, cfg), "")
}

func TestRateLimiter_Redis(t *testing.T) {
	ctx := rateLimitContext(3)
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	redisClient := xredis.NewMockClient()
	redisClient.Now = func() time.Time { return now }

	limiter := NewRateLimiter("ad", redisClient)
	limiter.now = func() time.Time { return now }
	middleware := limiter.Middleware()

	for i := 0; i < 3; i++ {
		_, err := middleware(ctx)
		require.NoError(t, err)
	}

	_, err := middleware(ctx)
	require.Equal(t, errorx.New(errorx.TooManyRequests, "Too many requests, please try again later"), err)

	// Another user has its own window.
	_, err = middleware(xcontext.WithRequestUserID(ctx, "user2"))
	require.NoError(t, err)

	// The next window starts from zero.
	now = now.Add(time.Minute)
	_, err = middleware(ctx)
	require.NoError(t, err)
}

func TestRateLimiter_Local(t *testing.T) {
	ctx := rateLimitContext(2)
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	limiter := NewRateLimiter("auth", nil)
	limiter.now = func() time.Time { return now }
	middleware := limiter.Middleware()

	for i := 0; i < 2; i++ {
		_, err := middleware(ctx)
		require.NoError(t, err)
	}

	_, err := middleware(ctx)
	require.Equal(t, errorx.New(errorx.TooManyRequests, "Too many requests, please try again later"), err)

	// One token is refilled every half minute.
	now = now.Add(30 * time.Second)
	_, err = middleware(ctx)
	require.NoError(t, err)
}

func TestRateLimiter_Disabled(t *testing.T) {
	ctx := rateLimitContext(1)
	cfg := xcontext.Configs(ctx)
	cfg.RateLimit.Enable = false
	ctx = xcontext.WithConfigs(ctx, cfg)

	middleware := NewRateLimiter("ad", nil).Middleware()
	for i := 0; i < 5; i++ {
		_, err := middleware(ctx)
		require.NoError(t, err)
	}
}
