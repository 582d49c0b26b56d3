package middleware

import (
	"context"
	"strings"

	"github.com/luckywalk/backend/internal/model"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/router"
	"github.com/luckywalk/backend/pkg/xcontext"
)

// Authenticate verifies the bearer access token and stores its owner as the
// request user.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := bearerToken(ctx)
		if token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Missing or invalid authorization header")
		}

		var info model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &info); err != nil || info.ID == "" {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid or expired token")
		}

		return xcontext.WithRequestUserID(ctx, info.ID), nil
	}
}

func bearerToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	auth, token, found := strings.Cut(req.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(auth, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
