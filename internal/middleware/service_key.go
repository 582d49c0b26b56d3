package middleware

import (
	"context"
	"crypto/subtle"

	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/router"
	"github.com/luckywalk/backend/pkg/xcontext"
)

// ServiceKey protects the endpoints triggered by schedulers. The caller sends
// the key as a bearer token. Nothing is checked if no key is configured.
func ServiceKey() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		key := xcontext.Configs(ctx).Internal.ServiceKey
		if key == "" {
			return nil, nil
		}

		token := bearerToken(ctx)
		if token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Missing or invalid authorization header")
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
			return nil, errorx.New(errorx.PermissionDenied, "Invalid service key")
		}

		return nil, nil
	}
}
