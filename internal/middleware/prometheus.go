package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/luckywalk/backend/internal/common"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/router"
	"github.com/luckywalk/backend/pkg/xcontext"
)

func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return
		}

		status := http.StatusOK
		if err := xcontext.Error(ctx); err != nil {
			status = errorx.Normalize(err).HTTPStatus()
		}

		path := req.URL.Path
		code := fmt.Sprint(status)
		common.PromCounters[common.HTTPRequestTotal].WithLabelValues(path, code).Inc()

		if start := xcontext.StartTime(ctx); !start.IsZero() {
			common.PromHistograms[common.HTTPRequestDurationSeconds].
				WithLabelValues(path, code).
				Observe(time.Since(start).Seconds())
		}
	}
}
