package router

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	befores := router.befores
	closers := router.closers

	return func(c *gin.Context) {
		ctx := xcontext.WithHTTPRequest(router.ctx, c.Request)

		resp, err := func() (*Response, error) {
			for _, middleware := range befores {
				newCtx, err := middleware(ctx)
				if err != nil {
					return nil, err
				}

				if newCtx != nil {
					ctx = newCtx
				}
			}

			var req Request
			if err := parseRequest(c, &req); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot parse request: %v", err)
				return nil, errorx.New(errorx.BadRequest, "Invalid request body")
			}

			return handler(ctx, &req)
		}()

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeError(ctx, c, err)
		} else {
			c.JSON(http.StatusOK, resp)
		}

		for _, closer := range closers {
			closer(ctx)
		}
	}
}

func parseRequest(c *gin.Context, req any) error {
	if c.Request.Method == http.MethodGet {
		return c.ShouldBindQuery(req)
	}

	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		// Empty body.
		return nil
	}

	return err
}

func recovery(ctx context.Context) gin.RecoveryFunc {
	return func(c *gin.Context, err any) {
		xcontext.Logger(ctx).Errorf("Panic on %s: %v", c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, newErrorResponse(errorx.Unknown))
	}
}
