package router

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/luckywalk/backend/pkg/errorx"
	"github.com/luckywalk/backend/pkg/xcontext"
)

type errorResponse struct {
	Code  int64  `json:"code"`
	Error string `json:"error"`
}

func newErrorResponse(errx errorx.Error) errorResponse {
	return errorResponse{Code: int64(errx.Code), Error: errx.Message}
}

func writeError(ctx context.Context, c *gin.Context, err error) {
	var errx errorx.Error
	if !errors.As(err, &errx) {
		xcontext.Logger(ctx).Errorf("Unexpected error on %s: %v", c.Request.URL.Path, err)
	}

	errx = errorx.Normalize(err)
	c.JSON(errx.HTTPStatus(), newErrorResponse(errx))
}
