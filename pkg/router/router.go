package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may return a new context which is
// passed to the next middlewares and the handler, or nil to keep the current
// one. Returning an error stops the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response has been written, the context contains
// the error returned by middlewares or handler (if any).
type CloserFunc func(ctx context.Context)

type Router struct {
	root    *gin.Engine
	ctx     context.Context
	options map[string]struct{}

	befores []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router whose handlers receive a child of ctx, so ctx should
// carry all shared dependencies (configs, logger, database).
func New(ctx context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)

	root := gin.New()
	root.Use(gin.CustomRecovery(recovery(ctx)))

	return &Router{
		root:    root,
		ctx:     ctx,
		options: make(map[string]struct{}),
	}
}

// Branch creates a router sharing the same engine. Middlewares added to the
// branch do not affect the parent.
func (r *Router) Branch() *Router {
	return &Router{
		root:    r.root,
		ctx:     r.ctx,
		options: r.options,
		befores: append([]MiddlewareFunc{}, r.befores...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Mount serves a raw http.Handler at the pattern, without middlewares.
func (r *Router) Mount(pattern string, handler http.Handler) {
	r.root.GET(pattern, gin.WrapH(handler))
}

func (r *Router) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
		OptionsPassthrough: true,
	}).Handler(r.root)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.root.GET(pattern, wrapHandler(r, handler))
	r.allowPreflight(pattern)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.root.POST(pattern, wrapHandler(r, handler))
	r.allowPreflight(pattern)
}

// ANY registers the handler for both GET and POST, it is used by endpoints
// which are triggered by schedulers.
func ANY[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	GET(r, pattern, handler)
	POST(r, pattern, handler)
}

// allowPreflight answers OPTIONS with 200 and an empty body.
func (r *Router) allowPreflight(pattern string) {
	if _, ok := r.options[pattern]; ok {
		return
	}

	r.options[pattern] = struct{}{}
	r.root.OPTIONS(pattern, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}
