package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/droplabz/backend/config"
	"github.com/droplabz/backend/pkg/errorx"
	"github.com/droplabz/backend/pkg/xcontext"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after the handler. The returned context
// replaces the request context.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs at the end of the request, even if a middleware or
// the handler failed.
type CloserFunc func(ctx context.Context)

type Router struct {
	engine *gin.Engine
	ctx    context.Context

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router whose handlers receive a child of ctx. The response
// writer is always the last closer.
func New(ctx context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	return &Router{
		engine:  gin.New(),
		ctx:     ctx,
		closers: []CloserFunc{},
	}
}

// Branch returns a router sharing the engine and copying the middlewares, so
// middlewares added to the branch don't affect the parent.
func (r *Router) Branch() *Router {
	return &Router{
		engine:  r.engine,
		ctx:     r.ctx,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]MiddlewareFunc{}, r.afters...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) After(m MiddlewareFunc) {
	r.afters = append(r.afters, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

// Handle registers a raw http.Handler, bypassing the middlewares.
func (r *Router) Handle(method, pattern string, handler http.Handler) {
	r.engine.Handle(method, pattern, gin.WrapH(handler))
}

// Handler returns the http.Handler of the router wrapped by the CORS policy.
func (r *Router) Handler(cfg config.ServerConfigs) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r.engine)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.GET(pattern, wrapHandler(r, handler, func(c *gin.Context, req *Request) error {
		return c.ShouldBindQuery(req)
	}))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.POST(pattern, wrapHandler(r, handler, func(c *gin.Context, req *Request) error {
		err := c.ShouldBindJSON(req)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}))
}

func wrapHandler[Request, Response any](
	r *Router,
	handler HandlerFunc[Request, Response],
	bind func(*gin.Context, *Request) error,
) gin.HandlerFunc {
	befores := r.befores
	afters := r.afters
	closers := r.closers

	return func(c *gin.Context) {
		ctx := xcontext.WithHTTPRequest(r.ctx, c.Request)
		ctx = xcontext.WithStartTime(ctx, time.Now())

		defer func() {
			for _, closer := range closers {
				closer(ctx)
			}
			writeResponse(ctx, c.Writer)
		}()

		for _, m := range befores {
			var err error
			if ctx, err = m(ctx); err != nil {
				ctx = xcontext.WithError(ctx, err)
				return
			}
		}

		var req Request
		if err := bind(c, &req); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind request: %v", err)
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request: %v", err))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}

		ctx = xcontext.WithResponse(ctx, resp)
		for _, m := range afters {
			if ctx, err = m(ctx); err != nil {
				ctx = xcontext.WithError(ctx, err)
				return
			}
		}
	}
}
