package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/weavelink/weavelink/app/api"
	"github.com/weavelink/weavelink/config"
)

// Stack returns the middleware chain, outermost first.
func Stack(cfg *config.Config, logger *zap.Logger) []func(http.Handler) http.Handler {
	if cfg == nil {
		cfg = &config.Config{}
	}
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        cfg.IsProduction(),
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !cfg.IsProduction(),
	})

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	limit := cfg.RateLimitPerMinute
	if limit <= 0 {
		limit = 120
	}

	return []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		requestLogger(logger),
		middleware.Recoverer,
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					logger.Warn("secure headers blocked request", zap.Error(err))
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		httprate.Limit(limit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				api.ErrorResponse(w, http.StatusTooManyRequests, "too many requests")
			}),
		),
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
			}
			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("request", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn("request", fields...)
			default:
				logger.Info("request", fields...)
			}
		})
	}
}

// Chain wraps h so that the first middleware is outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
