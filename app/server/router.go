// Package server assembles the HTTP routes.
package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/weavelink/weavelink/app/auth"
	"github.com/weavelink/weavelink/app/catalog"
	"github.com/weavelink/weavelink/app/categories"
	"github.com/weavelink/weavelink/app/home"
	"github.com/weavelink/weavelink/app/listings"
	"github.com/weavelink/weavelink/config"
	"github.com/weavelink/weavelink/logging"
	"github.com/weavelink/weavelink/models"
	"github.com/weavelink/weavelink/observability"
)

// Dependencies are the handlers and gate the router mounts.
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Gate       *auth.Gate
	Auth       *auth.Handler
	Home       *home.Handler
	Catalog    *catalog.CatalogHandler
	Listings   *listings.Handler
	Categories *categories.CategoryHandler
	// Ready reports whether backing services are reachable.
	Ready func(r *http.Request) error
}

// NewRouter returns the root handler with every route and the middleware
// stack applied.
func NewRouter(d Dependencies) http.Handler {
	logger := logging.OrNop(d.Logger)
	gate := d.Gate
	authed := gate.Authenticate
	weaver := func(h http.HandlerFunc) http.Handler {
		return authed(gate.Require(models.CapabilityManageListings)(h))
	}
	browser := func(h http.HandlerFunc) http.Handler {
		return authed(gate.Require(models.CapabilityBrowseMarketplace)(h))
	}

	mux := http.NewServeMux()

	mux.Handle("GET /{$}", gate.Optional(http.HandlerFunc(d.Home.HandleHome)))
	mux.Handle("GET /nav", authed(http.HandlerFunc(d.Home.HandleNav)))

	mux.HandleFunc("POST /auth/signup", d.Auth.HandleSignUp)
	mux.HandleFunc("POST /auth/signin", d.Auth.HandleSignIn)
	mux.Handle("POST /auth/signout", authed(http.HandlerFunc(d.Auth.HandleSignOut)))
	mux.Handle("GET /auth/me", authed(http.HandlerFunc(d.Auth.HandleMe)))

	mux.Handle("GET /catalog", browser(d.Catalog.HandleGet))
	mux.Handle("GET /catalog/{id}", browser(d.Catalog.HandleGetProduct))
	mux.HandleFunc("GET /categories", d.Categories.HandleGetAll)

	mux.Handle("GET /listings", weaver(d.Listings.HandleList))
	mux.Handle("POST /listings", weaver(d.Listings.HandleCreate))
	mux.Handle("PUT /listings/{id}", weaver(d.Listings.HandleUpdate))
	mux.Handle("DELETE /listings/{id}", weaver(d.Listings.HandleDelete))

	mux.HandleFunc("GET /healthz", healthz(d.Ready, logger))
	mux.Handle("GET /metrics", d.Metrics.Handler())

	middlewares := Stack(d.Config, logger)
	// Innermost so the matched route pattern is visible after ServeMux runs.
	middlewares = append(middlewares, d.Metrics.Middleware)
	return Chain(mux, middlewares...)
}

func healthz(ready func(r *http.Request) error, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if ready != nil {
			if err := ready(r); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
