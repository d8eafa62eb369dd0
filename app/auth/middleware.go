package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/weavelink/weavelink/app/api"
	"github.com/weavelink/weavelink/logging"
	"github.com/weavelink/weavelink/models"
)

const (
	// SignInPath is where unauthenticated requests are sent.
	SignInPath = "/auth"
	// HomePath is where requests lacking a capability are sent.
	HomePath = "/"
)

// Gate admits requests according to the caller's session and role.
type Gate struct {
	svc    *Service
	logger *zap.Logger
}

func NewGate(svc *Service, logger *zap.Logger) *Gate {
	return &Gate{svc: svc, logger: logging.OrNop(logger)}
}

// Authenticate requires a valid bearer token and stores the session in the
// request context.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, claims, err := g.svc.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			g.reject(w, r, err)
			return
		}
		ctx := ContextWithSession(r.Context(), profile.Session())
		ctx = contextWithClaims(ctx, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional stores the session when a valid token is present and otherwise
// serves the request anonymously.
func (g *Gate) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		profile, claims, err := g.svc.Authenticate(r.Context(), raw)
		if err != nil {
			if !errors.Is(err, models.ErrUnauthenticated) {
				g.logger.Warn("optional authentication failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}
		ctx := ContextWithSession(r.Context(), profile.Session())
		ctx = contextWithClaims(ctx, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require admits only sessions whose role holds capability. It must run
// after Authenticate.
func (g *Gate) Require(capability models.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if sess.IsZero() {
				api.RedirectResponse(w, http.StatusUnauthorized, models.ErrUnauthenticated.Error(), SignInPath)
				return
			}
			if !sess.Can(capability) {
				g.logger.Info("capability denied",
					zap.String("user_id", sess.UserID),
					zap.String("role", string(sess.Role)),
					zap.Stringer("capability", capability),
				)
				api.RedirectResponse(w, http.StatusForbidden, models.ErrForbidden.Error(), HomePath)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (g *Gate) reject(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, models.ErrUnauthenticated) {
		api.RedirectResponse(w, http.StatusUnauthorized, models.ErrUnauthenticated.Error(), SignInPath)
		return
	}
	g.logger.Error("authentication failed", zap.String("path", r.URL.Path), zap.Error(err))
	api.RespondError(w, err, "authentication unavailable")
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
