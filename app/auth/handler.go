package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/weavelink/weavelink/app/api"
	"github.com/weavelink/weavelink/logging"
)

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logging.OrNop(logger)}
}

func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var in SignUpInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.svc.SignUp(r.Context(), in)
	if err != nil {
		api.RespondError(w, err, "Failed to sign up")
		return
	}
	api.OKResponse(w, http.StatusCreated, result)
}

func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var in SignInInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.svc.SignIn(r.Context(), in)
	if err != nil {
		api.RespondError(w, err, "Failed to sign in")
		return
	}
	api.OKResponse(w, http.StatusOK, result)
}

// HandleSignOut revokes the caller's token. It runs behind Gate.Authenticate.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SignOut(r.Context(), claimsFromContext(r.Context())); err != nil {
		api.RespondError(w, err, "Failed to sign out")
		return
	}
	api.OKResponse(w, http.StatusOK, map[string]string{
		"message":  "Signed out",
		"redirect": SignInPath,
	})
}

// HandleMe returns the caller's profile.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	profile, err := h.svc.Profile(r.Context(), sess.UserID)
	if err != nil {
		api.RespondError(w, err, "Failed to load profile")
		return
	}
	api.OKResponse(w, http.StatusOK, profile)
}
