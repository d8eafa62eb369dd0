// Package api holds the JSON response helpers shared by the HTTP handlers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/weavelink/weavelink/models"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// OKResponse writes data as JSON with the given status.
func OKResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// ErrorResponse writes {"error": message} with the given status.
func ErrorResponse(w http.ResponseWriter, status int, message string) {
	OKResponse(w, status, ErrorBody{Error: message})
}

// RedirectResponse tells the client to navigate elsewhere, e.g. to the
// sign-in page when no session is present.
func RedirectResponse(w http.ResponseWriter, status int, message, location string) {
	OKResponse(w, status, ErrorBody{Error: message, Redirect: location})
}

// StatusFor maps the error taxonomy to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated), errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrProductNotFound), errors.Is(err, models.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrEmailTaken), errors.Is(err, models.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, models.ErrStorage):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrTransport):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err using StatusFor. Client errors expose their
// message; server-side failures are reported with fallback.
func RespondError(w http.ResponseWriter, err error, fallback string) {
	status := StatusFor(err)
	body := ErrorBody{Error: fallback}
	if status < http.StatusInternalServerError {
		body.Error = publicMessage(err)
	}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	OKResponse(w, status, body)
}

func publicMessage(err error) string {
	for _, known := range []error{
		models.ErrProductNotFound,
		models.ErrProfileNotFound,
		models.ErrForbidden,
		models.ErrUnauthenticated,
		models.ErrInvalidCredentials,
		models.ErrEmailTaken,
		models.ErrBusy,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}
