package home

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavelink/weavelink/app/auth"
	"github.com/weavelink/weavelink/models"
)

var (
	weaverSession = models.Session{UserID: "weaver-1", Name: "Meera", Role: models.RoleWeaver}
	buyerSession  = models.Session{UserID: "buyer-1", Name: "Arjun", Role: models.RoleBuyer}
)

func TestNavFor(t *testing.T) {
	tests := []struct {
		name     string
		sess     models.Session
		expected []Link
	}{
		{
			name: "Weaver",
			sess: weaverSession,
			expected: []Link{
				{Label: "Home", Path: "/"},
				{Label: "My Products", Path: "/listings"},
			},
		},
		{
			name: "Buyer",
			sess: buyerSession,
			expected: []Link{
				{Label: "Home", Path: "/"},
				{Label: "Marketplace", Path: "/catalog"},
			},
		},
		{
			name:     "Unknown role",
			sess:     models.Session{UserID: "x", Name: "X", Role: "admin"},
			expected: []Link{{Label: "Home", Path: "/"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := NavFor(tt.sess)
			assert.Equal(t, tt.expected, nav.Links)
			assert.Equal(t, tt.sess.Name, nav.Profile)
			assert.Equal(t, "/auth/signout", nav.SignOut.Path)
		})
	}
}

func TestHandleHome(t *testing.T) {
	testCases := []struct {
		name          string
		sess          models.Session
		checkResponse func(t *testing.T, body map[string]any)
	}{
		{
			name: "Visitor gets the landing page",
			checkResponse: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "WeaveLink", body["title"])
				action := body["action"].(map[string]any)
				assert.Equal(t, "/auth", action["path"])
				assert.Len(t, body["pitches"], 2)
			},
		},
		{
			name: "Weaver dashboard",
			sess: weaverSession,
			checkResponse: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Welcome back, Meera!", body["greeting"])
				assert.Equal(t, "Ready to showcase your beautiful handloom creations?", body["subtitle"])
				cards := body["cards"].([]any)
				require.Len(t, cards, 1)
				assert.Equal(t, "Weaver Dashboard", cards[0].(map[string]any)["title"])
			},
		},
		{
			name: "Buyer dashboard",
			sess: buyerSession,
			checkResponse: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Welcome back, Arjun!", body["greeting"])
				cards := body["cards"].([]any)
				require.Len(t, cards, 1)
				assert.Equal(t, "Buyer Dashboard", cards[0].(map[string]any)["title"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest("GET", "/", nil)
			if !tc.sess.IsZero() {
				req = req.WithContext(auth.ContextWithSession(req.Context(), tc.sess))
			}
			rec := httptest.NewRecorder()

			// Act
			NewHandler().HandleHome(rec, req)

			// Assert
			assert.Equal(t, http.StatusOK, rec.Code)
			var body map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			tc.checkResponse(t, body)
		})
	}
}

func TestHandleNav(t *testing.T) {
	req := httptest.NewRequest("GET", "/nav", nil)
	req = req.WithContext(auth.ContextWithSession(req.Context(), buyerSession))
	rec := httptest.NewRecorder()

	NewHandler().HandleNav(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var nav Nav
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&nav))
	assert.Equal(t, "Arjun", nav.Profile)
	assert.Equal(t, "Marketplace", nav.Links[1].Label)
}
